package expr_test

import (
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry() *ftml.SearchEntry {
	module := ftml.ModuleURI{
		Archive:  ftml.ArchiveURI{Base: "http://example.org", ID: "test"},
		Name:     "Monoid",
		Language: ftml.English,
	}
	return &ftml.SearchEntry{
		URI:   "http://example.org?a=test&d=monoid&l=en&e=def1",
		Kind:  "definition",
		Fors:  []string{module.Symbol("monoid").String()},
		Title: "Monoids",
		Body:  "A **monoid** is a semigroup with a unit.",
	}
}

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"empty expression matches", "", true},
		{"kind equality", `kind == "definition"`, true},
		{"kind mismatch", `kind == "example"`, false},
		{"body substring", `body contains "semigroup"`, true},
		{"title and kind", `title startsWith "Mon" && kind != "section"`, true},
		{"fors length", `len(fors) == 1`, true},
		{"mentions symbol name", `mentions(fors, "monoid")`, true},
		{"mentions unknown symbol", `mentions(fors, "group")`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := expr.NewFilter(tt.src)
			require.NoError(t, err)

			got, err := f.Match(entry())

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFilter(t *testing.T) {
	t.Parallel()

	t.Run("rejects syntax errors", func(t *testing.T) {
		t.Parallel()

		_, err := expr.NewFilter(`kind ==`)

		assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	})

	t.Run("rejects non-boolean expressions", func(t *testing.T) {
		t.Parallel()

		_, err := expr.NewFilter(`title`)

		assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		_, err := expr.NewFilter(`author == "x"`)

		assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	})
}
