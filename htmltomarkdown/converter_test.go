package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/ftml/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts a paragraph with ftml annotations", func(t *testing.T) {
		t.Parallel()

		src := `<div data-ftml-paragraph="" data-ftml-fors="x"><p>A <b data-ftml-definiendum="x">group</b> is a monoid.</p></div>`

		md, err := htmltomarkdown.NewConverter().Convert(src)

		require.NoError(t, err)
		assert.Equal(t, "A **group** is a monoid.", md)
	})

	t.Run("renders formulas as inline math", func(t *testing.T) {
		t.Parallel()

		src := `<p>Let <math><mrow data-ftml-term="OMA"><mi>x</mi><mo>=</mo><mn>1</mn></mrow></math> hold.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(src)

		require.NoError(t, err)
		assert.Equal(t, "Let $x=1$ hold.", md)
	})

	t.Run("renders several formulas", func(t *testing.T) {
		t.Parallel()

		src := `<ul><li><math><mi>a</mi></math></li><li><math><mi>b</mi></math></li></ul>`

		md, err := htmltomarkdown.NewConverter().Convert(src)

		require.NoError(t, err)
		assert.Contains(t, md, "- $a$")
		assert.Contains(t, md, "- $b$")
	})

	t.Run("converts headings and links", func(t *testing.T) {
		t.Parallel()

		src := `<h2>Monoids</h2><p>See <a href="/doc?a=test&amp;d=groups">groups</a>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(src)

		require.NoError(t, err)
		assert.Contains(t, md, "## Monoids")
		assert.Contains(t, md, "[groups](/doc?a=test&d=groups)")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		src := `<table>
<thead><tr><th>Symbol</th><th>Arity</th></tr></thead>
<tbody><tr><td>plus</td><td>2</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(src)

		require.NoError(t, err)
		assert.Contains(t, md, "Symbol")
		assert.Contains(t, md, "plus")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("converts blank input to nothing", func(t *testing.T) {
		t.Parallel()

		for _, src := range []string{"", "  \n\t"} {
			md, err := htmltomarkdown.NewConverter().Convert(src)

			require.NoError(t, err)
			assert.Empty(t, md)
		}
	})
}
