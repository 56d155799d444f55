package ftml_test

import (
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var archive = ftml.ArchiveURI{Base: "http://mathhub.info", ID: "smglom/algebra"}

func TestParseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantErr bool
	}{
		{"monoid", false},
		{"mod/struct", false},
		{"", true},
		{"a//b", true},
		{"/a", true},
		{"a?b", true},
		{"a&b", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			n, err := ftml.ParseName(tt.in)

			if tt.wantErr {
				assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, n.String())
		})
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	n := ftml.Name("a/b/c")

	assert.Equal(t, []string{"a", "b", "c"}, n.Steps())
	assert.Equal(t, "a", n.First())
	assert.Equal(t, "c", n.Last())
	assert.Equal(t, ftml.Name("a/b"), n.Parent())
	assert.False(t, n.IsSimple())
	assert.True(t, ftml.Name("c").IsSimple())
	assert.Equal(t, ftml.Name(""), ftml.Name("c").Parent())
	assert.Equal(t, ftml.Name("a/b/c/d"), n.Join("d"))
	assert.Equal(t, ftml.Name("d"), ftml.Name("").Join("d"))
	assert.True(t, n.HasSuffix("b/c"))
	assert.False(t, n.HasSuffix("a/c"))
	assert.False(t, ftml.Name("c").HasSuffix("b/c"))
}

func TestLanguageFromFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		wantName string
		wantLang ftml.Language
	}{
		{"intro.de", "intro", ftml.German},
		{"intro.EN", "intro", ftml.English},
		{"intro", "intro", ftml.English},
		{"intro.xx", "intro.xx", ftml.English},
		{"a.b.fr", "a.b", ftml.French},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			name, lang := ftml.LanguageFromFilename(tt.in)

			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantLang, lang)
		})
	}
}

func TestURI_String(t *testing.T) {
	t.Parallel()

	doc := ftml.DocumentURI{Archive: archive, Path: "mod", Name: "monoid", Language: ftml.German}
	mod := doc.Module("Monoid")

	assert.Equal(t, "http://mathhub.info?a=smglom/algebra", archive.String())
	assert.Equal(t, "http://mathhub.info?a=smglom/algebra&p=mod&d=monoid&l=de", doc.String())
	assert.Equal(t, "http://mathhub.info?a=smglom/algebra&p=mod&d=monoid&l=de&e=sec/def", doc.Element("sec").Element("def").String())
	assert.Equal(t, "http://mathhub.info?a=smglom/algebra&p=mod&m=Monoid&l=de", mod.String())
	assert.Equal(t, "http://mathhub.info?a=smglom/algebra&p=mod&m=Monoid&l=de&s=op", mod.Symbol("op").String())
	assert.Equal(t, "http://mathhub.info?a=smglom/algebra&m=M&l=en", ftml.ModuleURI{Archive: archive, Name: "M"}.String())
}

func TestModuleURI_AsSymbol(t *testing.T) {
	t.Parallel()

	top := ftml.ModuleURI{Archive: archive, Name: "Monoid", Language: ftml.English}
	nested := top.Nested("structure")

	_, ok := top.AsSymbol()
	assert.False(t, ok)

	sym, ok := nested.AsSymbol()
	require.True(t, ok)
	assert.Equal(t, top.Symbol("structure"), sym)
	assert.Equal(t, nested, sym.AsModule())
}

func TestParseURIs(t *testing.T) {
	t.Parallel()

	doc := ftml.DocumentURI{Archive: archive, Path: "mod/sub", Name: "monoid", Language: ftml.French}
	mod := doc.Module("Monoid")

	t.Run("round-trips every URI kind", func(t *testing.T) {
		t.Parallel()

		a, err := ftml.ParseArchiveURI(archive.String())
		require.NoError(t, err)
		assert.Equal(t, archive, a)

		d, err := ftml.ParseDocumentURI(doc.String())
		require.NoError(t, err)
		assert.Equal(t, doc, d)

		m, err := ftml.ParseModuleURI(mod.String())
		require.NoError(t, err)
		assert.Equal(t, mod, m)

		s, err := ftml.ParseSymbolURI(mod.Symbol("op").String())
		require.NoError(t, err)
		assert.Equal(t, mod.Symbol("op"), s)

		e, err := ftml.ParseDocumentElementURI(doc.Element("s/p").String())
		require.NoError(t, err)
		assert.Equal(t, doc.Element("s/p"), e)
	})

	t.Run("defaults the language to English", func(t *testing.T) {
		t.Parallel()

		d, err := ftml.ParseDocumentURI("http://mathhub.info?a=x&d=doc")

		require.NoError(t, err)
		assert.Equal(t, ftml.English, d.Language)
	})

	t.Run("rejects malformed URIs", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{
			"",
			"http://mathhub.info",
			"http://mathhub.info?d=doc",
			"http://mathhub.info?a=x&d=doc&d=other",
			"http://mathhub.info?a=x&m=M",
			"http://mathhub.info?a=x&d=doc&l=xx",
			"http://mathhub.info?a=x&d=",
		} {
			_, err := ftml.ParseDocumentURI(s)
			assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err), s)
		}
	})
}
