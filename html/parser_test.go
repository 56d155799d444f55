package html_test

import (
	"context"
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/build"
	"github.com/fwojciec/ftml/extract"
	"github.com/fwojciec/ftml/html"
	"github.com/fwojciec/ftml/mock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testURI = ftml.DocumentURI{
	Archive:  ftml.ArchiveURI{Base: "http://example.org", ID: "test"},
	Name:     "doc",
	Language: ftml.English,
}

func TestParser_Extract(t *testing.T) {
	t.Parallel()

	t.Run("reconstructs plain documents unchanged", func(t *testing.T) {
		t.Parallel()

		src := `<!DOCTYPE html><html><head><title>T</title></head><body><p>Hello &amp; <b>world</b></p></body></html>`
		p := html.NewParser(extract.Options{})

		res, err := p.Extract(context.Background(), testURI, src)

		require.NoError(t, err)
		assert.Equal(t, src, res.HTML)
		assert.Equal(t, "<p>Hello &amp; <b>world</b></p>", res.BodyHTML())
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("keeps ranges exact around invalid utf-8", func(t *testing.T) {
		t.Parallel()

		src := "<html><body><p title=\"\xff\">caf\xe9</p></body></html>"
		p := html.NewParser(extract.Options{})

		res, err := p.Extract(context.Background(), testURI, src)

		require.NoError(t, err)
		assert.Equal(t, src, res.HTML)
		assert.Equal(t, len(res.HTML), res.Body.End+len("</html>"))
		assert.Equal(t, "<p title=\"\xff\">caf\xe9</p>", res.BodyHTML())
	})

	t.Run("drops comments", func(t *testing.T) {
		t.Parallel()

		p := html.NewParser(extract.Options{})

		res, err := p.Extract(context.Background(), testURI, "<p>a<!-- note -->b</p>")

		require.NoError(t, err)
		assert.Equal(t, "<p>ab</p>", res.HTML)
	})

	t.Run("re-extracting the output yields the same html", func(t *testing.T) {
		t.Parallel()

		src := "<html><body>\n<p>a<br/>b<img src=\"data:x\">&nbsp;c</p>\n<script>if (a < b) {}</script></body></html>"
		p := html.NewParser(extract.Options{})

		first, err := p.Extract(context.Background(), testURI, src)
		require.NoError(t, err)
		second, err := p.Extract(context.Background(), testURI, first.HTML)
		require.NoError(t, err)

		if diff := cmp.Diff(first.HTML, second.HTML); diff != "" {
			t.Errorf("html mismatch (-first +second):\n%s", diff)
		}
		assert.Contains(t, first.HTML, "<script>if (a < b) {}</script>")
	})

	t.Run("sets the content hash", func(t *testing.T) {
		t.Parallel()

		p := html.NewParser(extract.Options{})

		a, err := p.Extract(context.Background(), testURI, "<p>a</p>")
		require.NoError(t, err)
		b, err := p.Extract(context.Background(), testURI, "<p>b</p>")
		require.NoError(t, err)

		assert.Equal(t, build.ComputeHash("<p>a</p>"), a.Hash)
		assert.NotEqual(t, a.Hash, b.Hash)
	})

	t.Run("reports stray end tags as warnings", func(t *testing.T) {
		t.Parallel()

		p := html.NewParser(extract.Options{})

		res, err := p.Extract(context.Background(), testURI, "<p>a</p></div>")

		require.NoError(t, err)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, ftml.ParseError, res.Diagnostics[0].Kind)
		assert.Equal(t, ftml.SeverityWarning, res.Diagnostics[0].Severity)
		assert.Empty(t, res.Errors())
		assert.Equal(t, "<p>a</p>", res.HTML)
	})

	t.Run("closes elements left open by a mismatched end tag", func(t *testing.T) {
		t.Parallel()

		p := html.NewParser(extract.Options{})

		res, err := p.Extract(context.Background(), testURI, "<div><span>a</div>b")

		require.NoError(t, err)
		assert.Equal(t, "<div><span>a</span></div>b", res.HTML)
	})

	t.Run("uses the doctitle annotation as title", func(t *testing.T) {
		t.Parallel()

		p := html.NewParser(extract.Options{})
		p.Metadata = &mock.MetadataExtractor{
			ExtractMetadataFn: func(string) (*ftml.Metadata, error) {
				t.Fatal("metadata extractor must not be called")
				return nil, nil
			},
		}

		res, err := p.Extract(context.Background(), testURI, `<h1 data-ftml-doctitle="">Groups</h1>`)

		require.NoError(t, err)
		assert.Equal(t, "Groups", res.Document.Title)
	})

	t.Run("falls back to the metadata extractor for titles", func(t *testing.T) {
		t.Parallel()

		var got string
		p := html.NewParser(extract.Options{})
		p.Metadata = &mock.MetadataExtractor{
			ExtractMetadataFn: func(src string) (*ftml.Metadata, error) {
				got = src
				return &ftml.Metadata{Title: "From Meta"}, nil
			},
		}

		res, err := p.Extract(context.Background(), testURI, "<p>x</p>")

		require.NoError(t, err)
		assert.Equal(t, "From Meta", res.Document.Title)
		assert.Equal(t, "<p>x</p>", got)
	})

	t.Run("returns context errors", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := html.NewParser(extract.Options{})

		_, err := p.Extract(ctx, testURI, "<p>x</p>")

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects invalid options", func(t *testing.T) {
		t.Parallel()

		p := html.NewParser(extract.Options{Prefix: "data ftml"})

		_, err := p.Extract(context.Background(), testURI, "<p>x</p>")

		require.Error(t, err)
		assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	})
}
