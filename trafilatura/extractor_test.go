package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractMetadata(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Monoids - Algebra Notes</title>
<meta property="og:title" content="Monoids">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Monoids</h1>
<p>A monoid is a set equipped with an associative binary operation and an identity element.
Every group is a monoid, and the natural numbers under addition form a monoid that is not a group.</p>
</main>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		md, err := ext.ExtractMetadata(html)

		require.NoError(t, err)
		assert.Contains(t, md.Title, "Monoids")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.ExtractMetadata("")

		require.Error(t, err)
		assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	})
}
