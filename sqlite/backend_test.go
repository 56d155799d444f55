package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_ArchiveOf(t *testing.T) {
	t.Parallel()

	inner := ftml.ArchiveURI{Base: "http://example.org", ID: "test/arch/inner"}
	root := filepath.Join("/", "archives", "test")
	b := sqlite.NewBackend(setupTestDB(t), map[string]ftml.ArchiveURI{
		root:                          archive,
		filepath.Join(root, "nested"): inner,
	})

	tests := []struct {
		name    string
		path    string
		archive ftml.ArchiveURI
		rel     string
	}{
		{"file in archive", filepath.Join(root, "source", "a.png"), archive, "source/a.png"},
		{"innermost root wins", filepath.Join(root, "nested", "b.png"), inner, "b.png"},
		{"unclean path", root + "/source/../img/c.png", archive, "img/c.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, rel, err := b.ArchiveOf(context.Background(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.archive, a)
			assert.Equal(t, tt.rel, rel)
		})
	}

	t.Run("path outside every archive", func(t *testing.T) {
		t.Parallel()

		_, _, err := b.ArchiveOf(context.Background(), filepath.Join("/", "archives", "other", "a.png"))
		assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
	})

	t.Run("sibling with a common prefix", func(t *testing.T) {
		t.Parallel()

		_, _, err := b.ArchiveOf(context.Background(), root+"2/a.png")
		assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
	})
}

func TestBackend_FindModule(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	doc := createTestDocument(t, db, "doc")
	require.NoError(t, sqlite.NewModuleService(db).CreateModule(ctx, doc.URI, &ftml.Module{URI: doc.URI.Module("m")}))
	b := sqlite.NewBackend(db, nil)

	m, err := b.FindModule(ctx, doc.URI.Module("m"))
	require.NoError(t, err)
	assert.Equal(t, doc.URI.Module("m"), m.URI)

	_, err = b.FindModule(ctx, doc.URI.Module("other"))
	assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
}
