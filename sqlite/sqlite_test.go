package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/sqlite"
	"github.com/stretchr/testify/require"
)

var archive = ftml.ArchiveURI{Base: "http://example.org", ID: "test/arch"}

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func docURI(name string) ftml.DocumentURI {
	return ftml.DocumentURI{Archive: archive, Path: "mod", Name: ftml.Name(name), Language: ftml.English}
}

// createTestDocument stores a minimal document with the given name.
func createTestDocument(t *testing.T, db *sqlite.DB, name string) *ftml.StoredDocument {
	t.Helper()
	doc := &ftml.StoredDocument{
		URI:  docURI(name),
		HTML: "<p>" + name + "</p>",
		Hash: "h-" + name,
		Body: ftml.DocumentRange{Start: 0, End: len(name) + 7},
	}
	require.NoError(t, sqlite.NewDocumentService(db).CreateDocument(context.Background(), doc))
	return doc
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("creates schema on first open", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		for _, table := range []string{"documents", "modules", "triples"} {
			var n int
			err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
			require.NoError(t, err, table)
		}
	})

	t.Run("returns error for invalid path", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB("/nonexistent/path/db.sqlite")
		err := db.Open()
		require.Error(t, err)
	})

	t.Run("enables WAL mode for file-based databases", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		err := db.Open()
		require.NoError(t, err)
		defer db.Close()

		ctx := context.Background()
		var journalMode string
		err = db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
		require.NoError(t, err)
		require.Equal(t, "wal", journalMode)
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dbPath := t.TempDir() + "/test.db"
		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		createTestDocument(t, db, "doc")
		require.NoError(t, db.Close())

		db = sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		_, err := sqlite.NewDocumentService(db).FindDocument(context.Background(), docURI("doc"))
		require.NoError(t, err)
	})
}
