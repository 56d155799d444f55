package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares write performance between WAL and rollback journal modes.
// This simulates an archive build: storing a document, its module and its triples.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkDocumentInserts(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkDocumentInserts(b, true)
	})
}

func benchmarkDocumentInserts(b *testing.B, useWAL bool) {
	b.Helper()

	dbPath := filepath.Join(b.TempDir(), "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	if !useWAL {
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = DELETE")
		require.NoError(b, err)
	}

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	docs := sqlite.NewDocumentService(db)
	modules := sqlite.NewModuleService(db)
	triples := sqlite.NewTripleService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		uri := docURI(fmt.Sprintf("doc%d", i))
		doc := &ftml.StoredDocument{
			URI:  uri,
			HTML: fmt.Sprintf("<p>Document %d with some additional text to make it more realistic.</p>", i),
			Hash: fmt.Sprintf("%x", i),
		}
		if err := docs.CreateDocument(ctx, doc); err != nil {
			b.Fatal(err)
		}
		m := uri.Module(ftml.Name(fmt.Sprintf("m%d", i)))
		if err := modules.CreateModule(ctx, uri, &ftml.Module{URI: m}); err != nil {
			b.Fatal(err)
		}
		if err := triples.CreateTriples(ctx, uri, []ftml.Triple{
			ftml.NewTriple(uri.String(), ftml.RDFType, ftml.ULODocument),
			ftml.NewTriple(uri.String(), ftml.ULOContains, m.String()),
			ftml.NewTriple(m.String(), ftml.RDFType, ftml.ULOTheory),
		}); err != nil {
			b.Fatal(err)
		}
	}
}
