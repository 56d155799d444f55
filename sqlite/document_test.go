package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/sqlite"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_CreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("creates document with generated ID and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		doc := createTestDocument(t, db, "doc")

		assert.NotEmpty(t, doc.ID, "ID should be generated")
		assert.Equal(t, "test/arch", doc.Archive)
		assert.False(t, doc.ExtractedAt.IsZero(), "ExtractedAt should be set")
	})

	t.Run("returns error for invalid document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		err := svc.CreateDocument(context.Background(), &ftml.StoredDocument{})

		require.Error(t, err)
		assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	})

	t.Run("replaces a document with the same URI and keeps its ID", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()
		first := createTestDocument(t, db, "doc")

		second := &ftml.StoredDocument{URI: docURI("doc"), Title: "New", Hash: "h2"}
		require.NoError(t, svc.CreateDocument(ctx, second))

		assert.Equal(t, first.ID, second.ID)
		found, err := svc.FindDocument(ctx, docURI("doc"))
		require.NoError(t, err)
		assert.Equal(t, "New", found.Title)
		assert.Equal(t, "h2", found.Hash)
	})
}

func TestDocumentService_FindDocument(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the stored result", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		uri := docURI("doc")
		narrative := &ftml.Document{
			URI:   uri,
			Title: "Doc",
			Elements: []ftml.DocumentElement{
				&ftml.Section{URI: uri.Element("s"), Level: ftml.LevelSection, Range: ftml.DocumentRange{Start: 6, End: 20}},
			},
		}
		doc := &ftml.StoredDocument{
			URI:             uri,
			Title:           "Doc",
			HTML:            "<body><p>x</p></body>",
			Hash:            "abc",
			Body:            ftml.DocumentRange{Start: 0, End: 21},
			BodyInnerOffset: 6,
			CSS:             []ftml.CSS{{Link: "/a.css"}, {Inline: "p{}"}},
			Resources:       []byte{1, 2, 3},
			Document:        narrative,
		}
		require.NoError(t, svc.CreateDocument(ctx, doc))

		found, err := svc.FindDocument(ctx, uri)

		require.NoError(t, err)
		assert.Equal(t, uri, found.URI)
		assert.Equal(t, doc.HTML, found.HTML)
		assert.Equal(t, doc.Body, found.Body)
		assert.Equal(t, 6, found.BodyInnerOffset)
		assert.Equal(t, doc.CSS, found.CSS)
		assert.Equal(t, []byte{1, 2, 3}, found.Resources)
		if diff := cmp.Diff(narrative, found.Document); diff != "" {
			t.Errorf("narrative mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns ENOTFOUND for missing document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		_, err := svc.FindDocument(context.Background(), docURI("missing"))

		assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
	})
}

func TestDocumentService_FindDocuments(t *testing.T) {
	t.Parallel()

	t.Run("filters by archive and hash", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()
		createTestDocument(t, db, "a")
		createTestDocument(t, db, "b")

		other := &ftml.StoredDocument{
			URI:  ftml.DocumentURI{Archive: ftml.ArchiveURI{Base: "http://example.org", ID: "other"}, Name: "c", Language: ftml.English},
			Hash: "h-a",
		}
		require.NoError(t, svc.CreateDocument(ctx, other))

		archiveID := "test/arch"
		docs, err := svc.FindDocuments(ctx, ftml.DocumentFilter{Archive: &archiveID})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, ftml.Name("a"), docs[0].URI.Name)
		assert.Equal(t, ftml.Name("b"), docs[1].URI.Name)
		assert.Empty(t, docs[0].HTML, "listing omits HTML")
		assert.Nil(t, docs[0].Document, "listing omits the narrative tree")

		hash := "h-a"
		docs, err = svc.FindDocuments(ctx, ftml.DocumentFilter{Hash: &hash})
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		for _, name := range []string{"a", "b", "c"} {
			createTestDocument(t, db, name)
		}

		tests := []struct {
			name   string
			filter ftml.DocumentFilter
			want   []ftml.Name
		}{
			{"limit", ftml.DocumentFilter{Limit: 2}, []ftml.Name{"a", "b"}},
			{"limit and offset", ftml.DocumentFilter{Limit: 1, Offset: 1}, []ftml.Name{"b"}},
			{"offset only", ftml.DocumentFilter{Offset: 2}, []ftml.Name{"c"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				docs, err := svc.FindDocuments(context.Background(), tt.filter)
				require.NoError(t, err)
				var got []ftml.Name
				for _, d := range docs {
					got = append(got, d.URI.Name)
				}
				assert.Equal(t, tt.want, got)
			})
		}
	})
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	t.Parallel()

	t.Run("removes document with its modules and triples", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		doc := createTestDocument(t, db, "doc")
		modules := sqlite.NewModuleService(db)
		triples := sqlite.NewTripleService(db)
		require.NoError(t, modules.CreateModule(ctx, doc.URI, &ftml.Module{URI: doc.URI.Module("m")}))
		require.NoError(t, triples.CreateTriples(ctx, doc.URI, []ftml.Triple{
			ftml.NewTriple(doc.URI.String(), ftml.RDFType, ftml.ULODocument),
		}))

		err := sqlite.NewDocumentService(db).DeleteDocument(ctx, doc.URI)

		require.NoError(t, err)
		_, err = modules.FindModule(ctx, doc.URI.Module("m"))
		assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
		found, err := triples.FindTriples(ctx, ftml.TripleFilter{Document: &doc.URI})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("returns ENOTFOUND for missing document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		err := sqlite.NewDocumentService(db).DeleteDocument(context.Background(), docURI("missing"))

		assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
	})
}
