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

func TestModuleService_CreateModule(t *testing.T) {
	t.Parallel()

	t.Run("stores and retrieves a module", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewModuleService(db)
		ctx := context.Background()
		doc := createTestDocument(t, db, "doc")

		m1 := doc.URI.Module("m1")
		m := &ftml.Module{
			URI:       m1,
			Signature: ftml.German,
			Declarations: []ftml.Declaration{
				&ftml.Symbol{URI: m1.Symbol("plus"), Macroname: "plus", Type: &ftml.Symref{URI: m1.Symbol("nat")}},
				&ftml.Import{Module: doc.URI.Module("base")},
			},
		}

		require.NoError(t, svc.CreateModule(ctx, doc.URI, m))

		found, err := svc.FindModule(ctx, m1)
		require.NoError(t, err)
		if diff := cmp.Diff(m, found); diff != "" {
			t.Errorf("module mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("replaces a module with the same URI", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewModuleService(db)
		ctx := context.Background()
		doc := createTestDocument(t, db, "doc")
		uri := doc.URI.Module("m")

		require.NoError(t, svc.CreateModule(ctx, doc.URI, &ftml.Module{URI: uri}))
		require.NoError(t, svc.CreateModule(ctx, doc.URI, &ftml.Module{URI: uri, Signature: ftml.French}))

		found, err := svc.FindModule(ctx, uri)
		require.NoError(t, err)
		assert.Equal(t, ftml.French, found.Signature)
	})

	t.Run("returns EINVALID without a name", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewModuleService(db)

		err := svc.CreateModule(context.Background(), docURI("doc"), &ftml.Module{})

		assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewModuleService(db)

		err := svc.CreateModule(context.Background(), docURI("missing"), &ftml.Module{URI: docURI("missing").Module("m")})

		assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
	})
}

func TestModuleService_FindModules(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewModuleService(db)
	ctx := context.Background()
	a := createTestDocument(t, db, "a")
	b := createTestDocument(t, db, "b")
	require.NoError(t, svc.CreateModule(ctx, a.URI, &ftml.Module{URI: a.URI.Module("x")}))
	require.NoError(t, svc.CreateModule(ctx, a.URI, &ftml.Module{URI: a.URI.Module("y")}))
	require.NoError(t, svc.CreateModule(ctx, b.URI, &ftml.Module{URI: b.URI.Module("z")}))

	names := func(ms []*ftml.Module) []ftml.Name {
		var out []ftml.Name
		for _, m := range ms {
			out = append(out, m.URI.Name)
		}
		return out
	}

	t.Run("by document", func(t *testing.T) {
		t.Parallel()

		ms, err := svc.FindModules(ctx, ftml.ModuleFilter{Document: &a.URI})
		require.NoError(t, err)
		assert.Equal(t, []ftml.Name{"x", "y"}, names(ms))
	})

	t.Run("by archive with limit", func(t *testing.T) {
		t.Parallel()

		id := "test/arch"
		ms, err := svc.FindModules(ctx, ftml.ModuleFilter{Archive: &id, Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []ftml.Name{"y", "z"}, names(ms))
	})

	t.Run("unknown archive", func(t *testing.T) {
		t.Parallel()

		id := "nope"
		ms, err := svc.FindModules(ctx, ftml.ModuleFilter{Archive: &id})
		require.NoError(t, err)
		assert.Empty(t, ms)
	})
}

func TestModuleService_DeleteModulesByDocument(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewModuleService(db)
	ctx := context.Background()
	a := createTestDocument(t, db, "a")
	b := createTestDocument(t, db, "b")
	require.NoError(t, svc.CreateModule(ctx, a.URI, &ftml.Module{URI: a.URI.Module("x")}))
	require.NoError(t, svc.CreateModule(ctx, b.URI, &ftml.Module{URI: b.URI.Module("z")}))

	require.NoError(t, svc.DeleteModulesByDocument(ctx, a.URI))

	_, err := svc.FindModule(ctx, a.URI.Module("x"))
	assert.Equal(t, ftml.ENOTFOUND, ftml.ErrorCode(err))
	_, err = svc.FindModule(ctx, b.URI.Module("z"))
	assert.NoError(t, err)
}
