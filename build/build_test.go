package build_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/build"
	"github.com/fwojciec/ftml/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var archive = ftml.ArchiveURI{Base: "http://example.org", ID: "test"}

func source(name string) ftml.Source {
	return ftml.Source{
		URI:  ftml.DocumentURI{Archive: archive, Name: ftml.Name(name), Language: ftml.English},
		Path: name + ".en.html",
	}
}

// recorder collects the storage calls of a build.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// newBuilder returns a Builder whose sources are "<p>name</p>" and whose
// extractor declares one module per document.
func newBuilder(rec *recorder) *build.Builder {
	return &build.Builder{
		Sources: &mock.SourceReader{
			ReadSourceFn: func(_ context.Context, src ftml.Source) (string, error) {
				return "<p>" + string(src.URI.Name) + "</p>", nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(_ context.Context, uri ftml.DocumentURI, html string) (*ftml.Result, error) {
				m := uri.Module("m")
				return &ftml.Result{
					Document: ftml.Document{URI: uri},
					HTML:     html,
					Hash:     build.ComputeHash(html),
					Modules:  []*ftml.Module{{URI: m}},
					Triples:  []ftml.Triple{ftml.NewTriple(uri.String(), ftml.ULOContains, m.String())},
				}, nil
			},
		},
		Documents: &mock.DocumentService{
			FindDocumentFn: func(context.Context, ftml.DocumentURI) (*ftml.StoredDocument, error) {
				return nil, ftml.Errorf(ftml.ENOTFOUND, "document not found")
			},
			CreateDocumentFn: func(_ context.Context, doc *ftml.StoredDocument) error {
				rec.add("document %s %s", doc.URI.Name, doc.Hash)
				return nil
			},
		},
		Modules: &mock.ModuleService{
			DeleteModulesByDocumentFn: func(_ context.Context, doc ftml.DocumentURI) error {
				rec.add("delete modules %s", doc.Name)
				return nil
			},
			CreateModuleFn: func(_ context.Context, doc ftml.DocumentURI, m *ftml.Module) error {
				rec.add("module %s %s", doc.Name, m.URI.Name)
				return nil
			},
		},
		Triples: &mock.TripleService{
			DeleteTriplesByDocumentFn: func(_ context.Context, doc ftml.DocumentURI) error {
				rec.add("delete triples %s", doc.Name)
				return nil
			},
			CreateTriplesFn: func(_ context.Context, doc ftml.DocumentURI, triples []ftml.Triple) error {
				rec.add("triples %s %d", doc.Name, len(triples))
				return nil
			},
		},
		Concurrency: 2,
	}
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	t.Run("returns zero result for no sources", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})

		result, err := b.Build(context.Background(), nil, nil)

		require.NoError(t, err)
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, 0, result.Built)
		assert.Equal(t, 0, result.Failed)
	})

	t.Run("stores everything extracted from a document", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		b := newBuilder(rec)
		var written []ftml.DocumentURI
		b.Writer = &mock.ResultWriter{
			WriteResultFn: func(_ context.Context, res *ftml.Result) error {
				written = append(written, res.Document.URI)
				return nil
			},
		}

		result, err := b.Build(context.Background(), []ftml.Source{source("a")}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Built)
		assert.Equal(t, len("<p>a</p>"), result.Bytes)
		assert.Equal(t, []string{
			"delete modules a",
			"delete triples a",
			"document a " + build.ComputeHash("<p>a</p>"),
			"module a m",
			"triples a 1",
		}, rec.calls)
		assert.Equal(t, []ftml.DocumentURI{source("a").URI}, written)
	})

	t.Run("skips duplicate document URIs", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})
		dup := source("a")
		dup.Path = "other/a.en.html"

		result, err := b.Build(context.Background(), []ftml.Source{source("a"), source("b"), dup}, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Built)
		assert.Equal(t, 1, result.Duplicates)
	})

	t.Run("skips documents whose source is unchanged", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		b := newBuilder(rec)
		b.Documents.(*mock.DocumentService).FindDocumentFn = func(_ context.Context, uri ftml.DocumentURI) (*ftml.StoredDocument, error) {
			return &ftml.StoredDocument{URI: uri, Hash: build.ComputeHash("<p>a</p>")}, nil
		}
		var events []build.ProgressEvent
		var mu sync.Mutex

		result, err := b.Build(context.Background(), []ftml.Source{source("a"), source("b")}, func(e build.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 1, result.Built)
		assert.NotContains(t, rec.calls, "module a m")
		assert.Contains(t, rec.calls, "module b m")

		var skipped []string
		for _, e := range events {
			if e.Type == build.ProgressSkipped {
				skipped = append(skipped, e.URI)
			}
		}
		assert.Equal(t, []string{source("a").URI.String()}, skipped)
	})

	t.Run("force rebuilds unchanged documents", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})
		b.Force = true
		b.Documents.(*mock.DocumentService).FindDocumentFn = func(context.Context, ftml.DocumentURI) (*ftml.StoredDocument, error) {
			t.Error("FindDocument should not be called")
			return nil, nil
		}

		result, err := b.Build(context.Background(), []ftml.Source{source("a")}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Built)
	})

	t.Run("reports failed documents and continues", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})
		readErr := errors.New("permission denied")
		b.Sources = &mock.SourceReader{
			ReadSourceFn: func(_ context.Context, src ftml.Source) (string, error) {
				if src.URI.Name == "bad" {
					return "", readErr
				}
				return "<p>ok</p>", nil
			},
		}
		var failed []build.ProgressEvent
		var mu sync.Mutex

		result, err := b.Build(context.Background(), []ftml.Source{source("bad"), source("good")}, func(e build.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			if e.Type == build.ProgressFailed {
				failed = append(failed, e)
			}
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Built)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, failed, 1)
		assert.ErrorIs(t, failed[0].Error, readErr)
		assert.Equal(t, source("bad").URI.String(), failed[0].URI)
	})

	t.Run("storage errors fail the document", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})
		b.Triples.(*mock.TripleService).CreateTriplesFn = func(context.Context, ftml.DocumentURI, []ftml.Triple) error {
			return errors.New("disk full")
		}

		result, err := b.Build(context.Background(), []ftml.Source{source("a")}, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Built)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("counts diagnostics", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})
		b.Extractor = &mock.Extractor{
			ExtractFn: func(_ context.Context, uri ftml.DocumentURI, html string) (*ftml.Result, error) {
				return &ftml.Result{
					Document:    ftml.Document{URI: uri},
					HTML:        html,
					Diagnostics: []ftml.Diagnostic{ftml.NewDiagnostic(ftml.NotInContent, "symdecl", "")},
				}, nil
			},
		}

		result, err := b.Build(context.Background(), []ftml.Source{source("a"), source("b")}, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Diagnostics)
	})

	t.Run("reports progress from start to finish", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})
		var events []build.ProgressEvent
		var mu sync.Mutex

		_, err := b.Build(context.Background(), []ftml.Source{source("a"), source("b"), source("c")}, func(e build.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 5)
		assert.Equal(t, build.ProgressStarted, events[0].Type)
		assert.Equal(t, 3, events[0].Total)
		for i, e := range events[1:4] {
			assert.Equal(t, build.ProgressCompleted, e.Type)
			assert.Equal(t, i+1, e.Completed)
		}
		assert.Equal(t, build.ProgressFinished, events[4].Type)
		assert.Equal(t, 3, events[4].Completed)
	})

	t.Run("limits documents in flight", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})
		b.Concurrency = 2
		var inFlight, peak atomic.Int64
		b.Extractor = &mock.Extractor{
			ExtractFn: func(_ context.Context, uri ftml.DocumentURI, html string) (*ftml.Result, error) {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				return &ftml.Result{Document: ftml.Document{URI: uri}, HTML: html}, nil
			},
		}
		var sources []ftml.Source
		for i := range 8 {
			sources = append(sources, source(fmt.Sprintf("d%d", i)))
		}

		result, err := b.Build(context.Background(), sources, nil)

		require.NoError(t, err)
		assert.Equal(t, 8, result.Built)
		assert.LessOrEqual(t, peak.Load(), int64(2))
	})

	t.Run("stops between documents when canceled", func(t *testing.T) {
		t.Parallel()

		b := newBuilder(&recorder{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := b.Build(ctx, []ftml.Source{source("a"), source("b")}, nil)

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		assert.Equal(t, 0, result.Built)
		assert.Equal(t, 2, result.Failed)
	})
}
