// Package build extracts whole archives. It coordinates source reading,
// extraction, change detection, and storage of FTML documents.
package build

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Deduplication filter sizing.
const (
	expectedDocuments = 10000
	falsePositiveRate = 0.01
)

// Builder extracts the documents of an archive and stores the results.
type Builder struct {
	Sources     ftml.SourceReader
	Extractor   ftml.Extractor
	Documents   ftml.DocumentService
	Modules     ftml.ModuleService
	Triples     ftml.TripleService
	Writer      ftml.ResultWriter
	Concurrency int

	// Force rebuilds documents whose source is unchanged.
	Force bool
}

// Result holds the outcome of a build.
type Result struct {
	RunID       string
	Built       int
	Skipped     int
	Duplicates  int
	Failed      int
	Diagnostics int
	Bytes       int
}

// ProgressEvent reports progress during a build.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URI       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting build progress.
type ProgressFunc func(event ProgressEvent)

// buildResult holds the outcome of processing a single source.
type buildResult struct {
	src     ftml.Source
	res     *ftml.Result
	size    int
	skipped bool
	err     error
}

// Build extracts sources with up to Concurrency documents in flight. Each
// document is extracted by its own engine. Cancellation is checked between
// documents; a canceled build returns the partial result and the context
// error.
func (b *Builder) Build(ctx context.Context, sources []ftml.Source, progress ProgressFunc) (*Result, error) {
	result := &Result{RunID: uuid.New().String()}

	seen := bloom.NewFilter(max(uint(len(sources)), expectedDocuments), falsePositiveRate)
	var unique []ftml.Source
	for _, src := range sources {
		if seen.Seen(src.URI.String()) {
			result.Duplicates++
			continue
		}
		unique = append(unique, src)
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	resultCh := make(chan buildResult, len(unique))

	var completed atomic.Int64
	total := len(unique)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, src := range unique {
			g.Go(func() error {
				resultCh <- b.process(gctx, src)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Results are stored as they arrive so that later extractions can
	// resolve the modules of earlier ones.
	for r := range resultCh {
		if r.err == nil && !r.skipped {
			r.err = b.store(ctx, r.res)
		}

		event := ProgressEvent{
			Completed: int(completed.Add(1)),
			Total:     total,
			URI:       r.src.URI.String(),
		}
		switch {
		case r.err != nil:
			result.Failed++
			event.Type, event.Error = ProgressFailed, r.err
		case r.skipped:
			result.Skipped++
			event.Type = ProgressSkipped
		default:
			result.Built++
			result.Bytes += r.size
			result.Diagnostics += len(r.res.Diagnostics)
			event.Type = ProgressCompleted
		}
		if progress != nil {
			progress(event)
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// process reads and extracts a single source.
func (b *Builder) process(ctx context.Context, src ftml.Source) buildResult {
	result := buildResult{src: src}
	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	html, err := b.Sources.ReadSource(ctx, src)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.Path, err)
		return result
	}
	result.size = len(html)

	if !b.Force {
		unchanged, err := b.unchanged(ctx, src.URI, ComputeHash(html))
		if err != nil {
			result.err = err
			return result
		}
		if unchanged {
			result.skipped = true
			return result
		}
	}

	res, err := b.Extractor.Extract(ctx, src.URI, html)
	if err != nil {
		result.err = fmt.Errorf("extract %s: %w", src.URI, err)
		return result
	}
	result.res = res
	return result
}

// unchanged reports whether uri is stored with the given source hash.
func (b *Builder) unchanged(ctx context.Context, uri ftml.DocumentURI, hash string) (bool, error) {
	doc, err := b.Documents.FindDocument(ctx, uri)
	if ftml.ErrorCode(err) == ftml.ENOTFOUND {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find %s: %w", uri, err)
	}
	return doc.Hash == hash, nil
}

// store replaces everything stored for the document of res.
func (b *Builder) store(ctx context.Context, res *ftml.Result) error {
	uri := res.Document.URI
	if err := b.Modules.DeleteModulesByDocument(ctx, uri); err != nil {
		return fmt.Errorf("delete modules of %s: %w", uri, err)
	}
	if err := b.Triples.DeleteTriplesByDocument(ctx, uri); err != nil {
		return fmt.Errorf("delete triples of %s: %w", uri, err)
	}
	if err := b.Documents.CreateDocument(ctx, ftml.NewStoredDocument(res)); err != nil {
		return fmt.Errorf("store %s: %w", uri, err)
	}
	for _, m := range res.Modules {
		if err := b.Modules.CreateModule(ctx, uri, m); err != nil {
			return fmt.Errorf("store module %s: %w", m.URI, err)
		}
	}
	if err := b.Triples.CreateTriples(ctx, uri, res.Triples); err != nil {
		return fmt.Errorf("store triples of %s: %w", uri, err)
	}
	if b.Writer != nil {
		if err := b.Writer.WriteResult(ctx, res); err != nil {
			return fmt.Errorf("write %s: %w", uri, err)
		}
	}
	return nil
}
