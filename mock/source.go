package mock

import (
	"context"

	"github.com/fwojciec/ftml"
)

var (
	_ ftml.SourceReader = (*SourceReader)(nil)
	_ ftml.ResultWriter = (*ResultWriter)(nil)
)

// SourceReader is a mock implementation of ftml.SourceReader.
type SourceReader struct {
	ReadSourceFn func(ctx context.Context, src ftml.Source) (string, error)
}

func (r *SourceReader) ReadSource(ctx context.Context, src ftml.Source) (string, error) {
	return r.ReadSourceFn(ctx, src)
}

// ResultWriter is a mock implementation of ftml.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, res *ftml.Result) error
}

func (w *ResultWriter) WriteResult(ctx context.Context, res *ftml.Result) error {
	return w.WriteResultFn(ctx, res)
}
