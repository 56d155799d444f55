// Package slog provides logging decorators for ftml services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ftml"
)

// Ensure LoggingExtractor implements ftml.Extractor.
var _ ftml.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging. Every diagnostic of a
// result is logged at Warn or Error level according to its severity.
type LoggingExtractor struct {
	next   ftml.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next ftml.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the run.
func (e *LoggingExtractor) Extract(ctx context.Context, uri ftml.DocumentURI, html string) (res *ftml.Result, err error) {
	defer func(begin time.Time) {
		var modules, triples, diagnostics int
		if res != nil {
			modules, triples, diagnostics = len(res.Modules), len(res.Triples), len(res.Diagnostics)
			for _, d := range res.Diagnostics {
				level := slog.LevelError
				if d.Severity == ftml.SeverityWarning {
					level = slog.LevelWarn
				}
				e.logger.Log(ctx, level, d.Error(), "uri", uri.String(), "kind", int(d.Kind))
			}
		}
		e.logger.Info("extract",
			"uri", uri.String(),
			"bytes", len(html),
			"modules", modules,
			"triples", triples,
			"diagnostics", diagnostics,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, uri, html)
}
