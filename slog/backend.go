package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ftml"
)

// Ensure LoggingBackend implements ftml.Backend.
var _ ftml.Backend = (*LoggingBackend)(nil)

// LoggingBackend wraps a Backend with debug logging.
type LoggingBackend struct {
	next   ftml.Backend
	logger *slog.Logger
}

// NewLoggingBackend creates a new LoggingBackend.
func NewLoggingBackend(next ftml.Backend, logger *slog.Logger) *LoggingBackend {
	return &LoggingBackend{next: next, logger: logger}
}

func (b *LoggingBackend) ArchiveOf(ctx context.Context, path string) (archive ftml.ArchiveURI, rel string, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("archive lookup",
			"path", path,
			"archive", archive.ID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.ArchiveOf(ctx, path)
}

func (b *LoggingBackend) FindModule(ctx context.Context, uri ftml.ModuleURI) (m *ftml.Module, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("module lookup",
			"uri", uri.String(),
			"found", m != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.FindModule(ctx, uri)
}
