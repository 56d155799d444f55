package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ftml"
)

var (
	_ ftml.DocumentService = (*LoggingDocumentService)(nil)
	_ ftml.ModuleService   = (*LoggingModuleService)(nil)
)

// LoggingDocumentService wraps a DocumentService with logging of writes.
// Reads are logged at debug level.
type LoggingDocumentService struct {
	next   ftml.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next ftml.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

func (s *LoggingDocumentService) CreateDocument(ctx context.Context, doc *ftml.StoredDocument) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("store document",
			"uri", doc.URI.String(),
			"hash", doc.Hash,
			"bytes", len(doc.HTML),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateDocument(ctx, doc)
}

func (s *LoggingDocumentService) FindDocument(ctx context.Context, uri ftml.DocumentURI) (doc *ftml.StoredDocument, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find document",
			"uri", uri.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocument(ctx, uri)
}

func (s *LoggingDocumentService) FindDocuments(ctx context.Context, filter ftml.DocumentFilter) (docs []*ftml.StoredDocument, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find documents",
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocuments(ctx, filter)
}

func (s *LoggingDocumentService) DeleteDocument(ctx context.Context, uri ftml.DocumentURI) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete document",
			"uri", uri.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteDocument(ctx, uri)
}

// LoggingModuleService wraps a ModuleService with logging.
type LoggingModuleService struct {
	next   ftml.ModuleService
	logger *slog.Logger
}

// NewLoggingModuleService creates a new LoggingModuleService.
func NewLoggingModuleService(next ftml.ModuleService, logger *slog.Logger) *LoggingModuleService {
	return &LoggingModuleService{next: next, logger: logger}
}

func (s *LoggingModuleService) CreateModule(ctx context.Context, doc ftml.DocumentURI, m *ftml.Module) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("store module",
			"uri", m.URI.String(),
			"document", doc.String(),
			"declarations", len(m.Declarations),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateModule(ctx, doc, m)
}

func (s *LoggingModuleService) FindModule(ctx context.Context, uri ftml.ModuleURI) (m *ftml.Module, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find module",
			"uri", uri.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindModule(ctx, uri)
}

func (s *LoggingModuleService) FindModules(ctx context.Context, filter ftml.ModuleFilter) (modules []*ftml.Module, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find modules",
			"count", len(modules),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindModules(ctx, filter)
}

func (s *LoggingModuleService) DeleteModulesByDocument(ctx context.Context, doc ftml.DocumentURI) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete modules",
			"document", doc.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteModulesByDocument(ctx, doc)
}
