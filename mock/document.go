package mock

import (
	"context"

	"github.com/fwojciec/ftml"
)

var (
	_ ftml.DocumentService = (*DocumentService)(nil)
	_ ftml.ModuleService   = (*ModuleService)(nil)
	_ ftml.TripleService   = (*TripleService)(nil)
	_ ftml.Backend         = (*Backend)(nil)
)

// DocumentService is a mock implementation of ftml.DocumentService.
type DocumentService struct {
	CreateDocumentFn func(ctx context.Context, doc *ftml.StoredDocument) error
	FindDocumentFn   func(ctx context.Context, uri ftml.DocumentURI) (*ftml.StoredDocument, error)
	FindDocumentsFn  func(ctx context.Context, filter ftml.DocumentFilter) ([]*ftml.StoredDocument, error)
	DeleteDocumentFn func(ctx context.Context, uri ftml.DocumentURI) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *ftml.StoredDocument) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocument(ctx context.Context, uri ftml.DocumentURI) (*ftml.StoredDocument, error) {
	return s.FindDocumentFn(ctx, uri)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter ftml.DocumentFilter) ([]*ftml.StoredDocument, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, uri ftml.DocumentURI) error {
	return s.DeleteDocumentFn(ctx, uri)
}

// ModuleService is a mock implementation of ftml.ModuleService.
type ModuleService struct {
	CreateModuleFn            func(ctx context.Context, doc ftml.DocumentURI, m *ftml.Module) error
	FindModuleFn              func(ctx context.Context, uri ftml.ModuleURI) (*ftml.Module, error)
	FindModulesFn             func(ctx context.Context, filter ftml.ModuleFilter) ([]*ftml.Module, error)
	DeleteModulesByDocumentFn func(ctx context.Context, doc ftml.DocumentURI) error
}

func (s *ModuleService) CreateModule(ctx context.Context, doc ftml.DocumentURI, m *ftml.Module) error {
	return s.CreateModuleFn(ctx, doc, m)
}

func (s *ModuleService) FindModule(ctx context.Context, uri ftml.ModuleURI) (*ftml.Module, error) {
	return s.FindModuleFn(ctx, uri)
}

func (s *ModuleService) FindModules(ctx context.Context, filter ftml.ModuleFilter) ([]*ftml.Module, error) {
	return s.FindModulesFn(ctx, filter)
}

func (s *ModuleService) DeleteModulesByDocument(ctx context.Context, doc ftml.DocumentURI) error {
	return s.DeleteModulesByDocumentFn(ctx, doc)
}

// TripleService is a mock implementation of ftml.TripleService.
type TripleService struct {
	CreateTriplesFn           func(ctx context.Context, doc ftml.DocumentURI, triples []ftml.Triple) error
	FindTriplesFn             func(ctx context.Context, filter ftml.TripleFilter) ([]ftml.Triple, error)
	DeleteTriplesByDocumentFn func(ctx context.Context, doc ftml.DocumentURI) error
}

func (s *TripleService) CreateTriples(ctx context.Context, doc ftml.DocumentURI, triples []ftml.Triple) error {
	return s.CreateTriplesFn(ctx, doc, triples)
}

func (s *TripleService) FindTriples(ctx context.Context, filter ftml.TripleFilter) ([]ftml.Triple, error) {
	return s.FindTriplesFn(ctx, filter)
}

func (s *TripleService) DeleteTriplesByDocument(ctx context.Context, doc ftml.DocumentURI) error {
	return s.DeleteTriplesByDocumentFn(ctx, doc)
}

// Backend is a mock implementation of ftml.Backend.
type Backend struct {
	ArchiveOfFn  func(ctx context.Context, path string) (ftml.ArchiveURI, string, error)
	FindModuleFn func(ctx context.Context, uri ftml.ModuleURI) (*ftml.Module, error)
}

func (b *Backend) ArchiveOf(ctx context.Context, path string) (ftml.ArchiveURI, string, error) {
	return b.ArchiveOfFn(ctx, path)
}

func (b *Backend) FindModule(ctx context.Context, uri ftml.ModuleURI) (*ftml.Module, error) {
	return b.FindModuleFn(ctx, uri)
}
