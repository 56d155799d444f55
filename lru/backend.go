// Package lru caches module lookups shared by concurrent extractions using
// github.com/hashicorp/golang-lru/v2.
package lru

import (
	"context"

	"github.com/fwojciec/ftml"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of modules kept by NewBackend when size is 0.
const DefaultSize = 4096

// Ensure types implement their interfaces at compile time.
var (
	_ ftml.Backend       = (*Backend)(nil)
	_ ftml.ModuleService = (*ModuleService)(nil)
)

// Backend is a read-through module cache in front of another Backend.
// Lookups that fail are not cached, so modules stored later in a build
// become visible.
type Backend struct {
	next    ftml.Backend
	modules *lru.Cache[string, *ftml.Module]
}

// NewBackend wraps next with a cache of up to size modules.
func NewBackend(next ftml.Backend, size int) (*Backend, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, *ftml.Module](size)
	if err != nil {
		return nil, ftml.Errorf(ftml.EINVALID, "module cache: %v", err)
	}
	return &Backend{next: next, modules: cache}, nil
}

// ArchiveOf delegates to the wrapped backend.
func (b *Backend) ArchiveOf(ctx context.Context, path string) (ftml.ArchiveURI, string, error) {
	return b.next.ArchiveOf(ctx, path)
}

// FindModule returns the cached module or loads it from the wrapped
// backend.
func (b *Backend) FindModule(ctx context.Context, uri ftml.ModuleURI) (*ftml.Module, error) {
	key := uri.String()
	if m, ok := b.modules.Get(key); ok {
		return m, nil
	}
	m, err := b.next.FindModule(ctx, uri)
	if err != nil {
		return nil, err
	}
	b.modules.Add(key, m)
	return m, nil
}

// Forget drops uri from the cache.
func (b *Backend) Forget(uri ftml.ModuleURI) {
	b.modules.Remove(uri.String())
}

// Len returns the number of cached modules.
func (b *Backend) Len() int {
	return b.modules.Len()
}

// ModuleService wraps a ModuleService and drops modules from Cache when
// they are replaced or deleted.
type ModuleService struct {
	ftml.ModuleService
	Cache *Backend
}

// CreateModule stores m and evicts any cached copy.
func (s *ModuleService) CreateModule(ctx context.Context, doc ftml.DocumentURI, m *ftml.Module) error {
	defer s.Cache.Forget(m.URI)
	return s.ModuleService.CreateModule(ctx, doc, m)
}

// DeleteModulesByDocument removes the modules of doc and evicts them.
func (s *ModuleService) DeleteModulesByDocument(ctx context.Context, doc ftml.DocumentURI) error {
	ms, err := s.ModuleService.FindModules(ctx, ftml.ModuleFilter{Document: &doc})
	if err != nil {
		return err
	}
	if err := s.ModuleService.DeleteModulesByDocument(ctx, doc); err != nil {
		return err
	}
	for _, m := range ms {
		s.Cache.Forget(m.URI)
	}
	return nil
}
