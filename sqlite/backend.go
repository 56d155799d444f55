package sqlite

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fwojciec/ftml"
)

// Ensure Backend implements ftml.Backend at compile time.
var _ ftml.Backend = (*Backend)(nil)

// Backend resolves modules from the database and archive paths from a
// fixed set of archive root directories.
type Backend struct {
	Modules *ModuleService

	// Roots maps archive root directories to their archives.
	Roots map[string]ftml.ArchiveURI
}

// NewBackend returns a Backend over the modules stored in db.
func NewBackend(db *DB, roots map[string]ftml.ArchiveURI) *Backend {
	return &Backend{Modules: NewModuleService(db), Roots: roots}
}

// ArchiveOf returns the archive whose root contains path. The innermost
// root wins when roots are nested.
func (b *Backend) ArchiveOf(_ context.Context, path string) (ftml.ArchiveURI, string, error) {
	path = filepath.Clean(path)
	var (
		best    string
		archive ftml.ArchiveURI
	)
	for root, a := range b.Roots {
		root = filepath.Clean(root)
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(root) > len(best) {
			best, archive = root, a
		}
	}
	if best == "" {
		return ftml.ArchiveURI{}, "", ftml.Errorf(ftml.ENOTFOUND, "no archive contains %s", path)
	}
	rel, _ := filepath.Rel(best, path)
	return archive, filepath.ToSlash(rel), nil
}

// FindModule retrieves a stored module.
func (b *Backend) FindModule(ctx context.Context, uri ftml.ModuleURI) (*ftml.Module, error) {
	return b.Modules.FindModule(ctx, uri)
}
