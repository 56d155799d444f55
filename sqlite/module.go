package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/ftml"
)

// Compile-time interface verification.
var _ ftml.ModuleService = (*ModuleService)(nil)

// ModuleService implements ftml.ModuleService using SQLite. Modules are
// stored gob-encoded; the document they were declared in must exist.
type ModuleService struct {
	db *DB
}

// NewModuleService creates a new ModuleService.
func NewModuleService(db *DB) *ModuleService {
	return &ModuleService{db: db}
}

// CreateModule stores m, replacing any module with the same URI.
func (s *ModuleService) CreateModule(ctx context.Context, doc ftml.DocumentURI, m *ftml.Module) error {
	if m.URI.Name == "" {
		return ftml.Errorf(ftml.EINVALID, "module URI required")
	}

	data, err := ftml.EncodeModule(m)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO modules (uri, document, archive, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(uri) DO UPDATE SET
			document = excluded.document,
			archive = excluded.archive,
			data = excluded.data
	`, m.URI.String(), doc.String(), m.URI.Archive.ID, data)
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return ftml.Errorf(ftml.ENOTFOUND, "document %s not found", doc)
	}
	return err
}

// FindModule retrieves a module by URI.
func (s *ModuleService) FindModule(ctx context.Context, uri ftml.ModuleURI) (*ftml.Module, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM modules WHERE uri = ?", uri.String()).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ftml.Errorf(ftml.ENOTFOUND, "module not found")
	}
	if err != nil {
		return nil, err
	}
	return ftml.DecodeModule(data)
}

// FindModules retrieves modules matching the filter, ordered by URI.
func (s *ModuleService) FindModules(ctx context.Context, filter ftml.ModuleFilter) ([]*ftml.Module, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT data FROM modules WHERE 1=1")

	if filter.Archive != nil {
		query.WriteString(" AND archive = ?")
		args = append(args, *filter.Archive)
	}
	if filter.Document != nil {
		query.WriteString(" AND document = ?")
		args = append(args, filter.Document.String())
	}

	query.WriteString(" ORDER BY uri ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []*ftml.Module
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		m, err := ftml.DecodeModule(data)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	return modules, rows.Err()
}

// DeleteModulesByDocument removes all modules declared in doc.
func (s *ModuleService) DeleteModulesByDocument(ctx context.Context, doc ftml.DocumentURI) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM modules WHERE document = ?", doc.String())
	return err
}
