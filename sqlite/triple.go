package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/ftml"
)

// Compile-time interface verification.
var _ ftml.TripleService = (*TripleService)(nil)

// TripleService implements ftml.TripleService using SQLite.
type TripleService struct {
	db *DB
}

// NewTripleService creates a new TripleService.
func NewTripleService(db *DB) *TripleService {
	return &TripleService{db: db}
}

// CreateTriples adds triples extracted from doc in one transaction.
func (s *TripleService) CreateTriples(ctx context.Context, doc ftml.DocumentURI, triples []ftml.Triple) error {
	if len(triples) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO triples (document, subject_kind, subject, predicate, object_kind, object, object_lang)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	uri := doc.String()
	for _, t := range triples {
		if t.Predicate.Kind != ftml.IRINode {
			return ftml.Errorf(ftml.EINVALID, "invalid triple predicate %s", t.Predicate)
		}
		if _, err := stmt.ExecContext(ctx, uri, t.Subject.Kind, t.Subject.Value, t.Predicate.Value,
			t.Object.Kind, t.Object.Value, t.Object.Lang); err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY") {
				return ftml.Errorf(ftml.ENOTFOUND, "document %s not found", doc)
			}
			return fmt.Errorf("failed to insert triple: %w", err)
		}
	}

	return tx.Commit()
}

// FindTriples retrieves triples matching the filter in insertion order.
// Subject and object filters compare node values.
func (s *TripleService) FindTriples(ctx context.Context, filter ftml.TripleFilter) ([]ftml.Triple, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT subject_kind, subject, predicate, object_kind, object, object_lang FROM triples WHERE 1=1")

	if filter.Document != nil {
		query.WriteString(" AND document = ?")
		args = append(args, filter.Document.String())
	}
	if filter.Subject != nil {
		query.WriteString(" AND subject = ?")
		args = append(args, *filter.Subject)
	}
	if filter.Predicate != nil {
		query.WriteString(" AND predicate = ?")
		args = append(args, *filter.Predicate)
	}
	if filter.Object != nil {
		query.WriteString(" AND object = ?")
		args = append(args, *filter.Object)
	}

	query.WriteString(" ORDER BY rowid ASC")
	appendPagination(&query, &args, filter.Limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var triples []ftml.Triple
	for rows.Next() {
		var t ftml.Triple
		if err := rows.Scan(&t.Subject.Kind, &t.Subject.Value, &t.Predicate.Value,
			&t.Object.Kind, &t.Object.Value, &t.Object.Lang); err != nil {
			return nil, err
		}
		t.Predicate.Kind = ftml.IRINode
		triples = append(triples, t)
	}

	return triples, rows.Err()
}

// DeleteTriplesByDocument removes all triples extracted from doc.
func (s *TripleService) DeleteTriplesByDocument(ctx context.Context, doc ftml.DocumentURI) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM triples WHERE document = ?", doc.String())
	return err
}
