package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/ftml"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ftml.DocumentService = (*DocumentService)(nil)

// DocumentService implements ftml.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// CreateDocument stores a document. A document with the same URI is
// updated in place and keeps its ID.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *ftml.StoredDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	css, err := json.Marshal(doc.CSS)
	if err != nil {
		return fmt.Errorf("failed to encode css: %w", err)
	}
	var narrative []byte
	if doc.Document != nil {
		if narrative, err = ftml.EncodeDocument(doc.Document); err != nil {
			return err
		}
	}

	id := uuid.New().String()
	extractedAt := time.Now().UTC()

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO documents (id, uri, archive, title, hash, body_start, body_end, body_inner_offset, css, html, resources, narrative, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(uri) DO UPDATE SET
			archive = excluded.archive,
			title = excluded.title,
			hash = excluded.hash,
			body_start = excluded.body_start,
			body_end = excluded.body_end,
			body_inner_offset = excluded.body_inner_offset,
			css = excluded.css,
			html = excluded.html,
			resources = excluded.resources,
			narrative = excluded.narrative,
			extracted_at = excluded.extracted_at
		RETURNING id
	`, id, doc.URI.String(), doc.URI.Archive.ID, doc.Title, doc.Hash, doc.Body.Start, doc.Body.End,
		doc.BodyInnerOffset, string(css), doc.HTML, doc.Resources, narrative,
		extractedAt.Format(time.RFC3339)).Scan(&doc.ID)
	if err != nil {
		return err
	}

	doc.Archive = doc.URI.Archive.ID
	doc.ExtractedAt = extractedAt
	return nil
}

// FindDocument retrieves a document by URI.
func (s *DocumentService) FindDocument(ctx context.Context, uri ftml.DocumentURI) (*ftml.StoredDocument, error) {
	var (
		doc         ftml.StoredDocument
		rawURI      string
		css         string
		narrative   []byte
		extractedAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, uri, archive, title, hash, body_start, body_end, body_inner_offset, css, html, resources, narrative, extracted_at
		FROM documents
		WHERE uri = ?
	`, uri.String()).Scan(&doc.ID, &rawURI, &doc.Archive, &doc.Title, &doc.Hash, &doc.Body.Start, &doc.Body.End,
		&doc.BodyInnerOffset, &css, &doc.HTML, &doc.Resources, &narrative, &extractedAt)

	if err == sql.ErrNoRows {
		return nil, ftml.Errorf(ftml.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	if err := scanDocument(&doc, rawURI, css, extractedAt); err != nil {
		return nil, err
	}
	if len(narrative) > 0 {
		if doc.Document, err = ftml.DecodeDocument(narrative); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}

// FindDocuments retrieves documents matching the filter, ordered by URI.
func (s *DocumentService) FindDocuments(ctx context.Context, filter ftml.DocumentFilter) ([]*ftml.StoredDocument, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, uri, archive, title, hash, body_start, body_end, body_inner_offset, css, extracted_at FROM documents WHERE 1=1")

	if filter.Archive != nil {
		query.WriteString(" AND archive = ?")
		args = append(args, *filter.Archive)
	}
	if filter.Hash != nil {
		query.WriteString(" AND hash = ?")
		args = append(args, *filter.Hash)
	}

	query.WriteString(" ORDER BY uri ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*ftml.StoredDocument
	for rows.Next() {
		var doc ftml.StoredDocument
		var rawURI, css, extractedAt string

		if err := rows.Scan(&doc.ID, &rawURI, &doc.Archive, &doc.Title, &doc.Hash, &doc.Body.Start, &doc.Body.End,
			&doc.BodyInnerOffset, &css, &extractedAt); err != nil {
			return nil, err
		}
		if err := scanDocument(&doc, rawURI, css, extractedAt); err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// DeleteDocument permanently removes a document. Its modules and triples
// are removed by the cascading foreign keys.
func (s *DocumentService) DeleteDocument(ctx context.Context, uri ftml.DocumentURI) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE uri = ?", uri.String())
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ftml.Errorf(ftml.ENOTFOUND, "document not found")
	}

	return nil
}

func scanDocument(doc *ftml.StoredDocument, rawURI, css, extractedAt string) error {
	var err error
	if doc.URI, err = ftml.ParseDocumentURI(rawURI); err != nil {
		return fmt.Errorf("failed to parse uri: %w", err)
	}
	if err := json.Unmarshal([]byte(css), &doc.CSS); err != nil {
		return fmt.Errorf("failed to parse css: %w", err)
	}
	doc.ExtractedAt, err = parseRFC3339(extractedAt, "extracted_at")
	return err
}
