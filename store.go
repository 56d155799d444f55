package ftml

import (
	"context"
	"time"
)

// StoredDocument is an extracted document as kept in storage.
type StoredDocument struct {
	ID              string        `json:"id"`
	URI             DocumentURI   `json:"-"`
	Archive         string        `json:"archive"`
	Title           string        `json:"title"`
	HTML            string        `json:"-"`
	Hash            string        `json:"hash"`
	Body            DocumentRange `json:"body"`
	BodyInnerOffset int           `json:"bodyInnerOffset"`
	CSS             []CSS         `json:"css"`
	Resources       []byte        `json:"-"`
	Document        *Document     `json:"-"`
	ExtractedAt     time.Time     `json:"extractedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *StoredDocument) Validate() error {
	if d.URI.Name == "" {
		return Errorf(EINVALID, "document URI required")
	}
	if d.Hash == "" {
		return Errorf(EINVALID, "document hash required")
	}
	return nil
}

// NewStoredDocument prepares res for storage.
func NewStoredDocument(res *Result) *StoredDocument {
	doc := res.Document
	return &StoredDocument{
		URI:             doc.URI,
		Archive:         doc.URI.Archive.ID,
		Title:           doc.Title,
		HTML:            res.HTML,
		Hash:            res.Hash,
		Body:            res.Body,
		BodyInnerOffset: res.BodyInnerOffset,
		CSS:             res.CSS,
		Resources:       res.Resources,
		Document:        &doc,
	}
}

// DocumentService represents a service for managing extracted documents.
type DocumentService interface {
	// CreateDocument stores a document, replacing any document with the
	// same URI.
	CreateDocument(ctx context.Context, doc *StoredDocument) error

	// FindDocument retrieves a document by URI.
	// Returns ENOTFOUND if document does not exist.
	FindDocument(ctx context.Context, uri DocumentURI) (*StoredDocument, error)

	// FindDocuments retrieves documents matching the filter. Results omit
	// HTML, resources and the narrative tree.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*StoredDocument, error)

	// DeleteDocument removes a document with its modules and triples.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, uri DocumentURI) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	Archive *string `json:"archive"`
	Hash    *string `json:"hash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ModuleService represents a service for managing extracted modules.
type ModuleService interface {
	// CreateModule stores a module declared in document doc, replacing any
	// module with the same URI.
	CreateModule(ctx context.Context, doc DocumentURI, m *Module) error

	// FindModule retrieves a module by URI.
	// Returns ENOTFOUND if module does not exist.
	FindModule(ctx context.Context, uri ModuleURI) (*Module, error)

	// FindModules retrieves modules matching the filter.
	FindModules(ctx context.Context, filter ModuleFilter) ([]*Module, error)

	// DeleteModulesByDocument removes all modules declared in doc.
	DeleteModulesByDocument(ctx context.Context, doc DocumentURI) error
}

// ModuleFilter represents a filter for FindModules.
type ModuleFilter struct {
	Archive  *string      `json:"archive"`
	Document *DocumentURI `json:"-"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// TripleService represents a service for managing extracted triples.
type TripleService interface {
	// CreateTriples adds triples extracted from doc.
	CreateTriples(ctx context.Context, doc DocumentURI, triples []Triple) error

	// FindTriples retrieves triples matching the filter.
	FindTriples(ctx context.Context, filter TripleFilter) ([]Triple, error)

	// DeleteTriplesByDocument removes all triples extracted from doc.
	DeleteTriplesByDocument(ctx context.Context, doc DocumentURI) error
}
