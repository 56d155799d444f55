package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/ftml"
)

// Ensure Writer implements ftml.ResultWriter at compile time.
var _ ftml.ResultWriter = (*Writer)(nil)

// Writer writes extraction results with atomic update semantics.
// Files are written to baseDir/name.tmp and moved to baseDir/name on
// Commit. Every result produces <doc>.html and <doc>.json; <doc>.nt is
// written when a triple encoder is configured.
type Writer struct {
	baseDir string
	name    string
	triples ftml.TripleEncoder
}

// NewWriter creates a new Writer. triples may be nil.
func NewWriter(baseDir, name string, triples ftml.TripleEncoder) *Writer {
	return &Writer{
		baseDir: baseDir,
		name:    name,
		triples: triples,
	}
}

func (w *Writer) tempDir() string {
	return filepath.Join(w.baseDir, w.name+".tmp")
}

func (w *Writer) finalDir() string {
	return filepath.Join(w.baseDir, w.name)
}

// Summary is the JSON description of one extracted document.
type Summary struct {
	URI         string             `json:"uri"`
	Title       string             `json:"title,omitempty"`
	Hash        string             `json:"hash"`
	Body        ftml.DocumentRange `json:"body"`
	CSS         []ftml.CSS         `json:"css,omitempty"`
	Modules     []string           `json:"modules,omitempty"`
	Triples     int                `json:"triples"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
}

// NewSummary summarizes res.
func NewSummary(res *ftml.Result) *Summary {
	s := &Summary{
		URI:     res.Document.URI.String(),
		Title:   res.Document.Title,
		Hash:    res.Hash,
		Body:    res.Body,
		CSS:     res.CSS,
		Triples: len(res.Triples),
	}
	for _, m := range res.Modules {
		s.Modules = append(s.Modules, m.URI.String())
	}
	for _, d := range res.Diagnostics {
		s.Diagnostics = append(s.Diagnostics, d.String())
	}
	return s
}

// WriteResult writes the files of res to the temporary directory.
func (w *Writer) WriteResult(ctx context.Context, res *ftml.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	base := filepath.Join(w.tempDir(), filepath.FromSlash(DocumentPath(res.Document.URI)))
	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(base+".html", []byte(res.HTML), 0644); err != nil {
		return err
	}

	summary, err := json.MarshalIndent(NewSummary(res), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(base+".json", append(summary, '\n'), 0644); err != nil {
		return err
	}

	if w.triples == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := w.triples.Encode(&buf, res.Triples); err != nil {
		return err
	}
	return os.WriteFile(base+".nt", buf.Bytes(), 0644)
}

// Commit replaces the output directory with the written files.
func (w *Writer) Commit() error {
	if err := os.MkdirAll(w.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(w.finalDir()); err != nil {
		return err
	}
	return os.Rename(w.tempDir(), w.finalDir())
}

// Abort discards the written files.
func (w *Writer) Abort() error {
	return os.RemoveAll(w.tempDir())
}
