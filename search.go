package ftml

import (
	"fmt"
	"strings"
)

// SearchEntry is one searchable unit of a document.
type SearchEntry struct {
	URI   string   `json:"uri" expr:"uri"`
	Kind  string   `json:"kind" expr:"kind"`
	Fors  []string `json:"fors,omitempty" expr:"fors"`
	Title string   `json:"title,omitempty" expr:"title"`
	Body  string   `json:"body" expr:"body"`
}

// SearchEntryFilter selects search entries.
type SearchEntryFilter interface {
	Match(e *SearchEntry) (bool, error)
}

// SearchEntries returns an entry for every paragraph, exercise and section
// of res. Titles are reduced to plain text by texter; bodies are converted
// to Markdown by conv.
func SearchEntries(res *Result, conv Converter, texter TextExtractor) ([]*SearchEntry, error) {
	var entries []*SearchEntry
	var err error
	Walk(res.Document.Elements, func(e DocumentElement) bool {
		if err != nil {
			return false
		}
		var entry *SearchEntry
		var rng DocumentRange
		var title *DocumentRange
		switch e := e.(type) {
		case *Paragraph:
			entry = &SearchEntry{URI: e.URI.String(), Kind: e.Kind.String()}
			for _, f := range e.Fors {
				entry.Fors = append(entry.Fors, f.Symbol.String())
			}
			rng, title = e.Range, e.Title
		case *Exercise:
			kind := "exercise"
			if e.SubExercise {
				kind = "subexercise"
			}
			entry = &SearchEntry{URI: e.URI.String(), Kind: kind}
			rng, title = e.Range, e.Title
		case *Section:
			entry = &SearchEntry{URI: e.URI.String(), Kind: e.Level.String()}
			rng, title = e.Range, e.Title
		default:
			return true
		}
		if title != nil && title.Len() > 0 {
			if entry.Title, err = texter.Text(title.Slice(res.HTML)); err != nil {
				err = fmt.Errorf("title of %s: %w", entry.URI, err)
				return false
			}
			entry.Title = strings.TrimSpace(entry.Title)
		}
		if html := rng.Slice(res.HTML); html != "" {
			if entry.Body, err = conv.Convert(html); err != nil {
				err = fmt.Errorf("body of %s: %w", entry.URI, err)
				return false
			}
		}
		entries = append(entries, entry)
		return true
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
