// Package ftml extracts semantic structure from FTML-annotated HTML.
// Documents produced by sTeX/RusTeX carry data-ftml-* attributes that mark
// modules, symbol declarations, paragraphs, exercises, terms and notations.
// Extraction walks such a document once and yields a narrative tree, a
// content (module) tree and, optionally, an RDF triple batch.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, etree/, goquery/).
package ftml
