package ftml

import "fmt"

// Severity classifies a Diagnostic.
type Severity int

// Severity levels.
const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticKind identifies the kind of problem an extraction run reports.
type DiagnosticKind int

// Diagnostic kinds.
const (
	ParseError DiagnosticKind = iota
	UnknownAttribute
	MissingTermForComplex
	UnresolvedVariable
	MissingHeadForTerm
	InvalidTermKind
	InvalidHeadForTermKind
	InvalidArgSpec
	InvalidKeyFor
	InvalidKey
	InvalidURI
	NotInContent
	NotInNarrative
	NotInParagraph
	NotInExercise
	IncompleteArgs
	UnresolvedModule
	UnbalancedDocument
)

// Diagnostic is a non-fatal problem found while extracting a document.
// Tag names the attribute involved, Value the offending value, if any. For
// UnknownAttribute, Value is the attribute and Tag the closest known key.
type Diagnostic struct {
	Kind     DiagnosticKind
	Tag      string
	Value    string
	Severity Severity
}

// NewDiagnostic returns a diagnostic with the default severity for kind.
func NewDiagnostic(kind DiagnosticKind, tag, value string) Diagnostic {
	sev := SeverityError
	switch kind {
	case ParseError, UnknownAttribute, UnresolvedModule:
		sev = SeverityWarning
	}
	return Diagnostic{Kind: kind, Tag: tag, Value: value, Severity: sev}
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	switch d.Kind {
	case ParseError:
		return "parse error: " + d.Value
	case UnknownAttribute:
		if d.Tag != "" {
			return fmt.Sprintf("unknown ftml attribute %s (did you mean %s?)", d.Value, d.Tag)
		}
		return "unknown ftml attribute " + d.Value
	case MissingTermForComplex:
		return "missing actual term for complex term " + d.Value
	case UnresolvedVariable:
		return "unresolved variable " + d.Value
	case MissingHeadForTerm:
		return "missing head attribute for term"
	case InvalidTermKind:
		return "invalid term kind " + d.Value
	case InvalidHeadForTermKind:
		return fmt.Sprintf("invalid head %s for term kind %s", d.Value, d.Tag)
	case InvalidArgSpec:
		return "invalid or missing argument marker"
	case InvalidKeyFor:
		if d.Value == "" {
			return "missing key for ftml tag " + d.Tag
		}
		return fmt.Sprintf("invalid key %s for ftml tag %s", d.Value, d.Tag)
	case InvalidKey:
		return "invalid key in ftml element"
	case InvalidURI:
		return "invalid URI: " + d.Value
	case NotInContent:
		return "content element outside of a module"
	case NotInNarrative:
		return "unbalanced narrative element"
	case NotInParagraph:
		return "unbalanced logical paragraph"
	case NotInExercise:
		return "unbalanced exercise element: " + d.Value
	case IncompleteArgs:
		return "incomplete argument list"
	case UnresolvedModule:
		return "unresolved module " + d.Value
	case UnbalancedDocument:
		return "unbalanced ftml document"
	}
	return fmt.Sprintf("diagnostic %d", int(d.Kind))
}

func (d Diagnostic) String() string {
	return d.Severity.String() + ": " + d.Error()
}
