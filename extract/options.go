package extract

import (
	"strings"

	"github.com/fwojciec/ftml"
)

// DefaultPrefix is the attribute prefix of FTML annotations.
const DefaultPrefix = "data-ftml-"

// Options configures an extraction run.
type Options struct {
	// Prefix is prepended to every annotation key, e.g. "data-ftml-".
	Prefix string

	// RDF enables emission of relational triples.
	RDF bool

	// Backend resolves image archives. It may be nil.
	Backend ftml.Backend
}

// Validate reports whether the options can drive an extraction. An empty
// prefix is replaced by DefaultPrefix.
func (o *Options) Validate() error {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if strings.ContainsAny(o.Prefix, " \t\n\"'=<>") {
		return ftml.Errorf(ftml.EINVALID, "invalid attribute prefix %q", o.Prefix)
	}
	return nil
}
