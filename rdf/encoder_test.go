package rdf_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/rdf"
	knakk "github.com/knakk/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	doc    = "http://example.org?a=test&d=doc&l=en"
	module = "http://example.org?a=test&m=m1&l=en"
)

func TestEncoder_Encode(t *testing.T) {
	t.Parallel()

	triples := []ftml.Triple{
		ftml.NewTriple(doc, ftml.ULOContains, module),
		{Subject: ftml.IRI(doc), Predicate: ftml.IRI(ftml.DCLanguage), Object: ftml.Literal("en")},
		{Subject: ftml.IRI(doc), Predicate: ftml.IRI(ftml.ULOObjective), Object: ftml.Blank("b1")},
	}

	t.Run("writes n-triples", func(t *testing.T) {
		t.Parallel()

		enc, err := rdf.NewEncoder("nt")
		require.NoError(t, err)
		var buf bytes.Buffer

		err = enc.Encode(&buf, triples)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "<"+doc+"> <"+ftml.ULOContains+"> <"+module+"> .")

		decoded, err := knakk.NewTripleDecoder(&buf, knakk.NTriples).DecodeAll()
		require.NoError(t, err)
		require.Len(t, decoded, 3)
		assert.Equal(t, doc, decoded[0].Subj.String())
		assert.Equal(t, module, decoded[0].Obj.String())
		assert.Equal(t, "en", decoded[1].Obj.String())
	})

	t.Run("writes turtle with vocabulary prefixes", func(t *testing.T) {
		t.Parallel()

		enc, err := rdf.NewEncoder("turtle")
		require.NoError(t, err)
		var buf bytes.Buffer

		err = enc.Encode(&buf, triples)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "ulo:")
	})

	t.Run("escapes characters not allowed in iris", func(t *testing.T) {
		t.Parallel()

		enc, err := rdf.NewEncoder("nt")
		require.NoError(t, err)
		var buf bytes.Buffer

		err = enc.Encode(&buf, []ftml.Triple{ftml.NewTriple(module+"&s=record field", ftml.RDFType, ftml.ULODeclaration)})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "record%20field")
	})

	t.Run("rejects literal subjects", func(t *testing.T) {
		t.Parallel()

		enc, err := rdf.NewEncoder("nt")
		require.NoError(t, err)

		err = enc.Encode(&bytes.Buffer{}, []ftml.Triple{{Subject: ftml.Literal("x"), Predicate: ftml.IRI(ftml.RDFType), Object: ftml.IRI(ftml.ULOTheory)}})

		assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
	})
}

func TestNewEncoder(t *testing.T) {
	t.Parallel()

	_, err := rdf.NewEncoder("rdfxml")

	assert.Equal(t, ftml.EINVALID, ftml.ErrorCode(err))
}
