package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/ftml"
	"github.com/fwojciec/ftml/mock"
	ftmlslog "github.com/fwojciec/ftml/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var uri = ftml.DocumentURI{
	Archive:  ftml.ArchiveURI{Base: "http://example.org", ID: "test"},
	Name:     "doc",
	Language: ftml.English,
}

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs counts and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(_ context.Context, uri ftml.DocumentURI, html string) (*ftml.Result, error) {
				return &ftml.Result{
					Document: ftml.Document{URI: uri},
					Modules:  []*ftml.Module{{URI: uri.Module("m")}},
				}, nil
			},
		}

		ext := ftmlslog.NewLoggingExtractor(inner, logger)
		res, err := ext.Extract(context.Background(), uri, "<p>x</p>")

		require.NoError(t, err)
		assert.Len(t, res.Modules, 1)
		output := buf.String()
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, uri.String())
		assert.Contains(t, output, "bytes=8")
		assert.Contains(t, output, "modules=1")
		assert.Contains(t, output, "diagnostics=0")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs diagnostics by severity", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(_ context.Context, uri ftml.DocumentURI, _ string) (*ftml.Result, error) {
				return &ftml.Result{
					Document: ftml.Document{URI: uri},
					Diagnostics: []ftml.Diagnostic{
						ftml.NewDiagnostic(ftml.NotInContent, "symdecl", ""),
						ftml.NewDiagnostic(ftml.UnresolvedModule, "", "http://example.org?a=x&m=M"),
					},
				}, nil
			},
		}

		ext := ftmlslog.NewLoggingExtractor(inner, logger)
		_, err := ext.Extract(context.Background(), uri, "")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, `level=ERROR msg="content element outside of a module"`)
		assert.Contains(t, output, `level=WARN msg="unresolved module`)
		assert.Contains(t, output, "diagnostics=2")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(context.Context, ftml.DocumentURI, string) (*ftml.Result, error) {
				return nil, errors.New("broken")
			},
		}

		ext := ftmlslog.NewLoggingExtractor(inner, logger)
		_, err := ext.Extract(context.Background(), uri, "")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=broken")
	})
}
