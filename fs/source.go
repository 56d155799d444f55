// Package fs reads FTML archives from and writes extraction results to the
// file system.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/ftml"
)

// Ensure Reader implements ftml.SourceReader at compile time.
var _ ftml.SourceReader = (*Reader)(nil)

// Sources lists the HTML documents below dir as sources of archive. A file
// a/b/doc.en.html becomes the document "doc" in path "a/b" with language
// en. Hidden files and directories are skipped.
func Sources(dir string, archive ftml.ArchiveURI) ([]ftml.Source, error) {
	var sources []ftml.Source
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isHTML(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		uri, err := DocumentURI(archive, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		sources = append(sources, ftml.Source{URI: uri, Path: p})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ftml.Errorf(ftml.ENOTFOUND, "directory %s not found", dir)
	}
	return sources, err
}

func isHTML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".html" || ext == ".xhtml"
}

// DocumentURI maps a slash-separated path relative to the archive root to
// the URI of the document it holds.
func DocumentURI(archive ftml.ArchiveURI, rel string) (ftml.DocumentURI, error) {
	dir, file := path.Split(rel)
	base, lang := ftml.LanguageFromFilename(strings.TrimSuffix(file, path.Ext(file)))
	name, err := ftml.ParseName(base)
	if err != nil {
		return ftml.DocumentURI{}, ftml.Errorf(ftml.EINVALID, "invalid document file %s: %s", rel, ftml.ErrorMessage(err))
	}
	return ftml.DocumentURI{
		Archive:  archive,
		Path:     strings.TrimSuffix(dir, "/"),
		Name:     name,
		Language: lang,
	}, nil
}

// DocumentPath is the inverse of DocumentURI without the extension:
// "a/b/doc.en".
func DocumentPath(uri ftml.DocumentURI) string {
	lang := uri.Language
	if lang == "" {
		lang = ftml.English
	}
	return path.Join(uri.Path, string(uri.Name)+"."+string(lang))
}

// Reader reads sources from the local file system.
type Reader struct{}

// ReadSource returns the content of the file at src.Path.
func (Reader) ReadSource(ctx context.Context, src ftml.Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(src.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ftml.Errorf(ftml.ENOTFOUND, "source %s not found", src.Path)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}
