package render

import (
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
	"git.home.luguber.info/inful/plugindocs/internal/frontmatter"
	"git.home.luguber.info/inful/plugindocs/internal/plugin"
)

// LastmodFormat is the date layout of the lastmod field.
const LastmodFormat = "2006-01-02"

// WriteResult describes one page write.
type WriteResult struct {
	Path    string
	Changed bool
	Page    *Page
}

// Writer stores rendered pages as <dir>/<npmName>.md.
type Writer struct {
	dir      string
	renderer *Renderer
	now      func() time.Time
}

// NewWriter returns a writer rooted at dir.
func NewWriter(dir string, renderer *Renderer) *Writer {
	return &Writer{dir: dir, renderer: renderer, now: time.Now}
}

// PathFor returns the page path of rec.
func (w *Writer) PathFor(rec *plugin.Record) string {
	return filepath.Join(w.dir, rec.NPMName+".md")
}

// Write renders rec and writes it unless the existing page carries the same
// fingerprint, in which case the file and its lastmod are left alone.
func (w *Writer) Write(rec *plugin.Record) (WriteResult, error) {
	path := w.PathFor(rec)
	page, err := w.renderer.Page(rec)
	if err != nil {
		return WriteResult{}, ferrors.WrapError(err, ferrors.CategoryInternal, "render page").
			WithContext("plugin", rec.NPMName).
			Build()
	}
	res := WriteResult{Path: path, Page: page}

	if existing, ok := existingFingerprint(path); ok && existing == page.Fingerprint {
		return res, nil
	}

	data, err := page.Bytes(w.now().UTC().Format(LastmodFormat))
	if err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryInternal, "serialize page").
			WithContext("plugin", rec.NPMName).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create docs directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return res, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write page").
			WithContext("path", path).
			Build()
	}
	res.Changed = true
	return res, nil
}

// existingFingerprint reads the fingerprint of the page at path. Unreadable
// or malformed pages report false and are overwritten.
func existingFingerprint(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	fm, _, had, err := frontmatter.Split(data)
	if err != nil || !had {
		return "", false
	}
	fields, err := frontmatter.Parse(fm)
	if err != nil {
		return "", false
	}
	fp, ok := fields[FieldFingerprint].(string)
	return fp, ok
}
