// Package render turns plugin records into markdown pages with YAML
// frontmatter.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/plugindocs/internal/frontmatter"
	"git.home.luguber.info/inful/plugindocs/internal/plugin"
	"git.home.luguber.info/inful/plugindocs/internal/typedoc"
)

//go:embed templates/plugin.md.tmpl
var templateFS embed.FS

// Frontmatter keys written on every page.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldNPM         = "npm"
	FieldCordova     = "cordova"
	FieldRepo        = "repo"
	FieldPlatforms   = "platforms"
	FieldUID         = "uid"
	FieldFingerprint = mdfp.FingerprintField
	FieldLastmod     = "lastmod"
)

// DefaultNPMScope prefixes the npm package in install instructions.
const DefaultNPMScope = "@ionic-native"

// Renderer renders records with the embedded page template.
type Renderer struct {
	tmpl       *template.Template
	pathPrefix string
	npmScope   string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPathPrefix sets the site path pages are published under. It seeds the
// page uid.
func WithPathPrefix(prefix string) Option {
	return func(r *Renderer) { r.pathPrefix = prefix }
}

// WithNPMScope sets the npm scope used in install instructions.
func WithNPMScope(scope string) Option {
	return func(r *Renderer) { r.npmScope = scope }
}

// New parses the page template.
func New(opts ...Option) (*Renderer, error) {
	tmpl, err := template.New("plugin.md.tmpl").
		Funcs(funcs).
		Option("missingkey=error").
		ParseFS(templateFS, "templates/plugin.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	r := &Renderer{tmpl: tmpl, pathPrefix: "/docs/native/", npmScope: DefaultNPMScope}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Page is a rendered page before lastmod is stamped.
type Page struct {
	Fields      frontmatter.Fields
	Body        []byte
	Fingerprint string
}

// Bytes assembles the document with the given lastmod date.
func (p *Page) Bytes(lastmod string) ([]byte, error) {
	fields := append(frontmatter.Fields(nil), p.Fields...)
	fm, err := frontmatter.Serialize(fields.Set(FieldLastmod, lastmod))
	if err != nil {
		return nil, err
	}
	return frontmatter.Join(fm, p.Body), nil
}

type pageData struct {
	*plugin.Record
	InstallCommands []string
}

// Page renders rec's body and frontmatter and fingerprints the result.
func (r *Renderer) Page(rec *plugin.Record) (*Page, error) {
	var body bytes.Buffer
	if err := r.tmpl.Execute(&body, pageData{Record: rec, InstallCommands: r.installCommands(rec)}); err != nil {
		return nil, fmt.Errorf("render %s: %w", rec.NPMName, err)
	}
	fields := frontmatter.Fields{
		{Key: FieldTitle, Value: rec.PrettyName},
		{Key: FieldDescription, Value: firstLine(rec.Description)},
		{Key: FieldNPM, Value: r.npmPackage(rec)},
		{Key: FieldCordova, Value: rec.CordovaName},
		{Key: FieldRepo, Value: rec.Repo},
		{Key: FieldPlatforms, Value: rec.Platforms},
		{Key: FieldUID, Value: r.UID(rec)},
	}
	fp, err := Fingerprint(fields, body.Bytes())
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", rec.NPMName, err)
	}
	return &Page{
		Fields:      fields.Set(FieldFingerprint, fp),
		Body:        body.Bytes(),
		Fingerprint: fp,
	}, nil
}

// Render returns the full page document stamped with lastmod.
func (r *Renderer) Render(rec *plugin.Record, lastmod string) ([]byte, error) {
	page, err := r.Page(rec)
	if err != nil {
		return nil, err
	}
	return page.Bytes(lastmod)
}

// UID is a stable identifier for the page derived from its site path.
func (r *Renderer) UID(rec *plugin.Record) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(r.pathPrefix+rec.NPMName)).String()
}

func (r *Renderer) npmPackage(rec *plugin.Record) string {
	if r.npmScope == "" {
		return rec.NPMName
	}
	return r.npmScope + "/" + rec.NPMName
}

func (r *Renderer) installCommands(rec *plugin.Record) []string {
	var cmds []string
	switch {
	case rec.Installation != "":
		cmds = append(cmds, rec.Installation)
	case rec.CordovaName != "":
		cmds = append(cmds, "ionic cordova plugin add "+rec.CordovaName)
	}
	return append(cmds, "npm install "+r.npmPackage(rec))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

var funcs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"cell": func(s string) string {
		s = strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
		return strings.Join(strings.Fields(s), " ")
	},
	"typeString": func(t *typedoc.Type) string { return t.String() },
	"shortText": func(n *typedoc.Node) string {
		if n == nil || n.Comment == nil {
			return ""
		}
		return strings.TrimSpace(n.Comment.ShortText)
	},
	"signature": func(m plugin.Member) string {
		if m.Returns == nil {
			return m.Name
		}
		names := make([]string, 0, len(m.Params))
		for _, p := range m.Params {
			if p.Optional {
				names = append(names, p.Name+"?")
				continue
			}
			names = append(names, p.Name)
		}
		return m.Name + "(" + strings.Join(names, ", ") + ")"
	},
	"returnType": func(r *plugin.Returns) string {
		if r.Type == nil {
			return r.Name
		}
		return r.Name + "<" + *r.Type + ">"
	},
}
