package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/plugindocs/internal/frontmatter"
	"git.home.luguber.info/inful/plugindocs/internal/markdown"
	"git.home.luguber.info/inful/plugindocs/internal/plugin"
	"git.home.luguber.info/inful/plugindocs/internal/typedoc"
)

func strPtr(s string) *string { return &s }

func cameraRecord() *plugin.Record {
	return &plugin.Record{
		Name:        "Camera",
		PrettyName:  "Camera",
		Description: "Take a photo or capture video.\nMore details.",
		Repo:        "https://github.com/apache/cordova-plugin-camera",
		NPMName:     "camera",
		CordovaName: "cordova-plugin-camera",
		Platforms:   []string{"Android", "iOS"},
		Usage:       strPtr("```typescript\nthis.camera.getPicture(options)\n```"),
		Members: []plugin.Member{
			{
				Name:        "getPicture",
				Kind:        "Method",
				Description: "Take a picture.",
				Returns:     &plugin.Returns{Name: "Promise", Type: strPtr("any"), Description: strPtr("Resolves with the image")},
				Params: []plugin.Param{
					{Name: "options", Type: "CameraOptions", Description: strPtr("See CameraOptions table below"), Optional: true},
				},
			},
			{Name: "DestinationType", Kind: "Property", Description: "Destination | types"},
		},
		Interfaces: []*typedoc.Node{{
			Name:       "CameraOptions",
			KindString: typedoc.KindInterface,
			Comment:    &typedoc.Comment{ShortText: "Options for getPicture."},
			Children: []*typedoc.Node{{
				Name:    "quality",
				Flags:   typedoc.Flags{IsOptional: true},
				Comment: &typedoc.Comment{ShortText: "Picture quality\nin range 0-100."},
				Type:    &typedoc.Type{Type: typedoc.TypeIntrinsic, Name: "number"},
			}},
		}},
	}
}

func TestRender_Page(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	out, err := r.Render(cameraRecord(), "2026-10-15")
	require.NoError(t, err)

	fm, body, had, err := frontmatter.Split(out)
	require.NoError(t, err)
	require.True(t, had)

	fields, err := frontmatter.Parse(fm)
	require.NoError(t, err)
	assert.Equal(t, "Camera", fields[FieldTitle])
	assert.Equal(t, "Take a photo or capture video.", fields[FieldDescription])
	assert.Equal(t, "@ionic-native/camera", fields[FieldNPM])
	assert.Equal(t, "cordova-plugin-camera", fields[FieldCordova])
	assert.Equal(t, []any{"Android", "iOS"}, fields[FieldPlatforms])
	assert.Contains(t, string(fm), "lastmod: ")
	assert.Contains(t, string(fm), "2026-10-15")
	assert.Equal(t, r.UID(cameraRecord()), fields[FieldUID])
	assert.NotEmpty(t, fields[FieldFingerprint])

	s := string(body)
	assert.Contains(t, s, "# Camera\n")
	assert.Contains(t, s, "ionic cordova plugin add cordova-plugin-camera\nnpm install @ionic-native/camera\n")
	assert.Contains(t, s, "- Android\n- iOS\n")
	assert.Contains(t, s, "this.camera.getPicture(options)")
	assert.Contains(t, s, "| options | `CameraOptions` | See CameraOptions table below Optional |")
	assert.Contains(t, s, "**Returns:** `Promise<any>` Resolves with the image")
	assert.Contains(t, s, "Destination | types")
	assert.Contains(t, s, "| quality | `number` | Picture quality in range 0-100. Optional |")

	var headings []string
	for _, h := range markdown.Headings(body) {
		headings = append(headings, h.Text)
	}
	assert.Equal(t, []string{
		"Camera", "Installation", "Supported Platforms", "Usage",
		"Members", "getPicture(options?)", "DestinationType",
		"Interfaces", "CameraOptions",
	}, headings)
	assert.Empty(t, markdown.UnresolvedReferences(body))
}

func TestRender_MinimalRecord(t *testing.T) {
	r, err := New(WithNPMScope(""))
	require.NoError(t, err)
	rec := &plugin.Record{Name: "Foo", PrettyName: "Foo", Description: "Does foo", NPMName: "foo", Installation: "ionic cordova plugin add foo --variable KEY=\"x\""}

	out, err := r.Render(rec, "2026-01-01")
	require.NoError(t, err)
	_, body, _, err := frontmatter.Split(out)
	require.NoError(t, err)

	s := string(body)
	assert.Contains(t, s, "ionic cordova plugin add foo --variable KEY=\"x\"\nnpm install foo\n")
	assert.NotContains(t, s, "## Supported Platforms")
	assert.NotContains(t, s, "## Usage")
	assert.NotContains(t, s, "## Members")
	assert.NotContains(t, s, "## Interfaces")
	assert.NotContains(t, s, "Repo:")
}

func TestRenderer_UIDIsStable(t *testing.T) {
	a, err := New(WithPathPrefix("/docs/native/"))
	require.NoError(t, err)
	b, err := New(WithPathPrefix("/docs/other/"))
	require.NoError(t, err)
	rec := cameraRecord()
	assert.Equal(t, a.UID(rec), a.UID(cameraRecord()))
	assert.NotEqual(t, a.UID(rec), b.UID(rec))
}

func TestFingerprint_IgnoresLastmod(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	page, err := r.Page(cameraRecord())
	require.NoError(t, err)

	withDate := page.Fields.Set(FieldLastmod, "2020-01-01")
	fp, err := Fingerprint(withDate, page.Body)
	require.NoError(t, err)
	assert.Equal(t, page.Fingerprint, fp)

	other := cameraRecord()
	other.Description = "Changed"
	changed, err := r.Page(other)
	require.NoError(t, err)
	assert.NotEqual(t, page.Fingerprint, changed.Fingerprint)
}

func TestWriter_SkipsUnchangedPages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs", "native")
	r, err := New()
	require.NoError(t, err)
	w := NewWriter(dir, r)
	w.now = func() time.Time { return time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC) }

	res, err := w.Write(cameraRecord())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, filepath.Join(dir, "camera.md"), res.Path)

	first, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Contains(t, string(first), "2026-01-02")

	w.now = func() time.Time { return time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC) }
	res, err = w.Write(cameraRecord())
	require.NoError(t, err)
	assert.False(t, res.Changed)
	second, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rec := cameraRecord()
	rec.Platforms = append(rec.Platforms, "Browser")
	res, err = w.Write(rec)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	third, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(third), "2026-03-04"))
}

func TestWriter_OverwritesForeignFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "camera.md"), []byte("hand written\n"), 0o644))
	r, err := New()
	require.NoError(t, err)

	res, err := NewWriter(dir, r).Write(cameraRecord())
	require.NoError(t, err)
	assert.True(t, res.Changed)
}
