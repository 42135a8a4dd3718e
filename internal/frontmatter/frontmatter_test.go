package frontmatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		fm      string
		body    string
		had     bool
		wantErr error
	}{
		{name: "no frontmatter", in: "# Title\n", body: "# Title\n"},
		{name: "frontmatter", in: "---\ntitle: x\n---\n# Title\n", fm: "title: x\n", body: "# Title\n", had: true},
		{name: "empty frontmatter", in: "---\n---\nbody", fm: "", body: "body", had: true},
		{name: "crlf", in: "---\r\ntitle: x\r\n---\r\nbody\r\n", fm: "title: x\n", body: "body\n", had: true},
		{name: "unclosed", in: "---\ntitle: x\n", wantErr: ErrMissingClosingDelimiter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, had, err := Split([]byte(tt.in))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.had, had)
			assert.Equal(t, tt.fm, string(fm))
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestSerialize_KeepsOrderAndOmitsEmpty(t *testing.T) {
	out, err := Serialize(Fields{
		{Key: "title", Value: "Camera"},
		{Key: "repo", Value: ""},
		{Key: "platforms", Value: []string{"Android", "iOS"}},
		{Key: "usage", Value: nil},
		{Key: "description", Value: "Line one\nLine two"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "title: Camera\nplatforms: [Android, iOS]\ndescription: "), string(out))

	parsed, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two", parsed["description"])
	assert.NotContains(t, parsed, "repo")
	assert.NotContains(t, parsed, "usage")
}

func TestSerialize_Empty(t *testing.T) {
	out, err := Serialize(Fields{{Key: "a", Value: ""}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRoundTripThroughJoin(t *testing.T) {
	fields := Fields{{Key: "title", Value: "Toast"}, {Key: "npm", Value: "toast"}}
	fm, err := Serialize(fields)
	require.NoError(t, err)

	doc := Join(fm, []byte("# Toast\n"))
	gotFM, body, had, err := Split(doc)
	require.NoError(t, err)
	require.True(t, had)
	assert.Equal(t, "# Toast\n", string(body))

	parsed, err := Parse(gotFM)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Toast", "npm": "toast"}, parsed)
}

func TestFields(t *testing.T) {
	f := Fields{{Key: "a", Value: 1}}
	f = f.Set("b", 2)
	f = f.Set("a", 3)
	v, ok := f.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, Fields{{Key: "b", Value: 2}}, f.Without("a"))
	_, ok = f.Get("missing")
	assert.False(t, ok)
}
