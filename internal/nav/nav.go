// Package nav collects the display-name to page-path mapping of a run and
// writes it as a TypeScript module.
package nav

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Map is the navigation map of one run. The zero value is not usable; call
// New.
type Map struct {
	prefix  string
	entries map[string]string
}

// New returns an empty map whose paths start with prefix.
func New(prefix string) *Map {
	return &Map{prefix: prefix, entries: map[string]string{}}
}

// Add records prettyName → prefix+npmName. It returns the path previously
// stored under prettyName, if any; the new path wins.
func (m *Map) Add(prettyName, npmName string) (previous string, replaced bool) {
	previous, replaced = m.entries[prettyName]
	m.entries[prettyName] = m.prefix + npmName
	return previous, replaced
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Get returns the path stored under prettyName.
func (m *Map) Get(prettyName string) (string, bool) {
	p, ok := m.entries[prettyName]
	return p, ok
}

// Names returns the display names in ascending order.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.entries))
	for n := range m.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Render returns "export const <exportName> = " followed by the map as
// JSON indented with two spaces. Keys are sorted.
func (m *Map) Render(exportName string) ([]byte, error) {
	if !identifier.MatchString(exportName) {
		return nil, fmt.Errorf("invalid export name %q", exportName)
	}
	var buf bytes.Buffer
	buf.WriteString("export const " + exportName + " = ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.entries); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write renders the map and replaces the file at path.
func (m *Map) Write(path, exportName string) error {
	data, err := m.Render(exportName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create nav directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write nav file: %w", err)
	}
	return nil
}
