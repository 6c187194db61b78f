package workspace

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/shinji-kodama/advent-new/internal/model"
)

// MembersPath is the location of the membership list in the manifest.
var MembersPath = []string{"workspace", "members"}

// Document is a loosely typed TOML document. Tables decode to
// map[string]any and arrays to []any, so keys this package knows nothing
// about survive a ParseDocument/Marshal round-trip with their values intact.
type Document map[string]any

// ParseDocument decodes TOML bytes into a Document.
func ParseDocument(data []byte) (Document, error) {
	doc := Document{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse workspace manifest: %w", err)
	}
	return doc, nil
}

// Lookup walks path through nested tables and returns the value found
// at the end of it.
func (d Document) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(d)
	for _, key := range path {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = table[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at path. Every table along the path except the last
// key must already exist.
func (d Document) Set(value any, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("empty path")
	}

	table := map[string]any(d)
	for i, key := range path[:len(path)-1] {
		next, ok := table[key].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is not a table", model.ErrSchema, joinPath(path[:i+1]))
		}
		table = next
	}
	table[path[len(path)-1]] = value
	return nil
}

// Members returns workspace.members as strings, or an error wrapping
// model.ErrSchema when the path is missing or holds anything other than
// an array of strings.
func (d Document) Members() ([]string, error) {
	raw, ok := d.Lookup(MembersPath...)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", model.ErrSchema, joinPath(MembersPath))
	}

	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", model.ErrSchema, joinPath(MembersPath))
	}

	members := make([]string, 0, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is not a string", model.ErrSchema, joinPath(MembersPath), i)
		}
		members = append(members, s)
	}
	return members, nil
}

// SetMembers replaces workspace.members.
func (d Document) SetMembers(members []string) error {
	return d.Set(members, MembersPath...)
}

// Marshal encodes the document with one array element per line, the
// layout hand-edited Cargo workspaces usually have.
func (d Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetArraysMultiline(true)
	if err := enc.Encode(map[string]any(d)); err != nil {
		return nil, fmt.Errorf("failed to serialize workspace manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
