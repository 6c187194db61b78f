package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/advent-new/internal/model"
)

// writeManifest creates a Cargo.toml with the given content in a temp dir.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ManifestFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// readMembers parses the manifest at path and returns workspace.members.
func readMembers(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := ParseDocument(data)
	require.NoError(t, err)
	members, err := doc.Members()
	require.NoError(t, err)
	return members
}

// TestAddMember covers insertion, ordering and deduplication.
func TestAddMember(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		add     string
		want    []string
	}{
		{"empty list", nil, "a", []string{"a"}},
		{"inserts sorted", []string{"a", "c"}, "b", []string{"a", "b", "c"}},
		{"already present", []string{"a", "b"}, "a", []string{"a", "b"}},
		{"dedupes existing", []string{"b", "a", "b"}, "c", []string{"a", "b", "c"}},
		{"lexicographic not numeric", []string{"two", "one"}, "twelve", []string{"one", "twelve", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMember(tt.members, tt.add))
		})
	}
}

// TestAddMember_DoesNotModifyInput guards the caller's slice.
func TestAddMember_DoesNotModifyInput(t *testing.T) {
	in := []string{"c", "a"}
	_ = AddMember(in, "b")
	assert.Equal(t, []string{"c", "a"}, in)
}

// TestRegister_SortedRoundTrip registers b, a, c into an empty list.
func TestRegister_SortedRoundTrip(t *testing.T) {
	path := writeManifest(t, "[workspace]\nmembers = []\n")

	for _, name := range []string{"b", "a", "c"} {
		_, err := Register(path, name)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "b", "c"}, readMembers(t, path))
}

// TestRegister_Idempotent verifies that a second registration of the same
// name leaves the list unchanged.
func TestRegister_Idempotent(t *testing.T) {
	path := writeManifest(t, "[workspace]\nmembers = [\"a\", \"twelve\"]\n")

	reg, err := Register(path, "twelve")
	require.NoError(t, err)
	assert.False(t, reg.Added)
	assert.Equal(t, []string{"a", "twelve"}, reg.Members)
	assert.Equal(t, []string{"a", "twelve"}, readMembers(t, path))
}

// TestRegister_DedupesExistingDuplicates checks that duplicates already in
// the file are collapsed on rewrite.
func TestRegister_DedupesExistingDuplicates(t *testing.T) {
	path := writeManifest(t, "[workspace]\nmembers = [\"b\", \"a\", \"b\"]\n")

	reg, err := Register(path, "c")
	require.NoError(t, err)
	assert.True(t, reg.Added)
	assert.Equal(t, []string{"a", "b", "c"}, readMembers(t, path))
}

// TestRegister_PreservesOtherKeys ensures sibling keys and tables keep
// their values after the rewrite.
func TestRegister_PreservesOtherKeys(t *testing.T) {
	original := `# workspace comment
[workspace]
members = ["advent", "one"]
resolver = "2"

[workspace.dependencies]
combine = "4"

[profile.release]
lto = true
opt-level = 3
codegen-units = 1

[[bin]]
name = "runner"
path = "runner/main.rs"
`
	path := writeManifest(t, original)

	_, err := Register(path, "two")
	require.NoError(t, err)

	var before, after map[string]any
	require.NoError(t, toml.Unmarshal([]byte(original), &before))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, toml.Unmarshal(data, &after))

	// Align the one key we changed, then the documents must match exactly.
	beforeWS, ok := before["workspace"].(map[string]any)
	require.True(t, ok)
	beforeWS["members"] = []any{"advent", "one", "two"}

	assert.Equal(t, before, after)
}

// TestRegister_MultilineMembers checks the pretty serialization.
func TestRegister_MultilineMembers(t *testing.T) {
	path := writeManifest(t, "[workspace]\nmembers = [\"a\"]\n")

	_, err := Register(path, "twelve")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[workspace]")
	assert.Regexp(t, `members = \[\n\s+['"]a['"],\n\s+['"]twelve['"],\n\s*\]`, string(data))
}

// TestRegister_SchemaErrors verifies every malformed-membership case fails
// with model.ErrSchema and leaves the file untouched.
func TestRegister_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no workspace table", "[package]\nname = \"x\"\n"},
		{"no members key", "[workspace]\nresolver = \"2\"\n"},
		{"workspace not a table", "workspace = \"x\"\n"},
		{"members not an array", "[workspace]\nmembers = \"a\"\n"},
		{"members not strings", "[workspace]\nmembers = [1, 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, tt.content)

			_, err := Register(path, "twelve")
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrSchema), "error should wrap ErrSchema: %v", err)

			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, tt.content, string(data), "manifest should be unchanged")
		})
	}
}

// TestRegister_MissingFile is a plain I/O error, not a schema error.
func TestRegister_MissingFile(t *testing.T) {
	_, err := Register(filepath.Join(t.TempDir(), ManifestFile), "twelve")
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrSchema))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// TestRegister_InvalidTOML reports a parse failure without touching the file.
func TestRegister_InvalidTOML(t *testing.T) {
	path := writeManifest(t, "[workspace\nmembers = [\n")

	_, err := Register(path, "twelve")
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrSchema))
}

// TestRegister_NoTempFilesLeft checks that the atomic write cleans up.
func TestRegister_NoTempFilesLeft(t *testing.T) {
	path := writeManifest(t, "[workspace]\nmembers = []\n")

	_, err := Register(path, "a")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ManifestFile, entries[0].Name())
}

// TestDocument_LookupAndSet exercises the path accessors directly.
func TestDocument_LookupAndSet(t *testing.T) {
	doc, err := ParseDocument([]byte("[workspace]\nmembers = [\"a\"]\n[package]\nname = \"root\"\n"))
	require.NoError(t, err)

	v, ok := doc.Lookup("package", "name")
	require.True(t, ok)
	assert.Equal(t, "root", v)

	_, ok = doc.Lookup("package", "missing")
	assert.False(t, ok)

	_, ok = doc.Lookup("package", "name", "deeper")
	assert.False(t, ok, "lookup through a non-table should fail")

	require.NoError(t, doc.Set("2", "workspace", "resolver"))
	v, ok = doc.Lookup("workspace", "resolver")
	require.True(t, ok)
	assert.Equal(t, "2", v)

	err = doc.Set("x", "nope", "key")
	assert.True(t, errors.Is(err, model.ErrSchema))
}
