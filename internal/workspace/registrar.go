package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ManifestFile is the workspace manifest name in the working directory.
const ManifestFile = "Cargo.toml"

// Registration reports the outcome of Register.
type Registration struct {
	// Members is the membership list as written, sorted and deduplicated.
	Members []string `json:"members"`

	// Added is false when the name was already a member.
	Added bool `json:"added"`
}

// AddMember returns members with name inserted, deduplicated and sorted
// in ascending lexicographic order. The input slice is not modified.
func AddMember(members []string, name string) []string {
	out := make([]string, 0, len(members)+1)
	out = append(out, members...)
	out = append(out, name)
	slices.Sort(out)
	return slices.Compact(out)
}

// Register adds name to workspace.members of the manifest at path and
// rewrites the file.
//
// Every other key in the document keeps its value, although formatting
// and comments are not preserved. A manifest without workspace.members
// fails with an error wrapping model.ErrSchema and is left untouched.
//
// There is no locking: two concurrent runs against the same manifest race
// and the last writer wins.
func Register(path, name string) (*Registration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace manifest %s: %w", path, err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	members, err := doc.Members()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	updated := AddMember(members, name)
	if err := doc.SetMembers(updated); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(path, out); err != nil {
		return nil, err
	}

	return &Registration{
		Members: updated,
		Added:   !slices.Contains(members, name),
	}, nil
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory and a rename, keeping the original file mode.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
