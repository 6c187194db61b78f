package scaffold

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/advent-new/internal/model"
)

// File and directory names inside a scaffolded package.
const (
	ManifestFile   = "Cargo.toml"
	SourceDir      = "src"
	EntryPointFile = "main.rs"
)

// NamePlaceholder is the substitution point in the manifest template.
const NamePlaceholder = "<name>"

// ManifestTemplate is the package manifest written to <name>/Cargo.toml
// after NamePlaceholder is replaced.
//
//go:embed templates/Cargo.toml.tmpl
var ManifestTemplate string

// EntryPointTemplate is the solution stub written verbatim to
// <name>/src/main.rs: two placeholder parts and the harness invocation.
//
//go:embed templates/main.rs.tmpl
var EntryPointTemplate string

// Result describes the files produced by Create.
type Result struct {
	// Dir is the package directory, root/name.
	Dir string `json:"dir"`

	// ManifestPath is the rendered Cargo.toml.
	ManifestPath string `json:"manifestPath"`

	// EntryPointPath is the src/main.rs stub.
	EntryPointPath string `json:"entryPointPath"`
}

// RenderManifest returns the manifest template with every placeholder
// replaced by name.
func RenderManifest(name string) string {
	return strings.ReplaceAll(ManifestTemplate, NamePlaceholder, name)
}

// CheckAvailable returns an error wrapping model.ErrAlreadyExists if any
// filesystem entry named name exists under root. Lstat is used so that a
// dangling symlink also counts as existing.
func CheckAvailable(root, name string) error {
	dir := filepath.Join(root, name)
	if _, err := os.Lstat(dir); err == nil {
		return fmt.Errorf("%s: %w", name, model.ErrAlreadyExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", dir, err)
	}
	return nil
}

// Create lays out a new package named name under root:
//
//	<name>/
//	  Cargo.toml
//	  src/main.rs
//
// If any filesystem entry named name already exists (file, directory or
// symlink), Create returns an error wrapping model.ErrAlreadyExists and
// touches nothing. A failure after the directory is made is returned as-is;
// whatever was already written stays on disk.
func Create(root, name string) (*Result, error) {
	if err := CheckAvailable(root, name); err != nil {
		return nil, err
	}
	dir := filepath.Join(root, name)

	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	srcDir := filepath.Join(dir, SourceDir)
	if err := os.Mkdir(srcDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", srcDir, err)
	}

	res := &Result{
		Dir:            dir,
		ManifestPath:   filepath.Join(dir, ManifestFile),
		EntryPointPath: filepath.Join(srcDir, EntryPointFile),
	}

	if err := writeFile(res.ManifestPath, RenderManifest(name)); err != nil {
		return nil, err
	}
	if err := writeFile(res.EntryPointPath, EntryPointTemplate); err != nil {
		return nil, err
	}

	return res, nil
}

// writeFile writes a template file with 0644 permissions.
func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
