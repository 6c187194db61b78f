package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/advent-new/internal/model"
)

// Credential file location relative to the home directory. The layout is
// shared with other puzzle tooling, which stores the session token there.
const (
	ConfigDirName = "aocd"
	TokenFileName = "token"
)

// ConfigDir returns $HOME/.config/aocd.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", ConfigDirName), nil
}

// DefaultTokenPath returns $HOME/.config/aocd/token.
func DefaultTokenPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TokenFileName), nil
}

// ReadToken reads the session token at path, trimming surrounding
// whitespace. An empty path (no home directory) or a missing or
// unreadable file returns an error wrapping model.ErrCredential.
func ReadToken(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: no token path configured (is $HOME set?)", model.ErrCredential)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrCredential, err)
	}
	return strings.TrimSpace(string(data)), nil
}
