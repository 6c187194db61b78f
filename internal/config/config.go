// Package config loads advent-new settings.
//
// Precedence, highest first: ADVENT_* environment variables (a .env file
// in the working directory is loaded into the environment beforehand,
// never overriding variables that are already set), the JSONC config file,
// then built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/advent-new/internal/fetch"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. ADVENT_YEAR.
	EnvPrefix = "ADVENT"

	// FileName is the config file inside the aocd config directory.
	FileName = "config.jsonc"

	// DotEnvFile is loaded from the working directory when present.
	DotEnvFile = ".env"

	// DefaultYear is the puzzle calendar the workspace is solving.
	DefaultYear = 2021
)

// Config keys, shared by the config file and the environment.
const (
	KeyYear      = "year"
	KeyBaseURL   = "base_url"
	KeyTokenPath = "token_path"
)

// Config holds the resolved settings for a run.
type Config struct {
	// Year is the fixed puzzle year used in the input URL.
	Year int `json:"year"`

	// BaseURL is the puzzle site root.
	BaseURL string `json:"baseUrl"`

	// TokenPath is the session credential file.
	TokenPath string `json:"tokenPath"`
}

// DefaultFilePath returns $HOME/.config/aocd/config.jsonc.
func DefaultFilePath() (string, error) {
	dir, err := fetch.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load resolves the configuration. When path is empty the default config
// file is used if it exists; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(KeyYear, DefaultYear)
	v.SetDefault(KeyBaseURL, fetch.DefaultBaseURL)
	if tokenPath, err := fetch.DefaultTokenPath(); err == nil {
		v.SetDefault(KeyTokenPath, tokenPath)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultFilePath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := readJSONC(v, path, explicit); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Year:      v.GetInt(KeyYear),
		BaseURL:   strings.TrimSpace(v.GetString(KeyBaseURL)),
		TokenPath: expandHome(strings.TrimSpace(v.GetString(KeyTokenPath))),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the year and site settings. An empty TokenPath is left
// for fetch.ReadToken, which reports it as a credential error.
func (c *Config) Validate() error {
	if c.Year <= 0 {
		return fmt.Errorf("invalid %s %d", KeyYear, c.Year)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%s must not be empty", KeyBaseURL)
	}
	return nil
}

// readJSONC strips comments and trailing commas from the file at path and
// feeds the result to viper as JSON.
func readJSONC(v *viper.Viper, path string, mustExist bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !mustExist {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data))); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// loadDotEnv loads path into the process environment if it exists.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
