// Package config discovers and loads flir.toml files and the language
// server's tuning settings.
//
// A project config looks like:
//
//	[lint]
//	select = ["any_is_na", "SUSP"]
//	ignore = ["true_false_symbol"]
//	exclude = ["renv/**", "tests/testthat/_snaps/**"]
//
//	[lint.rules.browser]
//	calls = ["browser", "debugonce"]
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/flir-lint/flir/internal/rules"
)

// Config file names, in lookup order within a directory.
const (
	FileName       = "flir.toml"
	HiddenFileName = ".flir.toml"
)

// LintConfig is the [lint] table.
type LintConfig struct {
	Select  []string `koanf:"select"`
	Ignore  []string `koanf:"ignore"`
	Exclude []string `koanf:"exclude"`

	// Rules holds per-rule option tables keyed by rule code.
	Rules map[string]map[string]any `koanf:"rules"`

	// SelectSet is true when select was present, even if empty.
	SelectSet bool `koanf:"-"`
}

// Config is a loaded project configuration.
type Config struct {
	Lint LintConfig `koanf:"lint"`

	// Path is the file the config was read from; empty for defaults.
	Path string `koanf:"-"`
}

// Default returns the configuration used when no flir.toml is found.
func Default() *Config {
	return &Config{}
}

// Discover walks up from dir looking for a config file and returns its
// path, or "" when none exists up to the filesystem root.
func Discover(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range []string{FileName, HiddenFileName} {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads the config at path (which may be empty for defaults) and then
// applies overrides, a flat map keyed like "lint.select".
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("apply overrides: %w", err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.Path = path
	cfg.Lint.SelectSet = k.Exists("lint.select")
	return cfg, nil
}

// LoadForFile discovers the config governing filePath and loads it.
// An empty filePath (unsaved buffer) yields the defaults plus overrides.
func LoadForFile(filePath string, overrides map[string]any) (*Config, error) {
	path := ""
	if filePath != "" {
		path = Discover(filepath.Dir(filePath))
	}
	return Load(path, overrides)
}

// Root returns the directory exclude patterns are relative to.
func (c *Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Excluded reports whether filePath matches one of the exclude globs.
// Files outside the config root are never excluded.
func (c *Config) Excluded(filePath string) bool {
	if len(c.Lint.Exclude) == 0 || filePath == "" {
		return false
	}
	rel := filePath
	if root := c.Root(); root != "" {
		abs, err := filepath.Abs(filePath)
		if err != nil {
			return false
		}
		rel, err = filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return false
		}
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Lint.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Selection converts the [lint] table into a rule selection.
func (c *Config) Selection() rules.Selection {
	return rules.Selection{
		Select:    c.Lint.Select,
		SelectSet: c.Lint.SelectSet,
		Ignore:    c.Lint.Ignore,
	}
}

// RuleOptions returns the raw [lint.rules.<code>] table, or nil.
func (c *Config) RuleOptions(code string) map[string]any {
	return c.Lint.Rules[code]
}
