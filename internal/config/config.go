// Package config loads wnexport settings from defaults, YAML files and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	wnerrors "github.com/Aman-CERP/wnexport/internal/errors"
	"github.com/Aman-CERP/wnexport/internal/export"
	"github.com/Aman-CERP/wnexport/internal/wordnet"
)

// ProjectConfigName is the per-directory configuration file.
const ProjectConfigName = ".wnexport.yaml"

// Config holds all wnexport settings.
type Config struct {
	Version     int               `yaml:"version" json:"version"`
	Filter      FilterConfig      `yaml:"filter" json:"filter"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Postgres    PostgresConfig    `yaml:"postgres" json:"postgres"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
	Log         LogConfig         `yaml:"log" json:"log"`
}

// FilterConfig controls which words are kept.
type FilterConfig struct {
	MinChars       int   `yaml:"min_chars" json:"min_chars"`
	MaxChars       int   `yaml:"max_chars" json:"max_chars"`
	CharCounts     []int `yaml:"char_counts,omitempty" json:"char_counts,omitempty"`
	KeepNumbers    bool  `yaml:"keep_numbers" json:"keep_numbers"`
	WholeWordsOnly bool  `yaml:"whole_words_only" json:"whole_words_only"`
}

// OutputConfig selects where and how the dictionary is written.
type OutputConfig struct {
	// Directory defaults to the working directory when empty.
	Directory string `yaml:"directory" json:"directory"`
	Mode      string `yaml:"mode" json:"mode"`
	Force     bool   `yaml:"force" json:"force"`
}

// PostgresConfig is used by the postgres output mode.
type PostgresConfig struct {
	DSN string `yaml:"dsn" json:"dsn"`
}

// PerformanceConfig tunes aggregation.
type PerformanceConfig struct {
	Workers int    `yaml:"workers" json:"workers"`
	KeyMode string `yaml:"key_mode" json:"key_mode"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Level     string `yaml:"level" json:"level"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Filter: FilterConfig{
			MinChars: wordnet.DefaultMinChars,
			MaxChars: wordnet.DefaultMaxChars,
		},
		Output: OutputConfig{
			Mode: string(export.ModeDatabase),
		},
		Performance: PerformanceConfig{
			Workers: min(runtime.NumCPU(), 4), // WordNet ships four pairs
			KeyMode: string(wordnet.KeyScoped),
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// Policy converts the filter section into a wordnet.Policy.
func (c *Config) Policy() wordnet.Policy {
	return wordnet.Policy{
		MinChars:       c.Filter.MinChars,
		MaxChars:       c.Filter.MaxChars,
		AllowedLengths: append([]int(nil), c.Filter.CharCounts...),
		KeepNumbers:    c.Filter.KeepNumbers,
		WholeWordsOnly: c.Filter.WholeWordsOnly,
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/wnexport/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/wnexport/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wnexport", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "wnexport", "config.yaml")
	}
	return filepath.Join(home, ".config", "wnexport", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// keySet records the dotted keys ("filter.min_chars") a config file sets.
type keySet map[string]bool

// layer is one parsed config file.
type layer struct {
	cfg  Config
	keys keySet
}

// loadUserLayer loads the user configuration file.
// Returns nil and nil error if the file doesn't exist.
func loadUserLayer() (*layer, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}
	l, err := loadLayer(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", configPath, err)
	}
	return l, nil
}

// loadProjectLayer loads dir/.wnexport.yaml (or .yml).
// Returns nil and nil error if neither exists.
func loadProjectLayer(dir string) (*layer, string, error) {
	for _, name := range []string{ProjectConfigName, ".wnexport.yml"} {
		path := filepath.Join(dir, name)
		if !fileExists(path) {
			continue
		}
		l, err := loadLayer(path)
		return l, path, err
	}
	return nil, "", nil
}

// Load loads configuration for a run started in dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/wnexport/config.yaml)
//  3. Project config (.wnexport.yaml in dir)
//  4. Environment variables (WNEXPORT_*)
//
// The result is not validated: command-line flags are applied by the
// caller, which must call Validate afterwards.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userLayer, err := loadUserLayer()
	if err != nil {
		return nil, wnerrors.ConfigError("failed to load user config", err)
	}
	if userLayer != nil {
		cfg.mergeWith(userLayer)
	}

	projLayer, path, err := loadProjectLayer(dir)
	if err != nil {
		return nil, wnerrors.ConfigError(fmt.Sprintf("failed to load project config %s", path), err)
	}
	if projLayer != nil {
		cfg.mergeWith(projLayer)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile returns the defaults with the single file at path applied.
func LoadFile(path string) (*Config, error) {
	l, err := loadLayer(path)
	if err != nil {
		return nil, wnerrors.ConfigError(fmt.Sprintf("failed to load config %s", path), err)
	}
	cfg := NewConfig()
	cfg.mergeWith(l)
	return cfg, nil
}

// loadLayer decodes path strictly and records which keys it sets.
func loadLayer(path string) (*layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	l := &layer{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l.cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	l.keys = collectKeys(&doc)
	return l, nil
}

// collectKeys lists top-level keys and the keys of each section.
func collectKeys(doc *yaml.Node) keySet {
	keys := keySet{}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return keys
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return keys
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		section, val := root.Content[i].Value, root.Content[i+1]
		keys[section] = true
		if val.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(val.Content); j += 2 {
			keys[section+"."+val.Content[j].Value] = true
		}
	}
	return keys
}

// useLengthStyle makes a layer that sets only one length style replace the
// other style inherited from lower layers. A layer setting both keeps both,
// so Validate reports the conflict.
func (f *FilterConfig) useLengthStyle(bounds, counts bool) {
	switch {
	case bounds && !counts:
		f.CharCounts = nil
	case counts && !bounds:
		f.MinChars = wordnet.DefaultMinChars
		f.MaxChars = wordnet.DefaultMaxChars
	}
}

// mergeWith applies every key the layer sets, zero values included.
func (c *Config) mergeWith(l *layer) {
	k, o := l.keys, &l.cfg

	if k["version"] {
		c.Version = o.Version
	}

	c.Filter.useLengthStyle(k["filter.min_chars"] || k["filter.max_chars"], k["filter.char_counts"])
	if k["filter.min_chars"] {
		c.Filter.MinChars = o.Filter.MinChars
	}
	if k["filter.max_chars"] {
		c.Filter.MaxChars = o.Filter.MaxChars
	}
	if k["filter.char_counts"] {
		c.Filter.CharCounts = append([]int(nil), o.Filter.CharCounts...)
	}
	if k["filter.keep_numbers"] {
		c.Filter.KeepNumbers = o.Filter.KeepNumbers
	}
	if k["filter.whole_words_only"] {
		c.Filter.WholeWordsOnly = o.Filter.WholeWordsOnly
	}

	if k["output.directory"] {
		c.Output.Directory = o.Output.Directory
	}
	if k["output.mode"] {
		c.Output.Mode = o.Output.Mode
	}
	if k["output.force"] {
		c.Output.Force = o.Output.Force
	}

	if k["postgres.dsn"] {
		c.Postgres.DSN = o.Postgres.DSN
	}

	if k["performance.workers"] {
		c.Performance.Workers = o.Performance.Workers
	}
	if k["performance.key_mode"] {
		c.Performance.KeyMode = o.Performance.KeyMode
	}

	if k["log.level"] {
		c.Log.Level = o.Log.Level
	}
	if k["log.max_size_mb"] {
		c.Log.MaxSizeMB = o.Log.MaxSizeMB
	}
	if k["log.max_files"] {
		c.Log.MaxFiles = o.Log.MaxFiles
	}
}

// applyEnvOverrides applies WNEXPORT_* environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	boundsSet := false
	ints := []struct {
		name  string
		dst   *int
		bound bool
	}{
		{"WNEXPORT_MIN_CHARS", &c.Filter.MinChars, true},
		{"WNEXPORT_MAX_CHARS", &c.Filter.MaxChars, true},
		{"WNEXPORT_WORKERS", &c.Performance.Workers, false},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return wnerrors.ConfigError(fmt.Sprintf("%s must be an integer, got %q", e.name, v), err)
		}
		*e.dst = n
		boundsSet = boundsSet || e.bound
	}

	countsSet := false
	if v := os.Getenv("WNEXPORT_CHAR_COUNTS"); v != "" {
		counts, err := ParseCharCounts(v)
		if err != nil {
			return wnerrors.ConfigError("WNEXPORT_CHAR_COUNTS: "+err.Error(), err)
		}
		c.Filter.CharCounts = counts
		countsSet = true
	}
	c.Filter.useLengthStyle(boundsSet, countsSet)

	bools := []struct {
		name string
		dst  *bool
	}{
		{"WNEXPORT_KEEP_NUMBERS", &c.Filter.KeepNumbers},
		{"WNEXPORT_WHOLE_WORDS_ONLY", &c.Filter.WholeWordsOnly},
		{"WNEXPORT_FORCE", &c.Output.Force},
	}
	for _, e := range bools {
		if v := os.Getenv(e.name); v != "" {
			*e.dst = strings.ToLower(v) == "true" || v == "1"
		}
	}

	if v := os.Getenv("WNEXPORT_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("WNEXPORT_MODE"); v != "" {
		c.Output.Mode = v
	}
	if v := os.Getenv("WNEXPORT_POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("WNEXPORT_KEY_MODE"); v != "" {
		c.Performance.KeyMode = v
	}
	if v := os.Getenv("WNEXPORT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// ParseCharCounts parses a comma separated list such as "3,4,5".
func ParseCharCounts(s string) ([]int, error) {
	var counts []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid character count %q", part)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if err := c.Policy().Validate(); err != nil {
		return wnerrors.New(wnerrors.ErrCodeFilterConflict, err.Error(), err)
	}

	mode, err := export.ParseMode(c.Output.Mode)
	if err != nil {
		return err
	}
	if mode == export.ModePostgres && c.Postgres.DSN == "" {
		return wnerrors.ConfigError("output.mode postgres requires postgres.dsn", nil).
			WithSuggestion("Pass --dsn or set WNEXPORT_POSTGRES_DSN")
	}

	if _, err := wordnet.ParseKeyMode(c.Performance.KeyMode); err != nil {
		return wnerrors.ConfigError("performance."+err.Error(), err)
	}
	if c.Performance.Workers < 0 {
		return wnerrors.ConfigError(fmt.Sprintf("performance.workers must be non-negative, got %d", c.Performance.Workers), nil)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return wnerrors.ConfigError(fmt.Sprintf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level), nil)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxFiles < 0 {
		return wnerrors.ConfigError("log.max_size_mb and log.max_files must be non-negative", nil)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
