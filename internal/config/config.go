package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// EntriesFile is the entries document file name, relative to the base directory
	// unless absolute.
	EntriesFile string `json:"entries_file,omitempty"`

	// EntryMaxChars is the maximum character count for entry content.
	EntryMaxChars int `json:"entry_max_chars,omitempty"`

	// DefaultEmotion is the emotion reported before the user has picked one.
	DefaultEmotion string `json:"default_emotion,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// AllowedPaths lists extra absolute directories export/import may use
	// besides <base>/exports. Relative entries are ignored.
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// WebOrigins lists browser origins allowed to call the viewer's /api routes.
	WebOrigins []string `json:"web_origins,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		EntriesFile:    "entries.json",
		EntryMaxChars:  20000,
		DefaultEmotion: "happy",
		LogLevel:       "info",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.spark.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// EntriesPath resolves EntriesFile against baseDir.
func (c *Config) EntriesPath(baseDir string) string {
	name := c.EntriesFile
	if name == "" {
		name = DefaultConfig().EntriesFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(baseDir, name)
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.EntriesFile = firstNonEmpty(overlay.EntriesFile, base.EntriesFile)
	result.DefaultEmotion = firstNonEmpty(overlay.DefaultEmotion, base.DefaultEmotion)
	result.LogLevel = firstNonEmpty(overlay.LogLevel, base.LogLevel)

	result.EntryMaxChars = overlay.EntryMaxChars
	if result.EntryMaxChars == 0 {
		result.EntryMaxChars = base.EntryMaxChars
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.WebOrigins = mergeStringSlice(base.WebOrigins, overlay.WebOrigins)

	return result
}

// ApplyEnv overlays SPARK_* environment variables onto cfg.
// lookup is os.LookupEnv outside tests.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) *Config {
	overlay := &Config{}
	if v, ok := lookup("SPARK_ENTRIES_FILE"); ok {
		overlay.EntriesFile = strings.TrimSpace(v)
	}
	if v, ok := lookup("SPARK_LOG_LEVEL"); ok {
		overlay.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup("SPARK_DEFAULT_EMOTION"); ok {
		overlay.DefaultEmotion = strings.TrimSpace(v)
	}
	return Merge(cfg, overlay)
}

// BaseDir returns SPARK_HOME if set, else ~/.spark.
func BaseDir(lookup func(string) (string, bool)) (string, error) {
	if v, ok := lookup("SPARK_HOME"); ok && strings.TrimSpace(v) != "" {
		return filepath.Abs(strings.TrimSpace(v))
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".spark"), nil
}

// ExportsDir is the default directory for export and import files.
func ExportsDir(baseDir string) string {
	return filepath.Join(baseDir, "exports")
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
