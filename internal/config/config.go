// Package config loads and validates quill configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/quill/internal/model"
)

// FileName is the per-project configuration file, discovered by walking up
// from the working directory.
const FileName = ".quill.yaml"

// envTag marks scalars resolved from the environment, written as
// `!ENV NAME | fallback`.
const envTag = "!ENV"

var varPattern = regexp.MustCompile(`\$\{vars\.([A-Za-z_]\w*)\}`)

// ConfigError reports an invalid configuration. It is fatal at startup,
// before any file is touched.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// Provider configures the delegated content backend.
type Provider struct {
	// Kind selects the backend: "placeholder" or "openai".
	Kind           string `yaml:"kind"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Config mirrors the .quill.yaml schema. Zero values mean "not set"; flags
// override file values, file values override defaults.
type Config struct {
	Files           []string `yaml:"files"`
	Functions       []string `yaml:"functions"`
	IgnoreFiles     []string `yaml:"ignore_files"`
	IgnoreFunctions []string `yaml:"ignore_functions"`

	Style    string `yaml:"style"`
	Language string `yaml:"language"`

	NoSummary     bool `yaml:"no_summary"`
	ForceAll      bool `yaml:"force_all"`
	Overwrite     bool `yaml:"overwrite"`
	DryRun        bool `yaml:"dry_run"`
	FailOnNoMatch bool `yaml:"fail_on_no_match"`

	Parallel   int    `yaml:"parallel"`
	LogLevel   string `yaml:"log_level"`
	ProjectDir string `yaml:"project_dir"`

	Vars     map[string]string `yaml:"vars"`
	Provider Provider          `yaml:"provider"`
}

// Default returns the configuration used when no file and no flags set a
// value.
func Default() Config {
	return Config{
		Files:     []string{"*"},
		Functions: []string{"*"},
		Style:     string(m.DefaultStyle),
		Language:  string(m.LanguagePython),
		Parallel:  1,
		LogLevel:  "info",
		Provider: Provider{
			Kind:           "placeholder",
			APIKeyEnv:      "QUILL_API_KEY",
			TimeoutSeconds: 60,
		},
	}
}

// Load reads and decodes a configuration file. `!ENV NAME | fallback`
// scalars are resolved from the environment before decoding and
// `${vars.X}` references are expanded from the file's own vars map.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own flag or discovery
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(data, path)
}

// Parse decodes configuration bytes. The name is used in error messages
// only.
func Parse(data []byte, name string) (Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Config{}, &ConfigError{Reason: fmt.Sprintf("parse %s: %v", name, err)}
	}

	resolveEnvTags(&root)

	cfg := Config{}
	if root.Kind != 0 {
		if err := root.Decode(&cfg); err != nil {
			return Config{}, &ConfigError{Reason: fmt.Sprintf("decode %s: %v", name, err)}
		}
	}

	cfg.expandVars()

	return cfg, nil
}

// Find walks up from start looking for FileName. It returns the loaded
// configuration and the path it came from, or an empty path and zero
// configuration when no file exists between start and the filesystem root.
func Find(start string) (Config, string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Config{}, "", err
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			cfg, err := Load(candidate)
			if err != nil {
				return Config{}, candidate, err
			}

			return cfg, candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Config{}, "", nil
		}

		dir = parent
	}
}

// Merge overlays non-zero values of other onto c and returns the result.
// Slices and maps replace wholesale, matching how a config file overrides
// defaults.
func (c Config) Merge(other Config) Config {
	merged := c

	if len(other.Files) > 0 {
		merged.Files = other.Files
	}

	if len(other.Functions) > 0 {
		merged.Functions = other.Functions
	}

	if len(other.IgnoreFiles) > 0 {
		merged.IgnoreFiles = other.IgnoreFiles
	}

	if len(other.IgnoreFunctions) > 0 {
		merged.IgnoreFunctions = other.IgnoreFunctions
	}

	if other.Style != "" {
		merged.Style = other.Style
	}

	if other.Language != "" {
		merged.Language = other.Language
	}

	if other.LogLevel != "" {
		merged.LogLevel = other.LogLevel
	}

	if other.ProjectDir != "" {
		merged.ProjectDir = other.ProjectDir
	}

	if other.Parallel != 0 {
		merged.Parallel = other.Parallel
	}

	merged.NoSummary = merged.NoSummary || other.NoSummary
	merged.ForceAll = merged.ForceAll || other.ForceAll
	merged.Overwrite = merged.Overwrite || other.Overwrite
	merged.DryRun = merged.DryRun || other.DryRun
	merged.FailOnNoMatch = merged.FailOnNoMatch || other.FailOnNoMatch

	if len(other.Vars) > 0 {
		merged.Vars = other.Vars
	}

	if other.Provider.Kind != "" {
		merged.Provider.Kind = other.Provider.Kind
	}

	if other.Provider.BaseURL != "" {
		merged.Provider.BaseURL = other.Provider.BaseURL
	}

	if other.Provider.Model != "" {
		merged.Provider.Model = other.Provider.Model
	}

	if other.Provider.APIKeyEnv != "" {
		merged.Provider.APIKeyEnv = other.Provider.APIKeyEnv
	}

	if other.Provider.TimeoutSeconds != 0 {
		merged.Provider.TimeoutSeconds = other.Provider.TimeoutSeconds
	}

	return merged
}

// Validate checks cross-field consistency. All violations are
// ConfigError, reported before any file is touched.
func (c Config) Validate() error {
	style, err := m.ParseStyle(c.Style)
	if err != nil {
		return &ConfigError{Reason: err.Error()}
	}

	language, err := m.ParseLanguage(c.Language)
	if err != nil {
		return &ConfigError{Reason: err.Error()}
	}

	if style.Language() != language {
		return &ConfigError{Reason: fmt.Sprintf("style %q does not apply to language %q", style, language)}
	}

	if len(c.Files) == 0 {
		return &ConfigError{Reason: "at least one file pattern is required"}
	}

	for _, pattern := range append(append([]string{}, c.Files...), c.IgnoreFiles...) {
		if strings.TrimSpace(pattern) == "" {
			return &ConfigError{Reason: "empty file pattern"}
		}
	}

	for _, pattern := range append(append([]string{}, c.Functions...), c.IgnoreFunctions...) {
		if strings.TrimSpace(pattern) == "" {
			return &ConfigError{Reason: "empty function pattern"}
		}
	}

	if c.Parallel < 0 {
		return &ConfigError{Reason: "parallel must not be negative"}
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warning", "warn", "error":
	default:
		return &ConfigError{Reason: fmt.Sprintf("unknown log level %q", c.LogLevel)}
	}

	switch c.Provider.Kind {
	case "", "placeholder", "openai":
	default:
		return &ConfigError{Reason: fmt.Sprintf("unknown provider kind %q", c.Provider.Kind)}
	}

	return nil
}

// resolveEnvTags replaces `!ENV NAME | fallback` scalars in the decoded
// node tree with the environment value, or the fallback when unset.
func resolveEnvTags(node *yaml.Node) {
	if node.Kind == yaml.ScalarNode && node.Tag == envTag {
		name, fallback := splitEnvExpr(node.Value)
		if value, ok := os.LookupEnv(name); ok {
			node.Value = value
		} else {
			node.Value = fallback
		}

		node.Tag = "!!str"

		return
	}

	for _, child := range node.Content {
		resolveEnvTags(child)
	}
}

// splitEnvExpr splits "NAME | fallback" into its parts. The fallback is
// empty when omitted.
func splitEnvExpr(expr string) (string, string) {
	name, fallback, found := strings.Cut(expr, "|")
	if !found {
		return strings.TrimSpace(expr), ""
	}

	return strings.TrimSpace(name), strings.TrimSpace(fallback)
}

// expandVars substitutes ${vars.X} references in every string-valued field
// from the config's own vars map. Unknown references are left as written.
func (c *Config) expandVars() {
	if len(c.Vars) == 0 {
		return
	}

	expandSlice(c.Files, c.Vars)
	expandSlice(c.Functions, c.Vars)
	expandSlice(c.IgnoreFiles, c.Vars)
	expandSlice(c.IgnoreFunctions, c.Vars)

	c.Style = expand(c.Style, c.Vars)
	c.Language = expand(c.Language, c.Vars)
	c.LogLevel = expand(c.LogLevel, c.Vars)
	c.ProjectDir = expand(c.ProjectDir, c.Vars)

	c.Provider.BaseURL = expand(c.Provider.BaseURL, c.Vars)
	c.Provider.Model = expand(c.Provider.Model, c.Vars)
	c.Provider.APIKeyEnv = expand(c.Provider.APIKeyEnv, c.Vars)
}

func expandSlice(values []string, vars map[string]string) {
	for i, value := range values {
		values[i] = expand(value, vars)
	}
}

func expand(value string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(value, func(match string) string {
		key := varPattern.FindStringSubmatch(match)[1]
		if replacement, ok := vars[key]; ok {
			return replacement
		}

		return match
	})
}
