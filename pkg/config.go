package dupehash

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents an INI configuration file
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Default hash algorithm
}

// ScanConfig represents traversal configuration
type ScanConfig struct {
	Recursive      bool
	ExcludeDots    bool
	FollowSymlinks bool
	Filter         string // file name regex
	IgnoreFile     string
	MinSize        string
	MaxSize        string
}

// PerformanceConfig represents performance-related configuration
type PerformanceConfig struct {
	HashWorkers int    // Number of concurrent hash workers (0 = number of CPUs)
	HashBuffer  string // Hash buffer size for interruptible hashing (default: "2M")
	FailFast    bool
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// OutputConfig represents output format configuration
type OutputConfig struct {
	Format    string // human, json, fdupes
	Separator string
	ShowSize  bool
	ShowTotal bool
	ShowTime  bool
}

// iniKey names a key inside a section
type iniKey struct {
	section string
	key     string
}

// overrideKeys maps the short names accepted by ApplyOverrides to ini keys
var overrideKeys = map[string]iniKey{
	"default":         {"filehash", "default"},
	"algorithm":       {"filehash", "default"},
	"recursive":       {"scan", "recursive"},
	"exclude_dots":    {"scan", "exclude_dots"},
	"follow_symlinks": {"scan", "follow_symlinks"},
	"filter":          {"scan", "filter"},
	"ignore_file":     {"scan", "ignore_file"},
	"min_size":        {"scan", "min_size"},
	"max_size":        {"scan", "max_size"},
	"hash_workers":    {"performance", "hash_workers"},
	"hash_buffer":     {"performance", "hash_buffer"},
	"fail_fast":       {"performance", "fail_fast"},
	"level":           {"verbose", "level"},
	"debug":           {"verbose", "debug"},
	"format":          {"output", "format"},
	"separator":       {"output", "separator"},
	"show_size":       {"output", "show_size"},
	"show_total":      {"output", "show_total"},
	"show_time":       {"output", "show_time"},
}

// LoadConfig loads an INI configuration file. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{configPath: configPath}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile
	return cfg, nil
}

// NewDefaultConfig returns a config holding only the defaults, bound to configPath for Save
func NewDefaultConfig(configPath string) (*Config, error) {
	cfg := &Config{configPath: configPath, ini: ini.Empty()}
	if err := cfg.setDefaults(); err != nil {
		return nil, fmt.Errorf("failed to set default config: %w", err)
	}
	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section string
		keys    [][2]string
	}{
		{"filehash", [][2]string{{"default", DefaultHashAlgorithm}}},
		{"scan", [][2]string{
			{"recursive", "false"},
			{"exclude_dots", "false"},
			{"follow_symlinks", "false"},
			{"filter", ""},
			{"ignore_file", ""},
			{"min_size", ""},
			{"max_size", ""},
		}},
		{"performance", [][2]string{
			{"hash_workers", "0"},
			{"hash_buffer", DefaultHashBuffer},
			{"fail_fast", "false"},
		}},
		{"verbose", [][2]string{{"level", "0"}, {"debug", ""}}},
		{"output", [][2]string{
			{"format", DefaultOutputFormat},
			{"separator", `\n`},
			{"show_size", "false"},
			{"show_total", "false"},
			{"show_time", "false"},
		}},
	}

	for _, d := range defaults {
		section, err := c.ini.NewSection(d.section)
		if err != nil {
			return fmt.Errorf("failed to create %s section: %w", d.section, err)
		}
		for _, kv := range d.keys {
			if _, err := section.NewKey(kv[0], kv[1]); err != nil {
				return fmt.Errorf("failed to set default %s.%s: %w", d.section, kv[0], err)
			}
		}
	}
	return nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) lookup(section, key string) (*ini.Key, bool) {
	if !c.ini.HasSection(section) {
		return nil, false
	}
	s := c.ini.Section(section)
	if !s.HasKey(key) {
		return nil, false
	}
	return s.Key(key), true
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{Default: DefaultHashAlgorithm}
	if k, ok := c.lookup("filehash", "default"); ok && k.String() != "" {
		hashConfig.Default = k.String()
	}
	return hashConfig
}

// GetScanConfig returns the traversal configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{}
	if k, ok := c.lookup("scan", "recursive"); ok {
		scanConfig.Recursive, _ = k.Bool()
	}
	if k, ok := c.lookup("scan", "exclude_dots"); ok {
		scanConfig.ExcludeDots, _ = k.Bool()
	}
	if k, ok := c.lookup("scan", "follow_symlinks"); ok {
		scanConfig.FollowSymlinks, _ = k.Bool()
	}
	if k, ok := c.lookup("scan", "filter"); ok {
		scanConfig.Filter = k.String()
	}
	if k, ok := c.lookup("scan", "ignore_file"); ok {
		scanConfig.IgnoreFile = k.String()
	}
	if k, ok := c.lookup("scan", "min_size"); ok {
		scanConfig.MinSize = k.String()
	}
	if k, ok := c.lookup("scan", "max_size"); ok {
		scanConfig.MaxSize = k.String()
	}
	return scanConfig
}

// GetPerformanceConfig returns the performance configuration
func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	performanceConfig := &PerformanceConfig{HashBuffer: DefaultHashBuffer}
	if k, ok := c.lookup("performance", "hash_workers"); ok {
		if workers, err := k.Int(); err == nil {
			performanceConfig.HashWorkers = workers
		}
	}
	if k, ok := c.lookup("performance", "hash_buffer"); ok && k.String() != "" {
		performanceConfig.HashBuffer = k.String()
	}
	if k, ok := c.lookup("performance", "fail_fast"); ok {
		performanceConfig.FailFast, _ = k.Bool()
	}
	return performanceConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}
	if k, ok := c.lookup("verbose", "level"); ok {
		if level, err := k.Int(); err == nil {
			verboseConfig.Level = level
		}
	}
	if k, ok := c.lookup("verbose", "debug"); ok {
		verboseConfig.Debug = k.String()
	}
	return verboseConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{Format: DefaultOutputFormat, Separator: DefaultSeparator}
	if k, ok := c.lookup("output", "format"); ok && k.String() != "" {
		outputConfig.Format = k.String()
	}
	if k, ok := c.lookup("output", "separator"); ok && k.String() != "" {
		outputConfig.Separator = UnescapeSeparator(k.String())
	}
	if k, ok := c.lookup("output", "show_size"); ok {
		outputConfig.ShowSize, _ = k.Bool()
	}
	if k, ok := c.lookup("output", "show_total"); ok {
		outputConfig.ShowTotal, _ = k.Bool()
	}
	if k, ok := c.lookup("output", "show_time"); ok {
		outputConfig.ShowTime, _ = k.Bool()
	}
	return outputConfig
}

// boolKeys and intKeys are the typed keys Settings checks before reading
var boolKeys = []iniKey{
	{"scan", "recursive"},
	{"scan", "exclude_dots"},
	{"scan", "follow_symlinks"},
	{"performance", "fail_fast"},
	{"output", "show_size"},
	{"output", "show_total"},
	{"output", "show_time"},
}

var intKeys = []iniKey{
	{"performance", "hash_workers"},
	{"verbose", "level"},
}

// present reports whether a key is in the file with a non-empty value
func (c *Config) present(section, key string) bool {
	k, ok := c.lookup(section, key)
	return ok && k.String() != ""
}

func (c *Config) checkTypes() error {
	for _, ik := range boolKeys {
		if !c.present(ik.section, ik.key) {
			continue
		}
		k, _ := c.lookup(ik.section, ik.key)
		if _, err := k.Bool(); err != nil {
			return fmt.Errorf("%s.%s: %w", ik.section, ik.key, err)
		}
	}
	for _, ik := range intKeys {
		if !c.present(ik.section, ik.key) {
			continue
		}
		k, _ := c.lookup(ik.section, ik.key)
		if _, err := k.Int(); err != nil {
			return fmt.Errorf("%s.%s: %w", ik.section, ik.key, err)
		}
	}
	return nil
}

// Settings returns the keys actually present in the file as a Settings layer.
// Values are read through the section readers, so they carry the same
// normalisation (separator escapes, algorithm default) as the typed configs.
func (c *Config) Settings() (*Settings, error) {
	if err := c.checkTypes(); err != nil {
		return nil, err
	}

	hashConfig := c.GetHashConfig()
	scanConfig := c.GetScanConfig()
	performanceConfig := c.GetPerformanceConfig()
	verboseConfig := c.GetVerboseConfig()
	outputConfig := c.GetOutputConfig()

	s := &Settings{}
	for _, f := range []struct {
		section, key string
		apply        func()
	}{
		{"filehash", "default", func() { s.Algorithm = &hashConfig.Default }},
		{"scan", "recursive", func() { s.Recursive = &scanConfig.Recursive }},
		{"scan", "exclude_dots", func() { s.ExcludeDots = &scanConfig.ExcludeDots }},
		{"scan", "follow_symlinks", func() { s.FollowSymlinks = &scanConfig.FollowSymlinks }},
		{"scan", "filter", func() { s.Filter = &scanConfig.Filter }},
		{"scan", "ignore_file", func() { s.IgnoreFile = &scanConfig.IgnoreFile }},
		{"scan", "min_size", func() { s.MinSize = &scanConfig.MinSize }},
		{"scan", "max_size", func() { s.MaxSize = &scanConfig.MaxSize }},
		{"performance", "hash_workers", func() { s.HashWorkers = &performanceConfig.HashWorkers }},
		{"performance", "hash_buffer", func() { s.HashBuffer = &performanceConfig.HashBuffer }},
		{"performance", "fail_fast", func() { s.FailFast = &performanceConfig.FailFast }},
		{"verbose", "level", func() { s.VerboseLevel = &verboseConfig.Level }},
		{"verbose", "debug", func() { s.Debug = &verboseConfig.Debug }},
		{"output", "format", func() { s.Format = &outputConfig.Format }},
		{"output", "separator", func() { s.Separator = &outputConfig.Separator }},
		{"output", "show_size", func() { s.ShowSize = &outputConfig.ShowSize }},
		{"output", "show_total", func() { s.ShowTotal = &outputConfig.ShowTotal }},
		{"output", "show_time", func() { s.ShowTime = &outputConfig.ShowTime }},
	} {
		if c.present(f.section, f.key) {
			f.apply()
		}
	}
	return s, nil
}

// Set stores a value by its override key name
func (c *Config) Set(name, value string) error {
	k, ok := overrideKeys[name]
	if !ok {
		return fmt.Errorf("unsupported config key '%s'", name)
	}
	c.ini.Section(k.section).Key(k.key).SetValue(value)
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	return c.ini.SaveTo(c.configPath)
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "default:sha256", "format:json", "level:2", "min_size:1k"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if err := c.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	_, err := GetHashAlgorithm(algorithm)
	return err
}

// ValidateOutputFormat validates that an output format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "human", "json", "fdupes":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, fdupes)", format)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

// ValidateHashWorkers validates that the hash worker count is reasonable
func ValidateHashWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("hash workers must be at least 1, got: %d", workers)
	}
	if workers > MaxHashWorkers {
		return fmt.Errorf("hash workers should not exceed %d, got: %d", MaxHashWorkers, workers)
	}
	return nil
}

// UnescapeSeparator interprets Go string escapes such as \n and \t so
// separators can be written in config files and on the command line.
func UnescapeSeparator(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	if unq, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`); err == nil {
		return unq
	}
	return s
}
