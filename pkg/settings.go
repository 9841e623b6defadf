package dupehash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Settings is one configuration layer. A nil field means the layer does not
// set that option, so layers can be stacked: defaults, file, environment,
// then flags.
type Settings struct {
	Algorithm      *string
	Recursive      *bool
	ExcludeDots    *bool `split_words:"true"`
	FollowSymlinks *bool `split_words:"true"`
	Filter         *string
	IgnoreFile     *string `split_words:"true"`
	MinSize        *string `split_words:"true"`
	MaxSize        *string `split_words:"true"`
	HashWorkers    *int    `split_words:"true"`
	HashBuffer     *string `split_words:"true"`
	FailFast       *bool   `split_words:"true"`
	Format         *string
	Separator      *string
	ShowSize       *bool `split_words:"true"`
	ShowTotal      *bool `split_words:"true"`
	ShowTime       *bool `split_words:"true"`
	VerboseLevel   *int  `split_words:"true"`
	Debug          *string
}

// tomlFile mirrors the INI section layout
type tomlFile struct {
	FileHash struct {
		Default *string `toml:"default"`
	} `toml:"filehash"`
	Scan struct {
		Recursive      *bool   `toml:"recursive"`
		ExcludeDots    *bool   `toml:"exclude_dots"`
		FollowSymlinks *bool   `toml:"follow_symlinks"`
		Filter         *string `toml:"filter"`
		IgnoreFile     *string `toml:"ignore_file"`
		MinSize        *string `toml:"min_size"`
		MaxSize        *string `toml:"max_size"`
	} `toml:"scan"`
	Performance struct {
		HashWorkers *int    `toml:"hash_workers"`
		HashBuffer  *string `toml:"hash_buffer"`
		FailFast    *bool   `toml:"fail_fast"`
	} `toml:"performance"`
	Verbose struct {
		Level *int    `toml:"level"`
		Debug *string `toml:"debug"`
	} `toml:"verbose"`
	Output struct {
		Format    *string `toml:"format"`
		Separator *string `toml:"separator"`
		ShowSize  *bool   `toml:"show_size"`
		ShowTotal *bool   `toml:"show_total"`
		ShowTime  *bool   `toml:"show_time"`
	} `toml:"output"`
}

// LoadSettingsFile reads a config file. Files ending in .toml are parsed as
// TOML, anything else as INI.
func LoadSettingsFile(path string) (*Settings, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return loadTOMLSettings(path)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	s, err := cfg.Settings()
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", cfg.Path(), err)
	}
	return s, nil
}

func loadTOMLSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var tf tomlFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &Settings{
		Algorithm:      tf.FileHash.Default,
		Recursive:      tf.Scan.Recursive,
		ExcludeDots:    tf.Scan.ExcludeDots,
		FollowSymlinks: tf.Scan.FollowSymlinks,
		Filter:         tf.Scan.Filter,
		IgnoreFile:     tf.Scan.IgnoreFile,
		MinSize:        tf.Scan.MinSize,
		MaxSize:        tf.Scan.MaxSize,
		HashWorkers:    tf.Performance.HashWorkers,
		HashBuffer:     tf.Performance.HashBuffer,
		FailFast:       tf.Performance.FailFast,
		Format:         tf.Output.Format,
		Separator:      tf.Output.Separator,
		ShowSize:       tf.Output.ShowSize,
		ShowTotal:      tf.Output.ShowTotal,
		ShowTime:       tf.Output.ShowTime,
		VerboseLevel:   tf.Verbose.Level,
		Debug:          tf.Verbose.Debug,
	}, nil
}

// LoadEnvSettings reads DUPEHASH_* environment variables, e.g.
// DUPEHASH_ALGORITHM, DUPEHASH_HASH_WORKERS, DUPEHASH_EXCLUDE_DOTS.
func LoadEnvSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	return &s, nil
}

// Merge copies every field set in over onto s
func (s *Settings) Merge(over *Settings) {
	if over == nil {
		return
	}
	mergeField(&s.Algorithm, over.Algorithm)
	mergeField(&s.Recursive, over.Recursive)
	mergeField(&s.ExcludeDots, over.ExcludeDots)
	mergeField(&s.FollowSymlinks, over.FollowSymlinks)
	mergeField(&s.Filter, over.Filter)
	mergeField(&s.IgnoreFile, over.IgnoreFile)
	mergeField(&s.MinSize, over.MinSize)
	mergeField(&s.MaxSize, over.MaxSize)
	mergeField(&s.HashWorkers, over.HashWorkers)
	mergeField(&s.HashBuffer, over.HashBuffer)
	mergeField(&s.FailFast, over.FailFast)
	mergeField(&s.Format, over.Format)
	mergeField(&s.Separator, over.Separator)
	mergeField(&s.ShowSize, over.ShowSize)
	mergeField(&s.ShowTotal, over.ShowTotal)
	mergeField(&s.ShowTime, over.ShowTime)
	mergeField(&s.VerboseLevel, over.VerboseLevel)
	mergeField(&s.Debug, over.Debug)
}

func mergeField[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

// ApplyScan writes the scan-related fields onto opts. A worker count of zero
// or less keeps the existing value.
func (s *Settings) ApplyScan(opts *ScanOptions) error {
	if s.Algorithm != nil {
		opts.Algorithm = *s.Algorithm
	}
	if s.Recursive != nil {
		opts.Recursive = *s.Recursive
	}
	if s.ExcludeDots != nil {
		opts.ExcludeDots = *s.ExcludeDots
	}
	if s.FollowSymlinks != nil {
		opts.FollowSymlinks = *s.FollowSymlinks
	}
	if s.Filter != nil {
		if err := opts.SetNamePattern(*s.Filter); err != nil {
			return err
		}
	}
	if s.IgnoreFile != nil {
		opts.IgnoreFile = *s.IgnoreFile
	}
	var minSize, maxSize string
	if s.MinSize != nil {
		minSize = *s.MinSize
	}
	if s.MaxSize != nil {
		maxSize = *s.MaxSize
	}
	if err := opts.SetSizeBounds(minSize, maxSize); err != nil {
		return err
	}
	if s.HashWorkers != nil && *s.HashWorkers > 0 {
		opts.HashWorkers = *s.HashWorkers
	}
	if s.HashBuffer != nil {
		n, err := ParseHumanSize(*s.HashBuffer)
		if err != nil {
			return &ConfigError{Field: "hash buffer", Value: *s.HashBuffer, Err: err}
		}
		opts.HashBuffer = int(n)
	}
	if s.FailFast != nil {
		opts.FailFast = *s.FailFast
	}
	return nil
}

// ApplyOutput writes the presentation fields onto out
func (s *Settings) ApplyOutput(out *ReportOptions) error {
	if s.Format != nil {
		if err := ValidateOutputFormat(*s.Format); err != nil {
			return &ConfigError{Field: "format", Value: *s.Format, Err: err}
		}
		out.Format = strings.ToLower(*s.Format)
	}
	if s.Separator != nil {
		out.Separator = UnescapeSeparator(*s.Separator)
	}
	if s.ShowSize != nil {
		out.ShowSize = *s.ShowSize
	}
	if s.ShowTotal != nil {
		out.ShowTotal = *s.ShowTotal
	}
	if s.ShowTime != nil {
		out.ShowTime = *s.ShowTime
	}
	return nil
}
