package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	dupehash "github.com/mattkeenan/dupehash/pkg"
)

// cliFlags holds every command-line flag value
type cliFlags struct {
	recursive      bool
	excludeDots    bool
	filter         string
	followSymlinks bool
	md5            bool
	algorithm      string
	maxSize        string
	minSize        string
	quiet          bool
	separator      string
	showTime       bool
	showSize       bool
	showTotal      bool
	details        bool
	version        bool

	workers     int
	hashBuffer  string
	failFast    bool
	format      string
	ignoreFile  string
	configPath  string
	initConfig  string
	overrides   []string
	watch       bool
	strictExit  bool
	verbose     int
	debug       string
}

func (f *cliFlags) bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "Recursively search directory")
	fs.BoolVarP(&f.excludeDots, "exclude-dots", "e", false, "Exclude files and directories that begin with '.'")
	fs.StringVarP(&f.filter, "filter", "f", "", "Only include files whose names match this regular expression")
	fs.BoolVarP(&f.followSymlinks, "follow-symlinks", "l", false, "Follow symlinks, by default symbolic links are ignored")
	fs.BoolVarP(&f.md5, "md5", "5", false, "Use md5 instead of sha256: faster, with a much higher collision risk")
	fs.StringVarP(&f.algorithm, "algorithm", "a", dupehash.DefaultHashAlgorithm, "Digest algorithm")
	fs.StringVarP(&f.maxSize, "max", "M", "", "Maximum file size (e.g. 4096, 512k, 2M); larger files are skipped")
	fs.StringVarP(&f.minSize, "min", "m", "", "Minimum file size; smaller files are skipped")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Hide progress information")
	fs.StringVarP(&f.separator, "separator", "1", dupehash.DefaultSeparator, "String placed between duplicate file paths (escapes like \\t allowed)")
	fs.BoolVarP(&f.showTime, "time", "t", false, "Show total execution time")
	fs.BoolVarP(&f.showSize, "size", "s", false, "Show the space wasted by each group of duplicates")
	fs.BoolVarP(&f.showTotal, "total-size", "S", false, "Show the total space wasted by duplicates")
	fs.BoolVarP(&f.details, "details", "d", false, "Show all details, same as -sSt")
	fs.BoolVarP(&f.version, "version", "V", false, "Print version")

	fs.IntVarP(&f.workers, "workers", "w", 0, "Number of concurrent hash workers (default: number of CPUs)")
	fs.StringVar(&f.hashBuffer, "hash-buffer", dupehash.DefaultHashBuffer, "Read buffer size per hash worker")
	fs.BoolVar(&f.failFast, "fail-fast", false, "Abort on the first file that cannot be hashed")
	fs.StringVar(&f.format, "format", dupehash.DefaultOutputFormat, "Output format: human, json or fdupes")
	fs.StringVar(&f.ignoreFile, "ignore-file", "", "File of regular expressions for relative paths to skip")
	fs.StringVarP(&f.configPath, "config", "c", "", "Config file (.toml or INI)")
	fs.StringVar(&f.initConfig, "init-config", "", "Write a default INI config file to this path and exit")
	fs.StringArrayVarP(&f.overrides, "set", "o", nil, "Override a config key, e.g. --set hash_workers:8 (repeatable)")
	fs.BoolVar(&f.watch, "watch", false, "Keep running and rescan when the tree changes")
	fs.BoolVar(&f.strictExit, "strict-exit", false, "Exit with status 2 if any entry was skipped or failed to hash")
	fs.CountVarP(&f.verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	fs.StringVar(&f.debug, "debug", "", "Debug flags: scan,hash,store,aggregate,watch")
}

// flagSettings returns a Settings layer holding only the flags the user set
func (f *cliFlags) flagSettings(changed map[string]bool) *dupehash.Settings {
	s := &dupehash.Settings{}
	setBool := func(flag string, v bool, dst **bool) {
		if changed[flag] {
			*dst = &v
		}
	}
	setString := func(flag string, v string, dst **string) {
		if changed[flag] {
			*dst = &v
		}
	}

	setBool("recursive", f.recursive, &s.Recursive)
	setBool("exclude-dots", f.excludeDots, &s.ExcludeDots)
	setBool("follow-symlinks", f.followSymlinks, &s.FollowSymlinks)
	setBool("fail-fast", f.failFast, &s.FailFast)
	setBool("time", f.showTime, &s.ShowTime)
	setBool("size", f.showSize, &s.ShowSize)
	setBool("total-size", f.showTotal, &s.ShowTotal)
	setString("filter", f.filter, &s.Filter)
	setString("max", f.maxSize, &s.MaxSize)
	setString("min", f.minSize, &s.MinSize)
	setString("separator", f.separator, &s.Separator)
	setString("hash-buffer", f.hashBuffer, &s.HashBuffer)
	setString("format", f.format, &s.Format)
	setString("ignore-file", f.ignoreFile, &s.IgnoreFile)
	setString("debug", f.debug, &s.Debug)

	switch {
	case changed["algorithm"]:
		algorithm := f.algorithm
		s.Algorithm = &algorithm
	case changed["md5"] && f.md5:
		algorithm := dupehash.FastHashAlgorithm
		s.Algorithm = &algorithm
	}
	if changed["workers"] {
		workers := f.workers
		s.HashWorkers = &workers
	}
	if changed["verbose"] {
		level := min(f.verbose, 3)
		s.VerboseLevel = &level
	}
	return s
}

// changedFlags collects the names of flags set on the command line
func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
	return changed
}

// resolveConfigPath picks the explicit --config path, then DUPEHASH_CONFIG,
// then the first existing file under the user config directory.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(dupehash.EnvPrefix + "_CONFIG"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.toml", "config.ini"} {
		candidate := filepath.Join(dir, "dupehash", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// resolveSettings stacks file, environment, --set overrides and flags
func (f *cliFlags) resolveSettings(changed map[string]bool) (*dupehash.Settings, error) {
	settings := &dupehash.Settings{}

	if path := resolveConfigPath(f.configPath); path != "" {
		fileSettings, err := dupehash.LoadSettingsFile(path)
		if err != nil {
			return nil, &dupehash.ConfigError{Field: "config file", Value: path, Err: err}
		}
		settings.Merge(fileSettings)
	}

	envSettings, err := dupehash.LoadEnvSettings()
	if err != nil {
		return nil, &dupehash.ConfigError{Field: "environment", Err: err}
	}
	settings.Merge(envSettings)

	overrideSettings, err := dupehash.OverrideSettings(f.overrides)
	if err != nil {
		return nil, err
	}
	settings.Merge(overrideSettings)

	settings.Merge(f.flagSettings(changed))
	return settings, nil
}
