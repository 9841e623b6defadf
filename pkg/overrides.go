package dupehash

import "github.com/go-ini/ini"

// OverrideSettings turns "key:value" overrides into a Settings layer. Keys are
// the short names accepted by Config.ApplyOverrides.
func OverrideSettings(overrides []string) (*Settings, error) {
	if len(overrides) == 0 {
		return &Settings{}, nil
	}
	cfg := &Config{ini: ini.Empty()}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, &ConfigError{Field: "override", Err: err}
	}
	return cfg.Settings()
}
