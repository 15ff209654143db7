package config

import (
	"fmt"
	"time"
)

// HotReloadConfig controls re-reading the config file while running
type HotReloadConfig struct {
	Enabled  bool          `json:"enabled" yaml:"enabled" env:"HOT_RELOAD"`
	Debounce time.Duration `json:"debounce" yaml:"debounce" env:"HOT_RELOAD_DEBOUNCE"`
}

// Validate validates hot reload configuration
func (h HotReloadConfig) Validate() error {
	if h.Debounce < 0 {
		return fmt.Errorf("debounce must be non-negative")
	}
	return nil
}
