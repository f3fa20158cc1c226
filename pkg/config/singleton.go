package config

import (
	"fmt"
	"sync"
)

var (
	// current is the configuration in effect for the running command.
	current *Config

	currentMu sync.RWMutex
)

// GetConfig returns the configuration in effect, or nil before SetConfig
// or a successful ReloadConfig.
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig replaces the configuration in effect.
func SetConfig(cfg *Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
}

// ReloadConfig loads path with environment overrides and makes it the
// configuration in effect. The previous configuration is kept when loading
// or validation fails.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg)
	return nil
}
