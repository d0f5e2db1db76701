package config

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

var (
	current  atomic.Pointer[Config]
	initOnce sync.Once
)

// Initialize loads the configuration at path (see LoadOrDefault) and
// installs it as the process-wide configuration. Only the first call has an
// effect.
func Initialize(path string) error {
	var initErr error
	initOnce.Do(func() {
		cfg, err := LoadOrDefault(path)
		if err != nil {
			initErr = err
			return
		}
		current.Store(cfg)
	})
	return initErr
}

// GetConfig returns the installed configuration, or nil before Initialize
// or SetConfig.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig installs cfg as the process-wide configuration.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}

// MustGetConfig is GetConfig that panics when nothing is installed.
func MustGetConfig() *Config {
	cfg := current.Load()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}

// ReloadConfig loads path and installs the result. It returns the new
// configuration and the one it replaced. When loading or validation fails
// the installed configuration is left alone.
func ReloadConfig(path string) (next, prev *Config, err error) {
	next, err = LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload configuration: %w", err)
	}
	return next, current.Swap(next), nil
}

// RestartRequired lists the sections that differ between prev and next but
// are only read at startup. The calculator section and the server API keys
// are applied live and never appear. A nil prev yields nil.
func RestartRequired(prev, next *Config) []string {
	if prev == nil || next == nil {
		return nil
	}

	prevServer, nextServer := prev.Server, next.Server
	prevServer.Auth.Keys, nextServer.Auth.Keys = nil, nil

	var sections []string
	for _, s := range []struct {
		name       string
		prev, next any
	}{
		{"server", prevServer, nextServer},
		{"history", prev.History, next.History},
		{"watch", prev.Watch, next.Watch},
		{"telemetry", prev.Telemetry, next.Telemetry},
	} {
		if !reflect.DeepEqual(s.prev, s.next) {
			sections = append(sections, s.name)
		}
	}
	return sections
}
