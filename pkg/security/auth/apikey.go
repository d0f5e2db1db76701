package auth

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"intlab/rpncalc/pkg/config"
)

var (
	// ErrInvalidKey is returned for keys that are not configured.
	ErrInvalidKey = errors.New("invalid API key")

	// ErrKeyDisabled is returned for configured keys marked disabled.
	ErrKeyDisabled = errors.New("API key disabled")
)

// APIKeyInfo describes an accepted key without its secret.
type APIKeyInfo struct {
	Name    string
	Enabled bool
}

// APIKeyValidator validates API keys against a configured set of keys.
type APIKeyValidator struct {
	mu   sync.RWMutex
	keys map[string]*APIKeyInfo
}

// NewAPIKeyValidator builds a validator from configured keys, resolving
// key_env references from the environment.
func NewAPIKeyValidator(keys []config.APIKeyConfig) (*APIKeyValidator, error) {
	keyMap := make(map[string]*APIKeyInfo, len(keys))
	for _, k := range keys {
		secret := k.Key
		if secret == "" && k.KeyEnv != "" {
			secret = os.Getenv(k.KeyEnv)
			if secret == "" {
				return nil, fmt.Errorf("API key %q: environment variable %s is not set", k.Name, k.KeyEnv)
			}
		}
		if secret == "" {
			return nil, fmt.Errorf("API key %q has no value", k.Name)
		}
		if _, dup := keyMap[secret]; dup {
			return nil, fmt.Errorf("API key %q reuses another key's value", k.Name)
		}
		keyMap[secret] = &APIKeyInfo{Name: k.Name, Enabled: !k.Disabled}
	}

	return &APIKeyValidator{keys: keyMap}, nil
}

// Validate checks key and returns its info.
func (v *APIKeyValidator) Validate(key string) (*APIKeyInfo, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	info, ok := v.keys[key]
	if !ok {
		return nil, ErrInvalidKey
	}
	if !info.Enabled {
		return nil, ErrKeyDisabled
	}
	return info, nil
}

// Replace swaps the key set, e.g. after a configuration reload.
func (v *APIKeyValidator) Replace(other *APIKeyValidator) {
	other.mu.RLock()
	keys := other.keys
	other.mu.RUnlock()

	v.mu.Lock()
	v.keys = keys
	v.mu.Unlock()
}

// Len returns the number of configured keys.
func (v *APIKeyValidator) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys)
}
