package config

import (
	"os"
	"reflect"
	"sync"
	"testing"
	"time"
)

func resetGlobal() {
	current.Store(nil)
	initOnce = sync.Once{}
}

func TestInitialize(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:8181"
`)

	if err := Initialize(path); err != nil {
		t.Fatalf("failed to initialize config: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8181" {
		t.Errorf("expected listen address %q, got %q", "127.0.0.1:8181", cfg.Server.ListenAddress)
	}
}

func TestInitialize_MultipleCallsIgnored(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	first := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:1111\"\n")
	second := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:2222\"\n")

	if err := Initialize(first); err != nil {
		t.Fatalf("first Initialize() error = %v", err)
	}
	if err := Initialize(second); err != nil {
		t.Fatalf("second Initialize() error = %v", err)
	}

	if got := GetConfig().Server.ListenAddress; got != "127.0.0.1:1111" {
		t.Errorf("expected first config to win, got %q", got)
	}
}

func TestReloadConfig(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	path := writeConfig(t, "calculator:\n  lenient_operands: false\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("calculator:\n  lenient_operands: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	before := GetConfig()
	cfg, prev, err := ReloadConfig(path)
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if !cfg.Calculator.LenientOperands || !GetConfig().Calculator.LenientOperands {
		t.Error("expected reloaded configuration to be installed")
	}
	if prev != before {
		t.Error("expected the replaced configuration to be returned")
	}
}

func TestReloadConfig_KeepsPreviousOnError(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	path := writeConfig(t, "")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	before := GetConfig()

	if err := os.WriteFile(path, []byte("history:\n  driver: bogus\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReloadConfig(path); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig() != before {
		t.Error("expected previous configuration to remain installed")
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when configuration is not initialized")
		}
	}()
	MustGetConfig()
}

func TestSetConfig(t *testing.T) {
	resetGlobal()
	t.Cleanup(resetGlobal)

	cfg := Default()
	SetConfig(cfg)
	if GetConfig() != cfg {
		t.Error("GetConfig() did not return the configuration passed to SetConfig")
	}
}

func TestRestartRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{"unchanged", func(*Config) {}, nil},
		{"calculator only", func(c *Config) { c.Calculator.LenientOperands = true }, nil},
		{"api keys only", func(c *Config) {
			c.Server.Auth.Keys = []APIKeyConfig{{Name: "ci", Key: "secret"}}
		}, nil},
		{"listen address", func(c *Config) { c.Server.ListenAddress = "127.0.0.1:9999" }, []string{"server"}},
		{"history and telemetry", func(c *Config) {
			c.History.Driver = "memory"
			c.Telemetry.Logging.Level = "debug"
		}, []string{"history", "telemetry"}},
		{"watch debounce", func(c *Config) { c.Watch.DebounceInterval += time.Second }, []string{"watch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, next := Default(), Default()
			tt.mutate(next)
			if got := RestartRequired(prev, next); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RestartRequired() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := RestartRequired(nil, Default()); got != nil {
		t.Errorf("RestartRequired(nil, cfg) = %v, want nil", got)
	}
}
