// Package config provides configuration management for rpncalc.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in three ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("rpncalc.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("rpncalc.yaml")
//
//  3. From an optional file, falling back to defaults:
//     cfg, err := config.LoadOrDefault(path)
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention RPNCALC_SECTION_FIELD.
// For example:
//
//   - RPNCALC_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - RPNCALC_HISTORY_DRIVER overrides history.driver
//   - RPNCALC_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
//	if err := config.Initialize(path); err != nil {
//	    return err
//	}
//	cfg := config.GetConfig()
//
// ReloadConfig swaps the global instance after a successful reload and
// returns the previous one. The serve command calls it when the watched file
// changes and logs the sections RestartRequired reports.
//
// # Example Configuration
//
//	calculator:
//	  lenient_operands: false
//	  max_expression_length: 4096
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//	  read_timeout: "10s"
//	  rate_limit:
//	    requests_per_second: 20
//	  tls:
//	    enabled: true
//	    cert_file: "/etc/rpncalc/tls.crt"
//	    key_file: "/etc/rpncalc/tls.key"
//	  auth:
//	    enabled: true
//	    keys:
//	      - name: "ci"
//	        key_env: "RPNCALC_CI_KEY"
//
//	history:
//	  enabled: true
//	  driver: "sqlite"
//	  path: "data/history.db"
//	  retention:
//	    days: 30
//	    prune_schedule: "0 3 * * *"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	    path: "/metrics"
package config
