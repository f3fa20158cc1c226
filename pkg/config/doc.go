// Package config provides configuration management for the webpack options
// validator.
//
// This package handles loading, validating, and managing the tool's own
// configuration from YAML files with environment variable overrides. It is
// unrelated to the webpack configurations the tool validates.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("webpack-validator.yaml")
//	cfg, err := config.LoadConfigWithEnvOverrides("webpack-validator.yaml")
//
// LoadConfigWithEnvOverrides with an empty path reads DefaultPath when it
// exists and falls back to the defaults otherwise.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention WEBPACK_SECTION_FIELD:
//
//   - WEBPACK_SCHEMA_PATH overrides schema.path
//   - WEBPACK_WATCH_SCHEDULE overrides watch.schedule
//   - WEBPACK_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	schema:
//	  path: ./schemas/webpack-options.yaml
//	watch:
//	  debounce_interval: 250ms
//	  schedule: "*/10 * * * *"
//	telemetry:
//	  logging:
//	    level: debug
//	    format: json
//	  metrics:
//	    enabled: true
//
// # Configuration In Effect
//
// Commands publish the loaded configuration with SetConfig. The watch
// command calls ReloadConfig when the configuration file changes and reads
// the result back with GetConfig:
//
//	if err := config.ReloadConfig(path); err != nil {
//	    return err // previous configuration stays in effect
//	}
//	cfg := config.GetConfig()
//
// For testing, prefer explicit Config instances over the global one.
package config
