// Package config handles configuration loading for the hopp CLI.
//
// It provides functionality for:
//   - Loading configuration from hopp.config.yml or .hopprc.yml
//   - Merging file values with CLI flag overrides
package config
