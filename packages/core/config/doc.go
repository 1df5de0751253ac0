// Package config handles configuration loading and management for crudspec.
//
// It provides functionality for:
//   - Loading configuration from .crudspec.yaml or crudspec.yaml files
//   - Default configuration values
//   - Merging file values with command-line overrides
package config
