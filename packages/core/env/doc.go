// Package env reads environment files and variables for crudspec.
//
// It provides functionality for:
//   - Loading environment files (.env, .env.local)
//   - Reading CRUDSPEC_ prefixed system variables
//   - Resolving the base URL of the API under test
package env
