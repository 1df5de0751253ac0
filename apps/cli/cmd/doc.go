// Package cmd implements the crudspec CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the step catalog against the API under test
//   - list: Display the steps of the catalog
//   - validate: Check catalog files without executing them
//   - serve: Start the reference users API
//   - init: Create a starter config and catalog
//   - version: Show crudspec version information
package cmd
