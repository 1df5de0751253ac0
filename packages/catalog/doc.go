// Package catalog defines the ordered set of HTTP test steps run by crudspec.
//
// It provides functionality for:
//   - The built-in users CRUD catalog
//   - Loading custom catalogs from YAML files
//   - Validating catalog files against a JSON schema
//   - Enforcing catalog invariants (unique ids, body only on POST/PUT)
//
// A Catalog is immutable once built; its order is the default execution order.
package catalog
