// Package usersapi is a small users CRUD service. It is the API the
// built-in catalog is written against, so a suite run against it shows the
// expected mix of successes and validation errors.
package usersapi
