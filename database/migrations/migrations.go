// Package migrations registers the schema migrations. Import it for its
// side effects before running a migration.Runner.
package migrations
