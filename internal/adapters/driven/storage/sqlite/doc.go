// Package sqlite provides the local clinic database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single Store serves two driven ports:
//
//   - CatalogSource: categories and active services
//   - PatientDirectory: patient lookup by name, phone or email
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.clinicdesk/data/clinic.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite in WAL mode
// with a busy timeout, so an external process may write the file while
// clinicdesk reads it.
package sqlite
