// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - CatalogSource: Fetches categories and services (REST, SQLite, memory)
//   - PatientDirectory: Looks up patients by free text
//   - ConfigStore: Application configuration (TOML)
//   - CatalogWriter: Stores imported records (SQLite)
//   - CatalogFileReader: Decodes catalog import files (TOML)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
