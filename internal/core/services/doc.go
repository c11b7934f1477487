// Package services implements the driving port interfaces.
// Services contain the clinic booking logic and orchestrate
// calls to driven ports (adapters).
//
// # Services
//
//   - CatalogStore: loaded categories and services with filtered views
//   - Cart: selected services and the running total
//   - PatientSearch: debounced patient lookups
//   - CatalogImporter: copies catalog files into the local database
//   - SettingsService: typed access to config.toml
//
// Services depend only on ports and the domain, never on adapters.
package services
