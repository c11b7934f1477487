// Package domain defines the core business entities for clinicdesk.
//
// This package is the innermost layer of the hexagon. It defines:
//
//   - Service: A bookable clinic treatment with price and duration
//   - Category: A grouping of services
//   - CartLineItem / CartSnapshot: Selected services and their derived total
//   - PatientRecord: A patient returned by the patient directory
//   - CatalogFilter: The active category or free-text filter
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/shopspring/decimal for money
//   - Cannot Import: Any internal/ package
package domain
