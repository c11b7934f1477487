package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
)

// ==================== Catalog Source ====================

// catalogSource implements driven.CatalogSource.
type catalogSource struct {
	store *Store
}

var _ driven.CatalogSource = (*catalogSource)(nil)

// FetchCategories returns categories ordered by position then name.
func (c *catalogSource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, name, description
		FROM categories
		ORDER BY position, name
	`)
	if err != nil {
		return nil, &domain.NetworkError{Op: "fetch categories", Err: err}
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description); err != nil {
			return nil, &domain.NetworkError{Op: "fetch categories", Err: err}
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.NetworkError{Op: "fetch categories", Err: err}
	}
	return categories, nil
}

// FetchServices returns active services ordered by position then name.
func (c *catalogSource) FetchServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, name, description, category_id, price, duration
		FROM services
		WHERE active = 1
		ORDER BY position, name
	`)
	if err != nil {
		return nil, &domain.NetworkError{Op: "fetch services", Err: err}
	}
	defer rows.Close()

	services := []domain.Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, &domain.NetworkError{Op: "fetch services", Err: err}
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.NetworkError{Op: "fetch services", Err: err}
	}
	return services, nil
}

func scanService(rows *sql.Rows) (domain.Service, error) {
	var svc domain.Service
	var price string
	if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.CategoryID, &price, &svc.Duration); err != nil {
		return domain.Service{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Service{}, fmt.Errorf("service %s: price %q: %w", svc.ID, price, err)
	}
	svc.Price = p
	return svc, nil
}

// ==================== Patient Directory ====================

// patientDirectory implements driven.PatientDirectory.
type patientDirectory struct {
	store *Store
}

var _ driven.PatientDirectory = (*patientDirectory)(nil)

// LookupPatients matches query against name, phone and email with LIKE
// (case-insensitive for ASCII) and orders by name. A blank query
// matches every patient.
func (d *patientDirectory) LookupPatients(ctx context.Context, query string) ([]domain.PatientRecord, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"

	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, name, phone, email
		FROM patients
		WHERE name LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\'
		ORDER BY name ASC
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, &domain.NetworkError{Op: "lookup patients", Err: err}
	}
	defer rows.Close()

	patients := []domain.PatientRecord{}
	for rows.Next() {
		var p domain.PatientRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Email); err != nil {
			return nil, &domain.NetworkError{Op: "lookup patients", Err: err}
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.NetworkError{Op: "lookup patients", Err: err}
	}
	return patients, nil
}

// escapeLike escapes LIKE wildcards so they match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ==================== Import ====================

var _ driven.CatalogWriter = (*Store)(nil)

// Import upserts every record in one transaction. Records without an
// ID are given a new UUID. Categories and services keep their batch
// order as display position. Nothing is written if any record is
// invalid.
func (s *Store) Import(ctx context.Context, batch domain.CatalogImport) (domain.ImportSummary, error) {
	var stats domain.ImportSummary

	for i := range batch.Services {
		if batch.Services[i].ID == "" {
			batch.Services[i].ID = uuid.NewString()
		}
		if err := batch.Services[i].Validate(); err != nil {
			return domain.ImportSummary{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.ImportSummary{}, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, cat := range batch.Categories {
		if cat.ID == "" {
			cat.ID = uuid.NewString()
		}
		if strings.TrimSpace(cat.Name) == "" {
			return domain.ImportSummary{}, fmt.Errorf("%w: category %s has no name", domain.ErrInvalidInput, cat.ID)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, description, position)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				position = excluded.position
		`, cat.ID, cat.Name, cat.Description, i)
		if err != nil {
			return domain.ImportSummary{}, fmt.Errorf("import category %s: %w", cat.ID, err)
		}
		stats.Categories++
	}

	for i, svc := range batch.Services {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO services (id, name, description, category_id, price, duration, active, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				description = excluded.description,
				category_id = excluded.category_id,
				price = excluded.price,
				duration = excluded.duration,
				active = excluded.active,
				position = excluded.position
		`, svc.ID, svc.Name, svc.Description, svc.CategoryID,
			domain.RoundPrice(svc.Price).StringFixed(domain.PricePlaces),
			svc.Duration, boolToInt(svc.Active), i)
		if err != nil {
			return domain.ImportSummary{}, fmt.Errorf("import service %s: %w", svc.ID, err)
		}
		stats.Services++
	}

	for _, p := range batch.Patients {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if strings.TrimSpace(p.Name) == "" {
			return domain.ImportSummary{}, fmt.Errorf("%w: patient %s has no name", domain.ErrInvalidInput, p.ID)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO patients (id, name, phone, email)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				phone = excluded.phone,
				email = excluded.email
		`, p.ID, p.Name, p.Phone, p.Email)
		if err != nil {
			return domain.ImportSummary{}, fmt.Errorf("import patient %s: %w", p.ID, err)
		}
		stats.Patients++
	}

	if err := tx.Commit(); err != nil {
		return domain.ImportSummary{}, fmt.Errorf("commit import: %w", err)
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
