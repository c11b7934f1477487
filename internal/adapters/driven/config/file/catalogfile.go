package file

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
)

// Ensure CatalogFileReader implements the interface.
var _ driven.CatalogFileReader = (*CatalogFileReader)(nil)

// CatalogFileReader decodes TOML catalog files of the form:
//
//	[[categories]]
//	id = "facial"
//	name = "Facial"
//
//	[[services]]
//	id = "1"
//	name = "Classic Facial"
//	category = "facial"
//	price = "45.00"
//	duration = 45
//
//	[[patients]]
//	name = "Alice Moreno"
//	phone = "555-0101"
//
// Unknown keys are rejected.
type CatalogFileReader struct{}

// NewCatalogFileReader creates a reader.
func NewCatalogFileReader() *CatalogFileReader {
	return &CatalogFileReader{}
}

type catalogFile struct {
	Categories []categoryEntry `toml:"categories"`
	Services   []serviceEntry  `toml:"services"`
	Patients   []patientEntry  `toml:"patients"`
}

type categoryEntry struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

type serviceEntry struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Category    string `toml:"category"`
	Price       any    `toml:"price"`
	Duration    int    `toml:"duration"`
	Active      *bool  `toml:"active"`
}

type patientEntry struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Phone string `toml:"phone"`
	Email string `toml:"email"`
}

// ReadCatalogFile implements driven.CatalogFileReader.
func (r *CatalogFileReader) ReadCatalogFile(path string) (domain.CatalogImport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CatalogImport{}, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a TOML catalog document. Services default to
// active when the key is omitted.
func ParseCatalog(data []byte) (domain.CatalogImport, error) {
	var doc catalogFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return domain.CatalogImport{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	batch := domain.CatalogImport{
		Categories: make([]domain.Category, 0, len(doc.Categories)),
		Services:   make([]domain.ImportedService, 0, len(doc.Services)),
		Patients:   make([]domain.PatientRecord, 0, len(doc.Patients)),
	}

	for _, c := range doc.Categories {
		batch.Categories = append(batch.Categories, domain.Category{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		})
	}

	for i, s := range doc.Services {
		price, err := parsePrice(s.Price)
		if err != nil {
			return domain.CatalogImport{}, fmt.Errorf("%w: services[%d] %s: %v", domain.ErrInvalidInput, i, s.ID, err)
		}
		active := true
		if s.Active != nil {
			active = *s.Active
		}
		batch.Services = append(batch.Services, domain.ImportedService{
			Service: domain.Service{
				ID:          s.ID,
				Name:        s.Name,
				Description: s.Description,
				CategoryID:  s.Category,
				Price:       price,
				Duration:    s.Duration,
			},
			Active: active,
		})
	}

	for _, p := range doc.Patients {
		batch.Patients = append(batch.Patients, domain.PatientRecord{
			ID:    p.ID,
			Name:  p.Name,
			Phone: p.Phone,
			Email: p.Email,
		})
	}

	return batch, nil
}

// parsePrice accepts a TOML string, integer or float.
func parsePrice(v any) (decimal.Decimal, error) {
	switch p := v.(type) {
	case nil:
		return decimal.Decimal{}, fmt.Errorf("price is required")
	case string:
		return decimal.NewFromString(p)
	case int64:
		return decimal.NewFromInt(p), nil
	case float64:
		return decimal.NewFromFloat(p), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("price has unsupported type %T", v)
	}
}
