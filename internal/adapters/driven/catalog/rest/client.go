package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
	"github.com/clinicdesk/clinicdesk/internal/core/ports/driven"
	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.CatalogSource    = (*Client)(nil)
	_ driven.PatientDirectory = (*Client)(nil)
)

// API paths relative to the base URL.
const (
	categoriesPath     = "/api/services/categories"
	servicesPath       = "/api/services"
	patientsSearchPath = "/api/patients/search"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 8 << 20

// maxErrorText bounds the error body quoted in a NetworkError.
const maxErrorText = 200

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:5000".
	BaseURL string

	// Timeout bounds every request. Zero means no client-side timeout.
	Timeout time.Duration

	// RateLimit is the sustained requests per second.
	RateLimit float64

	// Burst is the token bucket size.
	Burst int

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the clinic REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *RateLimiter
}

// NewClient validates cfg and creates a client.
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL: u,
		http:    httpClient,
		limiter: NewRateLimiter(cfg.RateLimit, cfg.Burst),
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchCategories implements driven.CatalogSource.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	var payload []categoryDTO
	if err := c.getJSON(ctx, "fetch categories", categoriesPath, nil, &payload); err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(payload))
	for _, dto := range payload {
		categories = append(categories, dto.toDomain())
	}
	return categories, nil
}

// FetchServices implements driven.CatalogSource.
func (c *Client) FetchServices(ctx context.Context) ([]domain.Service, error) {
	var payload []serviceDTO
	if err := c.getJSON(ctx, "fetch services", servicesPath, nil, &payload); err != nil {
		return nil, err
	}

	services := make([]domain.Service, 0, len(payload))
	for _, dto := range payload {
		services = append(services, dto.toDomain())
	}
	return services, nil
}

// LookupPatients implements driven.PatientDirectory. The query is sent
// URL-escaped as the q parameter.
func (c *Client) LookupPatients(ctx context.Context, query string) ([]domain.PatientRecord, error) {
	var payload []patientDTO
	params := url.Values{"q": []string{query}}
	if err := c.getJSON(ctx, "lookup patients", patientsSearchPath, params, &payload); err != nil {
		return nil, err
	}

	patients := make([]domain.PatientRecord, 0, len(payload))
	for _, dto := range payload {
		patients = append(patients, dto.toDomain())
	}
	return patients, nil
}

// getJSON performs a rate-limited GET and decodes a JSON body into out.
func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("GET %s", u.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRetryAfter(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: statusError(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

// statusError extracts a short message from an error response body.
func statusError(body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return errors.New(payload.Error)
		}
		if payload.Message != "" {
			return errors.New(payload.Message)
		}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil
	}
	return errors.New(truncate(text, maxErrorText))
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ==================== Wire types ====================

// flexID accepts identifiers encoded as JSON strings or numbers.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

type categoryDTO struct {
	ID          flexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d categoryDTO) toDomain() domain.Category {
	return domain.Category{ID: string(d.ID), Name: d.Name, Description: d.Description}
}

type serviceDTO struct {
	ID          flexID          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  flexID          `json:"categoryId"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration"`
}

func (d serviceDTO) toDomain() domain.Service {
	return domain.Service{
		ID:          string(d.ID),
		Name:        d.Name,
		Description: d.Description,
		CategoryID:  string(d.CategoryID),
		Price:       d.Price,
		Duration:    d.Duration,
	}
}

type patientDTO struct {
	ID    flexID `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (d patientDTO) toDomain() domain.PatientRecord {
	return domain.PatientRecord{ID: string(d.ID), Name: d.Name, Phone: d.Phone, Email: d.Email}
}
