package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
		RateLimit: 100,
		Burst:     10,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:5000/api", "/api", "://bad"} {
		_, err := NewClient(Config{BaseURL: base})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, base)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://localhost:5000/"})

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", client.BaseURL())
}

func TestClient_FetchCategories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, categoriesPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Facial", "description": "Face care"},
			{"id": "laser", "name": "Laser"}
		]`))
	}))

	categories, err := client.FetchCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Category{
		{ID: "1", Name: "Facial", Description: "Face care"},
		{ID: "laser", Name: "Laser"},
	}, categories)
}

func TestClient_FetchServices(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, servicesPath, r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Classic Facial", "description": "d", "categoryId": 1, "price": 10, "duration": 45},
			{"id": "2", "name": "Peel", "categoryId": "1", "price": "25.50", "duration": 30}
		]`))
	}))

	services, err := client.FetchServices(context.Background())

	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "1", services[0].ID)
	assert.Equal(t, "1", services[0].CategoryID)
	assert.True(t, decimal.NewFromInt(10).Equal(services[0].Price))
	assert.Equal(t, 45, services[0].Duration)
	assert.Equal(t, "2", services[1].ID)
	assert.True(t, decimal.RequireFromString("25.5").Equal(services[1].Price))
}

func TestClient_LookupPatients_EscapesQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, patientsSearchPath, r.URL.Path)
		assert.Equal(t, "ana & co?", r.URL.Query().Get("q"))
		assert.Contains(t, r.URL.RawQuery, "q=ana+%26+co%3F")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 7, "name": "Ana", "phone": "555", "email": "ana@example.com"},
		})
	}))

	patients, err := client.LookupPatients(context.Background(), "ana & co?")

	require.NoError(t, err)
	assert.Equal(t, []domain.PatientRecord{
		{ID: "7", Name: "Ana", Phone: "555", Email: "ana@example.com"},
	}, patients)
}

func TestClient_LookupPatients_EmptyQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, r.URL.Query().Has("q"))
		assert.Empty(t, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[]`))
	}))

	patients, err := client.LookupPatients(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)
}

func TestClient_StatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "database locked"}`))
	}))

	_, err := client.FetchCategories(context.Background())

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "fetch categories", netErr.Op)
	assert.Equal(t, http.StatusInternalServerError, netErr.Status)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "database locked")
}

func TestClient_StatusError_TruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", maxErrorText-1) + "é" + strings.Repeat("b", 50)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(body))
	}))

	_, err := client.FetchServices(context.Background())

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	msg := netErr.Err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, strings.Repeat("a", maxErrorText-1), msg)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "aé", truncate("aéz", 3))
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	}))

	_, err := client.FetchServices(context.Background())

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusOK, netErr.Status)
}

func TestClient_BadID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id": true, "name": "x"}]`))
	}))

	_, err := client.FetchCategories(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client, err := NewClient(Config{BaseURL: srv.URL, RateLimit: 10, Burst: 1})
	require.NoError(t, err)

	_, err = client.FetchServices(context.Background())

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.Status)
}

func TestClient_CancelledContext(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.LookupPatients(ctx, "a")

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits.Load())
}

func TestClient_TooManyRequestsBacksOff(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.FetchCategories(context.Background())

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusTooManyRequests, netErr.Status)
	assert.False(t, client.limiter.Allow())
}

func TestClient_BasePathPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clinic"+servicesPath, r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{BaseURL: srv.URL + "/clinic/", RateLimit: 10, Burst: 1})
	require.NoError(t, err)

	_, err = client.FetchServices(context.Background())

	require.NoError(t, err)
}
