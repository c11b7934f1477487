package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

func TestPatientsSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("patients", "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestPatientsSearchCmd_ByPhone(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("patients", "search", "555-01")

	require.NoError(t, err)
	names := []string{"Abigail Stone", "Alice Moreno", "Bruno Silva", "Carla Ng"}
	last := -1
	for _, name := range names {
		i := strings.Index(out, name)
		require.GreaterOrEqual(t, i, 0, name)
		assert.Greater(t, i, last, "ordered by name")
		last = i
	}
}

func TestPatientsSearchCmd_NoMatches(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("patients", "search", "zzz")

	require.NoError(t, err)
	assert.Contains(t, out, "No patients found.")
}

func TestPatientsSearchCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("patients", "search", "ALICE@", "--json")
	require.NoError(t, err)

	var patients []domain.PatientRecord
	require.NoError(t, json.Unmarshal([]byte(out), &patients))
	assert.Equal(t, []domain.PatientRecord{
		{ID: "101", Name: "Alice Moreno", Phone: "555-0101", Email: "alice@example.com"},
	}, patients)
}

// failingSearch fails every immediate lookup.
type failingSearch struct{}

func (failingSearch) Query(string) error                    { return nil }
func (failingSearch) OnResults(func(domain.PatientResults)) {}
func (failingSearch) OnError(func(string, error))           {}
func (failingSearch) Close()                                {}
func (failingSearch) LookupNow(_ context.Context, _ string) ([]domain.PatientRecord, error) {
	return nil, &domain.NetworkError{Op: "lookup patients", Err: errors.New("connection refused")}
}

func TestPatientsSearchCmd_LookupError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	patientSearch = failingSearch{}

	_, err := execute("patients", "search", "ali")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "lookup failed")
}

func TestPatientsSearchCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	patientSearch = nil

	_, err := execute("patients", "search", "ali")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "patient search not configured")
}
