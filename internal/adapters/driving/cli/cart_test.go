package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

func TestCartQuoteCmd_RequiresArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("cart", "quote")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestCartQuoteCmd_Total(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("cart", "quote", "1", "2", "1")

	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Classic Facial"))
	assert.Contains(t, out, "Hydrating Peel")
	assert.Contains(t, out, "Total: $155.50 (120 min)")
}

func TestCartQuoteCmd_Remove(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("cart", "quote", "1", "2", "1", "--remove", "1")

	require.NoError(t, err)
	assert.NotContains(t, out, "Classic Facial")
	assert.Contains(t, out, "Total: $65.50 (30 min)")
}

func TestCartQuoteCmd_RemoveEverything(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("cart", "quote", "5", "-r", "5")

	require.NoError(t, err)
	assert.Contains(t, out, "Cart is empty.")
}

func TestCartQuoteCmd_StartsEmptyEachRun(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("cart", "quote", "6")
	require.NoError(t, err)
	out, err := execute("cart", "quote", "5")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: $35.00 (15 min)")
}

func TestCartQuoteCmd_UnknownService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("cart", "quote", "1", "99")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartQuoteCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("cart", "quote", "3", "4", "--json")
	require.NoError(t, err)

	var snapshot domain.CartSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, 2, snapshot.Len())
	assert.Equal(t, "$175.00", domain.FormatPrice(snapshot.Total))
	assert.Equal(t, 135, snapshot.Duration)
	assert.NotEqual(t, snapshot.Items[0].LineID, snapshot.Items[1].LineID)
}

func TestCartQuoteCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	cartService = nil

	_, err := execute("cart", "quote", "1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart service not configured")
}
