// Package mcp provides an MCP (Model Context Protocol) server adapter for clinicdesk.
// It lets AI assistants browse the service catalog, build a cart and look up patients.
package mcp

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")

// ErrUnavailable is returned by tools whose service is not configured.
var ErrUnavailable = errors.New("mcp: service not available")
