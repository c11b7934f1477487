package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for clinicdesk resources.
	uriScheme = "clinicdesk://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing categories.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Service categories with their service counts",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	// Template for the services of one category.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "categories/{categoryId}/services",
		Name:        "category-services",
		Description: "Services in a specific category",
		MIMEType:    "application/json",
	}, s.handleCategoryServicesResource)
}

// handleCategoriesResource returns every category.
func (s *Server) handleCategoriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if err := s.ensureCatalog(ctx, false); err != nil {
		return nil, err
	}

	type categoryInfo struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Description  string `json:"description,omitempty"`
		ServiceCount int    `json:"service_count"`
	}

	categories := s.ports.Catalog.Categories()
	infos := make([]categoryInfo, len(categories))
	for i, cat := range categories {
		infos[i] = categoryInfo{
			ID:           cat.ID,
			Name:         cat.Name,
			Description:  cat.Description,
			ServiceCount: len(s.ports.Catalog.ByCategory(cat.ID)),
		}
	}

	return jsonResult(req.Params.URI, infos)
}

// handleCategoryServicesResource returns services for a specific category.
func (s *Server) handleCategoryServicesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract categoryId from URI: clinicdesk://categories/{categoryId}/services
	categoryID := extractCategoryID(req.Params.URI)
	if categoryID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	if err := s.ensureCatalog(ctx, false); err != nil {
		return nil, err
	}

	known := false
	for _, cat := range s.ports.Catalog.Categories() {
		if cat.ID == categoryID {
			known = true
			break
		}
	}
	if !known {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	services := s.ports.Catalog.ByCategory(categoryID)
	infos := make([]ServiceOutput, len(services))
	for i := range services {
		infos[i] = toServiceOutput(services[i])
	}
	return jsonResult(req.Params.URI, infos)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCategoryID extracts the category ID from a URI like
// clinicdesk://categories/{categoryId}/services.
func extractCategoryID(uri string) string {
	const prefix = uriScheme + "categories/"
	const suffix = "/services"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
