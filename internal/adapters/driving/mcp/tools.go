package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clinicdesk/clinicdesk/internal/core/domain"
)

// ListServicesInput is the input schema for the list_services tool.
type ListServicesInput struct {
	CategoryID string `json:"category_id,omitempty" jsonschema:"only return services in this category"`
	Query      string `json:"query,omitempty" jsonschema:"only return services whose name or description contains this text"`
	Refresh    bool   `json:"refresh,omitempty" jsonschema:"reload the catalog from its source first"`
}

// ListServicesOutput is the output schema for the list_services tool.
type ListServicesOutput struct {
	Services []ServiceOutput `json:"services"`
	Count    int             `json:"count"`
}

// ServiceOutput represents a single service.
type ServiceOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CategoryID  string `json:"category_id"`
	Price       string `json:"price"`
	Duration    int    `json:"duration_minutes"`
}

// LookupPatientsInput is the input schema for the lookup_patients tool.
type LookupPatientsInput struct {
	Query string `json:"query" jsonschema:"text matched against patient name, phone and email"`
}

// LookupPatientsOutput is the output schema for the lookup_patients tool.
type LookupPatientsOutput struct {
	Patients []domain.PatientRecord `json:"patients"`
	Count    int                    `json:"count"`
}

// CartAddInput is the input schema for the cart_add tool.
type CartAddInput struct {
	ServiceID string `json:"service_id" jsonschema:"id of the service to add"`
}

// CartRemoveInput is the input schema for the cart_remove tool.
type CartRemoveInput struct {
	ServiceID string `json:"service_id,omitempty" jsonschema:"remove every line of this service"`
	LineID    string `json:"line_id,omitempty" jsonschema:"remove only this line"`
}

// CartShowInput is the input schema for the cart_show and cart_clear tools.
type CartShowInput struct{}

// CartOutput is the cart returned by every cart tool.
type CartOutput struct {
	Lines    []CartLineOutput `json:"lines"`
	Count    int              `json:"count"`
	Total    string           `json:"total"`
	Duration int              `json:"duration_minutes"`
}

// CartLineOutput represents one cart line.
type CartLineOutput struct {
	LineID    string `json:"line_id"`
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_services",
		Description: "List clinic services, optionally filtered by category or text",
	}, s.handleListServices)

	if s.ports.Patients != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "lookup_patients",
			Description: "Find patients by name, phone or email",
		}, s.handleLookupPatients)
	}

	if s.ports.Cart != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "cart_add",
			Description: "Add a service to the cart",
		}, s.handleCartAdd)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "cart_remove",
			Description: "Remove a cart line, or every line of a service",
		}, s.handleCartRemove)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "cart_show",
			Description: "Show cart lines and the total",
		}, s.handleCartShow)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "cart_clear",
			Description: "Remove every line from the cart",
		}, s.handleCartClear)
	}
}

// handleListServices handles the list_services tool invocation.
func (s *Server) handleListServices(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListServicesInput,
) (*mcp.CallToolResult, ListServicesOutput, error) {
	if err := s.ensureCatalog(ctx, input.Refresh); err != nil {
		return nil, ListServicesOutput{}, err
	}

	services := s.ports.Catalog.ByCategory(input.CategoryID)
	services = domain.QueryFilter(input.Query).Apply(services)

	output := ListServicesOutput{
		Services: make([]ServiceOutput, len(services)),
		Count:    len(services),
	}
	for i := range services {
		output.Services[i] = toServiceOutput(services[i])
	}
	return nil, output, nil
}

// handleLookupPatients handles the lookup_patients tool invocation.
func (s *Server) handleLookupPatients(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupPatientsInput,
) (*mcp.CallToolResult, LookupPatientsOutput, error) {
	if s.ports.Patients == nil {
		return nil, LookupPatientsOutput{}, ErrUnavailable
	}

	patients, err := s.ports.Patients.LookupNow(ctx, input.Query)
	if err != nil {
		return nil, LookupPatientsOutput{}, err
	}
	if patients == nil {
		patients = []domain.PatientRecord{}
	}
	return nil, LookupPatientsOutput{Patients: patients, Count: len(patients)}, nil
}

// handleCartAdd handles the cart_add tool invocation.
func (s *Server) handleCartAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CartAddInput,
) (*mcp.CallToolResult, CartOutput, error) {
	if s.ports.Cart == nil {
		return nil, CartOutput{}, ErrUnavailable
	}
	if err := s.ensureCatalog(ctx, false); err != nil {
		return nil, CartOutput{}, err
	}

	svc, ok := s.ports.Catalog.Service(input.ServiceID)
	if !ok {
		return nil, CartOutput{}, fmt.Errorf("service %q: %w", input.ServiceID, domain.ErrNotFound)
	}
	snapshot, err := s.ports.Cart.AddItem(svc)
	if err != nil {
		return nil, CartOutput{}, err
	}
	return nil, toCartOutput(snapshot), nil
}

// handleCartRemove handles the cart_remove tool invocation.
func (s *Server) handleCartRemove(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CartRemoveInput,
) (*mcp.CallToolResult, CartOutput, error) {
	if s.ports.Cart == nil {
		return nil, CartOutput{}, ErrUnavailable
	}

	switch {
	case input.LineID != "":
		snapshot, ok := s.ports.Cart.RemoveLine(input.LineID)
		if !ok {
			return nil, CartOutput{}, fmt.Errorf("cart line %q: %w", input.LineID, domain.ErrNotFound)
		}
		return nil, toCartOutput(snapshot), nil
	case input.ServiceID != "":
		return nil, toCartOutput(s.ports.Cart.RemoveItem(input.ServiceID)), nil
	default:
		return nil, CartOutput{}, fmt.Errorf("%w: service_id or line_id is required", domain.ErrInvalidInput)
	}
}

// handleCartShow handles the cart_show tool invocation.
func (s *Server) handleCartShow(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ CartShowInput,
) (*mcp.CallToolResult, CartOutput, error) {
	if s.ports.Cart == nil {
		return nil, CartOutput{}, ErrUnavailable
	}
	return nil, toCartOutput(s.ports.Cart.Snapshot()), nil
}

// handleCartClear handles the cart_clear tool invocation.
func (s *Server) handleCartClear(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ CartShowInput,
) (*mcp.CallToolResult, CartOutput, error) {
	if s.ports.Cart == nil {
		return nil, CartOutput{}, ErrUnavailable
	}
	return nil, toCartOutput(s.ports.Cart.Clear()), nil
}

func toServiceOutput(svc domain.Service) ServiceOutput {
	return ServiceOutput{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		CategoryID:  svc.CategoryID,
		Price:       svc.Price.StringFixed(domain.PricePlaces),
		Duration:    svc.Duration,
	}
}

func toCartOutput(snapshot domain.CartSnapshot) CartOutput {
	output := CartOutput{
		Lines:    make([]CartLineOutput, len(snapshot.Items)),
		Count:    len(snapshot.Items),
		Total:    snapshot.Total.StringFixed(domain.PricePlaces),
		Duration: snapshot.Duration,
	}
	for i, line := range snapshot.Items {
		output.Lines[i] = CartLineOutput{
			LineID:    line.LineID,
			ServiceID: line.Service.ID,
			Name:      line.Service.Name,
			Price:     line.Service.Price.StringFixed(domain.PricePlaces),
		}
	}
	return output
}
