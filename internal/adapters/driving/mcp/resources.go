package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the URI scheme for envio resources.
const uriScheme = "envio://"

const labelsPrefix = uriScheme + "labels/"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Account != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "account",
			Name:        "account",
			Description: "The carrier account behind the configured API token",
			MIMEType:    "application/json",
		}, s.handleAccountResource)
	}

	if s.ports.Settings != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "defaults",
			Name:        "defaults",
			Description: "Sender, recipient, package and product fallbacks applied to new labels",
			MIMEType:    "application/json",
		}, s.handleDefaultsResource)
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: labelsPrefix + "{orderId}",
		Name:        "label",
		Description: "The rendered label of a purchased order",
		MIMEType:    "application/pdf",
	}, s.handleLabelResource)
}

// handleAccountResource returns the verified account as JSON.
func (s *Server) handleAccountResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	account, err := s.ports.Account.Verify(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(req.Params.URI, account)
}

// handleDefaultsResource returns the label defaults as JSON.
// The API token is never exposed.
func (s *Server) handleDefaultsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, err
	}
	return jsonResult(req.Params.URI, settings.Defaults)
}

// handleLabelResource downloads the label of the order in the URI.
func (s *Server) handleLabelResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	orderID := extractOrderID(req.Params.URI)
	if orderID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	label, err := s.ports.Label.PrintLabel(ctx, orderID, "")
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: label.ContentType,
				Blob:     label.Content,
			},
		},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// labelURI returns the resource URI of an order's label.
func labelURI(orderID string) string {
	return labelsPrefix + orderID
}

// extractOrderID extracts the order ID from a label URI.
// Returns empty string if the URI is not a label URI.
func extractOrderID(uri string) string {
	if !strings.HasPrefix(uri, labelsPrefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, labelsPrefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
