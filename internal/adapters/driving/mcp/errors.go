// Package mcp provides an MCP (Model Context Protocol) server adapter for envio.
// It lets AI assistants quote shipments and purchase labels through the same
// services the CLI uses.
package mcp

import "errors"

// ErrMissingQuoteService is returned when the quote service is not provided.
var ErrMissingQuoteService = errors.New("mcp: quote service is required")

// ErrMissingLabelService is returned when the label service is not provided.
var ErrMissingLabelService = errors.New("mcp: label service is required")
