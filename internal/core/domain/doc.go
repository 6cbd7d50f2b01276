// Package domain defines the core business entities for envio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - TaxID: a 14-digit business tax identifier
//   - DocumentKey: a 44-digit fiscal document key with a Módulo 11 check digit
//   - QuoteOption: a shipping service offered by the carrier
//   - OrderPayload: the order submitted to the carrier cart
//   - RemoteOrder: the order the carrier created
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. Besides the standard library it
// only imports value types (shopspring/decimal for money). All other packages
// depend on domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, value-type libraries
//   - Cannot Import: Any internal/ package
package domain
