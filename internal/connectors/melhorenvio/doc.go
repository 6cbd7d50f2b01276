// Package melhorenvio implements driven.CarrierAPI against the Melhor Envio
// REST API (v2).
//
// Requests are authenticated with a bearer token read lazily from a
// driven.TokenProvider and throttled by a RateLimiter that combines a token
// bucket with the X-RateLimit-* headers the carrier returns.
//
// Failed calls return *APIError, which keeps the carrier's error payload:
// Detail gives the flattened message and FieldErrors the per-field messages.
package melhorenvio
