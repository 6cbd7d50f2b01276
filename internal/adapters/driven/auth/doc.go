// Package auth provides driven.TokenProvider implementations.
//
// Tokens are issued in the carrier's web panel and pasted into envio; these
// providers only read them, from the environment or the config store.
package auth
