// Package file provides file-based configuration storage.
//
// Settings live in a TOML file, ~/.envio/config.toml by default, with
// nested tables exposed as dot-notation keys such as "api.token".
package file
