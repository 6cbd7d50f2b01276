// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The label workflow in LabelService is a small saga: every remote step
// after the cart has a compensating call that runs when a later step fails.
package services
