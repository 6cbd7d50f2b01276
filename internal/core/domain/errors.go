package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidLength indicates a tax id or document key body has the wrong number of digits.
	// During key assembly it signals a logic bug rather than bad user input.
	ErrInvalidLength = errors.New("invalid length")

	// ErrMissingField indicates a required field was absent. The caller can correct it.
	ErrMissingField = errors.New("missing required field")

	// ErrCartRejected indicates the carrier accepted the cart call but returned no order id.
	ErrCartRejected = errors.New("cart rejected: carrier returned no order id")

	// ErrWorkflowFailed indicates a remote call in the label workflow failed.
	ErrWorkflowFailed = errors.New("label workflow failed")

	// Authentication Errors.

	// ErrAuthRequired indicates no API token is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the carrier rejected the API token.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Connector Errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrConnectionFailed indicates the carrier API could not be reached or verified.
	ErrConnectionFailed = errors.New("connection to carrier failed")
)

// MissingFieldError lists the required fields that were absent from a request.
type MissingFieldError struct {
	Fields []string
}

// NewMissingFieldError creates a MissingFieldError for the given field paths.
func NewMissingFieldError(fields ...string) *MissingFieldError {
	return &MissingFieldError{Fields: fields}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, strings.Join(e.Fields, ", "))
}

// Is reports whether target is ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// WorkflowStep identifies a stage of the label workflow.
type WorkflowStep string

// Label workflow steps in execution order.
const (
	StepCart     WorkflowStep = "cart"
	StepCheckout WorkflowStep = "checkout"
	StepGenerate WorkflowStep = "generate"
)

// WorkflowError reports a failed remote call in the label workflow.
//
// Message is the flattened, human-readable error. Fields keeps the structured
// per-field messages returned by the carrier, when there were any.
type WorkflowError struct {
	Step       WorkflowStep
	Message    string
	Fields     map[string][]string
	StatusCode int

	// RunID identifies the workflow invocation in logs.
	RunID string

	// OrderID is the carrier order created by the cart step, if it succeeded.
	OrderID string

	// Compensated is true when the order created by the cart step was removed
	// or cancelled after the failure.
	Compensated     bool
	CompensationErr error

	Err error
}

func (e *WorkflowError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s at %s: %s", ErrWorkflowFailed, e.Step, msg)
}

// Is reports whether target is ErrWorkflowFailed.
func (e *WorkflowError) Is(target error) bool {
	return target == ErrWorkflowFailed
}

// Unwrap returns the underlying cause.
func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Leaked reports whether an order was left behind on the carrier.
func (e *WorkflowError) Leaked() bool {
	return e.OrderID != "" && !e.Compensated
}
