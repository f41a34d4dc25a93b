package probe

import (
	"errors"
	"fmt"
)

var (
	ErrUserInput = errors.New("invalid input")
	ErrNoState   = errors.New("no probe state")
	ErrBusy      = errors.New("check already running")
)

// Gateway rejections. Each maps to a persisted outcome.
var (
	ErrInvalidNumber        = errors.New("phone number is not registered")
	ErrCodeExpired          = errors.New("code expired")
	ErrCodeInvalid          = errors.New("code invalid")
	ErrSecondFactorRequired = errors.New("second factor required")
	ErrSecondFactorInvalid  = errors.New("second factor invalid")
	ErrPreconditionMissing  = errors.New("precondition missing")
	ErrGatewayNotConfigured = errors.New("authentication gateway is not configured")
)

// PreconditionError names the stage the requester has to run first.
type PreconditionError struct {
	Stage    Stage
	Required Stage
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s requires a prior %s", e.Stage, e.Required)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPreconditionMissing
}

// GatewayFault is an unexpected gateway failure. Nothing is persisted for it.
type GatewayFault struct {
	Stage Stage
	Err   error
}

func (e *GatewayFault) Error() string {
	return fmt.Sprintf("%s: gateway: %v", e.Stage, e.Err)
}

func (e *GatewayFault) Unwrap() error {
	return e.Err
}

type StoreFault struct {
	Stage Stage
	Err   error
}

func (e *StoreFault) Error() string {
	return fmt.Sprintf("%s: store: %v", e.Stage, e.Err)
}

func (e *StoreFault) Unwrap() error {
	return e.Err
}

func userInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUserInput, fmt.Sprintf(format, args...))
}
