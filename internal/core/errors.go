package core

import (
	"errors"
	"fmt"
)

var (
	ErrDevice               = errors.New("device error")
	ErrSignalingUnavailable = errors.New("signaling unavailable")
	ErrNegotiation          = errors.New("negotiation error")
	ErrState                = errors.New("state error")
)

type DeviceFailure string

const (
	DevicePermissionDenied DeviceFailure = "permission-denied"
	DeviceNotFound         DeviceFailure = "not-found"
	DeviceBusy             DeviceFailure = "busy"
	DeviceUnknown          DeviceFailure = "unknown"
)

// DeviceError reports that local capture could not be opened.
type DeviceError struct {
	Reason DeviceFailure
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("device %s", e.Reason)
	}
	return fmt.Sprintf("device %s: %v", e.Reason, e.Err)
}

func (e *DeviceError) Unwrap() error        { return e.Err }
func (e *DeviceError) Is(target error) bool { return target == ErrDevice }

// SignalingUnavailableError reports that the relay could not be reached or
// that the connection to it was lost.
type SignalingUnavailableError struct {
	Endpoint string
	Err      error
}

func (e *SignalingUnavailableError) Error() string {
	return fmt.Sprintf("signaling relay %s unavailable: %v", e.Endpoint, e.Err)
}

func (e *SignalingUnavailableError) Unwrap() error        { return e.Err }
func (e *SignalingUnavailableError) Is(target error) bool { return target == ErrSignalingUnavailable }

// NegotiationError reports an SDP or connectivity failure. Op names the step.
type NegotiationError struct {
	Op  string
	Err error
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("negotiation %s: %v", e.Op, e.Err)
}

func (e *NegotiationError) Unwrap() error        { return e.Err }
func (e *NegotiationError) Is(target error) bool { return target == ErrNegotiation }

// StateError reports an operation invoked outside the state it is valid in.
type StateError struct {
	Op    string
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.State)
}

func (e *StateError) Is(target error) bool { return target == ErrState }
