package jsonrpc

import (
	"errors"
	"fmt"

	"github.com/gridbridge/profilegw/pkg/wire"
)

var (
	errNoEndpoint = errors.New("no endpoint")
	errNoResult   = errors.New("response has neither result nor error")
)

// Failure classifies why a call did not produce a result.
type Failure uint8

const (
	FailureTransport Failure = iota + 1
	FailureMalformed
	FailureRemote
)

func (f Failure) String() string {
	switch f {
	case FailureTransport:
		return "transport"
	case FailureMalformed:
		return "malformed"
	case FailureRemote:
		return "remote"
	}
	return fmt.Sprintf("failure(%d)", uint8(f))
}

// Error is returned by Call for every unsuccessful outcome.
type Error struct {
	Failure Failure
	Method  string
	URI     string

	// Payload is the remote "error" member; set only for FailureRemote.
	Payload wire.Value

	// Err is the underlying cause for transport and malformed failures.
	Err error
}

func (e *Error) Error() string {
	switch e.Failure {
	case FailureRemote:
		if msg := e.Message(); msg != "" {
			return fmt.Sprintf("jsonrpc %s: remote error: %s", e.Method, msg)
		}
		return fmt.Sprintf("jsonrpc %s: remote error: %s", e.Method, e.Payload)
	default:
		return fmt.Sprintf("jsonrpc %s: %s failure: %v", e.Method, e.Failure, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the conventional JSON-RPC error code when the payload has one.
func (e *Error) Code() (int64, bool) {
	m, ok := e.Payload.AsMap()
	if !ok {
		return 0, false
	}
	v, ok := m.Get("code")
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

// Message returns the payload's "message" member, or the payload itself when
// it is a bare string.
func (e *Error) Message() string {
	if s, ok := e.Payload.AsString(); ok {
		return s
	}
	m, ok := e.Payload.AsMap()
	if !ok {
		return ""
	}
	v, _ := m.Get("message")
	s, _ := v.AsString()
	return s
}

// FailureOf reports the failure kind carried by err, or zero when err is not
// (and does not wrap) an *Error.
func FailureOf(err error) Failure {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Failure
	}
	return 0
}
