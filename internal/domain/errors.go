package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested item does not exist
	ErrNotFound = errors.New("item not found")

	// ErrServerOffline indicates the media server is unreachable
	ErrServerOffline = errors.New("media server is unreachable")

	// ErrAuthFailed indicates the server rejected the credentials or token
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNoActiveSite indicates an operation needs a bound site and there is none
	ErrNoActiveSite = errors.New("no active site")

	// ErrStaleSite indicates the active site changed while an operation was in flight
	ErrStaleSite = errors.New("active site changed during operation")
)

// ErrorKind classifies failures that cross the remote boundary
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindAuth
	KindParse
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindParse:
		return "parse"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error carries a failure kind alongside the original cause
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and operation name
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrServerOffline):
		return KindNetwork
	case errors.Is(err, ErrAuthFailed):
		return KindAuth
	}
	return KindUnknown
}

// OpLogin is the operation name attached to authentication errors
const OpLogin = "login"

// Messages shown to users. Login failures intentionally collapse to one message.
const (
	MsgLoginFailed = "username or password is incorrect"
	MsgOffline     = "media server is unreachable"
	MsgBadResponse = "unexpected response from media server"
	MsgNoSite      = "no server selected"
	MsgGeneric     = "something went wrong"
)

// UserMessage maps an error to the text a user interface should display
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var de *Error
	if errors.As(err, &de) && de.Op == OpLogin {
		return MsgLoginFailed
	}
	if errors.Is(err, ErrNoActiveSite) {
		return MsgNoSite
	}

	switch KindOf(err) {
	case KindNetwork:
		return MsgOffline
	case KindAuth:
		return MsgLoginFailed
	case KindParse, KindServer:
		return MsgBadResponse
	default:
		return MsgGeneric
	}
}
