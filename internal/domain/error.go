package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnauthorized        = errors.New("invalid credentials")
	ErrForbidden           = errors.New("operation not allowed")
	ErrPersistenceDisabled = errors.New("persistence is disabled")
	ErrMalformedUpdate     = errors.New("malformed telegram update")
	ErrGatewayDisabled     = errors.New("messaging gateway is not configured")
	ErrDatabaseClosed      = errors.New("database is closed")
	ErrNoReplyChat         = errors.New("message has no chat to reply to")
)

// DatabaseError wraps any failure raised while talking to the store.
// Code holds the SQLSTATE when the server reported one.
type DatabaseError struct {
	Op   string
	Code string
	Err  error
}

func (e *DatabaseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("database %s (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
