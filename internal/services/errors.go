package services

import (
	"errors"
	"fmt"
)

// Sentinel errors translated to HTTP statuses at the handler boundary.
var (
	ErrValidationFailed = errors.New("validation failed")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid id or password")
	ErrPendingApproval    = errors.New("account is pending approval")
	ErrForbidden          = errors.New("forbidden")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user id already exists")

	ErrDeviceNotFound      = errors.New("device not found")
	ErrDeviceExists        = errors.New("device serial number already exists")
	ErrDeviceAlreadyRented = errors.New("device already rented")
	ErrDeviceNotRented     = errors.New("device is not rented")
	ErrDeviceUnavailable   = errors.New("device is not available")
)

// PermissionError carries the denied action for the error response.
type PermissionError struct {
	UserID   string
	Resource string
	Action   string
	Reason   string
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s %s (%s)", e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}
