package provider

import (
	"errors"
	"strings"
)

var (
	// ErrNotInitialized means Initialize has not succeeded yet.
	ErrNotInitialized = errors.New("health provider not initialized")
	// ErrPermissionDenied means the user or platform refused access to a
	// record type.
	ErrPermissionDenied = errors.New("health data permission denied")
	// ErrRateLimited means the provider rejected the call for exceeding
	// its allowed call frequency.
	ErrRateLimited = errors.New("health provider rate limited")
)

// IsRateLimited reports whether err represents a provider rate-limit
// condition, either as the sentinel or by message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

// IsPermissionDenied reports whether err represents an initialization or
// permission failure.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrNotInitialized)
}
