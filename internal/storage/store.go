// Package storage persists the module's single piece of durable state: the
// calendar date of the last successful daily summary submission.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no sync record has been persisted yet.
var ErrNotFound = errors.New("sync record not found")

// DateLayout is the calendar-date format of the persisted value.
const DateLayout = "2006-01-02"

// keyLastHealthSync is the key-value key the date is stored under.
const keyLastHealthSync = "lastHealthSync"

// SyncStore reads and writes the last-synced calendar date. It is read once
// at startup and written once per successful submission.
type SyncStore interface {
	// LastSyncDate returns the persisted date string, or ErrNotFound.
	LastSyncDate(ctx context.Context) (string, error)

	// SetLastSyncDate persists the given calendar-date string.
	SetLastSyncDate(ctx context.Context, date string) error
}
