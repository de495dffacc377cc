// Package store defines the persistence contract of the reference server:
// JSON documents keyed by user, collection and id, plus meal photo blobs.
package store

import (
	"context"
	"errors"
)

// Collections stored by the server.
const (
	Profile    = "profile"
	Workouts   = "workouts"
	Goals      = "goals"
	Meals      = "meals"
	Activities = "activities"
)

// ProfileID is the document id under which each user's profile is kept.
const ProfileID = "self"

// ErrNotFound is returned when a document or photo does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by Update when a concurrent writer created the
// document first.
var ErrConflict = errors.New("conflicting write")

// UpdateFunc receives the current document (nil when absent) and returns the
// replacement. Returning an error aborts the update and is passed through.
type UpdateFunc func(current []byte) ([]byte, error)

// Store persists documents and photos. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put creates or replaces a document.
	Put(ctx context.Context, user, collection, id string, body []byte) error
	// Get returns ErrNotFound when the document is absent.
	Get(ctx context.Context, user, collection, id string) ([]byte, error)
	// List returns every document of a collection in creation order.
	List(ctx context.Context, user, collection string) ([][]byte, error)
	// Update runs fn on the current document inside a transaction.
	Update(ctx context.Context, user, collection, id string, fn UpdateFunc) ([]byte, error)
	// Delete returns ErrNotFound when the document is absent.
	Delete(ctx context.Context, user, collection, id string) error
	// DeleteUser removes every document and photo owned by user.
	DeleteUser(ctx context.Context, user string) error

	PutPhoto(ctx context.Context, user, id string, data []byte) error
	GetPhoto(ctx context.Context, user, id string) ([]byte, error)
	DeletePhoto(ctx context.Context, user, id string) error

	Close() error
}
