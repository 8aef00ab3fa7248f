// Package directory provides identity/federation directories: which users
// are local, their account records, and the service URLs advertised by
// foreign users' home grids.
//
// Memory is used for tests and single-process deployments; SQLite keeps the
// same data across restarts.
package directory

import (
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested entity does not exist.
type ErrNotFound struct {
	Entity string
	Key    string
}

func (e *ErrNotFound) Error() string {
	return e.Entity + " not found: " + e.Key
}

func notFound(entity string, id uuid.UUID) error {
	return &ErrNotFound{Entity: entity, Key: id.String()}
}
