package postgres

import (
	"errors"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/lib/pq"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func locationColumns(loc *domain.Location) (*int, *string) {
	if loc == nil {
		return nil, nil
	}
	id, name := loc.ID, loc.Name
	return &id, &name
}

func toLocation(id *int, name *string) *domain.Location {
	if id == nil || name == nil {
		return nil
	}
	return &domain.Location{ID: *id, Name: *name}
}

// nonNil keeps NOT NULL text[] columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// translateTxAbort turns serialization failures and deadlocks into a
// version conflict so the caller reruns the whole transaction.
func translateTxAbort(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return domain.ErrVersionConflict
		}
	}
	return err
}
