package database

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgreSQL error codes the repositories translate.
const (
	UniqueViolation     = pq.ErrorCode("23505")
	ForeignKeyViolation = pq.ErrorCode("23503")
)

// PgError returns the driver error behind err, if any.
func PgError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// IsUniqueViolation reports a unique violation, optionally restricted to one constraint.
func IsUniqueViolation(err error, constraint ...string) bool {
	return is(err, UniqueViolation, constraint)
}

func IsForeignKeyViolation(err error, constraint ...string) bool {
	return is(err, ForeignKeyViolation, constraint)
}

func is(err error, code pq.ErrorCode, constraint []string) bool {
	pqErr, ok := PgError(err)
	if !ok || pqErr.Code != code {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if pqErr.Constraint == c {
			return true
		}
	}
	return false
}
