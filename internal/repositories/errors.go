package repositories

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrAttributeNotFound    = errors.New("attribute not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrReportNotFound       = errors.New("report not found")
	// ErrDuplicatePair is returned when the pair already has a relationship row.
	ErrDuplicatePair = errors.New("relationship already exists for pair")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
