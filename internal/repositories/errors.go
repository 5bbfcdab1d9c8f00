package repositories

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"yamdb/internal/apperror"

	"gorm.io/gorm"
)

// Page selects a window of a list query.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before the page. It saturates
// at math.MaxInt64 instead of overflowing.
func (p Page) Offset() int64 {
	if p.Number < 1 || p.Size <= 0 {
		return 0
	}
	skipped := int64(p.Number - 1)
	if skipped > math.MaxInt64/int64(p.Size) {
		return math.MaxInt64
	}
	return skipped * int64(p.Size)
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Size <= 0 {
		return db
	}
	return db.Offset(int(p.Offset())).Limit(p.Size)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains is the condition for a case-insensitive substring match of a
// column. Use it with containsPattern.
func likeContains(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}

// containsPattern lower-cases s and escapes LIKE wildcards so s matches literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// isUniqueViolation recognizes unique constraint failures, translated or raw.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// wrapError turns storage errors into application errors. op describes the
// failed operation, resource names the entity for not-found errors and
// conflict is the message reported on a unique violation.
func wrapError(err error, op, resource, conflict string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(resource)
	case isUniqueViolation(err):
		return fmt.Errorf("failed to %s: %w", op, apperror.Conflict(conflict, err))
	case apperror.KindOf(err) != apperror.KindInternal:
		return err
	default:
		return fmt.Errorf("failed to %s: %w", op, apperror.Internal(err))
	}
}
