package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Every pipeline step returns one of these instead of leaking gorm or
// filesystem errors across module boundaries; handlers translate them into
// status codes.

// ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Msg    string
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.Fields, ", "))
	}
	return e.Msg
}

// NotFoundError covers absent entities and expired temp files.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// ConflictError is a unique-constraint violation or a delete blocked by
// referential use. MaterialCount is -1 unless the conflict is delete-blocked.
// Retryable marks the slug-generation race, which is not user error.
type ConflictError struct {
	Msg           string
	Field         string
	MaterialCount int64
	Retryable     bool
}

func (e *ConflictError) Error() string { return e.Msg }

// PersistenceError is a filesystem or object-store write/move failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// AnalysisError means the uploaded bytes are not decodable audio.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string { return fmt.Sprintf("audio analysis failed: %v", e.Err) }
func (e *AnalysisError) Unwrap() error { return e.Err }

// translateUniqueViolation maps a Postgres 23505 to a domain ConflictError by
// inspecting the violated constraint name. fieldMsgs maps a column keyword in
// the constraint name to a stable client-facing message. Unrecognized errors
// come back unchanged.
func translateUniqueViolation(err error, fieldMsgs map[string]string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	for field, msg := range fieldMsgs {
		if strings.Contains(pgErr.ConstraintName, field) {
			return &ConflictError{
				Msg:           msg,
				Field:         field,
				MaterialCount: -1,
				Retryable:     field == "slug",
			}
		}
	}
	return &ConflictError{Msg: "duplicate value", MaterialCount: -1}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
