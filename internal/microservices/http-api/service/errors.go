package service

import (
	"errors"
	"fmt"

	"recipehub/internal/microservices/http-api/repository"
)

// Error classes every service returns. Concrete errors wrap one of these,
// so handlers pick a status with errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func denied(action string) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, action)
}

// storeErr classifies a repository error; what names the entity involved.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNotFound(err):
		return notFound(what + " not found")
	case repository.IsUniqueViolation(err):
		return validationErr("%s already exists", what)
	case repository.IsForeignKeyViolation(err):
		return notFound(what + " refers to a missing row")
	default:
		return err
	}
}
