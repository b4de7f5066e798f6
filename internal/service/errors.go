package service

import (
	"errors"
	"fmt"

	"medtracker/internal/model"
)

var (
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound          = errors.New("not found")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidReportName = errors.New("invalid report name")
)

// NotFoundError names the missing entity and the id that was looked up.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func parseDate(field, value string) (model.Date, error) {
	d, err := model.ParseDate(value)
	if err != nil {
		return d, fmt.Errorf("%w: %s: %v", ErrInvalidDate, field, err)
	}
	return d, nil
}
