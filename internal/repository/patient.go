package repository

import (
	"context"

	"medtracker/internal/model"
)

// PatientRepository defines data access for patients.
type PatientRepository interface {
	// Create inserts a new patient and returns the stored row, including id and timestamps.
	Create(ctx context.Context, p *model.Patient) (*model.Patient, error)

	// FindByID returns sql.ErrNoRows when the patient does not exist.
	// With relations, Assignments are attached with their Medication.
	FindByID(ctx context.Context, id int64, opts FindOptions) (*model.Patient, error)

	// List returns all patients, newest first.
	List(ctx context.Context, opts FindOptions) ([]model.Patient, error)

	// Update writes name and date of birth and bumps updated_at.
	Update(ctx context.Context, p *model.Patient) (*model.Patient, error)

	// Delete returns sql.ErrNoRows when no row was removed.
	Delete(ctx context.Context, id int64) error
}
