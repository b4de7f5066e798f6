package repository

import (
	"context"

	"medtracker/internal/model"
)

// AssignmentRepository defines data access for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error)

	// FindByID returns sql.ErrNoRows when the assignment does not exist.
	// With relations, Patient and Medication are attached.
	FindByID(ctx context.Context, id int64, opts FindOptions) (*model.Assignment, error)

	List(ctx context.Context, opts FindOptions) ([]model.Assignment, error)

	Update(ctx context.Context, a *model.Assignment) (*model.Assignment, error)

	Delete(ctx context.Context, id int64) error

	// DeleteByPatientID removes every assignment of the patient and returns the count.
	DeleteByPatientID(ctx context.Context, patientID int64) (int64, error)

	// DeleteByMedicationID removes every assignment of the medication and returns the count.
	DeleteByMedicationID(ctx context.Context, medicationID int64) (int64, error)
}
