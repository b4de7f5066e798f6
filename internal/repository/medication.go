package repository

import (
	"context"

	"medtracker/internal/model"
)

// MedicationRepository defines data access for medications.
type MedicationRepository interface {
	Create(ctx context.Context, m *model.Medication) (*model.Medication, error)

	// FindByID returns sql.ErrNoRows when the medication does not exist.
	// With relations, Assignments are attached with their Patient.
	FindByID(ctx context.Context, id int64, opts FindOptions) (*model.Medication, error)

	List(ctx context.Context, opts FindOptions) ([]model.Medication, error)

	Update(ctx context.Context, m *model.Medication) (*model.Medication, error)

	Delete(ctx context.Context, id int64) error
}
