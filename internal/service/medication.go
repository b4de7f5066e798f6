package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"medtracker/internal/database"
	"medtracker/internal/model"
	"medtracker/internal/repository"
)

// CreateMedicationInput is the payload of POST /medications.
type CreateMedicationInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	Dosage    string `json:"dosage" validate:"required,max=50"`
	Frequency string `json:"frequency" validate:"required,max=50"`
}

// UpdateMedicationInput carries only the fields the caller supplied.
type UpdateMedicationInput struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Dosage    *string `json:"dosage" validate:"omitempty,min=1,max=50"`
	Frequency *string `json:"frequency" validate:"omitempty,min=1,max=50"`
}

// MedicationService defines the use cases for medications.
type MedicationService interface {
	Create(ctx context.Context, in CreateMedicationInput) (*model.Medication, error)

	// List returns every medication with assignments and their patient, newest first.
	List(ctx context.Context) ([]model.Medication, error)

	// Get returns a *NotFoundError when the medication does not exist.
	Get(ctx context.Context, id int64) (*model.Medication, error)

	Update(ctx context.Context, id int64, in UpdateMedicationInput) (*model.Medication, error)

	// Delete removes the medication together with all of its assignments.
	Delete(ctx context.Context, id int64) error
}

type medicationService struct {
	repo        repository.MedicationRepository
	assignments repository.AssignmentRepository
	tx          database.Transactor
}

// NewMedicationService constructs a new MedicationService.
func NewMedicationService(repo repository.MedicationRepository, assignments repository.AssignmentRepository, tx database.Transactor) MedicationService {
	return &medicationService{repo: repo, assignments: assignments, tx: tx}
}

func (s *medicationService) Create(ctx context.Context, in CreateMedicationInput) (*model.Medication, error) {
	m, err := s.repo.Create(ctx, &model.Medication{
		Name:      in.Name,
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
	})
	if err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}
	return m, nil
}

func (s *medicationService) List(ctx context.Context) ([]model.Medication, error) {
	items, err := s.repo.List(ctx, repository.FindOptions{WithRelations: true})
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return items, nil
}

func (s *medicationService) Get(ctx context.Context, id int64) (*model.Medication, error) {
	m, err := s.repo.FindByID(ctx, id, repository.FindOptions{WithRelations: true})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "Medication", ID: id}
		}
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return m, nil
}

func (s *medicationService) Update(ctx context.Context, id int64, in UpdateMedicationInput) (*model.Medication, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Dosage != nil {
		m.Dosage = *in.Dosage
	}
	if in.Frequency != nil {
		m.Frequency = *in.Frequency
	}

	updated, err := s.repo.Update(ctx, m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "Medication", ID: id}
		}
		return nil, fmt.Errorf("update medication: %w", err)
	}
	updated.Assignments = m.Assignments
	return updated, nil
}

func (s *medicationService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.assignments.DeleteByMedicationID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete medication assignments: %w", err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "Medication", ID: id}
			}
			return fmt.Errorf("delete medication: %w", err)
		}
		zerolog.Ctx(ctx).Info().
			Int64("medication_id", id).
			Int64("assignments_deleted", n).
			Msg("medication deleted")
		return nil
	})
}
