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

// CreatePatientInput is the payload of POST /patients.
type CreatePatientInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,isodate,notfuture"`
}

// UpdatePatientInput carries only the fields the caller supplied.
type UpdatePatientInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitempty,isodate,notfuture"`
}

// PatientService defines the use cases for patients.
type PatientService interface {
	Create(ctx context.Context, in CreatePatientInput) (*model.Patient, error)

	// List returns every patient with assignments and their medication, newest first.
	List(ctx context.Context) ([]model.Patient, error)

	// Get returns a *NotFoundError when the patient does not exist.
	Get(ctx context.Context, id int64) (*model.Patient, error)

	Update(ctx context.Context, id int64, in UpdatePatientInput) (*model.Patient, error)

	// Delete removes the patient together with all of its assignments.
	Delete(ctx context.Context, id int64) error
}

type patientService struct {
	repo        repository.PatientRepository
	assignments repository.AssignmentRepository
	tx          database.Transactor
}

// NewPatientService constructs a new PatientService.
func NewPatientService(repo repository.PatientRepository, assignments repository.AssignmentRepository, tx database.Transactor) PatientService {
	return &patientService{repo: repo, assignments: assignments, tx: tx}
}

func (s *patientService) Create(ctx context.Context, in CreatePatientInput) (*model.Patient, error) {
	dob, err := parseDate("dateOfBirth", in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Create(ctx, &model.Patient{Name: in.Name, DateOfBirth: dob})
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil
}

func (s *patientService) List(ctx context.Context) ([]model.Patient, error) {
	items, err := s.repo.List(ctx, repository.FindOptions{WithRelations: true})
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return items, nil
}

func (s *patientService) Get(ctx context.Context, id int64) (*model.Patient, error) {
	p, err := s.repo.FindByID(ctx, id, repository.FindOptions{WithRelations: true})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "Patient", ID: id}
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *patientService) Update(ctx context.Context, id int64, in UpdatePatientInput) (*model.Patient, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.DateOfBirth != nil {
		dob, err := parseDate("dateOfBirth", *in.DateOfBirth)
		if err != nil {
			return nil, err
		}
		p.DateOfBirth = dob
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "Patient", ID: id}
		}
		return nil, fmt.Errorf("update patient: %w", err)
	}
	updated.Assignments = p.Assignments
	return updated, nil
}

func (s *patientService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.assignments.DeleteByPatientID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete patient assignments: %w", err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &NotFoundError{Entity: "Patient", ID: id}
			}
			return fmt.Errorf("delete patient: %w", err)
		}
		zerolog.Ctx(ctx).Info().
			Int64("patient_id", id).
			Int64("assignments_deleted", n).
			Msg("patient deleted")
		return nil
	})
}
