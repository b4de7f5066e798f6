package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medtracker/internal/model"
	"medtracker/internal/repository"
)

// CreateAssignmentInput is the payload of POST /assignments.
type CreateAssignmentInput struct {
	PatientID    int64  `json:"patientId" validate:"required,gt=0"`
	MedicationID int64  `json:"medicationId" validate:"required,gt=0"`
	StartDate    string `json:"startDate" validate:"required,isodate"`
	Days         int    `json:"days" validate:"required,gte=1,lte=365"`
}

// UpdateAssignmentInput carries only the fields the caller supplied.
// A present foreign key is always re-validated.
type UpdateAssignmentInput struct {
	PatientID    *int64  `json:"patientId" validate:"omitempty,gt=0"`
	MedicationID *int64  `json:"medicationId" validate:"omitempty,gt=0"`
	StartDate    *string `json:"startDate" validate:"omitempty,isodate"`
	Days         *int    `json:"days" validate:"omitempty,gte=1,lte=365"`
}

// AssignmentService defines the use cases for assignments.
type AssignmentService interface {
	// Create checks the patient before the medication and writes nothing if either is missing.
	Create(ctx context.Context, in CreateAssignmentInput) (*model.Assignment, error)

	// List returns every assignment with its patient and medication, newest first.
	List(ctx context.Context) ([]model.Assignment, error)

	Get(ctx context.Context, id int64) (*model.Assignment, error)

	Update(ctx context.Context, id int64, in UpdateAssignmentInput) (*model.Assignment, error)

	Delete(ctx context.Context, id int64) error

	// ListWithRemainingDays and GetWithRemainingDays recompute remaining days on every call.
	ListWithRemainingDays(ctx context.Context) ([]model.AssignmentWithRemainingDays, error)
	GetWithRemainingDays(ctx context.Context, id int64) (*model.AssignmentWithRemainingDays, error)

	// RemainingDays evaluates the rule against today in the configured time zone.
	RemainingDays(start model.Date, days int) int
}

type assignmentService struct {
	repo        repository.AssignmentRepository
	patients    PatientService
	medications MedicationService
	loc         *time.Location
	now         func() time.Time
}

// NewAssignmentService constructs a new AssignmentService. loc is the zone in
// which "today" is evaluated; nil means UTC.
func NewAssignmentService(repo repository.AssignmentRepository, patients PatientService, medications MedicationService, loc *time.Location) AssignmentService {
	if loc == nil {
		loc = time.UTC
	}
	return &assignmentService{
		repo:        repo,
		patients:    patients,
		medications: medications,
		loc:         loc,
		now:         time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, in CreateAssignmentInput) (*model.Assignment, error) {
	if _, err := s.patients.Get(ctx, in.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.medications.Get(ctx, in.MedicationID); err != nil {
		return nil, err
	}

	start, err := parseDate("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.Create(ctx, &model.Assignment{
		StartDate:    start,
		Days:         in.Days,
		PatientID:    in.PatientID,
		MedicationID: in.MedicationID,
	})
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return a, nil
}

func (s *assignmentService) List(ctx context.Context) ([]model.Assignment, error) {
	items, err := s.repo.List(ctx, repository.FindOptions{WithRelations: true})
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return items, nil
}

func (s *assignmentService) Get(ctx context.Context, id int64) (*model.Assignment, error) {
	a, err := s.repo.FindByID(ctx, id, repository.FindOptions{WithRelations: true})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "Assignment", ID: id}
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (s *assignmentService) Update(ctx context.Context, id int64, in UpdateAssignmentInput) (*model.Assignment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.PatientID != nil {
		if _, err := s.patients.Get(ctx, *in.PatientID); err != nil {
			return nil, err
		}
		a.PatientID = *in.PatientID
	}
	if in.MedicationID != nil {
		if _, err := s.medications.Get(ctx, *in.MedicationID); err != nil {
			return nil, err
		}
		a.MedicationID = *in.MedicationID
	}
	if in.StartDate != nil {
		start, err := parseDate("startDate", *in.StartDate)
		if err != nil {
			return nil, err
		}
		a.StartDate = start
	}
	if in.Days != nil {
		a.Days = *in.Days
	}

	if _, err := s.repo.Update(ctx, a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "Assignment", ID: id}
		}
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	// Reload so the attached patient and medication match the new foreign keys.
	return s.Get(ctx, id)
}

func (s *assignmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "Assignment", ID: id}
		}
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

func (s *assignmentService) ListWithRemainingDays(ctx context.Context) ([]model.AssignmentWithRemainingDays, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	out := make([]model.AssignmentWithRemainingDays, 0, len(items))
	for _, a := range items {
		out = append(out, model.AssignmentWithRemainingDays{
			Assignment:    a,
			RemainingDays: RemainingDays(a.StartDate, a.Days, now),
		})
	}
	return out, nil
}

func (s *assignmentService) GetWithRemainingDays(ctx context.Context, id int64) (*model.AssignmentWithRemainingDays, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.AssignmentWithRemainingDays{
		Assignment:    *a,
		RemainingDays: s.RemainingDays(a.StartDate, a.Days),
	}, nil
}

func (s *assignmentService) RemainingDays(start model.Date, days int) int {
	return RemainingDays(start, days, s.now().In(s.loc))
}
