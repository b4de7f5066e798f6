package postgres

import (
	"database/sql"

	"medtracker/internal/model"
)

// The null* types receive the nullable side of a LEFT JOIN.

type nullPatient struct {
	ID          sql.NullInt64
	Name        sql.NullString
	DateOfBirth model.Date
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

func (n *nullPatient) dest() []any {
	return []any{&n.ID, &n.Name, &n.DateOfBirth, &n.CreatedAt, &n.UpdatedAt}
}

func (n *nullPatient) model() *model.Patient {
	if !n.ID.Valid {
		return nil
	}
	return &model.Patient{
		ID:          n.ID.Int64,
		Name:        n.Name.String,
		DateOfBirth: n.DateOfBirth,
		CreatedAt:   n.CreatedAt.Time,
		UpdatedAt:   n.UpdatedAt.Time,
	}
}

type nullMedication struct {
	ID        sql.NullInt64
	Name      sql.NullString
	Dosage    sql.NullString
	Frequency sql.NullString
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}

func (n *nullMedication) dest() []any {
	return []any{&n.ID, &n.Name, &n.Dosage, &n.Frequency, &n.CreatedAt, &n.UpdatedAt}
}

func (n *nullMedication) model() *model.Medication {
	if !n.ID.Valid {
		return nil
	}
	return &model.Medication{
		ID:        n.ID.Int64,
		Name:      n.Name.String,
		Dosage:    n.Dosage.String,
		Frequency: n.Frequency.String,
		CreatedAt: n.CreatedAt.Time,
		UpdatedAt: n.UpdatedAt.Time,
	}
}

type nullAssignment struct {
	ID           sql.NullInt64
	StartDate    model.Date
	Days         sql.NullInt64
	PatientID    sql.NullInt64
	MedicationID sql.NullInt64
	CreatedAt    sql.NullTime
	UpdatedAt    sql.NullTime
}

func (n *nullAssignment) dest() []any {
	return []any{&n.ID, &n.StartDate, &n.Days, &n.PatientID, &n.MedicationID, &n.CreatedAt, &n.UpdatedAt}
}

func (n *nullAssignment) model() *model.Assignment {
	if !n.ID.Valid {
		return nil
	}
	return &model.Assignment{
		ID:           n.ID.Int64,
		StartDate:    n.StartDate,
		Days:         int(n.Days.Int64),
		PatientID:    n.PatientID.Int64,
		MedicationID: n.MedicationID.Int64,
		CreatedAt:    n.CreatedAt.Time,
		UpdatedAt:    n.UpdatedAt.Time,
	}
}

func deleteResult(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
