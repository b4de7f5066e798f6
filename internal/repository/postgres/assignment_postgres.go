package postgres

import (
	"context"
	"database/sql"

	"medtracker/internal/database"
	"medtracker/internal/model"
	"medtracker/internal/repository"
)

const assignmentColumns = `a.id, a.start_date, a.days, a.patient_id, a.medication_id, a.created_at, a.updated_at`

const assignmentReturning = `RETURNING id, start_date, days, patient_id, medication_id, created_at, updated_at`

// Relations: the assigned patient and medication.
const assignmentWithRelations = `
	SELECT ` + assignmentColumns + `,
		p.id, p.name, p.date_of_birth, p.created_at, p.updated_at,
		m.id, m.name, m.dosage, m.frequency, m.created_at, m.updated_at
	FROM assignments a
	LEFT JOIN patients p ON p.id = a.patient_id
	LEFT JOIN medications m ON m.id = a.medication_id
`

// AssignmentPostgres is a PostgreSQL implementation of repository.AssignmentRepository.
type AssignmentPostgres struct {
	db *sql.DB
}

// NewAssignmentPostgres creates a new AssignmentPostgres repository.
func NewAssignmentPostgres(db *sql.DB) *AssignmentPostgres {
	return &AssignmentPostgres{db: db}
}

var _ repository.AssignmentRepository = (*AssignmentPostgres)(nil)

func (r *AssignmentPostgres) Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	const q = `
		INSERT INTO assignments (start_date, days, patient_id, medication_id)
		VALUES ($1, $2, $3, $4)
		` + assignmentReturning
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q, a.StartDate, a.Days, a.PatientID, a.MedicationID)
	return scanAssignment(row)
}

func (r *AssignmentPostgres) FindByID(ctx context.Context, id int64, opts repository.FindOptions) (*model.Assignment, error) {
	if !opts.WithRelations {
		const q = `SELECT ` + assignmentColumns + ` FROM assignments a WHERE a.id = $1`
		return scanAssignment(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
	}

	const q = assignmentWithRelations + `WHERE a.id = $1`
	items, err := r.queryWithRelations(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, sql.ErrNoRows
	}
	return &items[0], nil
}

func (r *AssignmentPostgres) List(ctx context.Context, opts repository.FindOptions) ([]model.Assignment, error) {
	if opts.WithRelations {
		const q = assignmentWithRelations + `ORDER BY a.created_at DESC, a.id DESC`
		return r.queryWithRelations(ctx, q)
	}

	const q = `SELECT ` + assignmentColumns + ` FROM assignments a ORDER BY a.created_at DESC, a.id DESC`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Assignment, 0)
	for rows.Next() {
		var a nullAssignment
		if err := rows.Scan(a.dest()...); err != nil {
			return nil, err
		}
		items = append(items, *a.model())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AssignmentPostgres) Update(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	const q = `
		UPDATE assignments
		SET start_date = $1, days = $2, patient_id = $3, medication_id = $4, updated_at = now()
		WHERE id = $5
		` + assignmentReturning
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q, a.StartDate, a.Days, a.PatientID, a.MedicationID, a.ID)
	return scanAssignment(row)
}

func (r *AssignmentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM assignments WHERE id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return deleteResult(res)
}

func (r *AssignmentPostgres) DeleteByPatientID(ctx context.Context, patientID int64) (int64, error) {
	const q = `DELETE FROM assignments WHERE patient_id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, patientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AssignmentPostgres) DeleteByMedicationID(ctx context.Context, medicationID int64) (int64, error) {
	const q = `DELETE FROM assignments WHERE medication_id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, medicationID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AssignmentPostgres) queryWithRelations(ctx context.Context, q string, args ...any) ([]model.Assignment, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Assignment, 0)
	for rows.Next() {
		var (
			a nullAssignment
			p nullPatient
			m nullMedication
		)
		dest := append(a.dest(), p.dest()...)
		dest = append(dest, m.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		asg := a.model()
		asg.Patient = p.model()
		asg.Medication = m.model()
		items = append(items, *asg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanAssignment(row *sql.Row) (*model.Assignment, error) {
	var a model.Assignment
	if err := row.Scan(&a.ID, &a.StartDate, &a.Days, &a.PatientID, &a.MedicationID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
