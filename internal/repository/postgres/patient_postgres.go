package postgres

import (
	"context"
	"database/sql"

	"medtracker/internal/database"
	"medtracker/internal/model"
	"medtracker/internal/repository"
)

const patientColumns = `p.id, p.name, p.date_of_birth, p.created_at, p.updated_at`

// Relations: assignments of the patient, each with its medication.
const patientWithRelations = `
	SELECT ` + patientColumns + `,
		a.id, a.start_date, a.days, a.patient_id, a.medication_id, a.created_at, a.updated_at,
		m.id, m.name, m.dosage, m.frequency, m.created_at, m.updated_at
	FROM patients p
	LEFT JOIN assignments a ON a.patient_id = p.id
	LEFT JOIN medications m ON m.id = a.medication_id
`

// PatientPostgres is a PostgreSQL implementation of repository.PatientRepository.
type PatientPostgres struct {
	db *sql.DB
}

// NewPatientPostgres creates a new PatientPostgres repository.
func NewPatientPostgres(db *sql.DB) *PatientPostgres {
	return &PatientPostgres{db: db}
}

var _ repository.PatientRepository = (*PatientPostgres)(nil)

// Create inserts a new patient row and returns the stored record.
func (r *PatientPostgres) Create(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	const q = `
		INSERT INTO patients (name, date_of_birth)
		VALUES ($1, $2)
		RETURNING id, name, date_of_birth, created_at, updated_at
	`
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q, p.Name, p.DateOfBirth)
	return scanPatient(row)
}

// FindByID fetches a single patient.
func (r *PatientPostgres) FindByID(ctx context.Context, id int64, opts repository.FindOptions) (*model.Patient, error) {
	if !opts.WithRelations {
		const q = `SELECT ` + patientColumns + ` FROM patients p WHERE p.id = $1`
		return scanPatient(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
	}

	const q = patientWithRelations + `
	WHERE p.id = $1
	ORDER BY a.created_at DESC, a.id DESC
	`
	items, err := r.queryWithRelations(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, sql.ErrNoRows
	}
	return &items[0], nil
}

// List returns all patients ordered by creation time, newest first.
func (r *PatientPostgres) List(ctx context.Context, opts repository.FindOptions) ([]model.Patient, error) {
	if opts.WithRelations {
		const q = patientWithRelations + `
	ORDER BY p.created_at DESC, p.id DESC, a.created_at DESC, a.id DESC
	`
		return r.queryWithRelations(ctx, q)
	}

	const q = `SELECT ` + patientColumns + ` FROM patients p ORDER BY p.created_at DESC, p.id DESC`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Patient, 0)
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update writes the mutable columns and bumps updated_at.
func (r *PatientPostgres) Update(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	const q = `
		UPDATE patients
		SET name = $1, date_of_birth = $2, updated_at = now()
		WHERE id = $3
		RETURNING id, name, date_of_birth, created_at, updated_at
	`
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q, p.Name, p.DateOfBirth, p.ID)
	return scanPatient(row)
}

// Delete removes a patient by ID.
func (r *PatientPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM patients WHERE id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return deleteResult(res)
}

func (r *PatientPostgres) queryWithRelations(ctx context.Context, q string, args ...any) ([]model.Patient, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Patient, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			p model.Patient
			a nullAssignment
			m nullMedication
		)
		dest := append([]any{&p.ID, &p.Name, &p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt}, a.dest()...)
		dest = append(dest, m.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		i, ok := index[p.ID]
		if !ok {
			p.Assignments = make([]model.Assignment, 0)
			items = append(items, p)
			i = len(items) - 1
			index[p.ID] = i
		}
		if asg := a.model(); asg != nil {
			asg.Medication = m.model()
			items[i].Assignments = append(items[i].Assignments, *asg)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanPatient(row *sql.Row) (*model.Patient, error) {
	var p model.Patient
	if err := row.Scan(&p.ID, &p.Name, &p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
