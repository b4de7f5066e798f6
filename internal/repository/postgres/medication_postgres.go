package postgres

import (
	"context"
	"database/sql"

	"medtracker/internal/database"
	"medtracker/internal/model"
	"medtracker/internal/repository"
)

const medicationColumns = `m.id, m.name, m.dosage, m.frequency, m.created_at, m.updated_at`

// Relations: assignments of the medication, each with its patient.
const medicationWithRelations = `
	SELECT ` + medicationColumns + `,
		a.id, a.start_date, a.days, a.patient_id, a.medication_id, a.created_at, a.updated_at,
		p.id, p.name, p.date_of_birth, p.created_at, p.updated_at
	FROM medications m
	LEFT JOIN assignments a ON a.medication_id = m.id
	LEFT JOIN patients p ON p.id = a.patient_id
`

// MedicationPostgres is a PostgreSQL implementation of repository.MedicationRepository.
type MedicationPostgres struct {
	db *sql.DB
}

// NewMedicationPostgres creates a new MedicationPostgres repository.
func NewMedicationPostgres(db *sql.DB) *MedicationPostgres {
	return &MedicationPostgres{db: db}
}

var _ repository.MedicationRepository = (*MedicationPostgres)(nil)

func (r *MedicationPostgres) Create(ctx context.Context, m *model.Medication) (*model.Medication, error) {
	const q = `
		INSERT INTO medications (name, dosage, frequency)
		VALUES ($1, $2, $3)
		RETURNING id, name, dosage, frequency, created_at, updated_at
	`
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q, m.Name, m.Dosage, m.Frequency)
	return scanMedication(row)
}

func (r *MedicationPostgres) FindByID(ctx context.Context, id int64, opts repository.FindOptions) (*model.Medication, error) {
	if !opts.WithRelations {
		const q = `SELECT ` + medicationColumns + ` FROM medications m WHERE m.id = $1`
		return scanMedication(database.Conn(ctx, r.db).QueryRowContext(ctx, q, id))
	}

	const q = medicationWithRelations + `
	WHERE m.id = $1
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

func (r *MedicationPostgres) List(ctx context.Context, opts repository.FindOptions) ([]model.Medication, error) {
	if opts.WithRelations {
		const q = medicationWithRelations + `
	ORDER BY m.created_at DESC, m.id DESC, a.created_at DESC, a.id DESC
	`
		return r.queryWithRelations(ctx, q)
	}

	const q = `SELECT ` + medicationColumns + ` FROM medications m ORDER BY m.created_at DESC, m.id DESC`
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Medication, 0)
	for rows.Next() {
		var m model.Medication
		if err := rows.Scan(&m.ID, &m.Name, &m.Dosage, &m.Frequency, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MedicationPostgres) Update(ctx context.Context, m *model.Medication) (*model.Medication, error) {
	const q = `
		UPDATE medications
		SET name = $1, dosage = $2, frequency = $3, updated_at = now()
		WHERE id = $4
		RETURNING id, name, dosage, frequency, created_at, updated_at
	`
	row := database.Conn(ctx, r.db).QueryRowContext(ctx, q, m.Name, m.Dosage, m.Frequency, m.ID)
	return scanMedication(row)
}

func (r *MedicationPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM medications WHERE id = $1`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return deleteResult(res)
}

func (r *MedicationPostgres) queryWithRelations(ctx context.Context, q string, args ...any) ([]model.Medication, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Medication, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			m model.Medication
			a nullAssignment
			p nullPatient
		)
		dest := append([]any{&m.ID, &m.Name, &m.Dosage, &m.Frequency, &m.CreatedAt, &m.UpdatedAt}, a.dest()...)
		dest = append(dest, p.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		i, ok := index[m.ID]
		if !ok {
			m.Assignments = make([]model.Assignment, 0)
			items = append(items, m)
			i = len(items) - 1
			index[m.ID] = i
		}
		if asg := a.model(); asg != nil {
			asg.Patient = p.model()
			items[i].Assignments = append(items[i].Assignments, *asg)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanMedication(row *sql.Row) (*model.Medication, error) {
	var m model.Medication
	if err := row.Scan(&m.ID, &m.Name, &m.Dosage, &m.Frequency, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
