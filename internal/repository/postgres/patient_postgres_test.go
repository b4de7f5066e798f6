package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"medtracker/internal/database"
	"medtracker/internal/model"
	"medtracker/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var patientCols = []string{"id", "name", "date_of_birth", "created_at", "updated_at"}

var patientRelationCols = append(append([]string{}, patientCols...),
	"a_id", "a_start_date", "a_days", "a_patient_id", "a_medication_id", "a_created_at", "a_updated_at",
	"m_id", "m_name", "m_dosage", "m_frequency", "m_created_at", "m_updated_at",
)

func TestPatientPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPatientPostgres(db)
	now := time.Now().UTC()
	dob := model.NewDate(1990, time.May, 15)

	mock.ExpectQuery("INSERT INTO patients").
		WithArgs("John Doe", dob).
		WillReturnRows(sqlmock.NewRows(patientCols).AddRow(1, "John Doe", dob.Time, now, now))

	got, err := repo.Create(context.Background(), &model.Patient{Name: "John Doe", DateOfBirth: dob})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "1990-05-15", got.DateOfBirth.String())
	assert.Equal(t, now, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPatientPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()
	dob := time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)

	t.Run("without relations", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM patients p WHERE p.id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(patientCols).AddRow(1, "John Doe", dob, now, now))

		p, err := repo.FindByID(ctx, 1, repository.FindOptions{})
		require.NoError(t, err)
		assert.Equal(t, "John Doe", p.Name)
		assert.Nil(t, p.Assignments)
	})

	t.Run("with relations", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(patientRelationCols).
			AddRow(1, "John Doe", dob, now, now, 10, start, 30, 1, 7, now, now, 7, "Aspirin", "100mg", "daily", now, now).
			AddRow(1, "John Doe", dob, now, now, 9, start, 5, 1, 8, now, now, 8, "Ibuprofen", "200mg", "twice", now, now)

		mock.ExpectQuery("SELECT (.+) FROM patients p LEFT JOIN assignments a (.+) WHERE p.id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, 1, repository.FindOptions{WithRelations: true})
		require.NoError(t, err)
		require.Len(t, p.Assignments, 2)
		assert.Equal(t, int64(10), p.Assignments[0].ID)
		assert.Equal(t, 30, p.Assignments[0].Days)
		require.NotNil(t, p.Assignments[0].Medication)
		assert.Equal(t, "Aspirin", p.Assignments[0].Medication.Name)
		assert.Equal(t, "Ibuprofen", p.Assignments[1].Medication.Name)
	})

	t.Run("with relations and no assignments", func(t *testing.T) {
		rows := sqlmock.NewRows(patientRelationCols).
			AddRow(2, "Jane", dob, now, now, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)
		mock.ExpectQuery("SELECT (.+) FROM patients p LEFT JOIN").
			WithArgs(int64(2)).
			WillReturnRows(rows)

		p, err := repo.FindByID(ctx, 2, repository.FindOptions{WithRelations: true})
		require.NoError(t, err)
		assert.NotNil(t, p.Assignments)
		assert.Empty(t, p.Assignments)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM patients p LEFT JOIN").
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows(patientRelationCols))

		p, err := repo.FindByID(ctx, 999, repository.FindOptions{WithRelations: true})
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPatientPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()
	dob := time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)

	t.Run("groups joined rows preserving order", func(t *testing.T) {
		rows := sqlmock.NewRows(patientRelationCols).
			AddRow(3, "Newest", dob, now, now, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil).
			AddRow(1, "Oldest", dob, now, now, 5, dob, 10, 1, 2, now, now, 2, "Aspirin", "100mg", "daily", now, now).
			AddRow(1, "Oldest", dob, now, now, 4, dob, 10, 1, 2, now, now, 2, "Aspirin", "100mg", "daily", now, now)

		mock.ExpectQuery("SELECT (.+) FROM patients p LEFT JOIN (.+) ORDER BY p.created_at DESC").
			WillReturnRows(rows)

		items, err := repo.List(ctx, repository.FindOptions{WithRelations: true})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Newest", items[0].Name)
		assert.Empty(t, items[0].Assignments)
		assert.Len(t, items[1].Assignments, 2)
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM patients p ORDER BY").
			WillReturnRows(sqlmock.NewRows(patientCols))

		items, err := repo.List(ctx, repository.FindOptions{})
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM patients p ORDER BY").
			WillReturnError(errors.New("db down"))

		_, err := repo.List(ctx, repository.FindOptions{})
		assert.EqualError(t, err, "db down")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPatientPostgres(db)
	now := time.Now().UTC()
	dob := model.NewDate(1991, time.June, 1)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE patients")).
		WithArgs("Renamed", dob, int64(4)).
		WillReturnRows(sqlmock.NewRows(patientCols).AddRow(4, "Renamed", dob.Time, now.Add(-time.Hour), now))

	got, err := repo.Update(context.Background(), &model.Patient{ID: 4, Name: "Renamed", DateOfBirth: dob})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPatientPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM patients WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, 1))

	mock.ExpectExec("DELETE FROM patients WHERE id = \\$1").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 2), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientPostgres_UsesTransactionFromContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPatientPostgres(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM patients").WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = database.NewTransactor(db).WithinTx(context.Background(), func(ctx context.Context) error {
		return repo.Delete(ctx, 1)
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
