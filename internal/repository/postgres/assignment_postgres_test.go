package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"medtracker/internal/model"
	"medtracker/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assignmentCols = []string{"id", "start_date", "days", "patient_id", "medication_id", "created_at", "updated_at"}

var assignmentRelationCols = append(append([]string{}, assignmentCols...),
	"p_id", "p_name", "p_date_of_birth", "p_created_at", "p_updated_at",
	"m_id", "m_name", "m_dosage", "m_frequency", "m_created_at", "m_updated_at",
)

func TestAssignmentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssignmentPostgres(db)
	now := time.Now().UTC()
	start := model.NewDate(2024, time.January, 10)

	mock.ExpectQuery("INSERT INTO assignments").
		WithArgs(start, 30, int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).AddRow(5, start.Time, 30, 1, 2, now, now))

	got, err := repo.Create(context.Background(), &model.Assignment{StartDate: start, Days: 30, PatientID: 1, MedicationID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, "2024-01-10", got.StartDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssignmentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("with relations", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM assignments a LEFT JOIN patients p (.+) WHERE a.id = \\$1").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(assignmentRelationCols).
				AddRow(5, day, 30, 1, 2, now, now, 1, "John", day, now, now, 2, "Aspirin", "100mg", "daily", now, now))

		a, err := repo.FindByID(ctx, 5, repository.FindOptions{WithRelations: true})
		require.NoError(t, err)
		require.NotNil(t, a.Patient)
		require.NotNil(t, a.Medication)
		assert.Equal(t, "John", a.Patient.Name)
		assert.Equal(t, "Aspirin", a.Medication.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM assignments a WHERE a.id = \\$1").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(assignmentCols))

		a, err := repo.FindByID(ctx, 404, repository.FindOptions{})
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, a)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssignmentPostgres(db)
	now := time.Now().UTC()
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM assignments a LEFT JOIN (.+) ORDER BY a.created_at DESC, a.id DESC").
		WillReturnRows(sqlmock.NewRows(assignmentRelationCols).
			AddRow(6, day, 7, 1, 2, now, now, 1, "John", day, now, now, 2, "Aspirin", "100mg", "daily", now, now).
			AddRow(5, day, 30, 3, 2, now, now, 3, "Jane", day, now, now, 2, "Aspirin", "100mg", "daily", now, now))

	items, err := repo.List(context.Background(), repository.FindOptions{WithRelations: true})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(6), items[0].ID)
	assert.Equal(t, "Jane", items[1].Patient.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssignmentPostgres(db)
	now := time.Now().UTC()
	start := model.NewDate(2024, time.February, 1)

	mock.ExpectQuery("UPDATE assignments").
		WithArgs(start, 14, int64(1), int64(3), int64(5)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).AddRow(5, start.Time, 14, 1, 3, now, now))

	got, err := repo.Update(context.Background(), &model.Assignment{ID: 5, StartDate: start, Days: 14, PatientID: 1, MedicationID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.MedicationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentPostgres_Deletes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssignmentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM assignments WHERE patient_id = \\$1").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.DeleteByPatientID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mock.ExpectExec("DELETE FROM assignments WHERE medication_id = \\$1").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	n, err = repo.DeleteByMedicationID(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, n)

	mock.ExpectExec("DELETE FROM assignments WHERE medication_id = \\$1").
		WithArgs(int64(3)).
		WillReturnError(errors.New("lock timeout"))
	_, err = repo.DeleteByMedicationID(ctx, 3)
	assert.EqualError(t, err, "lock timeout")

	mock.ExpectExec("DELETE FROM assignments WHERE id = \\$1").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 9), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
