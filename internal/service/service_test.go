package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"medtracker/internal/model"
	"medtracker/internal/repository"
)

// fakeTx runs fn inline and records how often a transaction was opened.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func ptr[T any](v T) *T {
	return &v
}

// memAssignments is an in-memory AssignmentRepository shared between services
// so a cascade in one is visible to reads through another.
type memAssignments struct {
	mu    sync.Mutex
	rows  map[int64]model.Assignment
	maxID int64
}

var _ repository.AssignmentRepository = (*memAssignments)(nil)

func newMemAssignments(rows ...model.Assignment) *memAssignments {
	m := &memAssignments{rows: make(map[int64]model.Assignment)}
	for _, a := range rows {
		m.rows[a.ID] = a
		if a.ID > m.maxID {
			m.maxID = a.ID
		}
	}
	return m
}

func (m *memAssignments) Create(_ context.Context, a *model.Assignment) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxID++
	row := *a
	row.ID = m.maxID
	m.rows[row.ID] = row
	return &row, nil
}

func (m *memAssignments) FindByID(_ context.Context, id int64, _ repository.FindOptions) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (m *memAssignments) List(_ context.Context, _ repository.FindOptions) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Assignment, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memAssignments) Update(_ context.Context, a *model.Assignment) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[a.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	m.rows[a.ID] = *a
	return a, nil
}

func (m *memAssignments) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

func (m *memAssignments) DeleteByPatientID(_ context.Context, patientID int64) (int64, error) {
	return m.deleteWhere(func(a model.Assignment) bool { return a.PatientID == patientID }), nil
}

func (m *memAssignments) DeleteByMedicationID(_ context.Context, medicationID int64) (int64, error) {
	return m.deleteWhere(func(a model.Assignment) bool { return a.MedicationID == medicationID }), nil
}

func (m *memAssignments) deleteWhere(match func(model.Assignment) bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, row := range m.rows {
		if match(row) {
			delete(m.rows, id)
			n++
		}
	}
	return n
}
