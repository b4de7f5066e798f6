package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medtracker/internal/model"
	"medtracker/internal/service"
	"medtracker/internal/service/mocks"
	"medtracker/internal/storage"
	"medtracker/internal/validation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testDeps struct {
	patients    *mocks.MockPatientService
	medications *mocks.MockMedicationService
	assignments *mocks.MockAssignmentService
	reports     *mocks.MockReportService
}

func newTestApp(t *testing.T, withReports bool) (*fiber.App, testDeps) {
	t.Helper()
	deps := testDeps{
		patients:    new(mocks.MockPatientService),
		medications: new(mocks.MockMedicationService),
		assignments: new(mocks.MockAssignmentService),
		reports:     new(mocks.MockReportService),
	}
	svcs := Services{Patients: deps.patients, Medications: deps.medications, Assignments: deps.assignments}
	if withReports {
		svcs.Reports = deps.reports
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	RegisterRoutes(app, nil, svcs, validation.New(time.UTC))
	return app, deps
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return resp, nil
	}
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload), "body: %s", raw)
	return resp, payload
}

func messages(payload map[string]any) []string {
	var out []string
	for _, m := range payload["message"].([]any) {
		out = append(out, m.(string))
	}
	return out
}

func TestPatientRoutes(t *testing.T) {
	t.Run("create returns the created envelope", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.patients.On("Create", mock.Anything, service.CreatePatientInput{Name: "John Doe", DateOfBirth: "1990-05-15"}).
			Return(&model.Patient{ID: 1, Name: "John Doe", DateOfBirth: model.NewDate(1990, time.May, 15)}, nil)

		resp, payload := doJSON(t, app, "POST", "/patients", `{"name":"John Doe","dateOfBirth":"1990-05-15"}`)

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.EqualValues(t, 201, payload["statusCode"])
		assert.Equal(t, "Created successfully", payload["message"])
		assert.NotEmpty(t, payload["timestamp"])
		data := payload["data"].(map[string]any)
		assert.Equal(t, "1990-05-15", data["dateOfBirth"])
		assert.EqualValues(t, 1, data["id"])
	})

	t.Run("create rejects invalid input before the service", func(t *testing.T) {
		app, deps := newTestApp(t, false)

		resp, payload := doJSON(t, app, "POST", "/patients", `{"name":"","dateOfBirth":"2999-01-01"}`)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "/patients", payload["path"])
		assert.Equal(t, []string{"name should not be empty", "dateOfBirth must not be in the future"}, messages(payload))
		deps.patients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("create rejects unknown properties", func(t *testing.T) {
		app, _ := newTestApp(t, false)

		resp, payload := doJSON(t, app, "POST", "/patients", `{"name":"John","dateOfBirth":"1990-05-15","ssn":"123"}`)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, []string{"property ssn should not exist"}, messages(payload))
	})

	t.Run("list returns an empty collection", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.patients.On("List", mock.Anything).Return([]model.Patient{}, nil)

		resp, payload := doJSON(t, app, "GET", "/patients", "")

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Success", payload["message"])
		assert.Equal(t, []any{}, payload["data"])
	})

	t.Run("non numeric id", func(t *testing.T) {
		app, deps := newTestApp(t, false)

		resp, payload := doJSON(t, app, "GET", "/patients/abc", "")

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, []string{"Validation failed (numeric string is expected)"}, messages(payload))
		deps.patients.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("get missing patient", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.patients.On("Get", mock.Anything, int64(999)).Return(nil, &service.NotFoundError{Entity: "Patient", ID: int64(999)})

		resp, payload := doJSON(t, app, "GET", "/patients/999", "")

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.EqualValues(t, 404, payload["statusCode"])
		assert.Equal(t, "/patients/999", payload["path"])
		assert.Equal(t, []string{"Patient with ID 999 not found"}, messages(payload))
	})

	t.Run("loaded patient without assignments keeps an empty list", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.patients.On("Get", mock.Anything, int64(1)).
			Return(&model.Patient{ID: 1, Name: "John", Assignments: []model.Assignment{}}, nil)

		resp, payload := doJSON(t, app, "GET", "/patients/1", "")

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		data := payload["data"].(map[string]any)
		require.Contains(t, data, "assignments")
		assert.Equal(t, []any{}, data["assignments"])
	})

	t.Run("empty patch passes an empty partial", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.patients.On("Update", mock.Anything, int64(1), service.UpdatePatientInput{}).
			Return(&model.Patient{ID: 1, Name: "John"}, nil)

		resp, _ := doJSON(t, app, "PATCH", "/patients/1", `{}`)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		deps.patients.AssertExpectations(t)
	})

	t.Run("delete answers 204 without body", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.patients.On("Delete", mock.Anything, int64(1)).Return(nil)

		resp, payload := doJSON(t, app, "DELETE", "/patients/1", "")

		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Nil(t, payload)
	})

	t.Run("unexpected errors are hidden", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.patients.On("List", mock.Anything).Return(nil, errors.New("pq: password authentication failed"))

		resp, payload := doJSON(t, app, "GET", "/patients", "")

		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, []string{"Internal server error"}, messages(payload))
	})
}

func TestMedicationRoutes(t *testing.T) {
	app, deps := newTestApp(t, false)
	deps.medications.On("Update", mock.Anything, int64(3), mock.MatchedBy(func(in service.UpdateMedicationInput) bool {
		return in.Dosage != nil && *in.Dosage == "200mg" && in.Name == nil
	})).Return(&model.Medication{ID: 3, Name: "Aspirin", Dosage: "200mg", Frequency: "daily"}, nil)

	resp, payload := doJSON(t, app, "PATCH", "/medications/3", `{"dosage":"200mg"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "200mg", payload["data"].(map[string]any)["dosage"])

	resp, payload = doJSON(t, app, "POST", "/medications", `{"name":"Aspirin","dosage":"100mg"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"frequency should not be empty"}, messages(payload))
}

func TestMedicationRoutes_EmptyAssignments(t *testing.T) {
	app, deps := newTestApp(t, false)
	deps.medications.On("List", mock.Anything).Return([]model.Medication{
		{ID: 1, Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Assignments: []model.Assignment{}},
	}, nil)

	resp, payload := doJSON(t, app, "GET", "/medications", "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := payload["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, []any{}, items[0].(map[string]any)["assignments"])
}

func TestAssignmentRoutes(t *testing.T) {
	t.Run("with-remaining-days list is not captured by :id", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.assignments.On("ListWithRemainingDays", mock.Anything).Return([]model.AssignmentWithRemainingDays{
			{Assignment: model.Assignment{ID: 1, Days: 30}, RemainingDays: 12},
		}, nil)

		resp, payload := doJSON(t, app, "GET", "/assignments/with-remaining-days", "")

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		items := payload["data"].([]any)
		require.Len(t, items, 1)
		assert.EqualValues(t, 12, items[0].(map[string]any)["remainingDays"])
	})

	t.Run("single with remaining days", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.assignments.On("GetWithRemainingDays", mock.Anything, int64(5)).
			Return(&model.AssignmentWithRemainingDays{Assignment: model.Assignment{ID: 5}, RemainingDays: 0}, nil)

		resp, payload := doJSON(t, app, "GET", "/assignments/5/with-remaining-days", "")

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 0, payload["data"].(map[string]any)["remainingDays"])
	})

	t.Run("create with missing medication", func(t *testing.T) {
		app, deps := newTestApp(t, false)
		deps.assignments.On("Create", mock.Anything, mock.Anything).
			Return(nil, &service.NotFoundError{Entity: "Medication", ID: int64(2)})

		resp, payload := doJSON(t, app, "POST", "/assignments", `{"patientId":1,"medicationId":2,"startDate":"2024-01-10","days":30}`)

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, []string{"Medication with ID 2 not found"}, messages(payload))
	})

	t.Run("create validates days and ids", func(t *testing.T) {
		app, deps := newTestApp(t, false)

		resp, payload := doJSON(t, app, "POST", "/assignments", `{"patientId":0,"medicationId":2,"startDate":"2024-01-10","days":400}`)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, []string{"patientId should not be empty", "days must not be greater than 365"}, messages(payload))
		deps.assignments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("wrong json type", func(t *testing.T) {
		app, _ := newTestApp(t, false)

		resp, payload := doJSON(t, app, "POST", "/assignments", `{"patientId":"one","medicationId":2,"startDate":"2024-01-10","days":3}`)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, []string{"patientId must be an integer number"}, messages(payload))
	})

	t.Run("patch with present zero id", func(t *testing.T) {
		app, _ := newTestApp(t, false)

		resp, payload := doJSON(t, app, "PATCH", "/assignments/5", `{"medicationId":0}`)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, []string{"medicationId must be a positive number"}, messages(payload))
	})
}

func TestReportRoutes(t *testing.T) {
	t.Run("not mounted without storage", func(t *testing.T) {
		app, _ := newTestApp(t, false)

		resp, payload := doJSON(t, app, "POST", "/reports/assignments", "")

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.Equal(t, []string{"Cannot POST /reports/assignments"}, messages(payload))
	})

	t.Run("export", func(t *testing.T) {
		app, deps := newTestApp(t, true)
		deps.reports.On("ExportAssignments", mock.Anything).
			Return(&model.Report{Name: "a.csv", Key: "reports/a.csv", Rows: 2, URL: "http://minio/a.csv"}, nil)

		resp, payload := doJSON(t, app, "POST", "/reports/assignments", "")

		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "http://minio/a.csv", payload["data"].(map[string]any)["url"])
	})

	t.Run("download streams csv", func(t *testing.T) {
		app, deps := newTestApp(t, true)
		body := "id,patient\n1,John\n"
		deps.reports.On("Download", mock.Anything, "a.csv").
			Return(io.NopCloser(strings.NewReader(body)), storage.ObjectInfo{Size: int64(len(body)), ContentType: "text/csv"}, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/reports/a.csv", nil))
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="a.csv"`)
		assert.Equal(t, body, string(raw))
	})

	t.Run("download invalid name", func(t *testing.T) {
		app, deps := newTestApp(t, true)
		deps.reports.On("Download", mock.Anything, "notes.txt").
			Return(nil, storage.ObjectInfo{}, service.ErrInvalidReportName)

		resp, _ := doJSON(t, app, "GET", "/reports/notes.txt", "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHealthRoutes(t *testing.T) {
	db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	RegisterRoutes(app, db, Services{}, validation.New(time.UTC))

	sqlMock.ExpectPing()
	resp, payload := doJSON(t, app, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", payload["status"])

	sqlMock.ExpectPing().WillReturnError(errors.New("down"))
	resp, payload = doJSON(t, app, "GET", "/health", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, []string{"dependency unavailable"}, messages(payload))

	resp, _ = doJSON(t, app, "GET", "/healthz", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
