package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"medtracker/internal/database"
	"medtracker/internal/service"
	"medtracker/internal/validation"
)

// Services groups the use cases exposed over HTTP. Reports is optional.
type Services struct {
	Patients    service.PatientService
	Medications service.MedicationService
	Assignments service.AssignmentService
	Reports     service.ReportService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, v *validation.Validator) {
	app.Get("/health", healthCheck(db))
	app.Get("/healthz", livenessProbe())

	patients := app.Group("/patients")
	patients.Post("/", createPatient(svcs.Patients, v))
	patients.Get("/", listPatients(svcs.Patients))
	patients.Get("/:id", getPatient(svcs.Patients))
	patients.Patch("/:id", updatePatient(svcs.Patients, v))
	patients.Delete("/:id", deletePatient(svcs.Patients))

	medications := app.Group("/medications")
	medications.Post("/", createMedication(svcs.Medications, v))
	medications.Get("/", listMedications(svcs.Medications))
	medications.Get("/:id", getMedication(svcs.Medications))
	medications.Patch("/:id", updateMedication(svcs.Medications, v))
	medications.Delete("/:id", deleteMedication(svcs.Medications))

	assignments := app.Group("/assignments")
	assignments.Post("/", createAssignment(svcs.Assignments, v))
	assignments.Get("/", listAssignments(svcs.Assignments))
	// Must precede /:id.
	assignments.Get("/with-remaining-days", listAssignmentsWithRemainingDays(svcs.Assignments))
	assignments.Get("/:id/with-remaining-days", getAssignmentWithRemainingDays(svcs.Assignments))
	assignments.Get("/:id", getAssignment(svcs.Assignments))
	assignments.Patch("/:id", updateAssignment(svcs.Assignments, v))
	assignments.Delete("/:id", deleteAssignment(svcs.Assignments))

	if svcs.Reports != nil {
		reports := app.Group("/reports")
		reports.Post("/assignments", exportAssignmentsReport(svcs.Reports))
		reports.Get("/:name", downloadReport(svcs.Reports))
	}
}

// healthCheck godoc
// @Summary Readiness probe, checks database connectivity
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func healthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db, 2*time.Second); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// livenessProbe answers 200 while the process is up.
func livenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
