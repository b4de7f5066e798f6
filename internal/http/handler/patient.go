package handler

import (
	"github.com/gofiber/fiber/v2"

	"medtracker/internal/service"
	"medtracker/internal/validation"
)

// createPatient godoc
// @Summary Create a patient
// @Tags patients
// @Accept json
// @Produce json
// @Param body body service.CreatePatientInput true "Patient"
// @Success 201 {object} successPayload{data=model.Patient}
// @Failure 400 {object} errorPayload
// @Router /patients [post]
func createPatient(svc service.PatientService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreatePatientInput
		if err := bind(c, v, &in); err != nil {
			return err
		}
		p, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return writeCreated(c, p)
	}
}

// listPatients godoc
// @Summary List patients with their assignments
// @Tags patients
// @Produce json
// @Success 200 {object} successPayload{data=[]model.Patient}
// @Router /patients [get]
func listPatients(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return writeOK(c, items)
	}
}

// getPatient godoc
// @Summary Get a patient
// @Tags patients
// @Produce json
// @Param id path int true "Patient ID"
// @Success 200 {object} successPayload{data=model.Patient}
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /patients/{id} [get]
func getPatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return writeOK(c, p)
	}
}

// updatePatient godoc
// @Summary Update a patient
// @Description Only supplied fields change.
// @Tags patients
// @Accept json
// @Produce json
// @Param id path int true "Patient ID"
// @Param body body service.UpdatePatientInput true "Fields to change"
// @Success 200 {object} successPayload{data=model.Patient}
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /patients/{id} [patch]
func updatePatient(svc service.PatientService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		var in service.UpdatePatientInput
		if err := bind(c, v, &in); err != nil {
			return err
		}
		p, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return writeOK(c, p)
	}
}

// deletePatient godoc
// @Summary Delete a patient and all of its assignments
// @Tags patients
// @Param id path int true "Patient ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /patients/{id} [delete]
func deletePatient(svc service.PatientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
