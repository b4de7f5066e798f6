package handler

import (
	"github.com/gofiber/fiber/v2"

	"medtracker/internal/service"
	"medtracker/internal/validation"
)

// createMedication godoc
// @Summary Create a medication
// @Tags medications
// @Accept json
// @Produce json
// @Param body body service.CreateMedicationInput true "Medication"
// @Success 201 {object} successPayload{data=model.Medication}
// @Failure 400 {object} errorPayload
// @Router /medications [post]
func createMedication(svc service.MedicationService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateMedicationInput
		if err := bind(c, v, &in); err != nil {
			return err
		}
		m, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return writeCreated(c, m)
	}
}

// listMedications godoc
// @Summary List medications with their assignments
// @Tags medications
// @Produce json
// @Success 200 {object} successPayload{data=[]model.Medication}
// @Router /medications [get]
func listMedications(svc service.MedicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return writeOK(c, items)
	}
}

// getMedication godoc
// @Summary Get a medication
// @Tags medications
// @Produce json
// @Param id path int true "Medication ID"
// @Success 200 {object} successPayload{data=model.Medication}
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /medications/{id} [get]
func getMedication(svc service.MedicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		m, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return writeOK(c, m)
	}
}

// updateMedication godoc
// @Summary Update a medication
// @Description Only supplied fields change.
// @Tags medications
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Param body body service.UpdateMedicationInput true "Fields to change"
// @Success 200 {object} successPayload{data=model.Medication}
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /medications/{id} [patch]
func updateMedication(svc service.MedicationService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		var in service.UpdateMedicationInput
		if err := bind(c, v, &in); err != nil {
			return err
		}
		m, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return writeOK(c, m)
	}
}

// deleteMedication godoc
// @Summary Delete a medication and all of its assignments
// @Tags medications
// @Param id path int true "Medication ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /medications/{id} [delete]
func deleteMedication(svc service.MedicationService) fiber.Handler {
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
