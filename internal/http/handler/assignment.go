package handler

import (
	"github.com/gofiber/fiber/v2"

	"medtracker/internal/service"
	"medtracker/internal/validation"
)

// createAssignment godoc
// @Summary Assign a medication to a patient
// @Description The patient is checked before the medication; a missing one yields 404.
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body service.CreateAssignmentInput true "Assignment"
// @Success 201 {object} successPayload{data=model.Assignment}
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /assignments [post]
func createAssignment(svc service.AssignmentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateAssignmentInput
		if err := bind(c, v, &in); err != nil {
			return err
		}
		a, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return writeCreated(c, a)
	}
}

// listAssignments godoc
// @Summary List assignments with patient and medication
// @Tags assignments
// @Produce json
// @Success 200 {object} successPayload{data=[]model.Assignment}
// @Router /assignments [get]
func listAssignments(svc service.AssignmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return writeOK(c, items)
	}
}

// listAssignmentsWithRemainingDays godoc
// @Summary List assignments with remaining treatment days
// @Tags assignments
// @Produce json
// @Success 200 {object} successPayload{data=[]model.AssignmentWithRemainingDays}
// @Router /assignments/with-remaining-days [get]
func listAssignmentsWithRemainingDays(svc service.AssignmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListWithRemainingDays(c.UserContext())
		if err != nil {
			return err
		}
		return writeOK(c, items)
	}
}

// getAssignment godoc
// @Summary Get an assignment
// @Tags assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} successPayload{data=model.Assignment}
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /assignments/{id} [get]
func getAssignment(svc service.AssignmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return writeOK(c, a)
	}
}

// getAssignmentWithRemainingDays godoc
// @Summary Get an assignment with remaining treatment days
// @Tags assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} successPayload{data=model.AssignmentWithRemainingDays}
// @Failure 404 {object} errorPayload
// @Router /assignments/{id}/with-remaining-days [get]
func getAssignmentWithRemainingDays(svc service.AssignmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		a, err := svc.GetWithRemainingDays(c.UserContext(), id)
		if err != nil {
			return err
		}
		return writeOK(c, a)
	}
}

// updateAssignment godoc
// @Summary Update an assignment
// @Description Only supplied fields change. Supplied patientId or medicationId must exist.
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param body body service.UpdateAssignmentInput true "Fields to change"
// @Success 200 {object} successPayload{data=model.Assignment}
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /assignments/{id} [patch]
func updateAssignment(svc service.AssignmentService, v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		var in service.UpdateAssignmentInput
		if err := bind(c, v, &in); err != nil {
			return err
		}
		a, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return writeOK(c, a)
	}
}

// deleteAssignment godoc
// @Summary Delete an assignment
// @Tags assignments
// @Param id path int true "Assignment ID"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /assignments/{id} [delete]
func deleteAssignment(svc service.AssignmentService) fiber.Handler {
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
