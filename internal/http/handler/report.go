package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"medtracker/internal/service"
)

// exportAssignmentsReport godoc
// @Summary Export all assignments with remaining days as CSV
// @Tags reports
// @Produce json
// @Success 201 {object} successPayload{data=model.Report}
// @Router /reports/assignments [post]
func exportAssignmentsReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep, err := svc.ExportAssignments(c.UserContext())
		if err != nil {
			return err
		}
		return writeCreated(c, rep)
	}
}

// downloadReport godoc
// @Summary Download a stored report
// @Tags reports
// @Produce text/csv
// @Param name path string true "Report file name"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /reports/{name} [get]
func downloadReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		rc, info, err := svc.Download(c.UserContext(), name)
		if err != nil {
			return err
		}

		contentType := info.ContentType
		if contentType == "" {
			contentType = "text/csv"
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, int(info.Size))
	}
}
