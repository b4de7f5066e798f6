package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// successPayload is the envelope of every 2xx response that carries a body.
type successPayload struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Timestamp  string `json:"timestamp"`
}

// errorPayload is the envelope of every error response.
type errorPayload struct {
	StatusCode int      `json:"statusCode"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
	Message    []string `json:"message"`
}

func now() string {
	return time.Now().UTC().Format(timestampLayout)
}

func writeOK(c *fiber.Ctx, data any) error {
	return writeSuccess(c, fiber.StatusOK, "Success", data)
}

func writeCreated(c *fiber.Ctx, data any) error {
	return writeSuccess(c, fiber.StatusCreated, "Created successfully", data)
}

func writeSuccess(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(successPayload{
		StatusCode: status,
		Message:    message,
		Data:       data,
		Timestamp:  now(),
	})
}

// writeError writes the error envelope. messages must already be safe for clients.
func writeError(c *fiber.Ctx, status int, messages ...string) error {
	if messages == nil {
		messages = []string{}
	}
	return c.Status(status).JSON(errorPayload{
		StatusCode: status,
		Timestamp:  now(),
		Path:       c.OriginalURL(),
		Message:    messages,
	})
}
