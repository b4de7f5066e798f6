package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"medtracker/internal/service"
	"medtracker/internal/validation"
)

const internalErrorMessage = "Internal server error"

// ErrorHandler returns a Fiber global error handler that maps service and
// validation errors onto the error envelope. Internal details of unexpected
// errors go to the log only. fallback is used when the request carries no logger.
func ErrorHandler(fallback zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			verrs    validation.Errors
			notFound *service.NotFoundError
			fiberErr *fiber.Error
		)

		switch {
		case errors.As(err, &verrs):
			return writeError(c, fiber.StatusBadRequest, verrs.Messages()...)
		case errors.As(err, &notFound):
			return writeError(c, fiber.StatusNotFound, notFound.Error())
		case errors.Is(err, service.ErrInvalidDate), errors.Is(err, service.ErrInvalidReportName):
			return writeError(c, fiber.StatusBadRequest, err.Error())
		case errors.As(err, &fiberErr):
			if fiberErr.Code < fiber.StatusInternalServerError {
				return writeError(c, fiberErr.Code, fiberErr.Message)
			}
			logUnexpected(c, fallback, err)
			return writeError(c, fiberErr.Code, internalErrorMessage)
		}

		logUnexpected(c, fallback, err)
		return writeError(c, fiber.StatusInternalServerError, internalErrorMessage)
	}
}

func logUnexpected(c *fiber.Ctx, fallback zerolog.Logger, err error) {
	l := zerolog.Ctx(c.UserContext())
	if l.GetLevel() == zerolog.Disabled {
		l = &fallback
	}
	l.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
}
