package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger writes one access log event per request and binds a request-scoped
// logger (carrying request_id and trace_id) to the user context, so handlers
// and services can log through zerolog.Ctx.
//
// Errors from the chain are passed to the app ErrorHandler here so the logged
// status is the one the client receives.
func Logger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		rid := GetRequestID(c)
		ctx := c.UserContext()

		lc := logger.With().Str("request_id", rid)
		traceID := ""
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID = sc.TraceID().String()
			lc = lc.Str("trace_id", traceID)
		}
		reqLogger := lc.Logger()
		c.SetUserContext(reqLogger.WithContext(ctx))

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = reqLogger.Error()
		case status >= fiber.StatusBadRequest:
			event = reqLogger.Warn()
		default:
			event = reqLogger.Info()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency_ms", float64(time.Since(start).Microseconds())/1000).
			Str("remote_ip", c.IP()).
			Msg("request")

		return nil
	}
}
