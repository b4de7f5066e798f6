package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Recover turns panics into errors for the ErrorHandler and logs the stack
// through the request-scoped logger.
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			zerolog.Ctx(c.UserContext()).Error().
				Str("panic", fmt.Sprint(e)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
		},
	})
}
