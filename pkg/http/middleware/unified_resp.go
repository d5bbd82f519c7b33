package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ibrahim77gh/cre-studio-backend/internal/consts"
	httpx "github.com/ibrahim77gh/cre-studio-backend/pkg/http"
)

// UnifiedResponseMiddleware renders handler results uniformly.
// c.Locals(consts.DETAIL, value) sets response data; c.Locals(consts.OPERATION, "")
// marks a mutation with no payload.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			return err
		}

		if c.Response().StatusCode() == 0 {
			c.Status(fiber.StatusOK)
		}

		if c.Response().StatusCode() >= fiber.StatusOK && c.Response().StatusCode() < fiber.StatusMultipleChoices {
			if detail := c.Locals(consts.DETAIL); detail != nil {
				return httpx.WithRepJSON(c, detail)
			}

			if c.Locals(consts.OPERATION) != nil {
				return httpx.WithRepNotDetail(c)
			}
		}

		return nil
	}
}
