package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/techmaster-vietnam/goerrorkit"
)

// ErrorResponse là body của mọi response lỗi
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler maps handler errors to HTTP responses:
//   - validation errors -> 400
//   - business errors (record not found) -> 404
//   - *fiber.Error -> its own code; 405 is sent with an empty body
//   - anything else -> 500, logged with request context
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code == fiber.StatusMethodNotAllowed {
				c.Response().ResetBody()
				c.Status(fiber.StatusMethodNotAllowed)
				return nil
			}
			return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
		}

		var appErr *goerrorkit.AppError
		if errors.As(err, &appErr) {
			if appErr.Type == goerrorkit.ValidationError {
				return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: appErr.Error()})
			}
			if appErr.Type == goerrorkit.BusinessError {
				return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: appErr.Error()})
			}
		}

		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Request failed").WithData(map[string]interface{}{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
		}), "handlers.ErrorHandler")
		if log != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("request failed")
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
	}
}
