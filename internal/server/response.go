package server

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/Rana718/gridbase/internal/errs"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(Response{Success: true, Message: msg})
}

// errorHandler renders every error returned by a handler as an envelope.
// Internal errors are logged and reported without their cause.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(Response{Success: false, Message: fe.Message})
		}

		kind := errs.KindOf(err)
		msg := errs.Message(err)
		if kind == errs.KindUnknown || kind == errs.KindInternal {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", requestID(c),
				"error", err,
			)
			if kind == errs.KindUnknown {
				msg = "Internal server error"
			}
		}
		return c.Status(kind.HTTPStatus()).JSON(Response{Success: false, Message: msg})
	}
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.BadRequest("Invalid %s", name)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, target any) error {
	if err := c.BodyParser(target); err != nil {
		return errs.BadRequest("Invalid request body")
	}
	return nil
}
