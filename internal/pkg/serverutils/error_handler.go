package serverutils

import (
	"errors"

	"tree-editor-be/internal/service"
	"tree-editor-be/internal/tree"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors escaping the handlers into
// the JSON envelope. Field-level edit rejections keep their per-field
// messages so the client can attach them to the form.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var editErr *service.EditError
		if errors.As(err, &editErr) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"code":    fiber.StatusUnprocessableEntity,
				"message": "Validation failed",
				"errors":  editErr.Fields,
			})
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(400, validationErr.Message))
		}

		switch {
		case errors.Is(err, tree.ErrNodeNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(404, "Node not found"))
		case errors.Is(err, service.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(404, "Edit session not found or expired"))
		case errors.Is(err, tree.ErrMoveToDescendant), errors.Is(err, tree.ErrInvalidPosition):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse(422, err.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Internal server error"))
	}
}
