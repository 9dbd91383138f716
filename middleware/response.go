package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"edusphere/store"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errs map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errs)
}

// ErrorResponse maps a store error kind to its HTTP status. Storage errors
// come back as 500; everything else is a deterministic client-visible
// outcome.
func ErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrValidation):
		return JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, store.ErrAuthentication):
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	case errors.Is(err, store.ErrAuthorization):
		return JsonResponse(c, fiber.StatusForbidden, false, "Not authorized to access this resource!", nil)
	case errors.Is(err, store.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, store.ErrConflict):
		return JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	default:
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
