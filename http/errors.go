package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/domain"
)

const (
	msgNotFound     = "Document not found"
	msgInvalidData  = "Invalid document data"
	msgInvalidID    = "Invalid document id"
	msgQueryMissing = "Search query required"
	msgConflict     = "Filename already in use"
	msgDeleted      = "Document deleted successfully"
)

// fail maps a store error to its HTTP response. action names the failed
// operation in 500 responses, e.g. "fetching documents".
func fail(c *fiber.Ctx, err error, action string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgInvalidData, "errors": verr.Fields})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": msgInvalidData,
			"errors":  []domain.FieldError{{Message: err.Error()}},
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msgNotFound})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": msgConflict})
	}

	log.Error().Str("component", "http").Err(err).Str("path", c.Path()).Msg("Error " + action)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error " + action})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Error().Str("component", "http").Err(err).Str("path", c.Path()).Msg("Unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{"message": message})
}
