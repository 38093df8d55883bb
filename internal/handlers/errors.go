package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/types"
	"github.com/localnerve/excel-analyzer/internal/utils"
)

// ErrorHandler is the process-wide error handler. Taxonomy errors keep their
// status and message; anything else is logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := types.AsCustomError(err); ok {
		if e.Code >= fiber.StatusInternalServerError {
			log.Printf("Request %s %s failed: %v", c.Method(), c.OriginalURL(), err)
		}
		return utils.CustomErrorResponse(c, e)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.ErrorResponse(c, fe.Message, fe.Code, "http")
	}

	log.Printf("Request %s %s failed: %v", c.Method(), c.OriginalURL(), err)
	return utils.ErrorResponse(c, "Internal Server Error", fiber.StatusInternalServerError, "unknown")
}

// NotFound answers unmatched routes
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}
