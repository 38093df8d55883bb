package utils

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/types"
)

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Status:    status,
		Message:   message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      errorType,
	})
}

// CustomErrorResponse sends a taxonomy error, adding the retry hint for rate limits
func CustomErrorResponse(c *fiber.Ctx, e *types.CustomError) error {
	body := ErrorResponseStruct{
		Status:    e.Code,
		Message:   e.Message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      e.Type,
	}
	if e.RetryAfter > 0 {
		secs := int(e.RetryAfter.Round(time.Second) / time.Second)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
		body.RetryAfter = secs
	}
	return c.Status(e.Code).JSON(body)
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, types.KindNotFound)
}

// MessageResponse sends {message, ok:true} plus any extra fields
func MessageResponse(c *fiber.Ctx, status int, message string, extra fiber.Map) error {
	body := fiber.Map{
		"message":   message,
		"ok":        true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status     int    `json:"status"`
	Message    string `json:"message"`
	Ok         bool   `json:"ok"`
	Timestamp  string `json:"timestamp"`
	URL        string `json:"url"`
	Type       string `json:"type,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// MessageResponseStruct defines the schema for mutation success responses
type MessageResponseStruct struct {
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	Deleted   int64  `json:"deleted,omitempty"`
}
