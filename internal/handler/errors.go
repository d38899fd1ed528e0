package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/skillbridge/server/internal/apperr"
	"github.com/skillbridge/server/internal/metrics"
)

// ErrorHandler logs err, counts it, and writes the mapped envelope.
func ErrorHandler(mapper apperr.Mapper, m *metrics.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code == fiber.StatusRequestEntityTooLarge && isMultipart(c.Get(fiber.HeaderContentType)) {
			err = &apperr.UploadError{Err: err}
		}
		resp, kind := mapper.Map(err)

		entry := log.WithFields(log.Fields{
			"component": "http",
			"kind":      kind,
			"status":    resp.StatusCode,
			"method":    c.Method(),
			"path":      c.Path(),
			"error":     err,
		})
		if resp.StatusCode >= fiber.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Warn("request failed")
		}

		if m != nil {
			m.ObserveError(string(kind), resp.StatusCode)
		}
		return c.Status(resp.StatusCode).JSON(resp)
	}
}

func isMultipart(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), fiber.MIMEMultipartForm)
}
