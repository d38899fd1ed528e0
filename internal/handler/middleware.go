package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/skillbridge/server/internal/apperr"
	"github.com/skillbridge/server/internal/metrics"
)

// requestLogger logs one line per request. Chain errors are handed to the
// app's error handler here so the logged status is the one sent.
func requestLogger(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				log.WithError(herr).WithField("component", "http").Error("error handler failed")
				if serr := c.SendStatus(fiber.StatusInternalServerError); serr != nil {
					log.WithError(serr).WithField("component", "http").Error("writing fallback status failed")
				}
			}
		}

		status := c.Response().StatusCode()
		if m != nil {
			m.ObserveRequest(c.Method(), status)
		}
		log.WithFields(log.Fields{
			"component": "http",
			"method":    c.Method(),
			"path":      c.Path(),
			"status":    status,
			"duration":  time.Since(start).String(),
			"ip":        c.IP(),
		}).Info("request handled")
		return nil
	}
}

func recoverPanic() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.WithStack(fmt.Errorf("panic: %v", r))
			}
		}()
		return c.Next()
	}
}

// jsonBody rejects requests that declare a JSON body but do not carry one.
func jsonBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 || !isJSON(c.Get(fiber.HeaderContentType)) {
			return c.Next()
		}

		var raw json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			return &apperr.BodyParseError{Err: err}
		}
		return c.Next()
	}
}

func isJSON(contentType string) bool {
	mediaType, _, _ := strings.Cut(contentType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	return mediaType == fiber.MIMEApplicationJSON || strings.HasSuffix(mediaType, "+json")
}

func (h *HTTPHandler) requireAuth(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}

	user, err := h.authSvc.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}
	c.Locals(localsUser, user)
	c.Locals(localsToken, token)
	return c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
