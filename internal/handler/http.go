package handler

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/skillbridge/server/internal/apperr"
	"github.com/skillbridge/server/internal/domain"
	"github.com/skillbridge/server/internal/service"
)

const (
	localsUser  = "user"
	localsToken = "token"
)

type HTTPHandler struct {
	authSvc  *service.AuthService
	validate *validator.Validate
}

func NewHTTPHandler(authSvc *service.AuthService) *HTTPHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &HTTPHandler{authSvc: authSvc, validate: v}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type userResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Image         string    `json:"image,omitempty"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type signInResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func (h *HTTPHandler) handleRoot(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString(LivenessMessage)
}

func (h *HTTPHandler) handleSignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return err
		}
		return &apperr.BodyParseError{Err: err}
	}
	if err := h.validate.Struct(req); err != nil {
		return err
	}

	result, err := h.authSvc.SignIn(c.UserContext(), req.Email, req.Password, service.ClientMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(envelope{
		Success: true,
		Message: "Signed in successfully",
		Data: signInResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			User:      toUserResponse(result.User),
		},
	})
}

func (h *HTTPHandler) handleMe(c *fiber.Ctx) error {
	user, ok := c.Locals(localsUser).(*domain.User)
	if !ok {
		return apperr.Unauthorized("Authentication required")
	}
	return c.Status(fiber.StatusOK).JSON(envelope{Success: true, Data: toUserResponse(user)})
}

func (h *HTTPHandler) handleSignOut(c *fiber.Ctx) error {
	token, _ := c.Locals(localsToken).(string)
	if err := h.authSvc.SignOut(c.UserContext(), token); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(envelope{Success: true, Message: "Signed out successfully"})
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		Role:          string(u.Role),
		Status:        string(u.Status),
		CreatedAt:     u.CreatedAt,
	}
}
