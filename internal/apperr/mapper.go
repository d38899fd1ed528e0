package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/skillbridge/server/internal/storage"
	"github.com/timshannon/bolthold"
	"github.com/valyala/fasthttp"
)

const MessageInternal = "Internal server error"

// Mapper classifies errors into Responses. In production it omits stack
// traces and only attaches error details marked safe.
type Mapper struct {
	Production bool
}

type classification struct {
	kind    Kind
	status  int
	message string
	details map[string]any
	safe    bool
}

func (m Mapper) Map(err error) (Response, Kind) {
	c := classify(err)

	resp := Response{
		Success:    false,
		Message:    c.message,
		StatusCode: c.status,
	}

	if m.Production {
		if c.safe && len(c.details) > 0 {
			resp.Error = c.details
		}
		return resp, c.kind
	}

	detail := map[string]any{
		"name":    fmt.Sprintf("%T", err),
		"message": errorMessage(err),
	}
	for k, v := range c.details {
		detail[k] = v
	}
	resp.Error = detail
	resp.Stack = stackOf(err)
	return resp, c.kind
}

func classify(err error) classification {
	if err == nil {
		return classification{kind: KindInternal, status: http.StatusInternalServerError, message: MessageInternal}
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		c := classification{kind: KindOperational, status: appErr.StatusCode, message: appErr.Message, safe: true}
		if appErr.Details != nil {
			c.details = map[string]any{"details": appErr.Details}
		}
		if c.status < 400 || c.status > 599 {
			c.status = http.StatusInternalServerError
		}
		return c
	}

	if c, ok := classifyStorage(err); ok {
		return c
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return classification{
			kind:    KindValidation,
			status:  http.StatusBadRequest,
			message: "Validation error",
			details: map[string]any{"issues": Issues(verrs)},
			safe:    true,
		}
	}

	if c, ok := classifyToken(err); ok {
		return c
	}

	if c, ok := classifyUpload(err); ok {
		return c
	}

	var parseErr *BodyParseError
	var syntaxErr *json.SyntaxError
	if errors.As(err, &parseErr) || errors.As(err, &syntaxErr) {
		return classification{kind: KindJSONSyntax, status: http.StatusBadRequest, message: "Invalid JSON payload"}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		return classification{kind: KindHTTP, status: status, message: fiberErr.Message, safe: true}
	}

	return classification{kind: KindInternal, status: http.StatusInternalServerError, message: MessageInternal}
}

func classifyStorage(err error) (classification, bool) {
	var known *storage.KnownRequestError
	if errors.As(err, &known) {
		details := map[string]any{"code": string(known.Code), "model": known.Model}
		if len(known.Fields) > 0 {
			details["fields"] = known.Fields
		}
		fields := strings.Join(known.Fields, ", ")

		switch known.Code {
		case storage.CodeUniqueConstraint:
			return classification{
				kind:    KindUniqueConstraint,
				status:  http.StatusBadRequest,
				message: "Duplicate value for field: " + fields,
				details: map[string]any{"fields": known.Fields},
				safe:    true,
			}, true
		case storage.CodeRecordNotFound:
			return classification{kind: KindRecordNotFound, status: http.StatusNotFound, message: "Record not found", details: details}, true
		case storage.CodeForeignKey:
			return classification{kind: KindForeignKey, status: http.StatusBadRequest, message: "Foreign key constraint failed on field: " + fields, details: details}, true
		case storage.CodeRequiredRelation:
			return classification{kind: KindRequiredRelation, status: http.StatusBadRequest, message: "Required relation violation: " + fields, details: details}, true
		default:
			return classification{kind: KindDatabaseRequest, status: http.StatusBadRequest, message: "Database request error", details: details}, true
		}
	}

	if errors.Is(err, bolthold.ErrNotFound) {
		return classification{kind: KindRecordNotFound, status: http.StatusNotFound, message: "Record not found"}, true
	}

	var validation *storage.ValidationError
	if errors.As(err, &validation) {
		return classification{
			kind:    KindDatabaseInput,
			status:  http.StatusBadRequest,
			message: "Invalid data provided",
			details: map[string]any{"model": validation.Model, "field": validation.Field},
		}, true
	}

	var initErr *storage.InitializationError
	if errors.As(err, &initErr) {
		return classification{kind: KindDatabaseInit, status: http.StatusInternalServerError, message: "Database connection failed"}, true
	}

	return classification{}, false
}

func classifyToken(err error) (classification, bool) {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return classification{kind: KindTokenExpired, status: http.StatusUnauthorized, message: "Token expired"}, true
	}

	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenInvalidClaims,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenUsedBeforeIssued,
		jwt.ErrTokenInvalidIssuer,
		jwt.ErrTokenInvalidSubject,
		jwt.ErrTokenRequiredClaimMissing,
		jwt.ErrInvalidKey,
	} {
		if errors.Is(err, target) {
			return classification{kind: KindTokenInvalid, status: http.StatusUnauthorized, message: "Invalid token"}, true
		}
	}
	return classification{}, false
}

func classifyUpload(err error) (classification, bool) {
	var uploadErr *UploadError
	isUpload := errors.As(err, &uploadErr)

	var fiberErr *fiber.Error
	bodyTooLarge := errors.As(err, &fiberErr) && fiberErr.Code == http.StatusRequestEntityTooLarge
	if errors.Is(err, multipart.ErrMessageTooLarge) || (isUpload && bodyTooLarge) {
		return classification{kind: KindUpload, status: http.StatusRequestEntityTooLarge, message: "File too large"}, true
	}

	if isUpload ||
		errors.Is(err, fasthttp.ErrMissingFile) ||
		errors.Is(err, fasthttp.ErrNoMultipartForm) ||
		errors.Is(err, http.ErrMissingFile) ||
		errors.Is(err, http.ErrNotMultipart) {
		return classification{kind: KindUpload, status: http.StatusBadRequest, message: "File upload error"}, true
	}
	return classification{}, false
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Issues flattens validator errors into FieldIssues.
func Issues(verrs validator.ValidationErrors) []FieldIssue {
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: issueMessage(fe),
		})
	}
	return issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
