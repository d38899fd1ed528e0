package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/skillbridge/server/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timshannon/bolthold"
	"github.com/valyala/fasthttp"
)

type signInForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func validationErr(t *testing.T) error {
	t.Helper()
	err := validator.New().Struct(signInForm{Email: "nope", Password: "x"})
	require.Error(t, err)
	return err
}

func syntaxErr(t *testing.T) error {
	t.Helper()
	var v map[string]any
	err := json.Unmarshal([]byte(`{"email":`), &v)
	require.Error(t, err)
	return err
}

func TestMapper_Classification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "operational",
			err:         New(http.StatusConflict, "Tutor profile already exists"),
			wantStatus:  http.StatusConflict,
			wantKind:    KindOperational,
			wantMessage: "Tutor profile already exists",
		},
		{
			name:        "wrapped operational",
			err:         fmt.Errorf("handler: %w", Unauthorized("Invalid email or password")),
			wantStatus:  http.StatusUnauthorized,
			wantKind:    KindOperational,
			wantMessage: "Invalid email or password",
		},
		{
			name:        "unique constraint",
			err:         fmt.Errorf("creating user: %w", &storage.KnownRequestError{Code: storage.CodeUniqueConstraint, Model: "User", Fields: []string{"email"}}),
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindUniqueConstraint,
			wantMessage: "Duplicate value for field: email",
		},
		{
			name:        "record not found",
			err:         &storage.KnownRequestError{Code: storage.CodeRecordNotFound, Model: "User", Err: bolthold.ErrNotFound},
			wantStatus:  http.StatusNotFound,
			wantKind:    KindRecordNotFound,
			wantMessage: "Record not found",
		},
		{
			name:        "raw bolthold not found",
			err:         fmt.Errorf("get: %w", bolthold.ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantKind:    KindRecordNotFound,
			wantMessage: "Record not found",
		},
		{
			name:        "foreign key",
			err:         &storage.KnownRequestError{Code: storage.CodeForeignKey, Model: "Session", Fields: []string{"userId"}},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindForeignKey,
			wantMessage: "Foreign key constraint failed on field: userId",
		},
		{
			name:        "required relation",
			err:         &storage.KnownRequestError{Code: storage.CodeRequiredRelation, Model: "User", Fields: []string{"accounts", "sessions"}},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindRequiredRelation,
			wantMessage: "Required relation violation: accounts, sessions",
		},
		{
			name:        "unknown storage code",
			err:         &storage.KnownRequestError{Code: "deadlock", Model: "User"},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindDatabaseRequest,
			wantMessage: "Database request error",
		},
		{
			name:        "storage validation",
			err:         &storage.ValidationError{Model: "User", Field: "email", Reason: "must be an email address"},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindDatabaseInput,
			wantMessage: "Invalid data provided",
		},
		{
			name:        "storage initialization",
			err:         &storage.InitializationError{URL: "data.db", Err: errors.New("timeout")},
			wantStatus:  http.StatusInternalServerError,
			wantKind:    KindDatabaseInit,
			wantMessage: "Database connection failed",
		},
		{
			name:        "schema validation",
			err:         validationErr(t),
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindValidation,
			wantMessage: "Validation error",
		},
		{
			name:        "expired token",
			err:         fmt.Errorf("parsing token: %w", jwt.ErrTokenExpired),
			wantStatus:  http.StatusUnauthorized,
			wantKind:    KindTokenExpired,
			wantMessage: "Token expired",
		},
		{
			name:        "bad signature",
			err:         jwt.ErrTokenSignatureInvalid,
			wantStatus:  http.StatusUnauthorized,
			wantKind:    KindTokenInvalid,
			wantMessage: "Invalid token",
		},
		{
			name:        "malformed token",
			err:         jwt.ErrTokenMalformed,
			wantStatus:  http.StatusUnauthorized,
			wantKind:    KindTokenInvalid,
			wantMessage: "Invalid token",
		},
		{
			name:        "upload too large",
			err:         multipart.ErrMessageTooLarge,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantKind:    KindUpload,
			wantMessage: "File too large",
		},
		{
			name:        "upload over body limit",
			err:         &UploadError{Err: fiber.ErrRequestEntityTooLarge},
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantKind:    KindUpload,
			wantMessage: "File too large",
		},
		{
			name:        "body limit exceeded",
			err:         fiber.ErrRequestEntityTooLarge,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantKind:    KindHTTP,
			wantMessage: "Request Entity Too Large",
		},
		{
			name:        "missing upload",
			err:         fasthttp.ErrMissingFile,
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindUpload,
			wantMessage: "File upload error",
		},
		{
			name:        "json syntax",
			err:         &BodyParseError{Err: syntaxErr(t)},
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindJSONSyntax,
			wantMessage: "Invalid JSON payload",
		},
		{
			name:        "bare json syntax",
			err:         syntaxErr(t),
			wantStatus:  http.StatusBadRequest,
			wantKind:    KindJSONSyntax,
			wantMessage: "Invalid JSON payload",
		},
		{
			name:        "framework error",
			err:         fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			wantStatus:  http.StatusMethodNotAllowed,
			wantKind:    KindHTTP,
			wantMessage: "Method Not Allowed",
		},
		{
			name:        "unrecognized",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantKind:    KindInternal,
			wantMessage: MessageInternal,
		},
		{
			name:        "nil",
			err:         nil,
			wantStatus:  http.StatusInternalServerError,
			wantKind:    KindInternal,
			wantMessage: MessageInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, production := range []bool{false, true} {
				resp, kind := Mapper{Production: production}.Map(tt.err)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.wantStatus, resp.StatusCode)
				assert.Equal(t, tt.wantKind, kind)
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestMapper_ProductionOmitsStack(t *testing.T) {
	errs := []error{
		New(http.StatusBadRequest, "bad"),
		Wrap(errors.New("disk full"), http.StatusServiceUnavailable, "Try again later"),
		&storage.KnownRequestError{Code: storage.CodeUniqueConstraint, Model: "User", Fields: []string{"email"}},
		validationErr(t),
		jwt.ErrTokenExpired,
		errors.New("boom"),
	}

	for _, err := range errs {
		resp, _ := Mapper{Production: true}.Map(err)
		assert.Empty(t, resp.Stack, "stack leaked for %T", err)

		raw, jerr := json.Marshal(resp)
		require.NoError(t, jerr)
		assert.NotContains(t, string(raw), `"stack"`)
	}
}

func TestMapper_ProductionRedactsUnsafeDetails(t *testing.T) {
	resp, _ := Mapper{Production: true}.Map(errors.New("pq: password authentication failed"))
	assert.Nil(t, resp.Error)

	resp, _ = Mapper{Production: true}.Map(&storage.KnownRequestError{Code: storage.CodeForeignKey, Model: "Session", Fields: []string{"userId"}})
	assert.Nil(t, resp.Error)

	resp, _ = Mapper{Production: true}.Map(&storage.KnownRequestError{Code: storage.CodeUniqueConstraint, Model: "User", Fields: []string{"email"}})
	require.NotNil(t, resp.Error)
	assert.Equal(t, map[string]any{"fields": []string{"email"}}, resp.Error)

	resp, _ = Mapper{Production: true}.Map(validationErr(t))
	details, ok := resp.Error.(map[string]any)
	require.True(t, ok)
	issues, ok := details["issues"].([]FieldIssue)
	require.True(t, ok)
	assert.Len(t, issues, 2)
}

func TestMapper_DevelopmentDetails(t *testing.T) {
	err := Wrap(errors.New("disk full"), http.StatusServiceUnavailable, "Try again later")
	resp, kind := Mapper{}.Map(err)

	assert.Equal(t, KindOperational, kind)
	assert.Contains(t, resp.Stack, "disk full")
	assert.Contains(t, resp.Stack, "mapper_test.go")

	details, ok := resp.Error.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "*apperr.Error", details["name"])
	assert.Equal(t, "Try again later: disk full", details["message"])

	resp, _ = Mapper{}.Map(errors.New("plain"))
	assert.Empty(t, resp.Stack, "errors without a recorded stack have no stack")
	assert.NotNil(t, resp.Error)
}

func TestIssues(t *testing.T) {
	var verrs validator.ValidationErrors
	require.True(t, errors.As(validationErr(t), &verrs))

	issues := Issues(verrs)
	require.Len(t, issues, 2)
	assert.Equal(t, FieldIssue{Field: "Email", Rule: "email", Message: "must be a valid email address"}, issues[0])
	assert.Equal(t, FieldIssue{Field: "Password", Rule: "min", Message: "must be at least 8 characters"}, issues[1])
}
