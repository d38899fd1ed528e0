package apperr

// Response is the JSON envelope written for every failed request.
type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Error      any    `json:"error,omitempty"`
	Stack      string `json:"stack,omitempty"`
}

// Kind labels the classification a Mapper chose.
type Kind string

const (
	KindOperational      Kind = "operational"
	KindUniqueConstraint Kind = "unique_constraint"
	KindRecordNotFound   Kind = "record_not_found"
	KindForeignKey       Kind = "foreign_key"
	KindRequiredRelation Kind = "required_relation"
	KindDatabaseRequest  Kind = "database_request"
	KindDatabaseInput    Kind = "database_validation"
	KindDatabaseInit     Kind = "database_initialization"
	KindValidation       Kind = "validation"
	KindTokenExpired     Kind = "token_expired"
	KindTokenInvalid     Kind = "token_invalid"
	KindUpload           Kind = "upload"
	KindJSONSyntax       Kind = "json_syntax"
	KindHTTP             Kind = "http"
	KindInternal         Kind = "internal"
)

// FieldIssue describes one failed validation rule.
type FieldIssue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}
