package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Vault and config errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Template and schema errors
	ErrTemplateNotFound = "TEMPLATE_NOT_FOUND"
	ErrTemplateInvalid  = "TEMPLATE_INVALID"
	ErrSchemaNotFound   = "SCHEMA_NOT_FOUND"
	ErrFieldNotFound    = "FIELD_NOT_FOUND"

	// File errors
	ErrFileNotFound     = "FILE_NOT_FOUND"
	ErrFileExists       = "FILE_EXISTS"
	ErrFileReadError    = "FILE_READ_ERROR"
	ErrFileWriteError   = "FILE_WRITE_ERROR"
	ErrFileOutsideVault = "FILE_OUTSIDE_VAULT"

	// Validation errors
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrInvalidValue     = "INVALID_VALUE"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// Docs errors
	ErrTopicNotFound = "TOPIC_NOT_FOUND"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnNoSchema     = "NO_SCHEMA"
	WarnUnknownField = "UNKNOWN_FIELD"
)
