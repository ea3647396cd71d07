package domain

import "errors"

// ErrorCode classifies pipeline failures; the policy for each code is
// fixed (fatal, fatal for the module, or silently dropped).
type ErrorCode string

const (
	// ErrIO covers file reads and database opens; always fatal
	ErrIO ErrorCode = "io_error"

	// ErrParse is an AST front-end failure; fatal for the module
	ErrParse ErrorCode = "parse_error"

	// ErrExtractor covers duplicate bindings and malformed exports;
	// fatal for the module
	ErrExtractor ErrorCode = "extractor_error"

	// ErrResolve means a specifier does not map to a project file;
	// silently dropped so analysis stays partial-failure tolerant
	ErrResolve ErrorCode = "resolve_error"

	// ErrUnknownTranslationKey is an i18n key missing from the
	// translation table; silently dropped
	ErrUnknownTranslationKey ErrorCode = "unknown_translation_key"

	// ErrUnknownSymbolForOverlay means an i18n or route overlay points
	// at a name the module never declares; fatal for the module
	ErrUnknownSymbolForOverlay ErrorCode = "unknown_symbol_for_overlay"

	// ErrSchedulerCycle marks a namespace/star-re-export cycle that was
	// broken by the lexicographic tie-break
	ErrSchedulerCycle ErrorCode = "scheduler_cycle"
)

// DomainError is the error type shared across the pipeline.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e DomainError) Error() string {
	if e.Cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

// Unwrap returns the underlying cause.
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError.
func NewDomainError(code ErrorCode, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the ErrorCode from err, or "" if err carries none.
func CodeOf(err error) ErrorCode {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
