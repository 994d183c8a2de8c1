// Package errors provides the error taxonomy for the catalog assistant.
//
// Every error is local to a single conversational turn: nothing here is
// retried by the core, and nothing crashes a session. Retry policy toward
// the catalog and the extractor belongs to the collaborator layer.
package errors

import (
	"errors"
	"strings"
)

// ============================================================
// Error Categories
// ============================================================

// Category defines how an error affects the current turn.
type Category int

const (
	// CategoryExtraction covers malformed or schema-invalid extractor
	// output. Callers treat it as "no intent detected" and fall through.
	CategoryExtraction Category = iota

	// CategoryNotFound covers empty catalog search results.
	CategoryNotFound

	// CategoryMissingField covers a requested attribute absent in catalog
	// data. Rendered as unavailable, never defaulted.
	CategoryMissingField

	// CategoryCollaborator covers timeouts and transport failures toward
	// the catalog or extractor. The session resets after the turn.
	CategoryCollaborator

	// CategoryConfig covers invalid or incomplete configuration.
	CategoryConfig
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryExtraction:
		return "extraction"
	case CategoryNotFound:
		return "not_found"
	case CategoryMissingField:
		return "missing_field"
	case CategoryCollaborator:
		return "collaborator"
	case CategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ============================================================
// AppError
// ============================================================

// AppError is the error type used across the assistant core.
type AppError struct {
	// Code is a stable identifier for programmatic handling.
	Code string

	// Message is a user-facing description.
	Message string

	// Category determines turn-level handling.
	Category Category

	// Inner is the underlying error, if any.
	Inner error
}

// Error returns the formatted error message.
func (e *AppError) Error() string {
	var sb strings.Builder

	if e.Code != "" {
		sb.WriteString("[")
		sb.WriteString(e.Code)
		sb.WriteString("] ")
	}

	sb.WriteString(e.Message)

	if e.Inner != nil {
		innerMsg := e.Inner.Error()
		if innerMsg != "" && innerMsg != e.Message {
			sb.WriteString(": ")
			sb.WriteString(innerMsg)
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Inner
}

// Is checks if the target error is contained in this error.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Inner, target)
}

// ============================================================
// Constructors
// ============================================================

// New creates a new AppError.
func New(code, message string, category Category) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
	}
}

// Wrap wraps an existing error with code and category.
func Wrap(err error, code, message string, category Category) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:     code,
		Message:  message,
		Category: category,
		Inner:    err,
	}
}

// ExtractionMalformed marks extractor output that failed parsing or
// schema validation.
func ExtractionMalformed(err error) *AppError {
	return Wrap(err, CodeExtractionMalformed, "extractor returned unusable output", CategoryExtraction)
}

// NoCatalogMatch marks an empty search result for the given search text.
func NoCatalogMatch(text string) *AppError {
	return &AppError{
		Code:     CodeNoCatalogMatch,
		Message:  "no product matched '" + text + "'",
		Category: CategoryNotFound,
	}
}

// CatalogUnavailable marks a catalog transport failure or timeout.
func CatalogUnavailable(err error) *AppError {
	return Wrap(err, CodeCatalogUnavailable, "catalog service unavailable", CategoryCollaborator)
}

// ExtractorUnavailable marks an extractor transport failure or timeout.
func ExtractorUnavailable(err error) *AppError {
	return Wrap(err, CodeExtractorUnavailable, "intent extractor unavailable", CategoryCollaborator)
}

// ============================================================
// Error Codes
// ============================================================

const (
	CodeExtractionMalformed  = "EXTRACTION_MALFORMED"
	CodeNoCatalogMatch       = "NO_CATALOG_MATCH"
	CodeMissingField         = "MISSING_FIELD"
	CodeCatalogUnavailable   = "CATALOG_UNAVAILABLE"
	CodeExtractorUnavailable = "EXTRACTOR_UNAVAILABLE"
	CodeConfigInvalid        = "CONFIG_INVALID"
)

// ============================================================
// Helpers
// ============================================================

// GetCategory extracts the category from an error. Unknown error types
// default to CategoryCollaborator, the conservative choice: the session
// resets rather than carrying doubtful state into the next turn.
func GetCategory(err error) Category {
	if err == nil {
		return CategoryCollaborator
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Category
	}

	return CategoryCollaborator
}

// IsExtractionMalformed reports whether err means the extractor produced
// unusable output.
func IsExtractionMalformed(err error) bool {
	return GetCategory(err) == CategoryExtraction
}

// IsNotFound reports whether err is an empty catalog result.
func IsNotFound(err error) bool {
	return GetCategory(err) == CategoryNotFound
}
