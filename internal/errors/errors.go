package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON document")
	ErrDepthExceeded   = errors.New("document nesting exceeds the configured maximum depth")
	ErrNoObjects       = errors.New("no scene objects found, no slice produced")
	ErrNoPositions     = errors.New("no positions to project")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe a scene document to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors by pipeline stage
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeExtract   ErrorType = "extract"
	ErrorTypeSlice     ErrorType = "slice"
	ErrorTypePreview   ErrorType = "preview"
	ErrorTypePlacement ErrorType = "placement"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to document parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewExtractError creates a new error related to scene-object extraction
func NewExtractError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExtract,
		Message: message,
		Err:     err,
	}
}

// NewSliceError creates a new error related to slice generation
func NewSliceError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSlice,
		Message: message,
		Err:     err,
	}
}

// NewPreviewError creates a new error related to preview projection
func NewPreviewError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePreview,
		Message: message,
		Err:     err,
	}
}

// NewPlacementError creates a new error related to spawn-point placement
func NewPlacementError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePlacement,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("The scene document could not be read: %s", appErr.Message)
		case ErrorTypeExtract:
			return fmt.Sprintf("Scene extraction error: %s", appErr.Message)
		case ErrorTypeSlice:
			return fmt.Sprintf("Slice generation error: %s", appErr.Message)
		case ErrorTypePreview:
			return fmt.Sprintf("Preview projection error: %s", appErr.Message)
		case ErrorTypePlacement:
			return fmt.Sprintf("Placement error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a scene document."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The scene document could not be read. Please check the JSON syntax."
	}
	if errors.Is(err, ErrDepthExceeded) {
		return "Error: The scene document is nested too deeply."
	}
	if errors.Is(err, ErrNoObjects) {
		return "Error: No scene objects were found, so no slice was produced."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a scene document."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe a scene document to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
