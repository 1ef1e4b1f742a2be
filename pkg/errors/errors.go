package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for the failure kinds the API distinguishes
var (
	// ErrNotFound indicates the repository, tag ref or path does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidRepository indicates a path exists but is not a bare repository
	ErrInvalidRepository = errors.New("not a repository")

	// ErrInvalidRevision indicates a revision token failed validation
	ErrInvalidRevision = errors.New("invalid revision")

	// ErrNotAFile indicates an object id does not resolve to a blob
	ErrNotAFile = errors.New("not a file")

	// ErrInvalidInput indicates the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrGitOperationFailed indicates the git process exited with a failure
	ErrGitOperationFailed = errors.New("git operation failed")
)

// ErrorCode represents HTTP-like error codes
type ErrorCode int

const (
	CodeBadRequest          ErrorCode = http.StatusBadRequest
	CodeNotFound            ErrorCode = http.StatusNotFound
	CodeInternalServerError ErrorCode = http.StatusInternalServerError
)

// Fallback messages used when an error carries no message of its own
const (
	DefaultNotFoundMessage   = "Not Found"
	DefaultBadRequestMessage = "Bad Request"
	DefaultInternalMessage   = "Oops! something went wrong"
)

// AppError represents an application-level error with additional context
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface for comparison
func (e *AppError) Is(target error) bool {
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// NewAppError creates a new AppError with the given code, message, and underlying error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a new not found error. message is returned to the caller verbatim.
func NotFound(message string) *AppError {
	return NewAppError(CodeNotFound, message, ErrNotFound)
}

// InvalidRepository reports a path that exists but fails the bare repository check
func InvalidRepository(name string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s is not a repository", name), ErrInvalidRepository)
}

// InvalidRevision reports a revision token that failed validation
func InvalidRevision(revision string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s is not a valid revision", revision), ErrInvalidRevision)
}

// NotAFile reports an object id whose type is not blob
func NotAFile(sha string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s is not a valid file hash", sha), ErrNotAFile)
}

// BadRequest creates a new bad request error
func BadRequest(message string, err error) *AppError {
	if message == "" {
		message = "invalid request"
	}
	if err == nil {
		err = ErrInvalidInput
	}
	return NewAppError(CodeBadRequest, message, err)
}

// InternalError creates a new internal server error
func InternalError(message string, err error) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalServerError, message, err)
}

// GitError wraps a failed git invocation. The message is the tool's error output.
func GitError(message string, err error) *AppError {
	return NewAppError(CodeInternalServerError, message, errors.Join(ErrGitOperationFailed, err))
}

// IsNotFound checks if an error is a not found error of any kind
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeNotFound
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidRepository) ||
		errors.Is(err, ErrInvalidRevision) || errors.Is(err, ErrNotAFile)
}

// IsBadRequest checks if an error is a bad request error
func IsBadRequest(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeBadRequest
	}
	return errors.Is(err, ErrInvalidInput)
}

// IsGitFailure checks if an error comes from a failed git invocation
func IsGitFailure(err error) bool {
	return errors.Is(err, ErrGitOperationFailed)
}

// StatusAndMessage resolves the HTTP status and the client-visible message for err,
// substituting the fallback message for the status class when none is set.
func StatusAndMessage(err error) (int, string) {
	code := CodeInternalServerError
	message := ""

	var appErr *AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
	} else if IsNotFound(err) {
		code = CodeNotFound
	} else if IsBadRequest(err) {
		code = CodeBadRequest
	}

	if message == "" {
		switch code {
		case CodeNotFound:
			message = DefaultNotFoundMessage
		case CodeBadRequest:
			message = DefaultBadRequestMessage
		default:
			message = DefaultInternalMessage
		}
	}

	return int(code), message
}
