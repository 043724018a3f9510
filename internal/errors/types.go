package errors

import "errors"

var (
	ErrConfigNotFound    = errors.New("module config file not found")
	ErrConfigParseFailed = errors.New("module config parsing failed")
	ErrEngineNotFound    = errors.New("container engine not found")
	ErrEngineFailed      = errors.New("container engine operation failed")
	ErrScaffoldFailed    = errors.New("scaffolding failed")
	ErrFileSystemFailed  = errors.New("filesystem operation failed")
)

// SDKError carries the user-facing context for a failure: what was being
// done, why it failed, and what to try next.
type SDKError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *SDKError) Error() string {
	return e.OriginalErr.Error()
}

func (e *SDKError) Unwrap() error {
	return e.OriginalErr
}

func NewSDKError(errorType error, context, cause, suggestion string, originalErr error) *SDKError {
	return &SDKError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewConfigError(context, cause, suggestion string, originalErr error) *SDKError {
	return NewSDKError(ErrConfigNotFound, context, cause, suggestion, originalErr)
}

func NewParseError(context, cause, suggestion string, originalErr error) *SDKError {
	return NewSDKError(ErrConfigParseFailed, context, cause, suggestion, originalErr)
}

func NewEngineNotFoundError(context, cause, suggestion string, originalErr error) *SDKError {
	return NewSDKError(ErrEngineNotFound, context, cause, suggestion, originalErr)
}

func NewEngineError(context, cause, suggestion string, originalErr error) *SDKError {
	return NewSDKError(ErrEngineFailed, context, cause, suggestion, originalErr)
}

func NewScaffoldError(context, cause, suggestion string, originalErr error) *SDKError {
	return NewSDKError(ErrScaffoldFailed, context, cause, suggestion, originalErr)
}

func NewFileSystemError(context, cause, suggestion string, originalErr error) *SDKError {
	return NewSDKError(ErrFileSystemFailed, context, cause, suggestion, originalErr)
}
