package apperrors

import "errors"

// Message handling errors
var (
	ErrMalformedMessage = errors.New("malformed message body")
)

// Transform errors
var (
	ErrTransformFailed = errors.New("transform failed")
	ErrMissingRawData  = errors.New("validation result carries no raw data")
)

// Loader errors
var (
	ErrUnknownClassCode = errors.New("unknown class code")
	ErrStoreUnavailable = errors.New("destination store unavailable")
)

// Stage lifecycle errors
var (
	ErrStageAlreadyStarted = errors.New("stage already started")
	ErrStageNotRunning     = errors.New("stage is not running")
)

// Ingest errors
var (
	ErrMissingHeader = errors.New("csv file has no header row")
)
