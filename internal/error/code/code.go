package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusCreated - 201: resource created.
	StatusCreated = 201
	// StatusBadRequest - 400: invalid request.
	StatusBadRequest = 400
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusConflict - 409: resource is in use.
	StatusConflict = 409
	// StatusTooManyRequests - 429: too many requests.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: internal error.
	StatusInternalServerError = 500
)

// Common codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request body could not be bound.
	ErrBind
	// ErrValidation - 400: request failed validation.
	ErrValidation
	// ErrTooManyRequests - 429: rate limit exceeded.
	ErrTooManyRequests
	// ErrNotFound - 404: route or resource type not found.
	ErrNotFound
)

// Record codes (101xxx).
const (
	// ErrRecordNotFound - 404: record does not exist.
	ErrRecordNotFound int = iota + 101000
	// ErrRecordAlreadyExist - 400: a record with the same unique value exists.
	ErrRecordAlreadyExist
	// ErrReferenceNotFound - 400: a referenced record does not exist.
	ErrReferenceNotFound
	// ErrRecordInUse - 409: record is referenced by other records.
	ErrRecordInUse
)

// Import/export codes (102xxx).
const (
	// ErrUnknownEntity - 404: entity has no import/export schema.
	ErrUnknownEntity int = iota + 102000
	// ErrNoFile - 400: no file was uploaded.
	ErrNoFile
	// ErrNotCSV - 400: uploaded file is not a CSV file.
	ErrNotCSV
	// ErrImportFailed - 500: import could not be processed.
	ErrImportFailed
	// ErrExportFailed - 500: export could not be produced.
	ErrExportFailed
)

// Report codes (103xxx).
const (
	// ErrReportTemplate - 400: unsupported report template.
	ErrReportTemplate int = iota + 103000
	// ErrReportNotFound - 404: report generation does not exist.
	ErrReportNotFound
	// ErrReportFileMissing - 404: generated file is gone from disk.
	ErrReportFileMissing
	// ErrReportFailed - 500: report could not be generated.
	ErrReportFailed
)

// Database codes (104xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 104000
	// ErrConnectionFailed - 500: database unreachable.
	ErrConnectionFailed
)
