package code

var codeMessageMap = map[int]string{
	ErrSuccess:         "success",
	ErrUnknown:         "unknown error",
	ErrBind:            "invalid request body",
	ErrValidation:      "validation failed",
	ErrTooManyRequests: "too many requests, please try again later",
	ErrNotFound:        "not found",

	ErrRecordNotFound:     "record not found",
	ErrRecordAlreadyExist: "record already exists",
	ErrReferenceNotFound:  "referenced record not found",
	ErrRecordInUse:        "record is in use",

	ErrUnknownEntity: "entity not supported",
	ErrNoFile:        "no file provided",
	ErrNotCSV:        "file must be a CSV",
	ErrImportFailed:  "import failed",
	ErrExportFailed:  "export failed",

	ErrReportTemplate:    "unsupported report template",
	ErrReportNotFound:    "report not found",
	ErrReportFileMissing: "report file not found",
	ErrReportFailed:      "report generation failed",

	ErrDatabase:         "database error",
	ErrConnectionFailed: "database connection failed",
}

var codeStatusMap = map[int]int{
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrNotFound:        StatusNotFound,

	ErrRecordNotFound:     StatusNotFound,
	ErrRecordAlreadyExist: StatusBadRequest,
	ErrReferenceNotFound:  StatusBadRequest,
	ErrRecordInUse:        StatusConflict,

	ErrUnknownEntity: StatusNotFound,
	ErrNoFile:        StatusBadRequest,
	ErrNotCSV:        StatusBadRequest,
	ErrImportFailed:  StatusInternalServerError,
	ErrExportFailed:  StatusInternalServerError,

	ErrReportTemplate:    StatusBadRequest,
	ErrReportNotFound:    StatusNotFound,
	ErrReportFileMissing: StatusNotFound,
	ErrReportFailed:      StatusInternalServerError,

	ErrDatabase:         StatusInternalServerError,
	ErrConnectionFailed: StatusInternalServerError,
}

// GetMessage returns the default message for a code
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "unknown error"
}

// GetStatus returns the HTTP status for a code
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
