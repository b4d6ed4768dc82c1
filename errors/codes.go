package errors

// ErrorCode identifies an application error category.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002

	// Pipeline
	ErrorCode_TRIGGER_KEY_PARSE     ErrorCode = 2000
	ErrorCode_TRANSCRIPTION_FAILED  ErrorCode = 2001
	ErrorCode_TRANSCRIPTION_TIMEOUT ErrorCode = 2002
	ErrorCode_EXTRACTION_FAILED     ErrorCode = 2003

	// Infrastructure
	ErrorCode_PERSISTENCE_FAILED ErrorCode = 3000
	ErrorCode_STORAGE_FAILED     ErrorCode = 3001
	ErrorCode_CACHE_FAILED       ErrorCode = 3002
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:               "OK",
	ErrorCode_INTERNAL:              "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:      "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:             "NOT_FOUND",
	ErrorCode_TRIGGER_KEY_PARSE:     "TRIGGER_KEY_PARSE",
	ErrorCode_TRANSCRIPTION_FAILED:  "TRANSCRIPTION_FAILED",
	ErrorCode_TRANSCRIPTION_TIMEOUT: "TRANSCRIPTION_TIMEOUT",
	ErrorCode_EXTRACTION_FAILED:     "EXTRACTION_FAILED",
	ErrorCode_PERSISTENCE_FAILED:    "PERSISTENCE_FAILED",
	ErrorCode_STORAGE_FAILED:        "STORAGE_FAILED",
	ErrorCode_CACHE_FAILED:          "CACHE_FAILED",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
