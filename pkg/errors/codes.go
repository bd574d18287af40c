package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	CodeOK      ErrorCode = "OK"
	CodeUnknown ErrorCode = "UNKNOWN_001"
)

// Configuration Error Codes
const (
	ErrCodeConfiguration ErrorCode = "CONFIG_001"
	ErrCodeOptionParse   ErrorCode = "CONFIG_002"
)

// File Error Codes
const (
	ErrCodeFileRead  ErrorCode = "FILE_001"
	ErrCodeFileWrite ErrorCode = "FILE_002"
)

// Resource Error Codes
const (
	ErrCodeResourceExhausted ErrorCode = "RES_001"
	ErrCodeDeviceUnavailable ErrorCode = "RES_002"
	ErrCodeDeviceLeaseHeld   ErrorCode = "RES_003"
)

// Engine Error Codes
const (
	ErrCodeEngineInternal  ErrorCode = "ENGINE_001"
	ErrCodeEngineExec      ErrorCode = "ENGINE_002"
	ErrCodeEngineOutput    ErrorCode = "ENGINE_003"
	ErrCodeLigandParse     ErrorCode = "ENGINE_004"
	ErrCodeUnsupportedMode ErrorCode = "ENGINE_005"
)

// Integration Error Codes
const (
	ErrCodeStorageUpload ErrorCode = "INTEG_001"
	ErrCodeEventPublish  ErrorCode = "INTEG_002"
	ErrCodeMetricsExport ErrorCode = "INTEG_003"
	ErrCodeCacheError    ErrorCode = "INTEG_004"
)

// Aliases used at call sites.
const (
	CodeConfiguration     = ErrCodeConfiguration
	CodeOptionParse       = ErrCodeOptionParse
	CodeFileRead          = ErrCodeFileRead
	CodeFileWrite         = ErrCodeFileWrite
	CodeResourceExhausted = ErrCodeResourceExhausted
	CodeEngineInternal    = ErrCodeEngineInternal
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	CodeOK:      "ok",
	CodeUnknown: "an unknown error occurred",

	ErrCodeConfiguration: "invalid configuration",
	ErrCodeOptionParse:   "option parse error",

	ErrCodeFileRead:  "could not open file for reading",
	ErrCodeFileWrite: "could not open file for writing",

	ErrCodeResourceExhausted: "insufficient memory",
	ErrCodeDeviceUnavailable: "accelerator device unavailable",
	ErrCodeDeviceLeaseHeld:   "accelerator device is leased by another run",

	ErrCodeEngineInternal:  "an internal error occurred",
	ErrCodeEngineExec:      "docking engine execution failed",
	ErrCodeEngineOutput:    "docking engine produced unreadable output",
	ErrCodeLigandParse:     "ligand could not be parsed",
	ErrCodeUnsupportedMode: "mode not available under gpu_batch mode",

	ErrCodeStorageUpload: "pose upload failed",
	ErrCodeEventPublish:  "event publish failed",
	ErrCodeMetricsExport: "metrics export failed",
	ErrCodeCacheError:    "cache operation failed",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

// IsReportable is true for categories where the user is asked to file a
// bug report: engine invariant violations and anything unclassified.
func IsReportable(code ErrorCode) bool {
	switch ModuleForCode(code) {
	case "ENGINE":
		return code == ErrCodeEngineInternal
	case "CONFIG", "FILE", "RES", "INTEG", "OK":
		return false
	}
	return true
}

//Personal.AI order the ending
