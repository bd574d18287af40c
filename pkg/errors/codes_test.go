package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "CONFIG_001", ErrCodeConfiguration.String())
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "insufficient memory", DefaultMessageForCode(ErrCodeResourceExhausted))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE")))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CONFIG", ModuleForCode(ErrCodeConfiguration))
	assert.Equal(t, "FILE", ModuleForCode(ErrCodeFileWrite))
	assert.Equal(t, "ENGINE", ModuleForCode(ErrCodeEngineExec))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestIsReportable(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeConfiguration, false},
		{ErrCodeFileRead, false},
		{ErrCodeResourceExhausted, false},
		{ErrCodeEngineInternal, true},
		{ErrCodeEngineExec, false},
		{CodeUnknown, true},
		{ErrCodeStorageUpload, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsReportable(tt.code), tt.code)
	}
}

func TestAllCodesHaveMessagesAndFormat(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_[0-9]{3}$`)
	for code, msg := range ErrorCodeMessage {
		if code == CodeOK {
			continue
		}
		assert.Regexp(t, re, string(code))
		assert.NotEmpty(t, msg, "code %s has empty message", code)
	}
}

//Personal.AI order the ending
