package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelWarn)

	logger.Info("[Pipeline] hidden %d", 1)
	assert.Empty(t, buf.String())

	logger.Warn("[Pipeline] shown %d", 2)
	assert.Contains(t, buf.String(), "[Pipeline] shown 2")

	buf.Reset()
	logger.Error("[Pipeline] failure")
	assert.Contains(t, buf.String(), "ERR")
	assert.Contains(t, buf.String(), "[Pipeline] failure")
}

func TestLoggerTraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelTrace)

	logger.Trace("row %d", 7)
	assert.Contains(t, buf.String(), "TRC")
	assert.Contains(t, buf.String(), "row 7")
}
