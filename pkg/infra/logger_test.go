package infra

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn", "json")

	l.Info("hidden")
	l.Warn("shown", "table", 841)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"table":841`)
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "", "")

	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNewLoggerTint(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "DEBUG", "TINT")

	l.Debug("colored")
	assert.Contains(t, buf.String(), "colored")
}
