package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", "json")
	SetOutput(&buf)

	WithField("run_id", "abc").Info("run started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run started", entry["msg"])
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestSetLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"info", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			Init(tc.level, "text")
			assert.Equal(t, tc.expected, GetLogger().GetLevel())
		})
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "text")
	SetOutput(&buf)

	Debugf("page %d fetched", 2)
	assert.Empty(t, buf.String())

	Warnf("commit log unavailable: %s", "exit status 128")
	assert.Contains(t, buf.String(), "commit log unavailable")
}
