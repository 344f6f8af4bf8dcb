package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, logrus.DebugLevel, newLogger(&buf, "app", "development", "").GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger(&buf, "app", "production", "").GetLevel())
	assert.Equal(t, logrus.WarnLevel, newLogger(&buf, "app", "production", "warn").GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger(&buf, "app", "production", "loud").GetLevel())
}

func TestLogError_WritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "app", "production", "")
	buf.Reset()

	LogError(logger, "save failed", errors.New("boom"), logrus.Fields{"user_id": 3})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "save failed", line["msg"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, float64(3), line["user_id"])

	LogError(nil, "ignored", nil, nil)
}
