package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevelAndFormat(t *testing.T) {
	Init("debug", "json")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	var buf bytes.Buffer
	SetOutput(&buf)
	For("melee").WithField("entity", 7).Info("strike")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "melee", line["system"])
	assert.Equal(t, "strike", line["msg"])

	Init("nonsense", "text")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	_, isText := Log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}
