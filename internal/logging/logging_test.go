package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	var testCases = []struct {
		description string
		level       string
		format      string
		expectErr   bool
	}{
		{description: "defaults", level: "", format: ""},
		{description: "json debug", level: "DEBUG", format: "json"},
		{description: "bad level", level: "loud", expectErr: true},
		{description: "bad format", level: "info", format: "xml", expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			logger, err := New(testCase.level, testCase.format, &bytes.Buffer{})
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_JSONFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New("debug", "json", buf)
	require.NoError(t, err)
	logger.Debug("refresh settled", zap.Int("waiters", 3))
	require.NoError(t, logger.Sync())

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "refresh settled", entry["msg"])
	assert.Equal(t, "storefront", entry["logger"])
	assert.EqualValues(t, 3, entry["waiters"])

	buf.Reset()
	quiet, err := New("warn", "json", buf)
	require.NoError(t, err)
	quiet.Info("dropped")
	assert.Empty(t, buf.String())
}
