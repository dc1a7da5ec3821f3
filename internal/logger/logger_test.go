package logger

import (
	"testing"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	l, err := New("debug", false)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = New("error", true)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.WarnLevel))

	_, err = New("loud", false)
	assert.Error(t, err)
}

func TestLeveledSatisfiesRetryableHTTP(t *testing.T) {
	var _ retryablehttp.LeveledLogger = NewLeveled(zap.NewNop())
}
