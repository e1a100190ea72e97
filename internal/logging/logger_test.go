package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_NopByDefault(t *testing.T) {
	SetLogger(nil)
	logger := Get(CategoryBudget)
	require.NotNil(t, logger)
	logger.Debugf("should not panic: %d", 1)
}

func TestGet_CarriesCategoryField(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Get(CategoryPhase).Debugf("advanced %s", "intake")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "advanced intake", entries[0].Message)
	assert.Equal(t, "phase", entries[0].ContextMap()["category"])
}

func TestGet_CachesPerCategory(t *testing.T) {
	SetLogger(zap.NewNop())
	defer SetLogger(nil)

	assert.Same(t, Get(CategoryContext), Get(CategoryContext))
}

func TestEnable(t *testing.T) {
	require.NoError(t, Enable(true))
	defer SetLogger(nil)
	Get(CategoryRender).Debugf("debug logging enabled")
	Sync()
}
