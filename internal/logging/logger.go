// Package logging provides categorized logging for the kontxt library.
// Each subsystem logs under its own category so callers can trace a single
// render pipeline stage without wading through the rest. Logging is a no-op
// until a logger is installed via Enable or SetLogger.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies the subsystem a log line originates from.
type Category string

const (
	CategoryContext Category = "context" // section store and render pipeline
	CategoryPhase   Category = "phase"   // phase selection and transitions
	CategoryBudget  Category = "budget"  // token budget enforcement
	CategoryRender  Category = "render"  // format renderers
	CategorySession Category = "session" // chat session lifecycle
	CategoryLoadout Category = "loadout" // YAML loadout parsing
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	loggers = make(map[Category]*zap.SugaredLogger)
)

// SetLogger installs a base logger. Category loggers derive from it lazily.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	base = l
	loggers = make(map[Category]*zap.SugaredLogger)
}

// Enable builds and installs a production logger. With debug true the level
// drops to Debug and output switches to the development encoder.
func Enable(debug bool) error {
	config := zap.NewProductionConfig()
	if debug {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// Get returns the sugared logger for a category.
func Get(cat Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}
	l := base.Sugar().With("category", string(cat))
	loggers[cat] = l
	return l
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
