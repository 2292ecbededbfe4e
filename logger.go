package voxels

import (
	"sync"

	"go.uber.org/zap"
)

// Severity mirrors the original library's LogSeverity enum, preserved as an
// external collaborator interface rather than a concrete logging backend.
type Severity int

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCriticalError
)

var (
	logMu  sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// SetLogger installs l as the process-wide logger consulted by grid
// construction and polygonization for recoverable-but-notable events
// (oversize grids, missing material ids). A nil l restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l.Sugar()
}

func logAt(sev Severity, msg string, keysAndValues ...any) {
	logMu.RLock()
	l := logger
	logMu.RUnlock()

	switch sev {
	case SeverityTrace, SeverityDebug:
		l.Debugw(msg, keysAndValues...)
	case SeverityInfo:
		l.Infow(msg, keysAndValues...)
	case SeverityWarning:
		l.Warnw(msg, keysAndValues...)
	default:
		l.Errorw(msg, keysAndValues...)
	}
}
