// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jinto

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package logger. It discards all output unless a logger
// has been installed with SetLogger.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l as the package logger. It should be called before any
// decoding begins.
func SetLogger(l *zap.Logger) {
	Logger() // settle the default first, so it cannot overwrite l
	logger = l
}
