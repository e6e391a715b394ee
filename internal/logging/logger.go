// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package logging holds the shared application logger. Callers should use
// the helper functions below rather than constructing their own loggers.
package logging

import (
	"fmt"
	"os"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger.
var L = clog.New(os.Stderr)

var debugEnabled bool

// SetDebug enables or disables debug logging for the application.
func SetDebug(enabled bool) {
	debugEnabled = enabled
	if enabled {
		L.SetLevel(clog.DebugLevel)
	} else {
		L.SetLevel(clog.InfoLevel)
	}
}

// Debugf logs a debug-level formatted message. It is a no-op unless debug
// logging has been enabled via SetDebug.
func Debugf(format string, v ...any) {
	if debugEnabled {
		L.Debug(fmt.Sprintf(format, v...))
	}
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...any) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...any) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...any) {
	L.Error(fmt.Sprintf(format, v...))
}
