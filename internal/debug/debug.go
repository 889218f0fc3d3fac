// Package debug provides opt-in diagnostic logging for the wv CLI.
// Messages always land in a size-rotated log file once a log directory
// is configured; they additionally echo to stderr when WV_DEBUG is set.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	logger *lumberjack.Logger
)

// Enabled reports whether debug output should echo to stderr.
func Enabled() bool {
	return os.Getenv("WV_DEBUG") != ""
}

// SetLogFile directs file logging to the given path with rotation.
// Calling it again switches files.
func SetLogFile(path string, maxSizeMB, maxBackups, maxAgeDays int) {
	mu.Lock()
	defer mu.Unlock()
	logger = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
}

// SetLogDir is SetLogFile with the default file name under dir.
func SetLogDir(dir string, maxSizeMB, maxBackups, maxAgeDays int) {
	SetLogFile(filepath.Join(dir, "wv.log"), maxSizeMB, maxBackups, maxAgeDays)
}

// Logf writes a formatted message to the rotating log file (if
// configured) and to stderr when WV_DEBUG is set. Safe to call before
// SetLogDir; messages are then stderr-only or dropped.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}

	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		_, _ = l.Write([]byte(msg))
	}
	if Enabled() {
		fmt.Fprint(os.Stderr, msg)
	}
}

// Close flushes and closes the rotating log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		_ = logger.Close()
		logger = nil
	}
}
