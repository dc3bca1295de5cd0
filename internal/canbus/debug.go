package canbus

import (
	"io"
	"log"
	"sync"
)

var (
	logMu       sync.RWMutex
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures the three logging streams for the canbus
// package. Pass nil for any writer to disable that stream.
func SetLogWriters(ops, diag, trace io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	opsLogger = newLogger(ops)
	diagLogger = newLogger(diag)
	traceLogger = newLogger(trace)
}

func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, "[canbus] ", log.LstdFlags|log.Lmicroseconds)
}

func logTo(l **log.Logger, format string, args []interface{}) {
	logMu.RLock()
	lg := *l
	logMu.RUnlock()
	if lg != nil {
		lg.Printf(format, args...)
	}
}

// opsf logs actionable failures (port errors, receive errors).
func opsf(format string, args ...interface{}) { logTo(&opsLogger, format, args) }

// diagf logs lifecycle transitions.
func diagf(format string, args ...interface{}) { logTo(&diagLogger, format, args) }

// tracef logs individual frames when receiver logging is enabled.
func tracef(format string, args ...interface{}) { logTo(&traceLogger, format, args) }
