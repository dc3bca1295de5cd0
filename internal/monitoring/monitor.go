package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/path.decider/internal/timeutil"
)

// Level is the severity of a monitor entry.
type Level int

const (
	LevelInfo Level = iota + 1
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Entry is one operator-facing status message.
type Entry struct {
	Time    time.Time
	Source  string
	Level   Level
	Message string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s: %s", e.Level, e.Source, e.Message)
}

// MonitorLogger keeps the most recent entries published by one component and
// echoes each to Logf. It is safe for concurrent use.
type MonitorLogger struct {
	source   string
	capacity int
	clock    timeutil.Clock

	mu      sync.Mutex
	entries []Entry
}

// NewMonitorLogger returns a logger retaining up to capacity entries.
// A non-positive capacity keeps 100.
func NewMonitorLogger(source string, capacity int) *MonitorLogger {
	if capacity <= 0 {
		capacity = 100
	}
	return &MonitorLogger{source: source, capacity: capacity, clock: timeutil.RealClock{}}
}

// SetClock replaces the clock used to stamp entries published without a
// time.
func (m *MonitorLogger) SetClock(c timeutil.Clock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = c
}

// Source returns the component name stamped on every entry.
func (m *MonitorLogger) Source() string { return m.source }

// Publish records entries in order, dropping the oldest past capacity.
func (m *MonitorLogger) Publish(entries ...Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if e.Time.IsZero() {
			e.Time = m.clock.Now()
		}
		if e.Source == "" {
			e.Source = m.source
		}
		Logf("[monitor] %s", e)
		m.entries = append(m.entries, e)
	}
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append([]Entry(nil), m.entries[over:]...)
	}
}

// Entries returns a copy of the retained entries, oldest first.
func (m *MonitorLogger) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Last returns the newest entry, if any.
func (m *MonitorLogger) Last() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return Entry{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// LogBuffer collects entries and hands them to a MonitorLogger on Publish.
// A LogBuffer is not safe for concurrent use.
type LogBuffer struct {
	logger  *MonitorLogger
	pending []Entry
}

// NewLogBuffer returns an empty buffer bound to logger.
func NewLogBuffer(logger *MonitorLogger) *LogBuffer {
	return &LogBuffer{logger: logger}
}

func (b *LogBuffer) add(level Level, format string, args []interface{}) *LogBuffer {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	b.pending = append(b.pending, Entry{Level: level, Message: msg})
	return b
}

// Info queues an INFO entry.
func (b *LogBuffer) Info(format string, args ...interface{}) *LogBuffer {
	return b.add(LevelInfo, format, args)
}

// Warn queues a WARN entry.
func (b *LogBuffer) Warn(format string, args ...interface{}) *LogBuffer {
	return b.add(LevelWarn, format, args)
}

// Error queues an ERROR entry.
func (b *LogBuffer) Error(format string, args ...interface{}) *LogBuffer {
	return b.add(LevelError, format, args)
}

// Publish sends the queued entries and empties the buffer.
func (b *LogBuffer) Publish() {
	if len(b.pending) == 0 || b.logger == nil {
		b.pending = nil
		return
	}
	b.logger.Publish(b.pending...)
	b.pending = nil
}
