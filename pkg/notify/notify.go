// Package notify provides the transient notification channel the dashboard
// surfaces outcomes through. A notification carries a dedupe key so that a
// terminal success or error replaces the in-progress "loading" entry instead
// of stacking next to it.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Kind classifies a notification.
type Kind string

const (
	KindLoading Kind = "loading"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a single message pushed to the notification surface.
type Notification struct {
	Kind    Kind
	Message string
	// Key identifies the logical operation. Two notifications with the same
	// key describe the same operation; the later one replaces the earlier.
	Key string
}

// Notifier is the notification surface consumed by workflows. Implementations
// must be safe for concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// Log is a Notifier that writes notifications to a zap logger. Errors log at
// Warn so an operator can spot failed operations; everything else at Info.
type Log struct {
	lg *zap.Logger
}

// NewLog creates a Log notifier.
func NewLog(lg *zap.Logger) *Log {
	return &Log{lg: lg}
}

// Notify implements Notifier.
func (l *Log) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("kind", string(n.Kind)),
		zap.String("key", n.Key),
	}
	if n.Kind == KindError {
		l.lg.Warn(n.Message, fields...)
		return
	}
	l.lg.Info(n.Message, fields...)
}

// Memory is a Notifier that keeps the latest notification per key, matching
// the replace-by-key behaviour of the dashboard's toast surface. It is used
// in tests and anywhere the current state of an operation needs inspecting.
type Memory struct {
	mu    sync.Mutex
	byKey map[string]Notification
	keys  []string
}

// NewMemory creates an empty Memory notifier.
func NewMemory() *Memory {
	return &Memory{byKey: make(map[string]Notification)}
}

// Notify implements Notifier. A notification replaces any earlier one with
// the same key but keeps the original position in the display order.
func (m *Memory) Notify(n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, seen := m.byKey[n.Key]; !seen {
		m.keys = append(m.keys, n.Key)
	}
	m.byKey[n.Key] = n
}

// Latest returns the current notification for key, if any.
func (m *Memory) Latest(key string) (Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.byKey[key]
	return n, ok
}

// All returns the current notifications in first-seen key order.
func (m *Memory) All() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Notification, 0, len(m.keys))
	for _, key := range m.keys {
		out = append(out, m.byKey[key])
	}
	return out
}
