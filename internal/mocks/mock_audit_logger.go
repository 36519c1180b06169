package mocks

import (
	"context"
	"sync"

	"github.com/you/authsvc/domain"
)

// MockAuditLogger implements domain.AuditLogger and captures every event
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records the event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// HasEvent reports whether an event of the given type and outcome was logged
func (m *MockAuditLogger) HasEvent(eventType domain.AuditEventType, success bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.EventType == eventType && e.Success == success {
			return true
		}
	}
	return false
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)
