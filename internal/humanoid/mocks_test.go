// File: internal/humanoid/mocks_test.go
package humanoid

import (
	"context"
	"sync"
	"time"
)

// mockExecutor records dispatched events and sleeps instead of touching a
// browser. It can trigger cancellation or failure at a chosen call number.
type mockExecutor struct {
	mu             sync.Mutex
	events         []MouseEventData
	sleepDurations []time.Duration

	returnErr    error
	failOnCall   int
	cancelOnCall int
	cancelFunc   context.CancelFunc
	callCount    int
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{}
}

func (m *mockExecutor) DispatchMouseEvent(ctx context.Context, data MouseEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	if m.returnErr != nil && m.failOnCall > 0 && m.callCount >= m.failOnCall {
		return m.returnErr
	}

	m.events = append(m.events, data)
	if m.cancelOnCall > 0 && len(m.events) == m.cancelOnCall && m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

func (m *mockExecutor) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleepDurations = append(m.sleepDurations, d)
	return nil
}

func (m *mockExecutor) snapshotEvents() []MouseEventData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MouseEventData, len(m.events))
	copy(out, m.events)
	return out
}

func (m *mockExecutor) moves() []MouseEventData {
	var out []MouseEventData
	for _, e := range m.snapshotEvents() {
		if e.Type == MouseMove {
			out = append(out, e)
		}
	}
	return out
}
