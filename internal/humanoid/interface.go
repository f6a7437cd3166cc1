// File: internal/humanoid/interface.go
package humanoid

import (
	"context"
	"time"
)

// Executor abstracts the browser transport the simulator drives. The session
// package provides the CDP-backed implementation; tests provide mocks.
type Executor interface {
	// DispatchMouseEvent forwards one synthetic pointer event to the page.
	DispatchMouseEvent(ctx context.Context, data MouseEventData) error
	// Sleep pauses in a context-aware fashion.
	Sleep(ctx context.Context, d time.Duration) error
}

// Controller is the surface the agent's tool executor drives.
type Controller interface {
	MoveTo(ctx context.Context, target Vector2D) error
	Click(ctx context.Context, target Vector2D) error
	Drag(ctx context.Context, from, to Vector2D, duration time.Duration) error
	StartFidget(viewport Vector2D)
	StopFidget()
	PanicBurst(ctx context.Context, duration time.Duration) error
	State() State
}
