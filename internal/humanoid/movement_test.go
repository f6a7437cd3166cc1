// File: internal/humanoid/movement_test.go
package humanoid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveToFinishesOnTarget(t *testing.T) {
	exec := newMockExecutor()
	p := newTestPointer(exec, Vector2D{X: 10, Y: 10})
	target := Vector2D{X: 600, Y: 400}

	require.NoError(t, p.MoveTo(context.Background(), target))

	assert.Equal(t, target, p.State().Position)
	assert.Equal(t, ModeNormal, p.State().Mode)
}

func TestMoveToUsesTwoPhases(t *testing.T) {
	exec := newMockExecutor()
	p := newTestPointer(exec, Vector2D{})
	target := Vector2D{X: 500, Y: 500}

	require.NoError(t, p.MoveTo(context.Background(), target))

	// The approach phase ends within the overshoot radius of the target, and
	// a later sample still lands exactly on it.
	moves := exec.moves()
	require.NotEmpty(t, moves)

	var sawApproach bool
	for _, e := range moves[:len(moves)-1] {
		d := (Vector2D{X: e.X, Y: e.Y}).Dist(target)
		if d > 0 && d <= p.cfg.OvershootRadius*1.5 {
			sawApproach = true
		}
	}
	assert.True(t, sawApproach, "expected an approach sample near the target before the corrective leg")

	last := moves[len(moves)-1]
	assert.Equal(t, target, Vector2D{X: last.X, Y: last.Y})
}

func TestClickDispatchesPressThenRelease(t *testing.T) {
	exec := newMockExecutor()
	p := newTestPointer(exec, Vector2D{})
	target := Vector2D{X: 100, Y: 100}

	require.NoError(t, p.Click(context.Background(), target))

	events := exec.snapshotEvents()
	var pressIdx, releaseIdx int = -1, -1
	for i, e := range events {
		switch e.Type {
		case MousePress:
			pressIdx = i
			assert.Equal(t, ButtonLeft, e.Button)
			assert.Equal(t, int64(1), e.Buttons)
		case MouseRelease:
			releaseIdx = i
			assert.Equal(t, int64(0), e.Buttons)
		}
	}
	require.NotEqual(t, -1, pressIdx)
	require.NotEqual(t, -1, releaseIdx)
	assert.Greater(t, releaseIdx, pressIdx)
	assert.Equal(t, ButtonNone, p.State().Buttons)
}

func TestDragHoldsButtonThroughSteps(t *testing.T) {
	exec := newMockExecutor()
	p := newTestPointer(exec, Vector2D{})
	from := Vector2D{X: 100, Y: 100}
	to := Vector2D{X: 300, Y: 100}

	require.NoError(t, p.Drag(context.Background(), from, to, 400*time.Millisecond))

	events := exec.snapshotEvents()
	var inDrag bool
	var dragMoves int
	for _, e := range events {
		switch e.Type {
		case MousePress:
			inDrag = true
		case MouseRelease:
			inDrag = false
		case MouseMove:
			if inDrag {
				dragMoves++
				assert.Equal(t, int64(1), e.Buttons)
			}
		}
	}

	// 400ms / 20ms = 20 steps.
	assert.GreaterOrEqual(t, dragMoves, 20)
	assert.Equal(t, to, p.State().Position)
	assert.Equal(t, ButtonNone, p.State().Buttons)
}

func TestDragShortDurationStillGetsTenSteps(t *testing.T) {
	exec := newMockExecutor()
	p := newTestPointer(exec, Vector2D{})

	require.NoError(t, p.Drag(context.Background(), Vector2D{X: 0, Y: 0}, Vector2D{X: 50, Y: 0}, 20*time.Millisecond))

	events := exec.snapshotEvents()
	var inDrag bool
	var dragMoves int
	for _, e := range events {
		switch e.Type {
		case MousePress:
			inDrag = true
		case MouseRelease:
			inDrag = false
		case MouseMove:
			if inDrag {
				dragMoves++
			}
		}
	}
	assert.GreaterOrEqual(t, dragMoves, 10)
}

func TestDragReleasesButtonOnCancellation(t *testing.T) {
	exec := newMockExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newTestPointer(exec, Vector2D{})
	require.NoError(t, p.MoveTo(ctx, Vector2D{X: 100, Y: 100}))

	// Cancel partway through the drag stepping. The re-aim onto the start
	// point emits at most ~28 moves plus the press, so offset 40 lands inside
	// the 50-step drag walk.
	exec.mu.Lock()
	exec.cancelOnCall = len(exec.events) + 40
	exec.cancelFunc = cancel
	exec.mu.Unlock()

	err := p.Drag(ctx, Vector2D{X: 100, Y: 100}, Vector2D{X: 900, Y: 100}, time.Second)
	require.Error(t, err)

	events := exec.snapshotEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, MouseRelease, events[len(events)-1].Type)
	assert.Equal(t, ButtonNone, p.State().Buttons)
}
