// File: internal/humanoid/movement.go
package humanoid

import (
	"context"
	"math"
	"time"
)

// MoveTo drives the cursor to the target with two-phase aiming: a ballistic
// approach that lands near (not on) the target, a short settle, then a
// corrective movement onto the exact point. Any running fidget is stopped
// first; purposeful movement always preempts idling.
func (p *Pointer) MoveTo(ctx context.Context, target Vector2D) error {
	p.StopFidget()
	p.setMode(ModeNormal)

	// Phase one: aim at an offset point within the overshoot radius.
	offset := Vector2D{
		X: (p.randFloat()*2 - 1) * p.cfg.OvershootRadius,
		Y: (p.randFloat()*2 - 1) * p.cfg.OvershootRadius,
	}
	approach := target.Add(offset)

	aimDuration := p.cfg.AimDuration
	if aimDuration <= 0 {
		aimDuration = p.fittsDuration(p.position().Dist(approach))
	}
	if err := p.traverse(ctx, approach, aimDuration); err != nil {
		return err
	}
	if err := p.executor.Sleep(ctx, p.cfg.AimSettle); err != nil {
		return err
	}

	// Phase two: correct onto the target.
	if err := p.traverse(ctx, target, p.cfg.CorrectDuration); err != nil {
		return err
	}
	return p.executor.Sleep(ctx, p.cfg.CorrectSettle)
}

// Glide moves straight to the target in one phase, used when the caller has
// already aimed (e.g. the terminal leg of a drag).
func (p *Pointer) Glide(ctx context.Context, target Vector2D, duration time.Duration) error {
	p.StopFidget()
	p.setMode(ModeNormal)
	if duration <= 0 {
		duration = p.fittsDuration(p.position().Dist(target))
	}
	return p.traverse(ctx, target, duration)
}

// Click moves to the target and performs a full press-hold-release cycle.
func (p *Pointer) Click(ctx context.Context, target Vector2D) error {
	if err := p.MoveTo(ctx, target); err != nil {
		return err
	}
	return p.ClickInPlace(ctx)
}

// ClickInPlace presses and releases the left button at the current position.
func (p *Pointer) ClickInPlace(ctx context.Context) error {
	pos := p.position()

	if err := p.press(ctx, pos); err != nil {
		return err
	}

	hold := p.cfg.ClickHoldMinMs
	span := p.cfg.ClickHoldMaxMs - p.cfg.ClickHoldMinMs
	if span > 0 {
		hold += int(p.randFloat() * float64(span))
	}
	if err := p.executor.Sleep(ctx, time.Duration(hold)*time.Millisecond); err != nil {
		// Never leave a button stuck down on cancellation.
		_ = p.release(context.WithoutCancel(ctx), pos)
		return err
	}

	return p.release(ctx, pos)
}

func (p *Pointer) press(ctx context.Context, pos Vector2D) error {
	err := p.executor.DispatchMouseEvent(ctx, MouseEventData{
		Type:       MousePress,
		X:          pos.X,
		Y:          pos.Y,
		Button:     ButtonLeft,
		Buttons:    buttonsBitfield(ButtonLeft),
		ClickCount: 1,
	})
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.buttons = ButtonLeft
	p.mu.Unlock()
	return nil
}

func (p *Pointer) release(ctx context.Context, pos Vector2D) error {
	err := p.executor.DispatchMouseEvent(ctx, MouseEventData{
		Type:       MouseRelease,
		X:          pos.X,
		Y:          pos.Y,
		Button:     ButtonLeft,
		Buttons:    0,
		ClickCount: 1,
	})
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.buttons = ButtonNone
	p.mu.Unlock()
	return nil
}

// Drag presses at from, walks to to in evenly spaced jittered steps, and
// releases. Step count follows max(10, duration/20ms) so longer drags get
// proportionally more samples.
func (p *Pointer) Drag(ctx context.Context, from, to Vector2D, duration time.Duration) error {
	if err := p.MoveTo(ctx, from); err != nil {
		return err
	}
	if err := p.press(ctx, from); err != nil {
		return err
	}

	steps := int(math.Max(10, float64(duration/(20*time.Millisecond))))
	stepPause := duration / time.Duration(steps)
	delta := to.Sub(from)

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			_ = p.release(context.WithoutCancel(ctx), p.position())
			return err
		}

		t := float64(i) / float64(steps)
		point := from.Add(delta.Mul(t))
		if i < steps {
			point.X += p.randFloat()*2 - 1
			point.Y += p.randFloat()*2 - 1
		}

		err := p.executor.DispatchMouseEvent(ctx, MouseEventData{
			Type:    MouseMove,
			X:       point.X,
			Y:       point.Y,
			Button:  ButtonNone,
			Buttons: buttonsBitfield(ButtonLeft),
		})
		if err != nil {
			_ = p.release(context.WithoutCancel(ctx), p.position())
			return err
		}
		p.setPosition(point)

		if stepPause > 0 {
			if err := p.executor.Sleep(ctx, stepPause); err != nil {
				_ = p.release(context.WithoutCancel(ctx), p.position())
				return err
			}
		}
	}

	return p.release(ctx, to)
}
