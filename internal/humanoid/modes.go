// File: internal/humanoid/modes.go
package humanoid

import (
	"context"
	"math"
	"time"
)

// StartFidget begins idle wandering within the viewport on a background
// goroutine. Wander targets stay 50px clear of the edges. Calling it while a
// fidget is already running is a no-op; MoveTo, Drag and PanicBurst stop it.
func (p *Pointer) StartFidget(viewport Vector2D) {
	p.mu.Lock()
	if p.fidgetStop != nil {
		p.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	p.fidgetStop = stop
	p.mu.Unlock()

	p.setMode(ModeFidget)
	p.fidgetWG.Add(1)

	go func() {
		defer p.fidgetWG.Done()
		// The fidget goroutine owns its context; stopping closes the channel.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-stop
			cancel()
		}()

		const margin = 50.0
		min := Vector2D{X: margin, Y: margin}
		max := Vector2D{X: math.Max(margin, viewport.X-margin), Y: math.Max(margin, viewport.Y-margin)}

		for {
			select {
			case <-stop:
				return
			default:
			}

			target := Vector2D{
				X: min.X + p.randFloat()*(max.X-min.X),
				Y: min.Y + p.randFloat()*(max.Y-min.Y),
			}
			// Intensity shrinks the hop toward the current position.
			cur := p.position()
			target = cur.Add(target.Sub(cur).Mul(p.cfg.FidgetIntensity)).Clamp(min, max)

			move := p.randBetween(p.cfg.FidgetMoveMin, p.cfg.FidgetMoveMax)
			if err := p.traverse(ctx, target, move); err != nil {
				return
			}

			pause := p.randBetween(p.cfg.FidgetPauseMin, p.cfg.FidgetPauseMax)
			if err := p.executor.Sleep(ctx, pause); err != nil {
				return
			}
		}
	}()
}

// StopFidget halts the wander goroutine and waits for it to exit, so callers
// can rely on exclusive control of the cursor afterwards.
func (p *Pointer) StopFidget() {
	p.mu.Lock()
	stop := p.fidgetStop
	p.fidgetStop = nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	p.fidgetWG.Wait()
	p.setMode(ModeNormal)
}

// PanicBurst renders rapid erratic movement around the current position for
// the given duration: short linear hops at panic radius with minimal pauses.
// The distress display runs in the foreground; the agent resumes when it ends.
func (p *Pointer) PanicBurst(ctx context.Context, duration time.Duration) error {
	p.StopFidget()
	p.setMode(ModePanic)
	defer p.setMode(ModeNormal)

	base := p.position()
	deadline := time.Now().Add(duration)

	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}

		radius := p.cfg.PanicRadiusMin + p.randFloat()*(p.cfg.PanicRadiusMax-p.cfg.PanicRadiusMin)
		angle := p.randFloat() * 2 * math.Pi
		target := base.Add(Vector2D{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius})

		// Panic hops are straight lines; no easing, no curvature.
		steps := 4
		from := p.position()
		move := p.randBetween(p.cfg.PanicMoveMin, p.cfg.PanicMoveMax)
		for i := 1; i <= steps; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := float64(i) / float64(steps)
			point := from.Add(target.Sub(from).Mul(t))
			err := p.executor.DispatchMouseEvent(ctx, MouseEventData{
				Type:   MouseMove,
				X:      point.X,
				Y:      point.Y,
				Button: ButtonNone,
			})
			if err != nil {
				return err
			}
			p.setPosition(point)
			if err := p.executor.Sleep(ctx, move/time.Duration(steps)); err != nil {
				return err
			}
		}

		pause := p.randBetween(p.cfg.PanicPauseMin, p.cfg.PanicPauseMax)
		if err := p.executor.Sleep(ctx, pause); err != nil {
			return err
		}
	}
	return nil
}
