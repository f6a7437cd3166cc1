// File: internal/humanoid/trajectory.go
package humanoid

import (
	"context"
	"math"
	"time"
)

// easeOutQuart decelerates sharply toward the end of the motion, matching the
// velocity profile of a ballistic hand movement.
func easeOutQuart(t float64) float64 {
	u := 1.0 - t
	return 1.0 - u*u*u*u
}

// fittsDuration derives the movement time for a travel distance from Fitts's
// Law: MT = A + B*log2(1 + D/W), with W fixed at a nominal target width.
// A +-15% randomization keeps repeated movements from looking mechanical.
func (p *Pointer) fittsDuration(distance float64) time.Duration {
	const targetWidth = 30.0

	id := math.Log2(1.0 + distance/targetWidth)
	mt := p.cfg.FittsA + p.cfg.FittsB*id
	mt *= 1.0 + (p.randFloat()*0.3 - 0.15)
	if mt < 0 {
		mt = 0
	}
	return time.Duration(mt) * time.Millisecond
}

// controlPoint picks the quadratic Bezier control point for a move: the
// midpoint pushed perpendicular by a random fraction of the capped curvature
// offset, on a random side of the line.
func (p *Pointer) controlPoint(from, to Vector2D) Vector2D {
	mid := from.Add(to).Mul(0.5)
	dist := from.Dist(to)

	offset := math.Min(dist*p.cfg.Curvature, p.cfg.CurvatureCap)
	offset *= p.randFloat()*0.6 + 0.4
	if p.randFloat() < 0.5 {
		offset = -offset
	}

	perp := to.Sub(from).Perp().Normalize()
	return mid.Add(perp.Mul(offset))
}

// bezierPoint evaluates the quadratic Bezier at parameter t.
func bezierPoint(from, ctrl, to Vector2D, t float64) Vector2D {
	u := 1.0 - t
	return from.Mul(u * u).Add(ctrl.Mul(2 * u * t)).Add(to.Mul(t * t))
}

// traverse renders a single curved movement from the current position to the
// target over the given duration, dispatching intermediate mouseMoved events.
// Cancellation is honored between steps. The cursor lands exactly on target.
func (p *Pointer) traverse(ctx context.Context, target Vector2D, duration time.Duration) error {
	from := p.position()
	dist := from.Dist(target)
	if dist < 1e-6 {
		return nil
	}

	ctrl := p.controlPoint(from, target)

	// Step count scales with distance; each step is one dispatched event.
	steps := int(math.Max(10, math.Min(dist/4, 80)))
	stepPause := duration / time.Duration(steps)

	p.mu.Lock()
	heldButtons := buttonsBitfield(p.buttons)
	p.mu.Unlock()

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		t := easeOutQuart(float64(i) / float64(steps))
		point := bezierPoint(from, ctrl, target, t)

		// Tremor applies mid-flight only; the terminal samples land clean so
		// the cursor settles exactly on the target.
		if t < 0.9 {
			point = p.applyTremor(point)
		}
		if i == steps {
			point = target
		}

		err := p.executor.DispatchMouseEvent(ctx, MouseEventData{
			Type:    MouseMove,
			X:       point.X,
			Y:       point.Y,
			Button:  ButtonNone,
			Buttons: heldButtons,
		})
		if err != nil {
			return err
		}
		p.setPosition(point)

		if stepPause > 0 {
			if err := p.executor.Sleep(ctx, stepPause); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyTremor perturbs a path sample with low-frequency Perlin drift plus
// uniform jitter.
func (p *Pointer) applyTremor(point Vector2D) Vector2D {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.noiseT += 0.07
	drift := p.noise.Noise1D(p.noiseT) * p.cfg.PerlinAmplitude
	jx := (p.rng.Float64()*2 - 1) * p.cfg.JitterAmplitude
	jy := (p.rng.Float64()*2 - 1) * p.cfg.JitterAmplitude

	return Vector2D{X: point.X + drift + jx, Y: point.Y + drift*0.6 + jy}
}
