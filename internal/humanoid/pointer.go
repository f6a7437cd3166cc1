// File: internal/humanoid/pointer.go
// Package humanoid renders believable pointer behavior on top of a raw event
// transport. Every agent interaction with the page flows through a Pointer so
// that automated actions carry the timing and geometry of a human hand.
package humanoid

import (
	"math/rand"
	"sync"
	"time"

	"github.com/aquilax/go-perlin"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/config"
)

// Pointer is the humanlike cursor simulator. It owns the cursor position and
// renders all movement through the Executor. A single Pointer serves one
// browser session; methods are safe for sequential use from the agent loop,
// with the fidget goroutine as the only internal concurrency.
type Pointer struct {
	cfg      config.PointerConfig
	executor Executor
	logger   *zap.Logger

	mu      sync.Mutex
	rng     *rand.Rand
	noise   *perlin.Perlin
	noiseT  float64
	pos     Vector2D
	mode    Mode
	buttons MouseButton

	// Fidget lifecycle. fidgetStop is non-nil while the fidget goroutine runs.
	fidgetStop chan struct{}
	fidgetWG   sync.WaitGroup
}

var _ Controller = (*Pointer)(nil)

// NewPointer creates a simulator starting at the given position.
func NewPointer(cfg config.PointerConfig, executor Executor, start Vector2D, logger *zap.Logger) *Pointer {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Pointer{
		cfg:      cfg,
		executor: executor,
		logger:   logger.Named("pointer"),
		rng:      rand.New(rand.NewSource(seed)),
		noise:    perlin.NewPerlin(2, 2, 3, seed),
		pos:      start,
		mode:     ModeNormal,
	}
}

// State returns an observable snapshot of the simulator.
func (p *Pointer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{Position: p.pos, Mode: p.mode, Buttons: p.buttons}
}

// setMode records a mode transition for observability.
func (p *Pointer) setMode(m Mode) {
	p.mu.Lock()
	prev := p.mode
	p.mode = m
	p.mu.Unlock()
	if prev != m {
		p.logger.Debug("Pointer mode changed.",
			zap.String("from", string(prev)),
			zap.String("to", string(m)))
	}
}

// position returns the current cursor position under lock.
func (p *Pointer) position() Vector2D {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

// setPosition updates the tracked cursor position.
func (p *Pointer) setPosition(v Vector2D) {
	p.mu.Lock()
	p.pos = v
	p.mu.Unlock()
}

// buttonsBitfield converts the held button into the CDP bitfield encoding.
func buttonsBitfield(b MouseButton) int64 {
	switch b {
	case ButtonLeft:
		return 1
	case ButtonRight:
		return 2
	case ButtonMiddle:
		return 4
	}
	return 0
}

// randBetween returns a uniform duration in [min, max].
func (p *Pointer) randBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return min + time.Duration(p.rng.Int63n(int64(max-min)))
}

// randFloat returns a uniform float in [0, 1) under lock.
func (p *Pointer) randFloat() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}
