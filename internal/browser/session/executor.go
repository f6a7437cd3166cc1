// File: internal/browser/session/executor.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/humanoid"
)

// cdpExecutor adapts the session's action runner to the humanoid.Executor
// interface, bridging the browser-agnostic pointer simulation with CDP.
type cdpExecutor struct {
	session *Session
	logger  *zap.Logger
}

var _ humanoid.Executor = (*cdpExecutor)(nil)

// Executor returns the CDP-backed pointer event transport for this session.
func (s *Session) Executor() humanoid.Executor {
	return &cdpExecutor{session: s, logger: s.logger.Named("cdp_executor")}
}

// Sleep pauses via chromedp so cancellation of either context aborts it.
func (e *cdpExecutor) Sleep(ctx context.Context, d time.Duration) error {
	return e.session.Run(ctx, chromedp.Sleep(d))
}

// DispatchMouseEvent forwards one pointer event to the active tab.
func (e *cdpExecutor) DispatchMouseEvent(ctx context.Context, data humanoid.MouseEventData) error {
	p := input.DispatchMouseEvent(input.MouseType(data.Type), data.X, data.Y).
		WithButton(input.MouseButton(data.Button)).
		WithButtons(data.Buttons).
		WithClickCount(data.ClickCount)

	opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := e.session.Run(opCtx, p)
	if err != nil && opCtx.Err() == context.DeadlineExceeded {
		e.logger.Debug("Mouse event dispatch timed out.", zap.Error(err))
		return fmt.Errorf("mouse event dispatch timed out: %w", opCtx.Err())
	}
	return err
}

// SendKeys types raw characters into the focused element.
func (s *Session) SendKeys(ctx context.Context, keys string) error {
	opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.Run(opCtx, chromedp.KeyEvent(keys)); err != nil {
		return fmt.Errorf("session: failed to send keys: %w", err)
	}
	return nil
}

// PressKey dispatches a keydown/keyup pair for a named key such as "Enter".
func (s *Session) PressKey(ctx context.Context, key string) error {
	keyDown := input.DispatchKeyEvent(input.KeyDown).WithKey(key)
	keyUp := input.DispatchKeyEvent(input.KeyUp).WithKey(key)

	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Run(opCtx, keyDown, keyUp); err != nil {
		return fmt.Errorf("session: failed to press %q: %w", key, err)
	}
	return nil
}
