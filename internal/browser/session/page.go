// File: internal/browser/session/page.go
package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
	"github.com/xkilldash9x/pagepilot/internal/humanoid"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Navigate loads a URL in the active tab and waits for the load plus the
// configured settle delay.
func (s *Session) Navigate(ctx context.Context, url string) error {
	opCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancel()

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if s.cfg.PostLoadWait > 0 {
		actions = append(actions, chromedp.Sleep(s.cfg.PostLoadWait))
	}
	if err := s.Run(opCtx, actions...); err != nil {
		return fmt.Errorf("session: navigation to %s failed: %w", url, err)
	}
	s.logger.Info("Navigated.", zap.String("url", url))
	return nil
}

// Back walks one entry back in the tab's history.
func (s *Session) Back(ctx context.Context) error {
	if err := s.Run(ctx, chromedp.NavigateBack()); err != nil {
		return fmt.Errorf("session: history back failed: %w", err)
	}
	return nil
}

// Forward walks one entry forward in the tab's history.
func (s *Session) Forward(ctx context.Context) error {
	if err := s.Run(ctx, chromedp.NavigateForward()); err != nil {
		return fmt.Errorf("session: history forward failed: %w", err)
	}
	return nil
}

// PageInfo snapshots the active tab's URL, title and viewport size.
func (s *Session) PageInfo(ctx context.Context) (schemas.PageInfo, error) {
	raw, err := s.ExecuteScript(ctx, `({
		url: location.href,
		title: document.title,
		width: window.innerWidth,
		height: window.innerHeight,
	})`)
	if err != nil {
		return schemas.PageInfo{}, err
	}

	var info schemas.PageInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return schemas.PageInfo{}, fmt.Errorf("session: failed to decode page info: %w", err)
	}
	return info, nil
}

// Viewport reports the inner viewport as a vector for the pointer simulator.
func (s *Session) Viewport(ctx context.Context) (humanoid.Vector2D, error) {
	info, err := s.PageInfo(ctx)
	if err != nil {
		return humanoid.Vector2D{}, err
	}
	return humanoid.Vector2D{X: float64(info.Width), Y: float64(info.Height)}, nil
}

// Screenshot captures the visible viewport as base64-encoded PNG.
func (s *Session) Screenshot(ctx context.Context) (string, error) {
	var buf []byte

	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.Run(opCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return "", fmt.Errorf("session: screenshot failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// ExecuteScript evaluates JavaScript in the active tab and returns the raw
// JSON result. Promises are awaited; exceptions surface as errors.
func (s *Session) ExecuteScript(ctx context.Context, script string) (jsoniter.RawMessage, error) {
	var res jsoniter.RawMessage

	opCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	err := s.Run(opCtx,
		chromedp.Evaluate(script, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("session: script evaluation timed out: %w", opCtx.Err())
		}
		return nil, fmt.Errorf("session: script evaluation failed: %w", err)
	}
	return res, nil
}

// ScrollBy scrolls the page by the given pixel delta with smooth behavior.
func (s *Session) ScrollBy(ctx context.Context, dx, dy float64) error {
	script := fmt.Sprintf(`window.scrollBy({left: %f, top: %f, behavior: 'smooth'}); true`, dx, dy)
	_, err := s.ExecuteScript(ctx, script)
	return err
}

// ScrollToTop jumps to the top of the document.
func (s *Session) ScrollToTop(ctx context.Context) error {
	_, err := s.ExecuteScript(ctx, `window.scrollTo({top: 0, behavior: 'smooth'}); true`)
	return err
}

// ScrollToBottom jumps to the bottom of the document.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	_, err := s.ExecuteScript(ctx, `window.scrollTo({top: document.body.scrollHeight, behavior: 'smooth'}); true`)
	return err
}

// ElementCenter locates a selector and returns the viewport coordinates of
// its center, scrolling it into view first. Only visible elements qualify.
func (s *Session) ElementCenter(ctx context.Context, selector string) (humanoid.Vector2D, error) {
	script := fmt.Sprintf(`(function(sel) {
		const node = document.querySelector(sel);
		if (!node) return null;
		node.scrollIntoView({block: 'center', inline: 'center'});
		const rect = node.getBoundingClientRect();
		const style = window.getComputedStyle(node);
		const visible = rect.width > 0 && rect.height > 0 &&
			style.display !== 'none' && style.visibility !== 'hidden' && style.opacity !== '0';
		if (!visible) return null;
		return {x: rect.left + rect.width / 2, y: rect.top + rect.height / 2};
	})(%s)`, mustEncode(selector))

	raw, err := s.ExecuteScript(ctx, script)
	if err != nil {
		return humanoid.Vector2D{}, err
	}
	if string(raw) == "null" {
		return humanoid.Vector2D{}, fmt.Errorf("session: element %q not found or not visible", selector)
	}

	var center humanoid.Vector2D
	if err := json.Unmarshal(raw, &center); err != nil {
		return humanoid.Vector2D{}, fmt.Errorf("session: failed to decode element center: %w", err)
	}
	return center, nil
}

// mustEncode safely embeds a Go value as a JS literal.
func mustEncode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
