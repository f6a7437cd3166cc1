// File: internal/agent/tools_input.go
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/xkilldash9x/pagepilot/internal/humanoid"
)

func (e *Executor) inputText(ctx context.Context, args map[string]interface{}) string {
	selector := argString(args, "selector")
	text := argString(args, "text")

	// Aim the pointer at the field first so the typing looks attended.
	if raw, err := e.browser.ExecuteScript(ctx, findInputScript(selector)); err == nil {
		var hit struct {
			Found bool    `json:"found"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
		}
		if json.Unmarshal(raw, &hit) == nil && hit.Found {
			e.aimClick(ctx, humanoid.Vector2D{X: hit.X, Y: hit.Y})
			e.sleep(ctx, 300*time.Millisecond)
		}
	}

	// Some sites hide the real input behind a trigger button.
	e.browser.ExecuteScript(ctx, searchTriggerScript)
	e.sleep(ctx, 500*time.Millisecond)

	if _, err := e.browser.ExecuteScript(ctx, setInputValueScript(selector, text)); err != nil {
		return fmt.Sprintf("输入「%s」时遇到问题，可以检查一下页面", text)
	}
	e.sleep(ctx, 300*time.Millisecond)

	verified := false
	if raw, err := e.browser.ExecuteScript(ctx, verifyInputScript(text)); err == nil {
		var check struct {
			Verified bool `json:"verified"`
		}
		if json.Unmarshal(raw, &check) == nil {
			verified = check.Verified
		}
	}

	fb := e.feedback(ctx, fmt.Sprintf("输入%q", text))
	if verified {
		return withFeedback(fmt.Sprintf("输入成功~「%s」已填入搜索框", text), "当前看到: ", fb)
	}
	return withFeedback(fmt.Sprintf("已输入「%s」，但需要确认一下", text), "页面状态: ", fb)
}

func (e *Executor) pressEnter(ctx context.Context, args map[string]interface{}) string {
	selector := argString(args, "selector")

	// Focus the field, then send a real Enter through the input domain. The
	// script also falls back to clicking a submit button or submitting the
	// enclosing form, since some pages ignore synthetic key events.
	e.browser.ExecuteScript(ctx, focusInputScript(selector))
	e.browser.PressKey(ctx, "Enter")
	e.browser.ExecuteScript(ctx, submitFallbackScript(selector))
	e.sleep(ctx, 2*time.Second)
	return "Pressed Enter"
}

func (e *Executor) retryWithAlternative(ctx context.Context, args map[string]interface{}) string {
	actionType := argString(args, "action_type")
	targetDesc := argString(args, "target_description")

	switch actionType {
	case "input":
		raw, err := e.browser.ExecuteScript(ctx, retryInputScript)
		if err != nil {
			return "Retry error: " + err.Error()
		}
		return fmt.Sprintf("Alternative input method: %s. Try using input_text with selector \"input[type='search']\", or try clicking on the search area first with click_element.", string(raw))
	case "click":
		raw, err := e.browser.ExecuteScript(ctx, retryClickScript)
		if err != nil {
			return "Retry error: " + err.Error()
		}
		return fmt.Sprintf("Found clickable elements: %s. Try using click_text with the visible text, or click_element with a specific selector.", string(raw))
	case "search":
		raw, err := e.browser.ExecuteScript(ctx, retrySearchScript)
		if err != nil {
			return "Retry error: " + err.Error()
		}
		return fmt.Sprintf("Search form analysis: %s. Try: 1) Click on search icon first, 2) Use different input selector, 3) Press Enter after typing.", string(raw))
	default:
		return fmt.Sprintf("Alternative method suggestion for %q: Try different selectors or approach the element differently.", targetDesc)
	}
}
