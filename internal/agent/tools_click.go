// File: internal/agent/tools_click.go
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xkilldash9x/pagepilot/internal/humanoid"
	"github.com/xkilldash9x/pagepilot/internal/resolver"
)

const (
	clickSettle  = 1500 * time.Millisecond
	navSettle    = 2500 * time.Millisecond
	buttonSettle = 2 * time.Second
)

func (e *Executor) clickElement(ctx context.Context, args map[string]interface{}) string {
	selector := argString(args, "selector")
	center, err := e.browser.ElementCenter(ctx, selector)
	if err != nil {
		return "Error: element not found: " + selector
	}

	// The marker scrolls the element into view, so its coordinates are
	// fresher than the initial lookup.
	if raw, err := e.browser.ExecuteScript(ctx, highlightScript(selector)); err == nil {
		var mark struct {
			Found bool    `json:"found"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
		}
		if json.Unmarshal(raw, &mark) == nil && mark.Found {
			center = humanoid.Vector2D{X: mark.X, Y: mark.Y}
		}
	}

	if err := e.aimClick(ctx, center); err != nil {
		return "点击失败: " + err.Error()
	}
	e.browser.ExecuteScript(ctx, clearHighlightScript)
	e.sleep(ctx, clickSettle)
	fb := e.feedback(ctx, "点击元素")
	return withFeedback("已点击元素 "+selector, "当前看到: ", fb)
}

// clickText resolves the visible text to a concrete link through the
// candidate pipeline, clicks it and navigates to the confirmed href. When
// the DOM yields nothing it falls back to visual location, at most once.
func (e *Executor) clickText(ctx context.Context, args map[string]interface{}) string {
	text := argString(args, "text")
	winner, err := e.resolveTarget(ctx, text)
	if err != nil {
		return e.clickTextVisualFallback(ctx, text)
	}

	target := humanoid.Vector2D{X: winner.X, Y: winner.Y}
	if err := e.aimClick(ctx, target); err != nil {
		return fmt.Sprintf("点击失败: %s。可以试试 find_element(%q) 找其他选择器", err.Error(), text)
	}

	// Search engines wrap results in redirects; navigating to the resolved
	// href avoids clicking the wrong overlapping element.
	if winner.Href != "" {
		e.browser.ExecuteScript(ctx, navigateScript(winner.Href))
	}
	e.sleep(ctx, navSettle)

	return e.verifyClickText(ctx, text)
}

func (e *Executor) resolveTarget(ctx context.Context, text string) (*resolver.Candidate, error) {
	raw, err := e.browser.ExecuteScript(ctx, resolver.HarvestScript)
	if err != nil {
		return nil, err
	}
	candidates, err := resolver.ParseCandidates(raw)
	if err != nil {
		return nil, err
	}
	query := resolver.NewQuery(text, e.currentGoal())
	return e.resolver.Resolve(query, candidates)
}

func (e *Executor) clickTextVisualFallback(ctx context.Context, text string) string {
	if e.analyst == nil {
		e.panic(ctx)
		return fmt.Sprintf("%s\n找不到「%s」。可以试试 scroll_page 滚动查看。", randomReaction(e.rng), text)
	}

	shot, err := e.browser.Screenshot(ctx)
	if err != nil {
		e.panic(ctx)
		return fmt.Sprintf("%s\n找不到「%s」，截图也失败了: %s", randomReaction(e.rng), text, err.Error())
	}
	viewport, _ := e.browser.Viewport(ctx)
	located, err := e.analyst.Locate(ctx, text, shot, int(viewport.X), int(viewport.Y))
	if err != nil || !located.Found {
		e.panic(ctx)
		suggestion := "可以试试 visual_click 或 scroll_page 滚动查看。"
		if located.Suggestion != "" {
			suggestion = located.Suggestion
		}
		return fmt.Sprintf("%s\n找不到「%s」。%s", randomReaction(e.rng), text, suggestion)
	}

	target := humanoid.Vector2D{X: located.X, Y: located.Y}
	if err := e.aimClick(ctx, target); err != nil {
		return "视觉点击失败: " + err.Error()
	}
	e.browser.ExecuteScript(ctx, clickAtScript(located.X, located.Y))
	e.sleep(ctx, clickSettle)

	fb := e.feedback(ctx, fmt.Sprintf("视觉点击%q", text))
	return withFeedback(fmt.Sprintf("[视觉定位] 点击「%s」at (%.0f, %.0f)", text, located.X, located.Y), "当前: ", fb)
}

// verifyClickText inspects the landing page: a Copilot detour or a lingering
// search page means the click went wrong.
func (e *Executor) verifyClickText(ctx context.Context, text string) string {
	info, err := e.browser.PageInfo(ctx)
	if err != nil {
		return "已点击: " + text
	}

	lowURL := strings.ToLower(info.URL)
	lowTitle := strings.ToLower(info.Title)
	lowText := strings.ToLower(text)

	if strings.Contains(lowURL, "copilot") {
		e.panic(ctx)
		return fmt.Sprintf("%s\n点击错误！误跳转到了 Copilot/AI 页面（%s）。这不是「%s」的官网。你可以：返回上一页重试、使用 visual_click 精确定位、或滚动页面找其他链接。",
			randomReaction(e.rng), truncate(info.URL, 60), text)
	}

	onSearchPage := strings.Contains(lowURL, "bing.com/search") ||
		strings.Contains(lowURL, "google.com/search") ||
		strings.Contains(lowURL, "baidu.com/s")
	if onSearchPage && !strings.Contains(lowTitle, lowText) {
		e.panic(ctx)
		return fmt.Sprintf("%s\n点击可能没有成功，还在搜索页面。试试 visual_click(%q) 或滚动页面查看。",
			randomReaction(e.rng), text+" 官网链接")
	}

	fb := e.feedback(ctx, fmt.Sprintf("点击%q", text))
	if strings.Contains(lowTitle, lowText) || !onSearchPage {
		return withFeedback(fmt.Sprintf("点击成功~「%s」\n当前页面: %s", text, info.Title), "页面状态: ", fb)
	}
	return withFeedback(fmt.Sprintf("已点击「%s」，页面可能还在加载...\n当前URL: %s", text, truncate(info.URL, 50)), "当前看到: ", fb)
}

func (e *Executor) clickButton(ctx context.Context, args map[string]interface{}) string {
	text := argString(args, "text")
	fallbacks := argStrings(args, "fallback_selectors")

	raw, err := e.browser.ExecuteScript(ctx, findButtonScript(text, fallbacks))
	if err != nil {
		e.panic(ctx)
		return randomReaction(e.rng) + "\n点击按钮失败: " + err.Error()
	}
	var hit struct {
		Found bool    `json:"found"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		Text  string  `json:"text"`
	}
	if err := json.Unmarshal(raw, &hit); err != nil || !hit.Found {
		e.panic(ctx)
		return randomReaction(e.rng) + "\n按钮未找到: " + text + "。可以试试滚动页面查看，或者用 find_element 查找具体选择器。"
	}

	if err := e.aimClick(ctx, humanoid.Vector2D{X: hit.X, Y: hit.Y}); err != nil {
		e.panic(ctx)
		return randomReaction(e.rng) + "\n点击按钮失败: " + err.Error()
	}
	e.sleep(ctx, buttonSettle)

	fb := e.feedback(ctx, fmt.Sprintf("点击按钮%q", text))
	return withFeedback(fmt.Sprintf("已点击按钮「%s」", hit.Text), "当前看到: ", fb)
}

func (e *Executor) clickSearchButton(ctx context.Context) string {
	raw, err := e.browser.ExecuteScript(ctx, searchButtonInfoScript)
	if err == nil {
		var hit struct {
			Found bool    `json:"found"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
		}
		if json.Unmarshal(raw, &hit) == nil && hit.Found {
			e.aimClick(ctx, humanoid.Vector2D{X: hit.X, Y: hit.Y})
		}
	}

	result, err := e.browser.ExecuteScript(ctx, clickSearchButtonScript)
	if err != nil {
		return "搜索按钮点击可能失败了，可以试试: 1) press_enter() 2) 找其他按钮"
	}
	var outcome struct {
		Clicked bool `json:"clicked"`
	}
	json.Unmarshal(result, &outcome)
	e.sleep(ctx, clickSettle)

	verification, err := e.browser.ExecuteScript(ctx, searchVerifyScript)
	if err != nil {
		return "已点击搜索按钮"
	}
	var state struct {
		HasResults bool `json:"hasResults"`
		URLChanged bool `json:"urlChanged"`
	}
	json.Unmarshal(verification, &state)

	fb := e.feedback(ctx, "点击搜索按钮")
	if state.HasResults || state.URLChanged {
		return withFeedback("搜索成功~ 结果正在加载", "当前看到: ", fb)
	}
	if !outcome.Clicked {
		return "搜索按钮点击可能失败了，可以试试: 1) press_enter() 2) 找其他按钮"
	}
	return withFeedback("已点击搜索按钮", "页面状态: ", fb)
}

func (e *Executor) dragElement(ctx context.Context, args map[string]interface{}) string {
	selector := argString(args, "selector")
	dx, _ := argFloat(args, "distance_x")
	dy, _ := argFloat(args, "distance_y")
	duration := 500.0
	if v, ok := argFloat(args, "duration"); ok && v > 0 {
		duration = v
	}

	start, err := e.browser.ElementCenter(ctx, selector)
	if err != nil {
		return "Error: Element not found: " + selector
	}
	end := humanoid.Vector2D{X: start.X + dx, Y: start.Y + dy}

	if err := e.pointer.Drag(ctx, start, end, time.Duration(duration)*time.Millisecond); err != nil {
		return "Drag failed: " + err.Error()
	}
	return fmt.Sprintf("Dragged element from (%.0f, %.0f) to (%.0f, %.0f)", start.X, start.Y, end.X, end.Y)
}

// panic plays the pointer's distress burst after a failed action.
func (e *Executor) panic(ctx context.Context) {
	e.pointer.PanicBurst(ctx, e.cfg.FailurePause)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
