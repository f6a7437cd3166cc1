// File: internal/agent/executor_test.go
package agent

import (
	"context"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
	"github.com/xkilldash9x/pagepilot/internal/resolver"
)

func newTestExecutor(t *testing.T, browser *fakeBrowser, analyst VisionAnalyst) (*Executor, *fakePointer) {
	t.Helper()
	pointer := &fakePointer{}
	e := NewExecutor(browser, pointer, resolver.New(zap.NewNop()), analyst, testAgentConfig(), zap.NewNop())
	e.sleep = instantSleep
	return e, pointer
}

func TestExecuteUnknownTool(t *testing.T) {
	e, _ := newTestExecutor(t, newFakeBrowser(), nil)
	result := e.Execute(context.Background(), "teleport", "{}")
	assert.Equal(t, "Unknown tool: teleport", result)
}

func TestDecodeArgsRepairsMalformedJSON(t *testing.T) {
	e, _ := newTestExecutor(t, newFakeBrowser(), nil)

	// Trailing comma is the classic model mistake.
	args := e.decodeArgs(`{"url": "https://www.bing.com",}`)
	assert.Equal(t, "https://www.bing.com", argString(args, "url"))

	// Hopeless input degrades to an empty map instead of failing the tool.
	args = e.decodeArgs(`not json at all {{{`)
	assert.Empty(t, argString(args, "url"))
}

func TestNavigateToRejectsNonSearchEngines(t *testing.T) {
	browser := newFakeBrowser()
	e, _ := newTestExecutor(t, browser, nil)

	result := e.Execute(context.Background(), "navigate_to", `{"url":"https://evil.example.com"}`)
	assert.Contains(t, result, "导航被拒绝")
	assert.Empty(t, browser.navigations())
}

func TestNavigateToAcceptsSearchEngineAndSubdomains(t *testing.T) {
	browser := newFakeBrowser()
	e, _ := newTestExecutor(t, browser, nil)

	for _, url := range []string{
		"https://www.bing.com",
		"https://cn.bing.com/search?q=golang",
		"https://www.baidu.com",
		"google.com",
	} {
		result := e.Execute(context.Background(), "navigate_to", `{"url":"`+url+`"}`)
		assert.NotContains(t, result, "导航被拒绝", "url %s should be allowed", url)
	}
	assert.Len(t, browser.navigations(), 4)
}

func TestNavigateToBlocksLookalikeHosts(t *testing.T) {
	e, _ := newTestExecutor(t, newFakeBrowser(), nil)
	result := e.Execute(context.Background(), "navigate_to", `{"url":"https://bing.com.evil.io/"}`)
	assert.Contains(t, result, "导航被拒绝")
}

func TestClickButtonAimsAtScriptedTarget(t *testing.T) {
	browser := newFakeBrowser()
	browser.eval = func(script string) (jsoniter.RawMessage, error) {
		if strings.Contains(script, "targetText") {
			return jsoniter.RawMessage(`{"found":true,"x":320,"y":480,"text":"加入购物车"}`), nil
		}
		return jsoniter.RawMessage(`null`), nil
	}
	e, pointer := newTestExecutor(t, browser, nil)

	result := e.Execute(context.Background(), "click_button", `{"text":"加入购物车"}`)
	assert.Contains(t, result, "已点击按钮「加入购物车」")
	require.Len(t, pointer.clicks, 1)
	assert.InDelta(t, 320.0, pointer.clicks[0].X, 0.01)
	assert.InDelta(t, 480.0, pointer.clicks[0].Y, 0.01)
}

func TestClickButtonMissTriggersPanic(t *testing.T) {
	browser := newFakeBrowser()
	browser.eval = func(script string) (jsoniter.RawMessage, error) {
		return jsoniter.RawMessage(`{"found":false}`), nil
	}
	e, pointer := newTestExecutor(t, browser, nil)

	result := e.Execute(context.Background(), "click_button", `{"text":"不存在的按钮"}`)
	assert.Contains(t, result, "不存在的按钮")
	assert.Equal(t, 1, pointer.panicCount())
}

func TestClickElementDrawsHighlightBeforeClick(t *testing.T) {
	browser := newFakeBrowser()
	browser.eval = func(script string) (jsoniter.RawMessage, error) {
		if strings.Contains(script, "scrollIntoView") {
			return jsoniter.RawMessage(`{"found":true,"x":640,"y":360}`), nil
		}
		return jsoniter.RawMessage(`null`), nil
	}
	e, pointer := newTestExecutor(t, browser, nil)

	result := e.Execute(context.Background(), "click_element", `{"selector":"#submit"}`)
	assert.Contains(t, result, "已点击元素 #submit")

	// The marker box goes up before the pointer moves and comes down after.
	scripts := browser.executedScripts()
	require.NotEmpty(t, scripts)
	assert.Contains(t, scripts[0], "pagepilot-agent-highlight")
	assert.Contains(t, scripts[0], "scrollIntoView")
	cleared := false
	for _, s := range scripts[1:] {
		if strings.Contains(s, "pagepilot-agent-highlight") && strings.Contains(s, "setTimeout") {
			cleared = true
		}
	}
	assert.True(t, cleared)

	// The click aims at the marker's fresh coordinates, not the stale lookup.
	require.Len(t, pointer.clicks, 1)
	assert.InDelta(t, 640.0, pointer.clicks[0].X, 0.01)
	assert.InDelta(t, 360.0, pointer.clicks[0].Y, 0.01)
}

func TestClickTextTriesVisionExactlyOnceAfterDOMMiss(t *testing.T) {
	// Empty harvest, so the DOM resolver reports not found and the vision
	// locator gets exactly one attempt before the tool gives up.
	browser := newFakeBrowser()
	analyst := &fakeAnalyst{locate: schemas.LocateResult{Found: false, Suggestion: "需要滚动页面"}}
	e, pointer := newTestExecutor(t, browser, analyst)

	result := e.Execute(context.Background(), "click_text", `{"text":"京东"}`)

	locates := 0
	for _, call := range analyst.recorded() {
		if call == "locate" {
			locates++
		}
	}
	assert.Equal(t, 1, locates)
	assert.Contains(t, result, "需要滚动页面")
	assert.Equal(t, 1, pointer.panicCount())
	assert.Empty(t, pointer.clicks)
}

func TestClickTextClicksVisionHitAfterDOMMiss(t *testing.T) {
	browser := newFakeBrowser()
	analyst := &fakeAnalyst{locate: schemas.LocateResult{Found: true, X: 410, Y: 520, Confidence: 0.6}}
	e, pointer := newTestExecutor(t, browser, analyst)

	e.Execute(context.Background(), "click_text", `{"text":"京东"}`)

	require.Len(t, pointer.clicks, 1)
	assert.InDelta(t, 410.0, pointer.clicks[0].X, 0.01)
	assert.InDelta(t, 520.0, pointer.clicks[0].Y, 0.01)
}

func TestInputTextReportsVerifiedFill(t *testing.T) {
	browser := newFakeBrowser()
	browser.eval = func(script string) (jsoniter.RawMessage, error) {
		switch {
		case strings.Contains(script, "verified"):
			return jsoniter.RawMessage(`{"verified":true,"value":"golang"}`), nil
		case strings.Contains(script, "found"):
			return jsoniter.RawMessage(`{"found":true,"x":400,"y":120}`), nil
		}
		return jsoniter.RawMessage(`null`), nil
	}
	e, pointer := newTestExecutor(t, browser, nil)

	result := e.Execute(context.Background(), "input_text", `{"selector":"#sb_form_q","text":"golang"}`)
	assert.Contains(t, result, "输入成功~「golang」已填入搜索框")
	assert.NotEmpty(t, pointer.clicks)
}

func TestVisualToolsUnavailableInSingleMode(t *testing.T) {
	e, _ := newTestExecutor(t, newFakeBrowser(), nil)
	for _, tool := range []string{"visual_click", "read_full_page", "solve_captcha", "analyze_image", "ocr_image", "extract_chart_data", "compare_screenshots"} {
		result := e.Execute(context.Background(), tool, "{}")
		assert.Equal(t, visionUnavailable, result, "tool %s", tool)
	}
}

func TestVisualClickUsesLocatedPoint(t *testing.T) {
	analyst := &fakeAnalyst{locate: schemas.LocateResult{
		Found:      true,
		X:          640,
		Y:          360,
		Confidence: 0.9,
		Element:    "GitHub 搜索结果链接",
	}}
	analyst.feedback = "已打开 GitHub"
	e, pointer := newTestExecutor(t, newFakeBrowser(), analyst)

	result := e.Execute(context.Background(), "visual_click", `{"description":"GitHub 链接"}`)
	assert.Contains(t, result, "视觉定位点击 (640, 360)")
	assert.Contains(t, result, "[高置信度]")
	assert.Contains(t, result, "已打开 GitHub")
	require.Len(t, pointer.clicks, 1)
}

func TestVisualClickMissReportsSuggestion(t *testing.T) {
	analyst := &fakeAnalyst{locate: schemas.LocateResult{
		Found:      false,
		Suggestion: "需要滚动页面",
	}}
	e, pointer := newTestExecutor(t, newFakeBrowser(), analyst)

	result := e.Execute(context.Background(), "visual_click", `{"description":"隐藏的元素"}`)
	assert.Contains(t, result, "需要滚动页面")
	assert.Equal(t, 1, pointer.panicCount())
	assert.Empty(t, pointer.clicks)
}

func TestSolveCaptchaDetectsAndSolves(t *testing.T) {
	analyst := &fakeAnalyst{captcha: schemas.CaptchaText}
	e, _ := newTestExecutor(t, newFakeBrowser(), analyst)

	result := e.Execute(context.Background(), "solve_captcha", `{"captcha_type":"auto"}`)
	assert.Contains(t, result, "验证码类型: text")
	assert.Contains(t, result, "验证码文字: ABCD")
	assert.Contains(t, result, "input_text")
	assert.Contains(t, analyst.recorded(), "detect_captcha")
	assert.Contains(t, analyst.recorded(), "solve:text")
}

func TestSolveCaptchaNoneReportsDetection(t *testing.T) {
	analyst := &fakeAnalyst{captcha: schemas.CaptchaNone}
	e, _ := newTestExecutor(t, newFakeBrowser(), analyst)

	result := e.Execute(context.Background(), "solve_captcha", "{}")
	assert.Contains(t, result, "未检测到验证码")
	assert.NotContains(t, analyst.recorded(), "solve:none")
}

func TestCompareScreenshotsRequiresSavedBaseline(t *testing.T) {
	analyst := &fakeAnalyst{}
	e, _ := newTestExecutor(t, newFakeBrowser(), analyst)

	result := e.Execute(context.Background(), "compare_screenshots", `{"action":"compare"}`)
	assert.Contains(t, result, "还没有保存过截图")

	result = e.Execute(context.Background(), "compare_screenshots", `{"action":"save"}`)
	assert.Contains(t, result, "已保存当前页面截图")

	result = e.Execute(context.Background(), "compare_screenshots", `{"action":"compare"}`)
	assert.Equal(t, "页面发生了变化", result)
}

func TestVerifyActionBuildsReport(t *testing.T) {
	browser := newFakeBrowser()
	browser.eval = func(string) (jsoniter.RawMessage, error) {
		return jsoniter.RawMessage(`{
			"url": "https://www.bing.com/search?q=golang",
			"title": "golang - 搜索",
			"hostname": "www.bing.com",
			"hasSearchResults": true,
			"inputValues": {"sb_form_q": "golang"},
			"errorMessages": []
		}`), nil
	}
	e, _ := newTestExecutor(t, browser, nil)

	result := e.Execute(context.Background(), "verify_action", `{"expected_result":"search results visible"}`)
	assert.Contains(t, result, "VERIFICATION REPORT:")
	assert.Contains(t, result, "STATUS: SUCCESS")
}

func TestVerifyActionFailsWhenExpectationUnmet(t *testing.T) {
	browser := newFakeBrowser()
	browser.eval = func(string) (jsoniter.RawMessage, error) {
		return jsoniter.RawMessage(`{
			"url": "https://www.bing.com/",
			"title": "Bing",
			"hostname": "www.bing.com",
			"hasSearchResults": false,
			"inputValues": {},
			"errorMessages": []
		}`), nil
	}
	e, _ := newTestExecutor(t, browser, nil)

	result := e.Execute(context.Background(), "verify_action", `{"expected_result":"search results visible"}`)
	assert.Contains(t, result, "STATUS: FAILED")
}

func TestGetPageContentTruncates(t *testing.T) {
	browser := newFakeBrowser()
	browser.eval = func(string) (jsoniter.RawMessage, error) {
		return jsoniter.RawMessage(`{"title":"文档","content":"abc","totalLength":9000}`), nil
	}
	e, _ := newTestExecutor(t, browser, nil)

	result := e.Execute(context.Background(), "get_page_content", `{"max_length":3}`)
	assert.Contains(t, result, "PAGE CONTENT:")
	assert.Contains(t, result, "...(truncated)")
}

func TestArgStrings(t *testing.T) {
	args := map[string]interface{}{
		"fallback_selectors": []interface{}{".btn", 42, "#submit"},
	}
	assert.Equal(t, []string{".btn", "#submit"}, argStrings(args, "fallback_selectors"))
	assert.Nil(t, argStrings(args, "missing"))
}

func TestWaitDefaultsToOneSecond(t *testing.T) {
	e, _ := newTestExecutor(t, newFakeBrowser(), nil)
	result := e.Execute(context.Background(), "wait", "{}")
	assert.Equal(t, "Waited 1000ms", result)
}

func TestReadFullPageCollectsScreens(t *testing.T) {
	browser := newFakeBrowser()
	bottomAfter := 2
	evals := 0
	browser.eval = func(script string) (jsoniter.RawMessage, error) {
		if script == pageBottomScript {
			evals++
			if evals >= bottomAfter {
				return jsoniter.RawMessage(`true`), nil
			}
			return jsoniter.RawMessage(`false`), nil
		}
		return jsoniter.RawMessage(`null`), nil
	}
	analyst := &fakeAnalyst{}
	e, _ := newTestExecutor(t, browser, analyst)

	result := e.Execute(context.Background(), "read_full_page", "{}")
	assert.Contains(t, result, "页面完整内容（共 2 屏）")
	assert.Contains(t, result, "=== 第 1 屏 ===")
	assert.Contains(t, result, "=== 第 2 屏 ===")
	assert.Contains(t, result, "屏幕文本")
}
