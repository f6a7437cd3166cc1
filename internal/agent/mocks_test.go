// File: internal/agent/mocks_test.go
package agent

import (
	"context"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/xkilldash9x/pagepilot/api/schemas"
	"github.com/xkilldash9x/pagepilot/internal/humanoid"
)

// fakePlanner scripts a sequence of model replies. The last reply repeats if
// the loop asks for more.
type fakePlanner struct {
	mu      sync.Mutex
	calls   int
	replies []plannerReply
	lastMsg []openai.ChatCompletionMessage
}

type plannerReply struct {
	msg openai.ChatCompletionMessage
	err error
}

func (f *fakePlanner) Complete(_ context.Context, messages []openai.ChatCompletionMessage, _ []openai.Tool) (openai.ChatCompletionMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastMsg = messages
	idx := f.calls
	f.calls++
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	r := f.replies[idx]
	return r.msg, r.err
}

func toolReply(comment, id, name, args string) plannerReply {
	return plannerReply{msg: openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: comment,
		ToolCalls: []openai.ToolCall{{
			ID:   id,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      name,
				Arguments: args,
			},
		}},
	}}
}

func textReply(content string) plannerReply {
	return plannerReply{msg: openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: content,
	}}
}

// fakeRunner records executed tool calls and answers from a canned map.
type fakeRunner struct {
	mu        sync.Mutex
	goal      string
	calls     []string
	results   map[string]string
	onExecute func()
}

func (f *fakeRunner) Execute(_ context.Context, name, _ string) string {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	hook := f.onExecute
	result, ok := f.results[name]
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if ok {
		return result
	}
	return "ok"
}

func (f *fakeRunner) SetGoal(goal string) {
	f.mu.Lock()
	f.goal = goal
	f.mu.Unlock()
}

func (f *fakeRunner) executed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeBrowser is a scriptable Browser. Script results are served by the eval
// hook; everything else returns canned values.
type fakeBrowser struct {
	mu         sync.Mutex
	pageInfo   schemas.PageInfo
	screenshot string
	tabs       []schemas.TabInfo
	eval       func(script string) (jsoniter.RawMessage, error)
	scripts    []string
	navigated  []string
	keys       []string
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		pageInfo:   schemas.PageInfo{URL: "https://www.bing.com/", Title: "Bing"},
		screenshot: "aW1hZ2U=",
	}
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	f.pageInfo.URL = url
	return nil
}

func (f *fakeBrowser) Back(context.Context) error    { return nil }
func (f *fakeBrowser) Forward(context.Context) error { return nil }

func (f *fakeBrowser) PageInfo(context.Context) (schemas.PageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageInfo, nil
}

func (f *fakeBrowser) Viewport(context.Context) (humanoid.Vector2D, error) {
	return humanoid.Vector2D{X: 1280, Y: 800}, nil
}

func (f *fakeBrowser) Screenshot(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screenshot, nil
}

func (f *fakeBrowser) ExecuteScript(_ context.Context, script string) (jsoniter.RawMessage, error) {
	f.mu.Lock()
	f.scripts = append(f.scripts, script)
	eval := f.eval
	f.mu.Unlock()
	if eval != nil {
		return eval(script)
	}
	return jsoniter.RawMessage(`null`), nil
}

func (f *fakeBrowser) ScrollBy(context.Context, float64, float64) error { return nil }
func (f *fakeBrowser) ScrollToTop(context.Context) error                { return nil }
func (f *fakeBrowser) ScrollToBottom(context.Context) error             { return nil }

func (f *fakeBrowser) ElementCenter(context.Context, string) (humanoid.Vector2D, error) {
	return humanoid.Vector2D{X: 100, Y: 200}, nil
}

func (f *fakeBrowser) PressKey(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeBrowser) NewTab(_ context.Context, url string) (schemas.TabInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tab := schemas.TabInfo{ID: "tab-1", URL: url, Active: true}
	f.tabs = append(f.tabs, tab)
	return tab, nil
}

func (f *fakeBrowser) SwitchTab(string) error { return nil }
func (f *fakeBrowser) CloseTab(string) error  { return nil }

func (f *fakeBrowser) ListTabs(context.Context) ([]schemas.TabInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tabs, nil
}

func (f *fakeBrowser) executedScripts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.scripts))
	copy(out, f.scripts)
	return out
}

func (f *fakeBrowser) navigations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.navigated))
	copy(out, f.navigated)
	return out
}

// fakePointer counts controller calls.
type fakePointer struct {
	mu      sync.Mutex
	clicks  []humanoid.Vector2D
	fidgets int
	panics  int
}

func (f *fakePointer) MoveTo(context.Context, humanoid.Vector2D) error { return nil }

func (f *fakePointer) Click(_ context.Context, target humanoid.Vector2D) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, target)
	return nil
}

func (f *fakePointer) Drag(context.Context, humanoid.Vector2D, humanoid.Vector2D, time.Duration) error {
	return nil
}

func (f *fakePointer) StartFidget(humanoid.Vector2D) {
	f.mu.Lock()
	f.fidgets++
	f.mu.Unlock()
}

func (f *fakePointer) StopFidget() {}

func (f *fakePointer) PanicBurst(context.Context, time.Duration) error {
	f.mu.Lock()
	f.panics++
	f.mu.Unlock()
	return nil
}

func (f *fakePointer) State() humanoid.State { return humanoid.State{} }

func (f *fakePointer) panicCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.panics
}

// fakeAnalyst answers every vision call with canned text.
type fakeAnalyst struct {
	mu       sync.Mutex
	locate   schemas.LocateResult
	analysis string
	update   string
	feedback string
	captcha  schemas.CaptchaKind
	calls    []string
}

func (f *fakeAnalyst) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAnalyst) Locate(_ context.Context, _, _ string, _, _ int) (schemas.LocateResult, error) {
	f.record("locate")
	return f.locate, nil
}

func (f *fakeAnalyst) AnalyzePage(context.Context, string) (string, error) {
	f.record("analyze_page")
	return f.analysis, nil
}

func (f *fakeAnalyst) OperationUpdate(_ context.Context, action, _ string) (string, error) {
	f.record("update:" + action)
	return f.update, nil
}

func (f *fakeAnalyst) QuickFeedback(context.Context, string, string) (string, error) {
	f.record("feedback")
	return f.feedback, nil
}

func (f *fakeAnalyst) DescribeImage(context.Context, string, string, float64, float64, float64, float64) (string, error) {
	f.record("describe")
	return "一张商品图片", nil
}

func (f *fakeAnalyst) ReadImageText(context.Context, string, string) (string, error) {
	f.record("ocr")
	return "图中文字", nil
}

func (f *fakeAnalyst) ReadScreenText(context.Context, string) (string, error) {
	f.record("screen_text")
	return "屏幕文本", nil
}

func (f *fakeAnalyst) ExtractChart(context.Context, string, string, string) (string, error) {
	f.record("chart")
	return "| 类别 | 数值 |", nil
}

func (f *fakeAnalyst) Compare(context.Context, string, string) (string, error) {
	f.record("compare")
	return "页面发生了变化", nil
}

func (f *fakeAnalyst) DetectCaptcha(context.Context, string) (schemas.CaptchaKind, string, error) {
	f.record("detect_captcha")
	return f.captcha, "类型: " + string(f.captcha), nil
}

func (f *fakeAnalyst) SolveCaptcha(_ context.Context, kind schemas.CaptchaKind, _ string) (string, error) {
	f.record("solve:" + string(kind))
	return "验证码文字: ABCD", nil
}

func (f *fakeAnalyst) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// instantSleep keeps tests fast while preserving cancellation semantics.
func instantSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
