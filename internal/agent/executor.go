// File: internal/agent/executor.go
package agent

import (
	"context"
	"math/rand"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/humanoid"
	"github.com/xkilldash9x/pagepilot/internal/resolver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Browser is the slice of the browser session the tools drive.
// *session.Session satisfies it.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	PageInfo(ctx context.Context) (schemas.PageInfo, error)
	Viewport(ctx context.Context) (humanoid.Vector2D, error)
	Screenshot(ctx context.Context) (string, error)
	ExecuteScript(ctx context.Context, script string) (jsoniter.RawMessage, error)
	ScrollBy(ctx context.Context, dx, dy float64) error
	ScrollToTop(ctx context.Context) error
	ScrollToBottom(ctx context.Context) error
	ElementCenter(ctx context.Context, selector string) (humanoid.Vector2D, error)
	PressKey(ctx context.Context, key string) error
	NewTab(ctx context.Context, url string) (schemas.TabInfo, error)
	SwitchTab(id string) error
	CloseTab(id string) error
	ListTabs(ctx context.Context) ([]schemas.TabInfo, error)
}

// VisionAnalyst is the slice of the vision layer the tools consume.
// *vision.Analyst satisfies it; nil means single-model mode and the visual
// tools report themselves unavailable.
type VisionAnalyst interface {
	Locate(ctx context.Context, description, pngBase64 string, width, height int) (schemas.LocateResult, error)
	AnalyzePage(ctx context.Context, pngBase64 string) (string, error)
	OperationUpdate(ctx context.Context, action, pngBase64 string) (string, error)
	QuickFeedback(ctx context.Context, action, pngBase64 string) (string, error)
	DescribeImage(ctx context.Context, pngBase64, question string, x, y, width, height float64) (string, error)
	ReadImageText(ctx context.Context, pngBase64, selector string) (string, error)
	ReadScreenText(ctx context.Context, pngBase64 string) (string, error)
	ExtractChart(ctx context.Context, pngBase64, selector, chartType string) (string, error)
	Compare(ctx context.Context, beforePNG, afterPNG string) (string, error)
	DetectCaptcha(ctx context.Context, pngBase64 string) (schemas.CaptchaKind, string, error)
	SolveCaptcha(ctx context.Context, kind schemas.CaptchaKind, pngBase64 string) (string, error)
}

// Executor runs tool calls against the live page. Execute never returns an
// error: every failure is folded into the result text so the planner can
// read it and adjust, exactly like a human narrating what went wrong.
type Executor struct {
	browser  Browser
	pointer  humanoid.Controller
	resolver *resolver.Resolver
	analyst  VisionAnalyst
	cfg      config.AgentConfig
	logger   *zap.Logger
	rng      *rand.Rand
	sleep    func(context.Context, time.Duration) error

	mu        sync.Mutex
	savedShot string
	goal      string
}

// NewExecutor wires a tool executor. analyst may be nil in single-model mode.
func NewExecutor(browser Browser, pointer humanoid.Controller, res *resolver.Resolver, analyst VisionAnalyst, cfg config.AgentConfig, logger *zap.Logger) *Executor {
	return &Executor{
		browser:  browser,
		pointer:  pointer,
		resolver: res,
		analyst:  analyst,
		cfg:      cfg,
		logger:   logger.Named("executor"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    sleepCtx,
	}
}

// SetGoal records the current user instruction; the candidate resolver uses
// it for intent detection (e.g. the user explicitly asking for an account
// page).
func (e *Executor) SetGoal(goal string) {
	e.mu.Lock()
	e.goal = goal
	e.mu.Unlock()
}

func (e *Executor) currentGoal() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goal
}

// Execute dispatches one tool call. Arguments arrive as the raw JSON string
// from the model; malformed JSON is passed through a repair pass before
// giving up, since models routinely emit trailing commas or bare quotes.
func (e *Executor) Execute(ctx context.Context, name, rawArgs string) string {
	args := e.decodeArgs(rawArgs)
	e.logger.Debug("Executing tool.", zap.String("tool", name))

	switch name {
	case "new_tab":
		return e.newTab(ctx, args)
	case "switch_tab":
		return e.switchTab(ctx, args)
	case "close_tab":
		return e.closeTab(ctx, args)
	case "list_tabs":
		return e.listTabs(ctx)
	case "navigate_to":
		return e.navigateTo(ctx, args)
	case "go_back":
		return e.goBack(ctx)
	case "go_forward":
		return e.goForward(ctx)
	case "wait":
		return e.wait(ctx, args)
	case "get_page_info":
		return e.getPageInfo(ctx)
	case "scroll_page":
		return e.scrollPage(ctx, args)
	case "click_element":
		return e.clickElement(ctx, args)
	case "click_text":
		return e.clickText(ctx, args)
	case "click_button":
		return e.clickButton(ctx, args)
	case "click_search_button":
		return e.clickSearchButton(ctx)
	case "input_text":
		return e.inputText(ctx, args)
	case "press_enter":
		return e.pressEnter(ctx, args)
	case "drag_element":
		return e.dragElement(ctx, args)
	case "verify_action":
		return e.verifyAction(ctx, args)
	case "retry_with_alternative":
		return e.retryWithAlternative(ctx, args)
	case "analyze_page":
		return e.analyzePage(ctx)
	case "scan_interactive_elements":
		return e.scanInteractiveElements(ctx)
	case "get_page_content":
		return e.getPageContent(ctx, args)
	case "find_element":
		return e.findElement(ctx, args)
	case "check_element_exists":
		return e.checkElementExists(ctx, args)
	case "read_full_page":
		return e.readFullPage(ctx, args)
	case "visual_click":
		return e.visualClick(ctx, args)
	case "solve_captcha":
		return e.solveCaptcha(ctx, args)
	case "analyze_image":
		return e.analyzeImage(ctx, args)
	case "ocr_image":
		return e.ocrImage(ctx, args)
	case "extract_chart_data":
		return e.extractChartData(ctx, args)
	case "compare_screenshots":
		return e.compareScreenshots(ctx, args)
	default:
		return "Unknown tool: " + name
	}
}

func (e *Executor) decodeArgs(rawArgs string) map[string]interface{} {
	if rawArgs == "" {
		return map[string]interface{}{}
	}
	var args map[string]interface{}
	if err := json.UnmarshalFromString(rawArgs, &args); err == nil {
		return args
	}
	repaired, err := jsonrepair.JSONRepair(rawArgs)
	if err != nil {
		e.logger.Warn("Tool arguments unparseable.", zap.String("raw", rawArgs))
		return map[string]interface{}{}
	}
	if err := json.UnmarshalFromString(repaired, &args); err != nil {
		e.logger.Warn("Tool arguments unparseable after repair.", zap.String("raw", rawArgs))
		return map[string]interface{}{}
	}
	e.logger.Debug("Repaired malformed tool arguments.")
	return args
}

func argString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argFloat(args map[string]interface{}, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func argStrings(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// aimClick moves the pointer to the target with the two-phase aim and clicks.
func (e *Executor) aimClick(ctx context.Context, target humanoid.Vector2D) error {
	return e.pointer.Click(ctx, target)
}

// feedback captures a screenshot and asks the vision model for a one-line
// confirmation. Empty in single-model mode or on any error; tools append it
// opportunistically.
func (e *Executor) feedback(ctx context.Context, action string) string {
	if e.analyst == nil {
		return ""
	}
	shot, err := e.browser.Screenshot(ctx)
	if err != nil {
		return ""
	}
	text, err := e.analyst.QuickFeedback(ctx, action, shot)
	if err != nil {
		e.logger.Debug("Visual feedback failed.", zap.Error(err))
		return ""
	}
	return text
}

func withFeedback(result, prefix, feedback string) string {
	if feedback == "" {
		return result
	}
	return result + "\n" + prefix + feedback
}
