// File: internal/agent/tools_vision.go
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
	"github.com/xkilldash9x/pagepilot/internal/humanoid"
)

const visionUnavailable = "视觉工具不可用：当前为单模型模式，未配置视觉模型。"

func (e *Executor) readFullPage(ctx context.Context, args map[string]interface{}) string {
	if e.analyst == nil {
		return visionUnavailable
	}
	maxScrolls := 10
	if v, ok := argFloat(args, "max_scrolls"); ok && v > 0 {
		maxScrolls = int(v)
	}

	if err := e.browser.ScrollToTop(ctx); err != nil {
		return "读取页面失败: " + err.Error()
	}
	if err := e.sleep(ctx, 800*time.Millisecond); err != nil {
		return "读取页面失败: " + err.Error()
	}

	viewport, err := e.browser.Viewport(ctx)
	if err != nil {
		return "读取页面失败: " + err.Error()
	}
	// Step slightly less than one viewport so lines split across the fold
	// appear in both screens.
	step := viewport.Y * 0.8

	var sections []string
	for screen := 1; screen <= maxScrolls; screen++ {
		shot, err := e.browser.Screenshot(ctx)
		if err != nil {
			return "读取页面失败: " + err.Error()
		}
		text, err := e.analyst.ReadScreenText(ctx, shot)
		if err != nil {
			return "读取页面失败: " + err.Error()
		}
		sections = append(sections, fmt.Sprintf("=== 第 %d 屏 ===\n%s", screen, strings.TrimSpace(text)))

		atBottom, err := e.atPageBottom(ctx)
		if err != nil || atBottom {
			break
		}
		if err := e.browser.ScrollBy(ctx, 0, step); err != nil {
			break
		}
		if err := e.sleep(ctx, 800*time.Millisecond); err != nil {
			return "读取页面失败: " + err.Error()
		}
	}

	return fmt.Sprintf("页面完整内容（共 %d 屏）：\n\n%s", len(sections), strings.Join(sections, "\n\n"))
}

func (e *Executor) atPageBottom(ctx context.Context) (bool, error) {
	raw, err := e.browser.ExecuteScript(ctx, pageBottomScript)
	if err != nil {
		return false, err
	}
	var atBottom bool
	if err := json.Unmarshal(raw, &atBottom); err != nil {
		return false, err
	}
	return atBottom, nil
}

func (e *Executor) visualClick(ctx context.Context, args map[string]interface{}) string {
	if e.analyst == nil {
		return visionUnavailable
	}
	description := argString(args, "description")

	shot, err := e.browser.Screenshot(ctx)
	if err != nil {
		return "截图失败: " + err.Error()
	}
	viewport, err := e.browser.Viewport(ctx)
	if err != nil {
		return "获取视口失败: " + err.Error()
	}
	loc, err := e.analyst.Locate(ctx, description, shot, int(viewport.X), int(viewport.Y))
	if err != nil {
		return "视觉定位失败: " + err.Error()
	}
	if !loc.Found {
		e.panic(ctx)
		return fmt.Sprintf("%s 视觉模型未能定位「%s」。建议: %s", randomReaction(e.rng), description, loc.Suggestion)
	}

	if err := e.aimClick(ctx, humanoid.Vector2D{X: loc.X, Y: loc.Y}); err != nil {
		return "点击失败: " + err.Error()
	}
	if _, err := e.browser.ExecuteScript(ctx, clickAtScript(loc.X, loc.Y)); err != nil {
		e.logger.Debug("DOM click fallback failed.", zap.Error(err))
	}
	if err := e.sleep(ctx, clickSettle); err != nil {
		return "点击失败: " + err.Error()
	}

	result := fmt.Sprintf("视觉定位点击 (%.0f, %.0f)「%s」", loc.X, loc.Y, loc.Element)
	if loc.Confidence >= 0.9 {
		result += " [高置信度]"
	}
	return withFeedback(result, "当前看到: ", e.feedback(ctx, "visual_click"))
}

func (e *Executor) solveCaptcha(ctx context.Context, args map[string]interface{}) string {
	if e.analyst == nil {
		return visionUnavailable
	}
	shot, err := e.browser.Screenshot(ctx)
	if err != nil {
		return "截图失败: " + err.Error()
	}

	kind := schemas.CaptchaKind(argString(args, "captcha_type"))
	var detectRaw string
	if kind == "" || kind == "auto" {
		kind, detectRaw, err = e.analyst.DetectCaptcha(ctx, shot)
		if err != nil {
			return "验证码识别失败: " + err.Error()
		}
	}
	if kind == schemas.CaptchaNone {
		return "未检测到验证码或验证码类型无法识别。检测结果: " + detectRaw
	}

	solution, err := e.analyst.SolveCaptcha(ctx, kind, shot)
	if err != nil {
		return "验证码识别失败: " + err.Error()
	}

	var advice string
	switch kind {
	case schemas.CaptchaText:
		advice = "使用 input_text 将识别出的文字填入对应输入框，然后点击提交。"
	case schemas.CaptchaSlider:
		advice = "使用 drag_element 按识别出的距离拖动滑块。"
	case schemas.CaptchaClick:
		advice = "使用 visual_click 按顺序点击识别出的各个位置。"
	}
	return fmt.Sprintf("验证码类型: %s\n\n%s\n\n下一步操作建议:\n%s", kind, solution, advice)
}

func (e *Executor) analyzeImage(ctx context.Context, args map[string]interface{}) string {
	if e.analyst == nil {
		return visionUnavailable
	}
	selector := argString(args, "selector")
	question := argString(args, "question")

	raw, err := e.browser.ExecuteScript(ctx, imgInfoScript(selector))
	if err != nil {
		return "图片分析失败: " + err.Error()
	}
	var info struct {
		Found  bool    `json:"found"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.Unmarshal(raw, &info); err != nil {
		return "图片分析失败: " + err.Error()
	}
	if !info.Found {
		return fmt.Sprintf("未找到图片 %q，可以先用 scan_interactive_elements 查看页面元素。", selector)
	}

	shot, err := e.browser.Screenshot(ctx)
	if err != nil {
		return "截图失败: " + err.Error()
	}
	answer, err := e.analyst.DescribeImage(ctx, shot, question, info.X, info.Y, info.Width, info.Height)
	if err != nil {
		return "图片分析失败: " + err.Error()
	}
	return answer
}

func (e *Executor) ocrImage(ctx context.Context, args map[string]interface{}) string {
	if e.analyst == nil {
		return visionUnavailable
	}
	selector := argString(args, "selector")

	raw, err := e.browser.ExecuteScript(ctx, imgExistsScript(selector))
	if err != nil {
		return "文字识别失败: " + err.Error()
	}
	var exists bool
	if err := json.Unmarshal(raw, &exists); err != nil {
		return "文字识别失败: " + err.Error()
	}
	if !exists {
		return fmt.Sprintf("未找到图片 %q。", selector)
	}

	shot, err := e.browser.Screenshot(ctx)
	if err != nil {
		return "截图失败: " + err.Error()
	}
	text, err := e.analyst.ReadImageText(ctx, shot, selector)
	if err != nil {
		return "文字识别失败: " + err.Error()
	}
	return text
}

func (e *Executor) extractChartData(ctx context.Context, args map[string]interface{}) string {
	if e.analyst == nil {
		return visionUnavailable
	}
	selector := argString(args, "selector")
	chartType := argString(args, "chart_type")

	shot, err := e.browser.Screenshot(ctx)
	if err != nil {
		return "截图失败: " + err.Error()
	}
	table, err := e.analyst.ExtractChart(ctx, shot, selector, chartType)
	if err != nil {
		return "图表数据提取失败: " + err.Error()
	}
	return table
}

func (e *Executor) compareScreenshots(ctx context.Context, args map[string]interface{}) string {
	if e.analyst == nil {
		return visionUnavailable
	}
	action := argString(args, "action")

	shot, err := e.browser.Screenshot(ctx)
	if err != nil {
		return "截图失败: " + err.Error()
	}

	switch action {
	case "save":
		e.mu.Lock()
		e.savedShot = shot
		e.mu.Unlock()
		return "已保存当前页面截图，稍后可用 compare 对比。"
	case "compare":
		e.mu.Lock()
		before := e.savedShot
		e.mu.Unlock()
		if before == "" {
			return "还没有保存过截图，请先用 action=save 保存一张基准截图。"
		}
		diff, err := e.analyst.Compare(ctx, before, shot)
		if err != nil {
			return "截图对比失败: " + err.Error()
		}
		return diff
	default:
		return fmt.Sprintf("Unknown action %q, use save or compare.", action)
	}
}
