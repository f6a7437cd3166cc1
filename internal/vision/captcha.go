// File: internal/vision/captcha.go
package vision

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
)

const captchaDetectPrompt = `请分析这个页面是否有验证码。如果有，识别验证码类型并返回以下格式：

类型: [text/slider/click/none]
描述: [简短描述]

- text: 图形文字验证码，需要输入看到的文字
- slider: 滑块验证码，需要拖动滑块到缺口位置
- click: 点选验证码，需要按顺序点击指定元素
- none: 没有发现验证码

只返回上述格式，不要添加其他内容。`

// DetectCaptcha classifies the challenge on screen. The raw model reply is
// returned alongside the kind so callers can surface it when nothing was
// recognized.
func (a *Analyst) DetectCaptcha(ctx context.Context, pngBase64 string) (schemas.CaptchaKind, string, error) {
	content, err := a.model.Analyze(ctx, captchaDetectPrompt, pngBase64)
	if err != nil {
		return schemas.CaptchaNone, "", err
	}

	kind := parseCaptchaKind(content)
	a.logger.Debug("Captcha detection finished.", zap.String("kind", string(kind)))
	return kind, content, nil
}

func parseCaptchaKind(content string) schemas.CaptchaKind {
	low := strings.ToLower(content)
	switch {
	case strings.Contains(content, "类型: text") || strings.Contains(low, "text"):
		return schemas.CaptchaText
	case strings.Contains(content, "类型: slider") || strings.Contains(low, "slider"):
		return schemas.CaptchaSlider
	case strings.Contains(content, "类型: click") || strings.Contains(low, "click"):
		return schemas.CaptchaClick
	default:
		return schemas.CaptchaNone
	}
}

// SolveCaptcha runs the type-specific extraction prompt and returns the raw
// model reply: recognized text and input selector, slider distance, or click
// sequence coordinates.
func (a *Analyst) SolveCaptcha(ctx context.Context, kind schemas.CaptchaKind, pngBase64 string) (string, error) {
	var prompt string
	switch kind {
	case schemas.CaptchaText:
		prompt = `这是一个图形文字验证码页面。请：
1. 识别验证码图片中的文字
2. 找到验证码输入框的位置

返回格式：
验证码文字: XXXX
输入框选择器: input[name=captcha] 或类似选择器

只返回上述格式，验证码文字要准确，如果看不清请给出最可能的猜测。`
	case schemas.CaptchaSlider:
		prompt = `这是一个滑块验证码页面。请：
1. 找到滑块按钮的位置
2. 分析缺口位置，计算需要滑动的距离

返回格式：
滑块选择器: .slider-button 或类似选择器
滑动距离: XXX像素

请仔细分析滑块起始位置和缺口位置的水平距离。`
	case schemas.CaptchaClick:
		prompt = `这是一个点选验证码页面。请：
1. 识别需要按顺序点击的元素（文字或图标）
2. 返回每个元素的大致位置坐标

返回格式：
点击顺序:
1. "文字1" 位置: (X1, Y1)
2. "文字2" 位置: (X2, Y2)
3. "文字3" 位置: (X3, Y3)

坐标是相对于页面左上角的像素位置。`
	default:
		return "", nil
	}

	return a.model.Analyze(ctx, prompt, pngBase64)
}
