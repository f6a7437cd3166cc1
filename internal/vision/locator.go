// File: internal/vision/locator.go
package vision

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
)

var (
	foundRe      = regexp.MustCompile(`(?i)FOUND:\s*(YES|NO)`)
	xRe          = regexp.MustCompile(`(?i)\bX:\s*(\d+)`)
	yRe          = regexp.MustCompile(`(?i)\bY:\s*(\d+)`)
	confidenceRe = regexp.MustCompile(`(?i)CONFIDENCE:\s*(HIGH|MEDIUM|LOW)`)
	elementRe    = regexp.MustCompile(`(?i)ELEMENT:\s*(.+)`)
	suggestionRe = regexp.MustCompile(`(?i)SUGGESTION:\s*(.+)`)
)

// Locate asks the vision model for the screen coordinates of the element
// matching the description. Width and height are the viewport dimensions of
// the screenshot.
func (a *Analyst) Locate(ctx context.Context, description, pngBase64 string, width, height int) (schemas.LocateResult, error) {
	content, err := a.model.Analyze(ctx, locatePrompt(description, width, height), pngBase64)
	if err != nil {
		return schemas.LocateResult{}, fmt.Errorf("vision: locate %q: %w", description, err)
	}

	result := parseLocate(content)
	a.logger.Debug("Visual locate finished.",
		zap.String("description", description),
		zap.Bool("found", result.Found),
		zap.Float64("confidence", result.Confidence))
	return result, nil
}

func locatePrompt(description string, width, height int) string {
	return fmt.Sprintf(`你是一个精确的视觉定位专家。请在这个网页截图中找到用户想要点击的元素。

用户想要点击的目标：「%s」

页面尺寸：宽度 %dpx，高度 %dpx

## 任务
1. 仔细观察截图，找到与目标描述最匹配的**可点击元素**
2. 估算该元素中心点的坐标位置（x, y）
3. 坐标从左上角(0,0)开始计算

## 搜索结果页面特别说明（重要！）
如果这是一个搜索引擎的结果页面（如必应、Google、百度）：
- **正确目标**：搜索结果列表中的蓝色标题链接（通常在页面中间区域，y坐标大于300）
- **错误目标**（不要点击）：
  - 页面顶部的导航栏、标签按钮（全部、视频、图片等）
  - AI生成内容区域（如Copilot、AI生成的卡片）
  - 搜索框旁边的图标或按钮
  - 广告或推广内容
  - 侧边栏的内容

## 输出格式（严格按此格式，方便解析）
如果找到目标元素：
FOUND: YES
X: [x坐标数字]
Y: [y坐标数字]
CONFIDENCE: HIGH/MEDIUM/LOW
ELEMENT: [元素描述]

如果没有找到：
FOUND: NO
SUGGESTION: [建议，如"需要滚动页面"或"该元素不存在"]

## 定位技巧
- 坐标必须是具体数字，不要用百分比
- 搜索结果链接通常：有蓝色标题 + 下方有绿色URL + 描述文字
- 优先选择主搜索结果区域（页面中央偏左）的链接
- 避免点击顶部导航（y < 200）或右侧边栏`, description, width, height)
}

// parseLocate extracts the tag-formatted reply into a LocateResult. The
// parser is deliberately forgiving: models wrap tags in markdown, reorder
// lines and vary case.
func parseLocate(content string) schemas.LocateResult {
	found := foundRe.FindStringSubmatch(content)
	if found == nil || strings.EqualFold(found[1], "NO") {
		return schemas.LocateResult{
			Found:      false,
			Suggestion: firstMatch(suggestionRe, content, "未找到目标元素"),
		}
	}

	xm := xRe.FindStringSubmatch(content)
	ym := yRe.FindStringSubmatch(content)
	if xm == nil || ym == nil {
		return schemas.LocateResult{Found: false, Suggestion: "无法解析坐标"}
	}
	x, _ := strconv.ParseFloat(xm[1], 64)
	y, _ := strconv.ParseFloat(ym[1], 64)

	confidence := 0.6
	if cm := confidenceRe.FindStringSubmatch(content); cm != nil {
		switch strings.ToUpper(cm[1]) {
		case "HIGH":
			confidence = 0.9
		case "MEDIUM":
			confidence = 0.6
		case "LOW":
			confidence = 0.3
		}
	}

	// Confidence is surfaced, never enforced: a LOW hit still carries its
	// coordinates and the caller decides what to do with them.
	return schemas.LocateResult{
		Found:      true,
		X:          x,
		Y:          y,
		Confidence: confidence,
		Element:    firstMatch(elementRe, content, ""),
	}
}

func firstMatch(re *regexp.Regexp, content, fallback string) string {
	if m := re.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), "*`"))
	}
	return fallback
}
