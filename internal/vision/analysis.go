// File: internal/vision/analysis.go
package vision

import (
	"context"
	"fmt"
)

const pageAnalysisPrompt = `你是一个网页分析专家。请详细分析这个网页截图，输出结构化的信息供浏览器自动化工具使用。

## 输出格式要求（请严格按此格式输出）

### 页面状态判断（重要！）
- 是否为搜索引擎：是/否（必应、百度、Google、搜狗等都算搜索引擎）
- 搜索引擎名称：必应/百度/Google/无
- 页面类型：搜索引擎首页 / 搜索结果页 / 电商网站 / 社交网站 / 其他网站 / 空白页
- 可直接搜索：是/否（如果页面有搜索框可以直接输入搜索）

### 当前页面信息
- 网站名称：xxx
- 页面标题：xxx
- 主要内容：xxx（简述）

### 搜索框状态
- 存在搜索框：是/否
- 搜索框位置：顶部/中央/无
- 当前搜索内容：xxx（如果有已输入的内容）
- 建议选择器：input[name=q] 或其他

### 可操作元素
列出页面上重要的可点击元素：
1. [元素描述] - 建议操作
2. ...

### 下一步建议
根据页面状态给出操作建议：
- 如果已在搜索引擎：直接在搜索框输入内容，无需跳转
- 如果在目标网站：说明可进行的操作
- 如果是其他页面：建议跳转到搜索引擎

请用中文回复，重点判断是否在搜索引擎上，这决定了是否需要导航。`

// AnalyzePage produces a structured description of the current page state.
func (a *Analyst) AnalyzePage(ctx context.Context, pngBase64 string) (string, error) {
	return a.model.Analyze(ctx, pageAnalysisPrompt, pngBase64)
}

// QuickFeedback asks for a one-line confirmation of what an action changed.
// Appended to tool results so the planner sees what the page looks like now.
func (a *Analyst) QuickFeedback(ctx context.Context, action, pngBase64 string) (string, error) {
	prompt := fmt.Sprintf(`刚刚执行了"%s"操作。请简短描述（20字以内）：
1. 页面当前状态
2. 操作是否成功

只需一句话回复，例如："搜索结果已显示" 或 "已跳转到京东首页" 或 "输入框已填入内容"`, action)
	return a.model.Analyze(ctx, prompt, pngBase64)
}

// DescribeImage answers a question about an image embedded in the page. The
// position and size tell the model which part of the screenshot to read.
func (a *Analyst) DescribeImage(ctx context.Context, pngBase64, question string, x, y, width, height float64) (string, error) {
	if question == "" {
		question = "请描述这张图片的内容"
	}
	prompt := fmt.Sprintf("页面中有一张图片位于 (%.0f, %.0f) 位置，大小 %.0fx%.0f。%s", x, y, width, height, question)
	return a.model.Analyze(ctx, prompt, pngBase64)
}

// OperationUpdate summarizes the page right after a key operation. The
// orchestrator appends it to the tool result so the planner sees what the
// action actually changed.
func (a *Analyst) OperationUpdate(ctx context.Context, action, pngBase64 string) (string, error) {
	prompt := fmt.Sprintf(`刚执行了"%s"操作。请分析当前页面状态：
1. 现在在什么网站/页面？
2. 页面主要内容是什么？
3. 有哪些可以进行的操作？
4. 是否有搜索框？如果有，是否已有输入内容？

请简洁回答（100字以内）。`, action)
	return a.model.Analyze(ctx, prompt, pngBase64)
}

// ReadScreenText transcribes everything readable in a viewport screenshot.
// Used while paging through a long page screen by screen.
func (a *Analyst) ReadScreenText(ctx context.Context, pngBase64 string) (string, error) {
	return a.model.Analyze(ctx, "请提取这个网页截图中的所有文本内容，保持原有结构。只输出文本内容，不要添加任何分析。", pngBase64)
}

// ReadImageText extracts the text of the image matching the selector.
func (a *Analyst) ReadImageText(ctx context.Context, pngBase64, selector string) (string, error) {
	prompt := fmt.Sprintf("请提取页面中 %s 这个图片里的所有文字。保持原有的格式和结构，只返回文字内容。", selector)
	return a.model.Analyze(ctx, prompt, pngBase64)
}

// ExtractChart reads the data out of a rendered chart.
func (a *Analyst) ExtractChart(ctx context.Context, pngBase64, selector, chartType string) (string, error) {
	prompt := "请从这个页面中提取图表数据。"
	if selector != "" {
		prompt += fmt.Sprintf(" 图表位于 %s 元素中。", selector)
	}
	if chartType != "" {
		prompt += fmt.Sprintf(" 这是一个%s图表。", chartType)
	}
	prompt += `

请按以下格式返回数据：
- 图表类型：
- 图表标题：
- 数据：
  | 类别 | 数值 |
  |------|------|
  | xxx  | xxx  |

如果是折线图或趋势图，请描述趋势变化。`
	return a.model.Analyze(ctx, prompt, pngBase64)
}

// Compare describes what changed between a before and an after screenshot.
func (a *Analyst) Compare(ctx context.Context, beforePNG, afterPNG string) (string, error) {
	return a.model.AnalyzePair(ctx,
		"这是操作前的页面截图：", beforePNG,
		"这是操作后的页面截图。请比较两张截图的变化，描述发生了什么变化。", afterPNG)
}
