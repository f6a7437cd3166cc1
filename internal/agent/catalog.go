// File: internal/agent/catalog.go
package agent

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

func tool(name, description string, params jsonschema.Definition) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}

func objectOf(props map[string]jsonschema.Definition, required ...string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: props,
		Required:   required,
	}
}

func str(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

func num(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.Number, Description: description}
}

// toolCatalog is the full function set offered to the planner on every turn.
var toolCatalog = []openai.Tool{
	tool("new_tab", "新建标签页并可选择导航到指定URL。用于同时处理多个任务",
		objectOf(map[string]jsonschema.Definition{
			"url": str("新标签页要打开的URL（可选，不提供则打开空白页）"),
		})),
	tool("switch_tab", "切换到指定标签页。可以通过索引或标题切换",
		objectOf(map[string]jsonschema.Definition{
			"index": num("标签页索引（从0开始）"),
			"title": str("标签页标题（模糊匹配）"),
		})),
	tool("close_tab", "关闭当前标签页或指定标签页",
		objectOf(map[string]jsonschema.Definition{
			"index": num("要关闭的标签页索引（可选，不提供则关闭当前标签页）"),
		})),
	tool("list_tabs", "列出所有打开的标签页，显示索引、标题和URL",
		objectOf(nil)),
	tool("navigate_to", "ONLY for search engine homepage (bing.com, baidu.com, google.com). NEVER use for other websites like jd.com, taobao.com, etc.",
		objectOf(map[string]jsonschema.Definition{
			"url": str("ONLY search engine URL like https://www.bing.com"),
		}, "url")),
	tool("click_element", "Click an element using CSS selector",
		objectOf(map[string]jsonschema.Definition{
			"selector": str("CSS selector"),
		}, "selector")),
	tool("click_text", "Click element containing specific text (for clicking search results)",
		objectOf(map[string]jsonschema.Definition{
			"text": str("Text content to find and click"),
		}, "text")),
	tool("input_text", "Type text into an input field",
		objectOf(map[string]jsonschema.Definition{
			"selector": str("CSS selector for input field"),
			"text":     str("Text to type"),
		}, "selector", "text")),
	tool("scroll_page", "Scroll the page",
		objectOf(map[string]jsonschema.Definition{
			"direction": {
				Type:        jsonschema.String,
				Enum:        []string{"up", "down", "top", "bottom"},
				Description: "Scroll direction",
			},
		}, "direction")),
	tool("read_full_page", "阅读完整页面内容。像真人一样慢慢滚动页面，每次滚动后分析可见内容，最后汇总。适用于总结页面、阅读文档等任务。",
		objectOf(map[string]jsonschema.Definition{
			"max_scrolls": num("最大滚动次数，默认10次"),
		})),
	tool("solve_captcha", "识别并处理验证码。会自动检测验证码类型，返回详细信息和下一步操作建议。遇到验证码时立即调用此工具。",
		objectOf(map[string]jsonschema.Definition{
			"captcha_type": {
				Type:        jsonschema.String,
				Enum:        []string{"auto", "text", "slider", "click"},
				Description: "验证码类型：auto=自动检测(推荐), text=图形文字验证码, slider=滑块验证码, click=点选验证码",
			},
		})),
	tool("analyze_image", "分析页面中的图片内容，描述图片展示的信息。可用于理解产品图片、图表、截图等",
		objectOf(map[string]jsonschema.Definition{
			"selector": str("图片的 CSS 选择器，如 img.product-image 或 #banner-img"),
			"question": str("关于图片的问题，如\"这张图片展示了什么产品？\""),
		}, "selector")),
	tool("visual_click", "根据视觉描述找到并点击元素。当 CSS 选择器无法准确定位时使用视觉识别",
		objectOf(map[string]jsonschema.Definition{
			"description": str("元素的视觉描述，如\"红色的购买按钮\"、\"页面右上角的登录链接\""),
		}, "description")),
	tool("compare_screenshots", "截图比对。先保存当前截图，执行操作后比较变化，用于验证操作是否成功",
		objectOf(map[string]jsonschema.Definition{
			"action": {
				Type:        jsonschema.String,
				Enum:        []string{"save", "compare"},
				Description: "save=保存当前截图作为基准, compare=与之前保存的截图比较",
			},
		}, "action")),
	tool("extract_chart_data", "从页面中的图表（柱状图、折线图、饼图等）提取数据",
		objectOf(map[string]jsonschema.Definition{
			"selector":   str("图表的 CSS 选择器（可选，不提供则分析整个页面）"),
			"chart_type": str("图表类型（可选）：bar/line/pie/table 等"),
		})),
	tool("ocr_image", "使用 OCR 提取页面图片中的文字。适用于扫描文档、海报、截图等",
		objectOf(map[string]jsonschema.Definition{
			"selector": str("图片的 CSS 选择器"),
		}, "selector")),
	tool("wait", "Wait for page to load",
		objectOf(map[string]jsonschema.Definition{
			"ms": num("Milliseconds to wait, default 1000"),
		})),
	tool("get_page_info", "Get current page title and URL",
		objectOf(nil)),
	tool("go_back", "Go back to previous page",
		objectOf(nil)),
	tool("go_forward", "Go forward to next page",
		objectOf(nil)),
	tool("press_enter", "Press Enter key to submit search form (use after input_text)",
		objectOf(map[string]jsonschema.Definition{
			"selector": str("CSS selector for the input field to press Enter on"),
		}, "selector")),
	tool("drag_element", "拖拽元素。用于滑动验证码、拖放操作等。模拟真人操作，有平滑动画。",
		objectOf(map[string]jsonschema.Definition{
			"selector":   str("要拖动的元素选择器，如滑块"),
			"distance_x": num("水平拖动距离（像素）"),
			"distance_y": num("垂直拖动距离（像素，默认0）"),
			"duration":   num("拖动持续时间（毫秒，默认500）"),
		}, "selector", "distance_x")),
	tool("click_search_button", "Click the search button on the page. Use this after input_text to submit search.",
		objectOf(nil)),
	tool("click_button", "点击页面上的按钮。专门用于点击\"加入购物车\"、\"立即购买\"、\"提交\"、\"确认\"等按钮。会智能查找 button、可点击 div、span 等元素。",
		objectOf(map[string]jsonschema.Definition{
			"text": str("按钮上的文字，如\"加入购物车\"、\"立即购买\"、\"提交\"、\"确认\"等"),
			"fallback_selectors": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "备选的 CSS 选择器列表，如果按文字找不到可以尝试这些选择器",
			},
		}, "text")),
	tool("verify_action", "Verify if the previous action was successful. Call this after important actions to check results. Returns details about current page state.",
		objectOf(map[string]jsonschema.Definition{
			"expected_result": str("What you expected to happen (e.g., \"page should show search results\", \"should be on github.com\")"),
		}, "expected_result")),
	tool("retry_with_alternative", "Try an alternative method when the previous action failed. Use different selectors or approaches.",
		objectOf(map[string]jsonschema.Definition{
			"action_type": {
				Type:        jsonschema.String,
				Enum:        []string{"input", "click", "search"},
				Description: "Type of action to retry",
			},
			"target_description": str("Description of what you are trying to do"),
		}, "action_type", "target_description")),
	tool("analyze_page", "Analyze the current page structure, find key elements, understand page purpose. Call this when unsure what to do.",
		objectOf(nil)),
	tool("scan_interactive_elements", "Scan and list all interactive elements on the page (buttons, links, inputs). Use to discover available actions.",
		objectOf(nil)),
	tool("get_page_content", "Get the main text content of the page. Use to understand what the page is about.",
		objectOf(map[string]jsonschema.Definition{
			"max_length": num("Maximum characters to return (default 500)"),
		})),
	tool("find_element", "Find an element by description. Use when you dont know the exact selector.",
		objectOf(map[string]jsonschema.Definition{
			"description": str("Description of element to find (e.g., \"search button\", \"login link\")"),
		}, "description")),
	tool("check_element_exists", "Check if a specific element exists and is visible on the page.",
		objectOf(map[string]jsonschema.Definition{
			"selector": str("CSS selector to check"),
		}, "selector")),
}
