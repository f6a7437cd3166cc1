// File: internal/agent/tools_nav.go
package agent

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/xkilldash9x/pagepilot/api/schemas"
)

// searchEngineHosts are the only destinations navigate_to accepts. Every
// other site must be reached through a search engine, which keeps the agent
// on the observable click path.
var searchEngineHosts = []string{
	"bing.com",
	"baidu.com",
	"google.com",
}

func isSearchEngineURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range searchEngineHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

func (e *Executor) newTab(ctx context.Context, args map[string]interface{}) string {
	rawURL := argString(args, "url")
	info, err := e.browser.NewTab(ctx, rawURL)
	if err != nil {
		return "Failed to create new tab: " + err.Error()
	}
	tabs, _ := e.browser.ListTabs(ctx)
	suffix := ""
	if rawURL != "" {
		suffix = "并导航到: " + rawURL
	}
	return fmt.Sprintf("新标签页已创建%s。当前共 %d 个标签页，活动标签页索引: %d", suffix, len(tabs), tabIndex(tabs, info.ID))
}

func (e *Executor) switchTab(ctx context.Context, args map[string]interface{}) string {
	tabs, err := e.browser.ListTabs(ctx)
	if err != nil {
		return "Failed to switch tab: " + err.Error()
	}

	var target *schemas.TabInfo
	if idx, ok := argFloat(args, "index"); ok {
		i := int(idx)
		if i < 0 || i >= len(tabs) {
			return fmt.Sprintf("无效的标签页索引: %d。当前共 %d 个标签页（索引 0-%d）", i, len(tabs), len(tabs)-1)
		}
		target = &tabs[i]
	} else if title := argString(args, "title"); title != "" {
		low := strings.ToLower(title)
		for i := range tabs {
			if strings.Contains(strings.ToLower(tabs[i].Title), low) || strings.Contains(strings.ToLower(tabs[i].URL), low) {
				target = &tabs[i]
				break
			}
		}
		if target == nil {
			return fmt.Sprintf("未找到标题包含 %q 的标签页", title)
		}
	} else {
		return "请提供标签页索引或标题"
	}

	if err := e.browser.SwitchTab(target.ID); err != nil {
		return "Failed to switch tab: " + err.Error()
	}
	return fmt.Sprintf("已切换到标签页 %d: %q (%s)", tabIndex(tabs, target.ID), target.Title, target.URL)
}

func (e *Executor) closeTab(ctx context.Context, args map[string]interface{}) string {
	tabs, err := e.browser.ListTabs(ctx)
	if err != nil {
		return "Failed to close tab: " + err.Error()
	}
	if len(tabs) <= 1 {
		return "无法关闭最后一个标签页"
	}

	var target *schemas.TabInfo
	if idx, ok := argFloat(args, "index"); ok {
		i := int(idx)
		if i < 0 || i >= len(tabs) {
			return fmt.Sprintf("无效的标签页索引: %d", i)
		}
		target = &tabs[i]
	} else {
		for i := range tabs {
			if tabs[i].Active {
				target = &tabs[i]
				break
			}
		}
	}
	if target == nil {
		return "未找到要关闭的标签页"
	}

	if err := e.browser.CloseTab(target.ID); err != nil {
		return "Failed to close tab: " + err.Error()
	}
	return fmt.Sprintf("已关闭标签页: %q。剩余 %d 个标签页", target.Title, len(tabs)-1)
}

func (e *Executor) listTabs(ctx context.Context) string {
	tabs, err := e.browser.ListTabs(ctx)
	if err != nil {
		return "Failed to list tabs: " + err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "共 %d 个标签页:\n", len(tabs))
	for i, tab := range tabs {
		marker := ""
		if tab.Active {
			marker = " [当前]"
		}
		fmt.Fprintf(&b, "\n%d: %q%s\n   URL: %s\n", i, tab.Title, marker, tab.URL)
	}
	return b.String()
}

func tabIndex(tabs []schemas.TabInfo, id string) int {
	for i, tab := range tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

func (e *Executor) navigateTo(ctx context.Context, args map[string]interface{}) string {
	rawURL := argString(args, "url")
	if rawURL == "" {
		return "跳转失败: 未提供 URL"
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	if !isSearchEngineURL(rawURL) {
		return fmt.Sprintf("导航被拒绝: %s 不是搜索引擎。navigate_to 只接受 bing.com、baidu.com、google.com。请先跳转到搜索引擎，再通过搜索结果进入目标网站。", rawURL)
	}
	if err := e.browser.Navigate(ctx, rawURL); err != nil {
		return "跳转失败: " + err.Error()
	}
	fb := e.feedback(ctx, "导航到新页面")
	return withFeedback("已跳转到 "+rawURL, "当前看到: ", fb)
}

func (e *Executor) goBack(ctx context.Context) string {
	if err := e.browser.Back(ctx); err != nil {
		return "Cannot go back"
	}
	return "Went back"
}

func (e *Executor) goForward(ctx context.Context) string {
	if err := e.browser.Forward(ctx); err != nil {
		return "Cannot go forward"
	}
	return "Went forward"
}

func (e *Executor) wait(ctx context.Context, args map[string]interface{}) string {
	ms := 1000.0
	if v, ok := argFloat(args, "ms"); ok && v > 0 {
		ms = v
	}
	if err := e.sleep(ctx, time.Duration(ms)*time.Millisecond); err != nil {
		return "Wait interrupted"
	}
	return fmt.Sprintf("Waited %.0fms", ms)
}

func (e *Executor) getPageInfo(ctx context.Context) string {
	info, err := e.browser.PageInfo(ctx)
	if err != nil {
		return "Failed: " + err.Error()
	}
	return "Title: " + info.Title + "\nURL: " + info.URL
}

func (e *Executor) scrollPage(ctx context.Context, args map[string]interface{}) string {
	direction := argString(args, "direction")
	var err error
	switch schemas.ScrollDirection(direction) {
	case schemas.ScrollUp:
		err = e.browser.ScrollBy(ctx, 0, -500)
	case schemas.ScrollDown:
		err = e.browser.ScrollBy(ctx, 0, 500)
	case schemas.ScrollTop:
		err = e.browser.ScrollToTop(ctx)
	case schemas.ScrollBottom:
		err = e.browser.ScrollToBottom(ctx)
	default:
		return "Scroll failed: unknown direction " + direction
	}
	if err != nil {
		return "Scroll failed: " + err.Error()
	}
	return "Scrolled " + direction
}
