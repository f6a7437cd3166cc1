// File: internal/agent/tools_inspect.go
package agent

import (
	"context"
	"fmt"
	"strings"
)

// pageState is the snapshot verify_action reads off the live page.
type pageState struct {
	URL              string            `json:"url"`
	Title            string            `json:"title"`
	Hostname         string            `json:"hostname"`
	HasSearchResults bool              `json:"hasSearchResults"`
	InputValues      map[string]string `json:"inputValues"`
	ErrorMessages    []string          `json:"errorMessages"`
}

func (e *Executor) verifyAction(ctx context.Context, args map[string]interface{}) string {
	expected := argString(args, "expected_result")

	raw, err := e.browser.ExecuteScript(ctx, verifyStateScript)
	if err != nil {
		return fmt.Sprintf("Verification error: %s. Try alternative method.", err.Error())
	}
	var state pageState
	if err := json.Unmarshal(raw, &state); err != nil {
		return fmt.Sprintf("Verification error: %s. Try alternative method.", err.Error())
	}

	return buildVerificationReport(expected, state)
}

// buildVerificationReport grades the page snapshot against the stated
// expectation with a few keyword heuristics, then falls back to a generic
// loaded-without-errors check.
func buildVerificationReport(expected string, state pageState) string {
	var b strings.Builder
	b.WriteString("VERIFICATION REPORT:\n")
	fmt.Fprintf(&b, "- Current URL: %s\n", state.URL)
	fmt.Fprintf(&b, "- Page Title: %s\n", state.Title)
	fmt.Fprintf(&b, "- Expected: %s\n", expected)
	fmt.Fprintf(&b, "- Has Search Results: %t\n", state.HasSearchResults)
	if len(state.InputValues) > 0 {
		vals, _ := json.MarshalToString(state.InputValues)
		fmt.Fprintf(&b, "- Input Values: %s\n", vals)
	}
	if len(state.ErrorMessages) > 0 {
		fmt.Fprintf(&b, "- ERRORS FOUND: %s\n", strings.Join(state.ErrorMessages, "; "))
	}

	low := strings.ToLower(expected)
	var success bool
	switch {
	case strings.Contains(low, "search result"):
		success = state.HasSearchResults
	case strings.Contains(low, "github"):
		success = strings.Contains(state.Hostname, "github.com")
	case strings.Contains(low, "jd") || strings.Contains(low, "jingdong"):
		success = strings.Contains(state.Hostname, "jd.com")
	case strings.Contains(low, "input") || strings.Contains(low, "text"):
		for _, v := range state.InputValues {
			if v != "" {
				success = true
				break
			}
		}
	default:
		success = len(state.ErrorMessages) == 0 && state.Title != ""
	}

	if success {
		b.WriteString("\nSTATUS: SUCCESS - Action appears to have worked.")
	} else {
		b.WriteString("\nSTATUS: FAILED - Action did not achieve expected result. Try alternative method.")
	}
	return b.String()
}

func (e *Executor) analyzePage(ctx context.Context) string {
	raw, err := e.browser.ExecuteScript(ctx, analyzePageScript)
	if err != nil {
		return "Analysis failed: " + err.Error()
	}
	var analysis struct {
		URL          string `json:"url"`
		Title        string `json:"title"`
		PageType     string `json:"pageType"`
		SearchInputs []struct {
			Selector    string `json:"selector"`
			Placeholder string `json:"placeholder"`
			Value       string `json:"value"`
		} `json:"searchInputs"`
		Buttons []string `json:"buttons"`
		Links   []string `json:"links"`
		State   struct {
			HasSearchResults bool `json:"hasSearchResults"`
			HasLoginForm     bool `json:"hasLoginForm"`
		} `json:"state"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return "Analysis failed: " + err.Error()
	}

	var b strings.Builder
	b.WriteString("PAGE ANALYSIS:\n")
	fmt.Fprintf(&b, "- URL: %s\n", analysis.URL)
	fmt.Fprintf(&b, "- Title: %s\n", analysis.Title)
	fmt.Fprintf(&b, "- Page Type: %s\n", analysis.PageType)
	fmt.Fprintf(&b, "- Search Inputs: %d found\n", len(analysis.SearchInputs))
	fmt.Fprintf(&b, "- Buttons: %s\n", joinOr(analysis.Buttons, "none visible"))
	fmt.Fprintf(&b, "- Top Links: %s\n", joinOr(analysis.Links, "none"))
	fmt.Fprintf(&b, "- Has Search Results: %t\n", analysis.State.HasSearchResults)
	fmt.Fprintf(&b, "- Has Login Form: %t\n", analysis.State.HasLoginForm)
	if len(analysis.Suggestions) > 0 {
		b.WriteString("\nSUGGESTIONS:\n- " + strings.Join(analysis.Suggestions, "\n- "))
	}
	return b.String()
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func (e *Executor) scanInteractiveElements(ctx context.Context) string {
	raw, err := e.browser.ExecuteScript(ctx, scanElementsScript)
	if err != nil {
		return "Scan failed: " + err.Error()
	}
	var elements struct {
		Inputs []struct {
			Type        string `json:"type"`
			ID          string `json:"id"`
			Name        string `json:"name"`
			Placeholder string `json:"placeholder"`
		} `json:"inputs"`
		Buttons []struct {
			Text      string `json:"text"`
			ID        string `json:"id"`
			ClassName string `json:"className"`
		} `json:"buttons"`
		Links []struct {
			Text string `json:"text"`
		} `json:"links"`
	}
	if err := json.Unmarshal(raw, &elements); err != nil {
		return "Scan failed: " + err.Error()
	}

	var b strings.Builder
	b.WriteString("INTERACTIVE ELEMENTS:\n\n")
	fmt.Fprintf(&b, "INPUTS (%d):\n", len(elements.Inputs))
	for i, inp := range elements.Inputs {
		fmt.Fprintf(&b, "  %d. [%s] id=%q name=%q placeholder=%q\n", i+1, inp.Type, inp.ID, inp.Name, inp.Placeholder)
	}
	fmt.Fprintf(&b, "\nBUTTONS (%d):\n", len(elements.Buttons))
	for i, btn := range elements.Buttons {
		fmt.Fprintf(&b, "  %d. %q id=%q class=%q\n", i+1, btn.Text, btn.ID, btn.ClassName)
	}
	fmt.Fprintf(&b, "\nLINKS (top %d):\n", len(elements.Links))
	for i, link := range elements.Links {
		fmt.Fprintf(&b, "  %d. %q\n", i+1, link.Text)
	}
	return b.String()
}

func (e *Executor) getPageContent(ctx context.Context, args map[string]interface{}) string {
	maxLength := 500
	if v, ok := argFloat(args, "max_length"); ok && v > 0 {
		maxLength = int(v)
	}

	raw, err := e.browser.ExecuteScript(ctx, pageContentScript(maxLength))
	if err != nil {
		return "Failed to get content: " + err.Error()
	}
	var content struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		TotalLength int    `json:"totalLength"`
	}
	if err := json.Unmarshal(raw, &content); err != nil {
		return "Failed to get content: " + err.Error()
	}

	suffix := ""
	if content.TotalLength > maxLength {
		suffix = "...(truncated)"
	}
	return fmt.Sprintf("PAGE CONTENT:\nTitle: %s\n\n%s%s", content.Title, content.Content, suffix)
}

func (e *Executor) findElement(ctx context.Context, args map[string]interface{}) string {
	description := argString(args, "description")

	raw, err := e.browser.ExecuteScript(ctx, findElementScript(description))
	if err != nil {
		return "Find failed: " + err.Error()
	}
	var found []struct {
		Tag      string `json:"tag"`
		Text     string `json:"text"`
		Selector string `json:"selector"`
	}
	if err := json.Unmarshal(raw, &found); err != nil {
		return "Find failed: " + err.Error()
	}
	if len(found) == 0 {
		return fmt.Sprintf("No elements found matching %q. Try scan_interactive_elements to see available elements.", description)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FOUND %d MATCHING ELEMENTS:\n", len(found))
	for i, el := range found {
		fmt.Fprintf(&b, "%d. <%s> %q - selector: %s\n", i+1, el.Tag, el.Text, el.Selector)
	}
	b.WriteString("\nUse click_element or input_text with one of these selectors.")
	return b.String()
}

func (e *Executor) checkElementExists(ctx context.Context, args map[string]interface{}) string {
	selector := argString(args, "selector")

	raw, err := e.browser.ExecuteScript(ctx, checkElementScript(selector))
	if err != nil {
		return "Check failed: " + err.Error()
	}
	var result struct {
		Exists  bool   `json:"exists"`
		Visible bool   `json:"visible"`
		Tag     string `json:"tag"`
		Text    string `json:"text"`
		Top     int    `json:"top"`
		Left    int    `json:"left"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "Check failed: " + err.Error()
	}
	if !result.Exists {
		return fmt.Sprintf("Element %q does NOT exist on the page.", selector)
	}
	return fmt.Sprintf("Element %q EXISTS.\n- Visible: %t\n- Type: %s\n- Text: %q\n- Position: top=%dpx, left=%dpx",
		selector, result.Visible, result.Tag, result.Text, result.Top, result.Left)
}
