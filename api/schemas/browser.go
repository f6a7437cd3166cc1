// File: api/schemas/browser.go
package schemas

// PageInfo is a lightweight snapshot of the active tab.
type PageInfo struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
}

// TabInfo describes one open tab for the tab management tools.
type TabInfo struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// ScrollDirection enumerates the values accepted by the scroll tool.
type ScrollDirection string

const (
	ScrollUp     ScrollDirection = "up"
	ScrollDown   ScrollDirection = "down"
	ScrollTop    ScrollDirection = "top"
	ScrollBottom ScrollDirection = "bottom"
)

// ElementInfo describes an interactive element discovered on the page.
type ElementInfo struct {
	Tag      string  `json:"tag"`
	Text     string  `json:"text"`
	Selector string  `json:"selector"`
	Href     string  `json:"href,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Visible  bool    `json:"visible"`
}

// InputSnapshot captures the value of a form field for action verification.
type InputSnapshot struct {
	Selector string `json:"selector"`
	Value    string `json:"value"`
}
