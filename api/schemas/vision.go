// File: api/schemas/vision.go
package schemas

// LocateResult is the parsed outcome of a visual element search.
type LocateResult struct {
	Found      bool    `json:"found"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
	// Element describes what was found; Suggestion explains what to try when
	// nothing was found.
	Element    string `json:"element,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CaptchaKind classifies a challenge before the extraction phase.
type CaptchaKind string

const (
	CaptchaText   CaptchaKind = "text"
	CaptchaSlider CaptchaKind = "slider"
	CaptchaClick  CaptchaKind = "click"
	CaptchaNone   CaptchaKind = "none"
)
