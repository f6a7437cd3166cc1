// File: internal/humanoid/types.go
package humanoid

// MouseEventType mirrors the CDP input event types without importing cdproto
// here, keeping the simulation core transport-agnostic.
type MouseEventType string

const (
	MouseMove    MouseEventType = "mouseMoved"
	MousePress   MouseEventType = "mousePressed"
	MouseRelease MouseEventType = "mouseReleased"
)

// MouseButton identifies the button involved in an event.
type MouseButton string

const (
	ButtonNone   MouseButton = "none"
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// MouseEventData is the transport-agnostic description of a pointer event.
type MouseEventData struct {
	Type       MouseEventType
	X, Y       float64
	Button     MouseButton
	// Buttons is the bitfield of currently held buttons (1=left, 2=right, 4=middle).
	Buttons    int64
	ClickCount int64
}

// Mode is the pointer's behavioral state.
type Mode string

const (
	// ModeNormal renders purposeful movement toward a target.
	ModeNormal Mode = "normal"
	// ModeFidget renders idle wandering while the agent waits on the model.
	ModeFidget Mode = "fidget"
	// ModePanic renders a rapid distress burst after a failed action.
	ModePanic Mode = "panic"
)

// State is an observable snapshot of the simulator, exposed for logging and
// tests.
type State struct {
	Position Vector2D
	Mode     Mode
	Buttons  MouseButton
}
