// File: api/schemas/agent.go
package schemas

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Turn is one entry in the conversation transcript. Assistant turns may carry
// a tool invocation; tool turns carry the outcome keyed by ToolCallID.
type Turn struct {
	ID         string          `json:"id"`
	Role       Role            `json:"role"`
	Content    string          `json:"content"`
	Invocation *ToolInvocation `json:"invocation,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToolInvocation is a single tool call requested by the model.
type ToolInvocation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	// Result holds the textual outcome once the executor has run. Executors
	// never fail with an error; failures are described here.
	Result string `json:"result,omitempty"`
}

// SessionStatus tracks the lifecycle of a conversation session.
type SessionStatus string

const (
	SessionIdle      SessionStatus = "idle"
	SessionRunning   SessionStatus = "running"
	SessionCancelled SessionStatus = "cancelled"
	SessionDone      SessionStatus = "done"
)
