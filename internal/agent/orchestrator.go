// File: internal/agent/orchestrator.go
package agent

import (
	"context"
	"math/rand"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/humanoid"
)

// Planner is the reasoning model behind the loop. *llmclient.ChatClient
// satisfies it.
type Planner interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)
}

// ToolRunner executes tool calls. *Executor satisfies it.
type ToolRunner interface {
	Execute(ctx context.Context, name, rawArgs string) string
	SetGoal(goal string)
}

// keyOperations are the tools whose outcome changes what the page looks
// like. After one succeeds in dual mode, the vision model re-reads the page
// and its observation is appended to the tool result.
var keyOperations = map[string]bool{
	"navigate_to":         true,
	"click_element":       true,
	"click_text":          true,
	"click_button":        true,
	"input_text":          true,
	"click_search_button": true,
	"scroll_page":         true,
	"go_back":             true,
	"go_forward":          true,
}

const (
	visualUpdateSettle = 800 * time.Millisecond
	maxResultPreview   = 500
)

// Orchestrator drives the conversation loop: it replays the transcript to
// the planner, executes the first tool call of each reply, feeds results
// (plus vision observations) back, and streams the planner's commentary to
// the user. The pointer fidgets while the model thinks and panics when a
// tool fails, so the whole run reads like a person at the keyboard.
type Orchestrator struct {
	planner  Planner
	runner   ToolRunner
	analyst  VisionAnalyst
	browser  Browser
	pointer  humanoid.Controller
	streamer *Streamer
	cfg      config.AgentConfig
	logger   *zap.Logger
	rng      *rand.Rand
	sleep    func(context.Context, time.Duration) error
}

// NewOrchestrator wires the conversation loop. analyst may be nil in
// single-model mode; the loop then skips page analysis and vision updates.
func NewOrchestrator(planner Planner, runner ToolRunner, analyst VisionAnalyst, browser Browser, pointer humanoid.Controller, streamer *Streamer, cfg config.AgentConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		planner:  planner,
		runner:   runner,
		analyst:  analyst,
		browser:  browser,
		pointer:  pointer,
		streamer: streamer,
		cfg:      cfg,
		logger:   logger.Named("orchestrator"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    sleepCtx,
	}
}

// Run processes one user message to completion: up to MaxIterations tool
// calls, then a streamed final answer or the iteration-cap notice. The
// transcript grows on the session as the loop progresses, so a follow-up
// "继续执行" picks up where the cap cut the run off.
func (o *Orchestrator) Run(ctx context.Context, session *Session, content string) error {
	session.resetStop()
	session.setStatus(schemas.SessionRunning)
	defer o.pointer.StopFidget()

	o.runner.SetGoal(content)

	history := o.buildHistory(ctx, session, content)
	session.Append(schemas.Turn{Role: schemas.RoleUser, Content: content})

	for iteration := 0; iteration < o.cfg.MaxIterations; iteration++ {
		if session.Stopped() || ctx.Err() != nil {
			o.streamer.Print("Stopped by user")
			session.setStatus(schemas.SessionCancelled)
			return ctx.Err()
		}

		reply, err := o.think(ctx, history)
		if err != nil {
			o.pointer.PanicBurst(ctx, o.cfg.FailurePause)
			reaction := randomReaction(o.rng)
			o.streamer.Print(reaction + "\n" + err.Error())
			session.setStatus(schemas.SessionDone)
			return err
		}

		comment := strings.TrimSpace(reply.Content)

		if len(reply.ToolCalls) == 0 {
			final := comment
			if final == "" {
				final = "Done"
			}
			o.streamer.Stream(ctx, final, o.cfg.AnswerStreamDelay)
			session.Append(schemas.Turn{Role: schemas.RoleAssistant, Content: final})
			session.setStatus(schemas.SessionDone)
			return nil
		}

		// Only the first tool call of a reply runs; parallel calls from the
		// model would race on the single page.
		call := reply.ToolCalls[0]
		if comment != "" {
			o.streamer.Stream(ctx, comment, o.cfg.CommentStreamDelay)
		}

		if session.Stopped() {
			o.streamer.Print("Stopped by user")
			session.setStatus(schemas.SessionCancelled)
			return nil
		}

		result := o.runner.Execute(ctx, call.Function.Name, call.Function.Arguments)
		o.logger.Debug("Tool executed.",
			zap.String("tool", call.Function.Name),
			zap.String("result", truncate(result, 200)))

		if isFailureResult(result) {
			o.pointer.PanicBurst(ctx, o.cfg.FailurePause)
			reaction := randomReaction(o.rng)
			o.streamer.Print(reaction)
			// The transcript keeps the reaction too, so a later read-back of
			// the session shows the stumble the viewer saw.
			if comment != "" {
				comment += "\n" + reaction
			} else {
				comment = reaction
			}
			o.sleep(ctx, o.cfg.FailurePause)
		} else if o.analyst != nil && keyOperations[call.Function.Name] {
			if update := o.visualUpdate(ctx, call.Function.Name); update != "" {
				result += "\n\n【视觉模型观察】" + update
			}
		}

		history = append(history,
			openai.ChatCompletionMessage{
				Role:      openai.ChatMessageRoleAssistant,
				Content:   reply.Content,
				ToolCalls: []openai.ToolCall{call},
			},
			openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    result,
			},
		)
		session.Append(schemas.Turn{
			Role:    schemas.RoleAssistant,
			Content: comment,
			Invocation: &schemas.ToolInvocation{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
				Result:    result,
			},
		})
		session.Append(schemas.Turn{
			Role:       schemas.RoleTool,
			Content:    result,
			ToolCallID: call.ID,
		})

		o.sleep(ctx, o.cfg.ToolPause)
	}

	capNotice := "达到最大操作次数（30次）。如果任务尚未完成，请点击\"继续执行\"按钮。"
	o.streamer.Print(capNotice)
	session.Append(schemas.Turn{Role: schemas.RoleAssistant, Content: capNotice})
	session.setStatus(schemas.SessionDone)
	return nil
}

// think calls the planner while the pointer fidgets.
func (o *Orchestrator) think(ctx context.Context, history []openai.ChatCompletionMessage) (openai.ChatCompletionMessage, error) {
	if viewport, err := o.browser.Viewport(ctx); err == nil {
		o.pointer.StartFidget(viewport)
	}
	defer o.pointer.StopFidget()
	return o.planner.Complete(ctx, history, toolCatalog)
}

// buildHistory assembles the message list for the planner: the system prompt
// (enriched with a fresh vision analysis in dual mode), the windowed
// transcript with tool summaries folded into assistant turns, and the new
// user message.
func (o *Orchestrator) buildHistory(ctx context.Context, session *Session, content string) []openai.ChatCompletionMessage {
	sys := systemPrompt
	if o.analyst != nil {
		if pageContext := o.analyzeCurrentPage(ctx); pageContext != "" {
			sys = enhancedSystemPrompt(pageContext)
		}
	}

	history := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: sys},
	}
	for _, turn := range session.Window(o.cfg.HistoryWindow) {
		switch turn.Role {
		case schemas.RoleUser:
			history = append(history, openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleUser, Content: turn.Content,
			})
		case schemas.RoleAssistant:
			history = append(history, openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant, Content: summarizeTurn(turn),
			})
		}
	}
	history = append(history, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: content,
	})
	return history
}

// summarizeTurn folds a past tool invocation into plain assistant text so
// the model remembers what it already did without replaying raw tool
// protocol messages.
func summarizeTurn(turn schemas.Turn) string {
	if turn.Invocation == nil {
		return turn.Content
	}
	inv := turn.Invocation
	summary := "[" + inv.Name + "(" + inv.Arguments + ")] => " + truncate(inv.Result, maxResultPreview)
	if turn.Content == "" {
		return "已执行的操作记录:\n" + summary
	}
	return turn.Content + "\n\n已执行的操作记录:\n" + summary
}

func (o *Orchestrator) analyzeCurrentPage(ctx context.Context) string {
	shot, err := o.browser.Screenshot(ctx)
	if err != nil {
		return ""
	}
	analysis, err := o.analyst.AnalyzePage(ctx, shot)
	if err != nil {
		o.logger.Debug("Page analysis failed.", zap.Error(err))
		return ""
	}
	return analysis
}

// visualUpdate waits for the page to settle after a key operation and asks
// the vision model what changed.
func (o *Orchestrator) visualUpdate(ctx context.Context, action string) string {
	if err := o.sleep(ctx, visualUpdateSettle); err != nil {
		return ""
	}
	shot, err := o.browser.Screenshot(ctx)
	if err != nil {
		return ""
	}
	update, err := o.analyst.OperationUpdate(ctx, action, shot)
	if err != nil {
		o.logger.Debug("Visual update failed.", zap.Error(err))
		return ""
	}
	return update
}

// isFailureResult spots the failure markers tool results use so the loop can
// show the panic reaction before handing the result back to the planner.
func isFailureResult(result string) bool {
	return strings.Contains(result, "Error") ||
		strings.Contains(result, "失败") ||
		strings.Contains(result, "not found") ||
		strings.Contains(result, "Cannot")
}
