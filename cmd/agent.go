// File: cmd/agent.go
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/internal/agent"
	"github.com/xkilldash9x/pagepilot/internal/browser/session"
	"github.com/xkilldash9x/pagepilot/internal/config"
	"github.com/xkilldash9x/pagepilot/internal/humanoid"
	"github.com/xkilldash9x/pagepilot/internal/llmclient"
	"github.com/xkilldash9x/pagepilot/internal/observability"
	"github.com/xkilldash9x/pagepilot/internal/resolver"
	"github.com/xkilldash9x/pagepilot/internal/vision"
)

// runAgent wires the full stack and either runs one instruction or drops
// into an interactive session when none was given.
func runAgent(ctx context.Context, cfg *config.Config, instruction string) error {
	logger := observability.GetLogger()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess, err := session.New(ctx, cfg.Browser(), logger)
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	defer sess.Close()

	router, err := llmclient.NewRouter(cfg.LLM(), logger)
	if err != nil {
		return fmt.Errorf("failed to configure models: %w", err)
	}

	start := humanoid.Vector2D{
		X: float64(cfg.Browser().ViewportWidth) / 2,
		Y: float64(cfg.Browser().ViewportHeight) / 2,
	}
	pointer := humanoid.NewPointer(cfg.Browser().Pointer, sess.Executor(), start, logger)

	// In single mode the analyst stays a nil interface and every vision tool
	// reports itself unavailable.
	var analyst agent.VisionAnalyst
	if router.DualMode() {
		analyst = vision.NewAnalyst(router.Vision(), logger)
	}

	executor := agent.NewExecutor(sess, pointer, resolver.New(logger), analyst, cfg.Agent(), logger)
	streamer := agent.NewStreamer(os.Stdout)
	orchestrator := agent.NewOrchestrator(router.Reasoning(), executor, analyst, sess, pointer, streamer, cfg.Agent(), logger)

	conversation := agent.NewSession()
	logger.Info("Agent ready",
		zap.String("session", conversation.ID),
		zap.Bool("dual_mode", router.DualMode()))

	if instruction != "" {
		return orchestrator.Run(ctx, conversation, instruction)
	}
	return runInteractive(ctx, orchestrator, conversation, streamer, logger)
}

// runInteractive reads instructions line by line until EOF or an exit
// command. Each line is a full agent run over the shared transcript, so the
// model remembers earlier instructions and their tool results.
func runInteractive(ctx context.Context, orchestrator *agent.Orchestrator, conversation *agent.Session, streamer *agent.Streamer, logger *zap.Logger) error {
	streamer.Print("PagePilot 已就绪。输入任务开始，输入 exit 退出。")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("你: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		if err := orchestrator.Run(ctx, conversation, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("Agent run failed", zap.Error(err))
		}
	}
	return scanner.Err()
}
