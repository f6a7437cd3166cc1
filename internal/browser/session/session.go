// File: internal/browser/session/session.go
// Package session owns the Chromium instance and its tabs. It exposes the
// page surface the agent's tools run against and adapts CDP input dispatch
// for the pointer simulator.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagepilot/api/schemas"
	"github.com/xkilldash9x/pagepilot/internal/config"
)

// ErrNoSuchTab is returned when a tab id does not match any open tab.
var ErrNoSuchTab = fmt.Errorf("session: no such tab")

// Tab is one browser target. The chromedp context stays alive until the tab
// is closed or the session shuts down.
type Tab struct {
	ID     string
	ctx    context.Context
	cancel context.CancelFunc
}

// Session manages the allocator, the open tabs and the active-tab pointer.
// All methods are safe for concurrent use, though the agent drives them
// sequentially.
type Session struct {
	logger      *zap.Logger
	cfg         config.BrowserConfig
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu      sync.Mutex
	tabs    []*Tab
	active  int
	counter int
}

// New launches the browser and opens the first tab.
func New(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	opts := buildAllocatorOptions(cfg)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)

	s := &Session{
		logger:      logger.Named("browser_session"),
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}

	tab, err := s.newTabLocked()
	if err != nil {
		allocCancel()
		return nil, fmt.Errorf("session: failed to open initial tab: %w", err)
	}
	s.tabs = []*Tab{tab}
	s.active = 0

	s.logger.Info("Browser session started.",
		zap.Bool("headless", cfg.Headless),
		zap.Int("viewport_width", cfg.ViewportWidth),
		zap.Int("viewport_height", cfg.ViewportHeight))
	return s, nil
}

// buildAllocatorOptions translates the config into chromedp allocator flags.
func buildAllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight),
	)
	if cfg.DisableCache {
		opts = append(opts, chromedp.Flag("disable-application-cache", true))
	}
	for _, arg := range cfg.Args {
		opts = append(opts, chromedp.Flag(arg, true))
	}
	return opts
}

// newTabLocked creates a fresh chromedp context. Callers hold s.mu (or are
// in New before the session is shared).
func (s *Session) newTabLocked() (*Tab, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.allocCtx)
	// Force target creation so the tab exists before any action runs on it.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, err
	}
	s.counter++
	return &Tab{
		ID:     fmt.Sprintf("tab-%d", s.counter),
		ctx:    tabCtx,
		cancel: tabCancel,
	}, nil
}

// activeTab returns the currently selected tab.
func (s *Session) activeTab() *Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tabs[s.active]
}

// Run executes chromedp actions on the active tab, honoring the caller's
// context: cancelling it aborts the in-flight actions.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	tab := s.activeTab()

	opCtx, opCancel := context.WithCancel(tab.ctx)
	defer opCancel()
	stop := context.AfterFunc(ctx, opCancel)
	defer stop()

	if err := chromedp.Run(opCtx, actions...); err != nil {
		// Prefer the caller's cancellation cause over the derived context's.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// NewTab opens a tab, makes it active, and optionally navigates it.
func (s *Session) NewTab(ctx context.Context, url string) (schemas.TabInfo, error) {
	s.mu.Lock()
	tab, err := s.newTabLocked()
	if err != nil {
		s.mu.Unlock()
		return schemas.TabInfo{}, fmt.Errorf("session: failed to open tab: %w", err)
	}
	s.tabs = append(s.tabs, tab)
	s.active = len(s.tabs) - 1
	s.mu.Unlock()

	if url != "" {
		if err := s.Navigate(ctx, url); err != nil {
			return schemas.TabInfo{}, err
		}
	}

	info, _ := s.describeTab(ctx, tab, true)
	s.logger.Info("Opened tab.", zap.String("tab_id", tab.ID), zap.String("url", url))
	return info, nil
}

// SwitchTab makes the identified tab active.
func (s *Session) SwitchTab(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tab := range s.tabs {
		if tab.ID == id {
			s.active = i
			s.logger.Info("Switched tab.", zap.String("tab_id", id))
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoSuchTab, id)
}

// CloseTab closes the identified tab. The last remaining tab cannot be
// closed; the session always keeps one page alive.
func (s *Session) CloseTab(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tabs) == 1 {
		return fmt.Errorf("session: cannot close the last tab")
	}
	for i, tab := range s.tabs {
		if tab.ID != id {
			continue
		}
		tab.cancel()
		s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)
		if s.active >= len(s.tabs) {
			s.active = len(s.tabs) - 1
		} else if s.active > i {
			s.active--
		}
		s.logger.Info("Closed tab.", zap.String("tab_id", id))
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNoSuchTab, id)
}

// ListTabs describes every open tab.
func (s *Session) ListTabs(ctx context.Context) ([]schemas.TabInfo, error) {
	s.mu.Lock()
	tabs := make([]*Tab, len(s.tabs))
	copy(tabs, s.tabs)
	activeID := s.tabs[s.active].ID
	s.mu.Unlock()

	infos := make([]schemas.TabInfo, 0, len(tabs))
	for _, tab := range tabs {
		info, err := s.describeTab(ctx, tab, tab.ID == activeID)
		if err != nil {
			// A tab that cannot be described is reported with its id only.
			info = schemas.TabInfo{ID: tab.ID, Active: tab.ID == activeID}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// describeTab reads URL and title from a specific tab.
func (s *Session) describeTab(ctx context.Context, tab *Tab, active bool) (schemas.TabInfo, error) {
	var url, title string

	opCtx, opCancel := context.WithCancel(tab.ctx)
	defer opCancel()
	stop := context.AfterFunc(ctx, opCancel)
	defer stop()

	err := chromedp.Run(opCtx,
		chromedp.Location(&url),
		chromedp.Title(&title),
	)
	if err != nil {
		return schemas.TabInfo{}, err
	}
	return schemas.TabInfo{ID: tab.ID, URL: url, Title: title, Active: active}, nil
}

// Close shuts down every tab and the browser process.
func (s *Session) Close() {
	s.mu.Lock()
	for _, tab := range s.tabs {
		tab.cancel()
	}
	s.tabs = nil
	s.mu.Unlock()

	s.allocCancel()
	s.logger.Info("Browser session closed.")
}
