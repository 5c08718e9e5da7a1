// Package browser owns the headless Chrome processes used by the scrape
// drivers. Sessions are pooled per (provider, brand) so a logged-in portal
// tab survives between scrapes, and evicted when idle or broken.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Session is one live browser tab bound to a (provider, brand) key.
// Drivers borrow it for the duration of a single operation; the pool
// retains ownership and may evict it between operations.
type Session struct {
	Provider string
	Brand    string

	ctx      context.Context
	cancel   context.CancelFunc
	lastUsed time.Time

	// mu serializes whole scrape pipelines against this session: two jobs
	// targeting the same portal account would otherwise interleave page
	// navigations and corrupt each other's state.
	mu sync.Mutex
}

// Ctx returns the chromedp tab context for automation steps.
func (s *Session) Ctx() context.Context { return s.ctx }

// Lock takes exclusive use of the session for one scrape pipeline.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session to the next job for this key.
func (s *Session) Unlock() { s.mu.Unlock() }

// launchFunc starts a browser and returns the tab context plus a cancel
// that tears the whole browser process down. Injectable for tests.
type launchFunc func(parent context.Context) (context.Context, context.CancelFunc, error)

// Pool caches live sessions keyed by provider/brand.
type Pool struct {
	idleTTL time.Duration
	launch  launchFunc

	mu      sync.Mutex
	entries map[string]*Session
}

// NewPool creates a session pool launching real Chrome processes from
// chromePath. startTimeout bounds each browser launch.
func NewPool(chromePath string, idleTTL, startTimeout time.Duration) *Pool {
	return &Pool{
		idleTTL: idleTTL,
		launch:  chromeLauncher(chromePath, startTimeout),
		entries: make(map[string]*Session),
	}
}

// NewPoolWithLaunch creates a pool with a custom launcher. Used by tests
// to avoid spawning browsers.
func NewPoolWithLaunch(idleTTL time.Duration, launch launchFunc) *Pool {
	return &Pool{
		idleTTL: idleTTL,
		launch:  launch,
		entries: make(map[string]*Session),
	}
}

func poolKey(provider, brand string) string {
	return provider + "/" + brand
}

// Acquire returns the pooled session for the key, creating a fresh
// browser if none exists. The returned bool is true when a new session
// was created (so the caller knows login state cannot carry over).
func (p *Pool) Acquire(ctx context.Context, provider, brand string) (*Session, bool, error) {
	key := poolKey(provider, brand)

	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.entries[key]; ok {
		slog.Info("pool: reusing browser session", "key", key)
		s.lastUsed = time.Now()
		return s, false, nil
	}

	slog.Info("pool: creating browser session", "key", key)
	tabCtx, cancel, err := p.launch(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("launch browser for %s: %w", key, err)
	}

	s := &Session{
		Provider: provider,
		Brand:    brand,
		ctx:      tabCtx,
		cancel:   cancel,
		lastUsed: time.Now(),
	}
	p.entries[key] = s
	return s, true, nil
}

// Touch resets the idle timer for a key, keeping the session alive during
// long paginated extractions.
func (p *Pool) Touch(provider, brand string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.entries[poolKey(provider, brand)]; ok {
		s.lastUsed = time.Now()
	}
}

// Invalidate closes and removes the session for a key. Close errors are
// swallowed: a crashed browser still has to leave the pool so the next
// Acquire starts clean.
func (p *Pool) Invalidate(provider, brand string) {
	key := poolKey(provider, brand)

	p.mu.Lock()
	s, ok := p.entries[key]
	if ok {
		delete(p.entries, key)
	}
	p.mu.Unlock()

	if !ok {
		return
	}

	slog.Info("pool: invalidating browser session", "key", key)
	s.cancel()
}

// Sweep evicts every session idle longer than the TTL.
func (p *Pool) Sweep() {
	now := time.Now()

	p.mu.Lock()
	var stale []*Session
	for key, s := range p.entries {
		if now.Sub(s.lastUsed) > p.idleTTL {
			slog.Info("pool: closing idle browser session", "key", key, "idle", now.Sub(s.lastUsed).Round(time.Second))
			delete(p.entries, key)
			stale = append(stale, s)
		}
	}
	p.mu.Unlock()

	for _, s := range stale {
		s.cancel()
	}
}

// StartSweeper runs Sweep on a fixed interval until the context is done.
func (p *Pool) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Sweep()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close tears down every pooled session. Called on shutdown.
func (p *Pool) Close() {
	p.mu.Lock()
	sessions := make([]*Session, 0, len(p.entries))
	for key, s := range p.entries {
		delete(p.entries, key)
		sessions = append(sessions, s)
		slog.Info("pool: closing browser session", "key", key)
	}
	p.mu.Unlock()

	for _, s := range sessions {
		s.cancel()
	}
}

// Len returns the number of live sessions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// chromeLauncher builds the real chromedp launcher for a chromium binary.
func chromeLauncher(chromePath string, startTimeout time.Duration) launchFunc {
	if startTimeout <= 0 {
		startTimeout = 30 * time.Second
	}
	return func(parent context.Context) (context.Context, context.CancelFunc, error) {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(chromePath),
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.WindowSize(1920, 1080),
		)

		// The session must outlive the acquiring request's context.
		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
		tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
			slog.Debug("chromedp", "message", fmt.Sprintf(format, v...))
		}))

		cancel := func() {
			tabCancel()
			allocCancel()
		}

		// Start the browser eagerly so launch failures surface here, not
		// in the middle of a login sequence.
		startCtx, startCancel := context.WithTimeout(tabCtx, startTimeout)
		defer startCancel()
		if err := chromedp.Run(startCtx); err != nil {
			cancel()
			return nil, nil, fmt.Errorf("start chrome: %w", err)
		}

		return tabCtx, cancel, nil
	}
}
