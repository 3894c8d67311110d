// Package rod implements the rendering surface over Chrome DevTools.
package rod

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/callscribe"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Browser implements callscribe.Browser at compile time.
var _ callscribe.Browser = (*Browser)(nil)

// Browser drives a Chrome instance. It either launches its own Chrome or
// connects to a running one through its DevTools control URL, which lets a
// run reuse a session the user is already logged into.
//
// Browser is safe for concurrent use.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher // nil when connected to an existing Chrome

	controlURL  string
	headless    bool
	userDataDir string

	mu     sync.Mutex
	closed atomic.Bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithControlURL connects to a running Chrome instead of launching one.
// Both DevTools HTTP addresses (http://127.0.0.1:9222) and websocket URLs
// are accepted.
func WithControlURL(u string) Option {
	return func(b *Browser) {
		b.controlURL = u
	}
}

// WithHeadless sets whether a launched Chrome runs headless. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(b *Browser) {
		b.headless = headless
	}
}

// WithUserDataDir sets the profile directory of a launched Chrome.
func WithUserDataDir(dir string) Option {
	return func(b *Browser) {
		b.userDataDir = dir
	}
}

// NewBrowser launches or connects to Chrome.
// Close must be called when the Browser is no longer needed.
func NewBrowser(opts ...Option) (*Browser, error) {
	b := &Browser{headless: true}
	for _, opt := range opts {
		opt(b)
	}

	if b.controlURL != "" {
		if err := b.connect(); err != nil {
			return nil, err
		}
		return b, nil
	}

	if err := b.launch(); err != nil {
		return nil, err
	}
	return b, nil
}

// Open opens url in a new background tab.
func (b *Browser) Open(ctx context.Context, url string) (callscribe.View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url, Background: true})
	if err != nil {
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	return &View{page: page}, nil
}

// Attach returns the first open tab whose URL contains match.
func (b *Browser) Attach(ctx context.Context, match string) (callscribe.View, error) {
	pages, err := b.browser.Context(ctx).Pages()
	if err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}

	for _, page := range pages {
		info, err := page.Info()
		if err != nil {
			continue
		}
		if info.Type == "page" && strings.Contains(info.URL, match) {
			return &View{page: page}, nil
		}
	}

	return nil, callscribe.Errorf(callscribe.ENOTFOUND, "No open tab matches %q.", match)
}

// Close releases browser resources. A launched Chrome is killed; a Chrome
// that was connected to is left running. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.launcher == nil {
		// Closing the rod.Browser would close the user's Chrome.
		b.browser = nil
		return nil
	}

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	b.launcher.Kill()
	b.launcher = nil
	return err
}

// launch starts a new Chrome instance with stability flags. Background tabs
// must keep rendering at full speed, so throttling is disabled.
func (b *Browser) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(b.headless)
	if b.userDataDir != "" {
		lnchr = lnchr.UserDataDir(b.userDataDir)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.browser = browser
	b.launcher = lnchr
	return nil
}

// connect attaches to a running Chrome.
func (b *Browser) connect() error {
	u := b.controlURL
	if !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://") {
		resolved, err := launcher.ResolveURL(u)
		if err != nil {
			return fmt.Errorf("resolving control URL: %w", err)
		}
		u = resolved
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.browser = browser
	return nil
}

// LauncherPID returns the process ID of the browser launcher, or 0 when
// connected to an existing Chrome.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}
