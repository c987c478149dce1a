package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/config"
)

// RenderOptions tells a Browser when a page counts as rendered.
type RenderOptions struct {
	ReadySelector     string
	ReadyTimeout      time.Duration
	NavigationTimeout time.Duration
	Pagination        config.Pagination
}

// Browser is one running browser process.
type Browser interface {
	// Render navigates to url, blocks until ReadySelector matches, runs
	// pagination and returns the document HTML.
	Render(ctx context.Context, url string, opts RenderOptions) (string, error)
	// Close terminates the process.
	Close() error
}

// LaunchFunc starts a new browser process.
type LaunchFunc func(ctx context.Context) (Browser, error)

// Loader produces rendered HTML for a URL. Every call starts exactly one
// browser and closes it before returning, whatever the outcome.
type Loader struct {
	Launch  LaunchFunc
	Options RenderOptions
}

// Load renders url. Errors are classified as ErrLaunch, ErrNavigation or
// ErrNotReady.
func (l *Loader) Load(ctx context.Context, url string) (html string, err error) {
	browser, err := l.launch(ctx)
	if err != nil {
		return "", eris.Wrapf(ErrLaunch, "%v", err)
	}
	defer func() {
		if cerr := browser.Close(); cerr != nil {
			logger().Warn("browser close failed", zap.Error(cerr))
		}
	}()

	// Recover driver panics so the deferred Close still runs and the caller
	// sees a classified error.
	defer func() {
		if r := recover(); r != nil {
			logger().Error("panic while rendering", zap.String("url", url), zap.Any("panic", r))
			html, err = "", eris.Wrapf(ErrNavigation, "panic: %v", r)
		}
	}()

	html, err = browser.Render(ctx, url, l.Options)
	if err != nil {
		if errors.Is(err, ErrNotReady) || errors.Is(err, ErrNavigation) {
			return "", err
		}
		return "", eris.Wrapf(ErrNavigation, "%s: %v", url, err)
	}
	return html, nil
}

func (l *Loader) launch(ctx context.Context) (b Browser, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, eris.Errorf("panic: %v", r)
		}
	}()
	if l.Launch == nil {
		return nil, eris.New("no launcher configured")
	}
	b, err = l.Launch(ctx)
	if err == nil && b == nil {
		err = eris.New("launcher returned no browser")
	}
	return b, err
}
