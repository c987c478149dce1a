package scraper

import (
	"context"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/stealth"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/config"
)

// rodBrowser is a Chrome process started by the rod launcher.
type rodBrowser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// LaunchRod returns a LaunchFunc that starts a local Chrome.
func LaunchRod(cfg config.BrowserConfig) LaunchFunc {
	return func(ctx context.Context) (Browser, error) {
		l := launcher.New().
			Headless(cfg.Headless).
			NoSandbox(true).
			Set("disable-dev-shm-usage").
			Set("window-size", "1920,1080")
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}

		logger().Debug("launching browser", zap.Bool("headless", cfg.Headless))
		u, err := l.Launch()
		if err != nil {
			discard(l)
			return nil, err
		}

		b := rod.New().ControlURL(u).Context(ctx)
		if err := b.Connect(); err != nil {
			l.Kill()
			l.Cleanup()
			return nil, err
		}
		return &rodBrowser{launcher: l, browser: b}, nil
	}
}

// discard releases a launcher whose Launch failed. Cleanup is not usable
// here because it waits for a process that may never have started.
func discard(l *launcher.Launcher) {
	l.Kill()
	if dir := l.Get(flags.UserDataDir); dir != "" {
		_ = os.RemoveAll(dir)
	}
}

func (r *rodBrowser) Render(ctx context.Context, url string, opts RenderOptions) (string, error) {
	raw, err := stealth.Page(r.browser)
	if err != nil {
		return "", eris.Wrapf(ErrNavigation, "open page: %v", err)
	}
	defer func() { _ = raw.Close() }()
	page := raw.Context(ctx)

	nav := page.Timeout(opts.NavigationTimeout)
	err = nav.Navigate(url)
	if err == nil {
		err = nav.WaitLoad()
	}
	nav.CancelTimeout()
	if err != nil {
		return "", eris.Wrapf(ErrNavigation, "%s: %v", url, err)
	}

	logger().Debug("waiting for readiness selector",
		zap.String("selector", opts.ReadySelector),
		zap.Duration("timeout", opts.ReadyTimeout),
	)
	ready := page.Timeout(opts.ReadyTimeout)
	err = ready.WaitElementsMoreThan(opts.ReadySelector, 0)
	ready.CancelTimeout()
	if err != nil {
		return "", eris.Wrapf(ErrNotReady, "waiting for %q: %v", opts.ReadySelector, err)
	}

	if err := paginate(ctx, pageScroller{page: page}, opts.Pagination, sleepContext); err != nil {
		return "", eris.Wrapf(ErrNavigation, "pagination: %v", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", eris.Wrapf(ErrNavigation, "read HTML: %v", err)
	}
	return html, nil
}

// Close shuts the browser down and removes its profile directory. The
// process is killed if the CDP close does not go through.
func (r *rodBrowser) Close() error {
	err := r.browser.Close()
	if err != nil {
		r.launcher.Kill()
	}
	r.launcher.Cleanup()
	return err
}

type pageScroller struct {
	page *rod.Page
}

func (s pageScroller) Height() (int, error) {
	res, err := s.page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

func (s pageScroller) ScrollToBottom() error {
	_, err := s.page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return err
}
