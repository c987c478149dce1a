package scraper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/config"
)

type scroller interface {
	Height() (int, error)
	ScrollToBottom() error
}

type sleepFunc func(ctx context.Context, d time.Duration) error

// paginate triggers lazy loading according to p. Scroll mode keeps
// scrolling until the document height stops growing; none mode waits once.
func paginate(ctx context.Context, s scroller, p config.Pagination, sleep sleepFunc) error {
	if p.Mode == config.PaginationNone {
		return sleep(ctx, p.Settle)
	}

	n, err := scrollUntilStable(ctx, s, p.Pause, p.MaxScrolls, sleep)
	if err != nil {
		return err
	}
	logger().Debug("pagination finished", zap.Int("scrolls", n))
	return nil
}

// scrollUntilStable returns the number of scrolls performed. It stops once
// the height after a pause equals the height before the scroll, or after
// maxScrolls attempts.
func scrollUntilStable(ctx context.Context, s scroller, pause time.Duration, maxScrolls int, sleep sleepFunc) (int, error) {
	last, err := s.Height()
	if err != nil {
		return 0, err
	}

	for i := 0; i < maxScrolls; i++ {
		if err := s.ScrollToBottom(); err != nil {
			return i, err
		}
		if err := sleep(ctx, pause); err != nil {
			return i + 1, err
		}
		height, err := s.Height()
		if err != nil {
			return i + 1, err
		}
		if height == last {
			return i + 1, nil
		}
		last = height
	}

	logger().Warn("page still growing after max scrolls", zap.Int("max_scrolls", maxScrolls))
	return maxScrolls, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
