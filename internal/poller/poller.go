package poller

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avoronin/shopsync/internal/logging"
	"github.com/avoronin/shopsync/internal/store"
)

// Dashboard refreshes the three admin read models on a fixed interval, the
// way the back-office dashboard polls. Ticks fire regardless of whether the
// previous refresh finished, so overlapping requests are possible; in-flight
// calls of a superseded tick are not cancelled.
type Dashboard struct {
	Products *store.AdminProducts
	Orders   *store.AdminOrders
	Users    *store.AdminUsers
	Interval time.Duration
}

const DefaultInterval = 30 * time.Second

// Run refreshes once immediately, then on every tick until ctx is done.
func (d *Dashboard) Run(ctx context.Context) {
	interval := d.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	d.refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go d.refresh(ctx)
		}
	}
}

// refresh runs the three fetches concurrently and joins them. A failing
// fetch stays contained to its container and does not cancel its siblings.
func (d *Dashboard) refresh(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { return d.Products.FetchAll(ctx) })
	g.Go(func() error { return d.Orders.FetchAll(ctx) })
	g.Go(func() error { return d.Users.FetchAll(ctx) })

	if err := g.Wait(); err != nil {
		logging.FromContext(ctx).Warn("dashboard_refresh_failed", "error", err)
		return
	}
	logging.FromContext(ctx).Debug("dashboard_refresh_ok")
}
