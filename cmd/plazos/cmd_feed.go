package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/docket"
	"github.com/tartampluch/go-plazos/internal/engine"
	"github.com/tartampluch/go-plazos/internal/server"
)

const cmdServe = "serve"

func newFeedCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Export holidays and deadlines as an iCalendar feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			clock, err := a.clock()
			if err != nil {
				return err
			}
			cal, err := a.calendar(ctx)
			if err != nil {
				return err
			}
			svc, err := a.service(ctx, cal)
			if err != nil {
				return err
			}
			records, err := svc.List(ctx)
			if err != nil {
				return err
			}
			data, err := a.generator(clock).BuildFeed(ctx, cal, records)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = a.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, config.FilePermUserRW); err != nil {
				return fmt.Errorf("%s: %w", config.ErrFeedWrite, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, config.FlagOutput, "o", "", config.FlagDescOutput)
	a.addTodayFlag(cmd)
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   cmdServe,
		Short: "Serve the feed and the JSON API over HTTP",
		Long: `Serve publishes the iCalendar feed at ` + config.RouteFeed + ` and a read-only
JSON API at ` + config.RouteHolidays + `, ` + config.RouteDue + ` and ` + config.RouteUpcoming + `. The
holiday table and the feed are rebuilt periodically so new deadlines and holiday
changes show up without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if port == "" {
				port = a.settings.Server.Port
			}
			if err := config.ValidatePort(port); err != nil {
				return err
			}

			cal, err := a.calendar(ctx)
			if err != nil {
				return err
			}
			svc, err := a.service(ctx, cal)
			if err != nil {
				return err
			}
			srv := server.NewFeedServer(port, cal, engine.RealClock{})
			srv.BindAddr = a.settings.Server.BindAddr
			srv.Docket = svc
			srv.UpcomingWindow = a.settings.UpcomingWindow
			p := &publisher{
				srv:    srv,
				docket: svc,
				build:  a.calendar,
				gen:    a.generator(engine.RealClock{}),
			}

			if err := p.refresh(ctx); err != nil {
				return err
			}
			go p.run(ctx, config.FeedRebuildInterval)

			if err := srv.Start(ctx); err != nil {
				return err
			}
			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}

	cmd.Flags().StringVar(&port, config.FlagPort, "", config.FlagDescPort)
	return cmd
}

// publisher keeps the served feed in step with the database.
type publisher struct {
	srv    *server.FeedServer
	docket *docket.Service
	build  func(context.Context) (*calendar.Calendar, error)
	gen    *engine.Generator
}

// run rebuilds the feed every interval until ctx is cancelled.
func (p *publisher) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.reload(ctx); err != nil {
				slog.Error(config.ErrCalendarSetup,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err,
				)
				continue
			}
			if err := p.refresh(ctx); err != nil {
				slog.Error(config.ErrICalEncode,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// reload rebuilds the holiday table and swaps it into the served calendar in
// one write, so overrides that were reset disappear as well.
func (p *publisher) reload(ctx context.Context) error {
	fresh, err := p.build(ctx)
	if err != nil {
		return err
	}
	p.srv.WithCalendar(func(cal *calendar.Calendar) {
		for _, h := range cal.Holidays() {
			cal.RemoveHoliday(h.Date)
		}
		for _, h := range fresh.Holidays() {
			cal.AddHoliday(h.Date, h.Name)
		}
	})
	return nil
}

// refresh renders the feed from the current calendar and docket.
func (p *publisher) refresh(ctx context.Context) error {
	records, err := p.docket.List(ctx)
	if err != nil {
		return err
	}

	var data []byte
	p.srv.ReadCalendar(func(cal *calendar.Calendar) {
		data, err = p.gen.BuildFeed(ctx, cal, records)
	})
	if err != nil {
		return err
	}

	p.srv.Update(data)
	slog.Debug(config.MsgFeedRefresh,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyDeadlines, len(records),
		config.LogKeySizeBytes, len(data),
	)
	return nil
}
