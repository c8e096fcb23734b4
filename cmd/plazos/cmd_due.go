package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/deadline"
)

func newDueCmd(a *app) *cobra.Command {
	var (
		start      string
		days       int
		mode       string
		suspension int
		term       string
	)

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Compute the due date of a term",
		Example: `  plazos due --start 2025-01-06 --days 10 --mode habil
  plazos due --start 2025-09-15 --term civil_appeal
  plazos due --start 2025-01-06 --days 5 --suspension 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			n, m, err := resolveTerm(term, days, flags.Changed(config.FlagDays), mode, flags.Changed(config.FlagMode))
			if err != nil {
				return err
			}
			startDate, err := calendar.ParseDate(start)
			if err != nil {
				return err
			}
			req := deadline.Request{Start: startDate, Days: n, Mode: m}
			if flags.Changed(config.FlagSuspend) {
				req.Suspended = true
				req.SuspensionDays = suspension
			}

			today, err := a.today()
			if err != nil {
				return err
			}
			cal, err := a.calendar(cmd.Context())
			if err != nil {
				return err
			}
			due, err := deadline.NewCalculator(cal).Compute(req)
			if err != nil {
				return err
			}

			slog.Debug(config.MsgDueComputed,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyStart, calendar.FormatDate(req.Start),
				config.LogKeyMode, req.Mode.String(),
				config.LogKeyEffective, req.EffectiveDays(),
				config.LogKeyDue, calendar.FormatDate(due),
			)

			fmt.Fprintf(a.out, config.FormatDueLine,
				a.tr.T(config.TKeyLblDueDate), calendar.FormatDate(due), req.EffectiveDays(), a.tr.Mode(req.Mode))
			printStatus(a, due, today)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&start, config.FlagStart, "", config.FlagDescStart)
	f.IntVar(&days, config.FlagDays, 0, config.FlagDescDays)
	f.StringVar(&mode, config.FlagMode, config.ModeBusiness, config.FlagDescMode)
	f.IntVar(&suspension, config.FlagSuspend, 0, config.FlagDescSuspend)
	f.StringVar(&term, config.FlagTerm, "", config.FlagDescTerm)
	a.addTodayFlag(cmd)
	_ = cmd.MarkFlagRequired(config.FlagStart)
	cmd.MarkFlagsOneRequired(config.FlagDays, config.FlagTerm)
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show days remaining and urgency for a due date",
		Example: "  plazos status --due 2025-01-20 --today 2025-01-15",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := calendar.ParseDate(due)
			if err != nil {
				return err
			}
			today, err := a.today()
			if err != nil {
				return err
			}
			printStatus(a, d, today)
			return nil
		},
	}

	cmd.Flags().StringVar(&due, config.FlagDue, "", config.FlagDescDue)
	a.addTodayFlag(cmd)
	_ = cmd.MarkFlagRequired(config.FlagDue)
	return cmd
}

func printStatus(a *app, due, today time.Time) {
	fmt.Fprintf(a.out, config.FormatStatusLine,
		a.tr.T(config.TKeyLblDaysLeft), deadline.DaysRemaining(due, today), a.tr.Status(deadline.Classify(due, today)))
}

func newTermsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "List the statutory terms of special proceedings",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, t := range deadline.Terms() {
				length := a.tr.T(config.TKeyLblNoFixedTerm)
				if n, ok := t.Days(); ok {
					length = fmt.Sprintf(config.FormatTermDays, n, a.tr.Mode(t.Mode))
				}
				fmt.Fprintf(w, config.FormatTermRow, t.Proceeding, length, t.Description)
			}
			return w.Flush()
		},
	}
}
