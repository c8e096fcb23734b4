package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/deadline"
	"github.com/tartampluch/go-plazos/internal/docket"
)

func newDeadlineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deadline",
		Aliases: []string{"plazo"},
		Short:   "Manage the deadline docket",
	}
	cmd.AddCommand(
		newDeadlineAddCmd(a),
		newDeadlineListCmd(a),
		newDeadlineUpcomingCmd(a),
		newDeadlineSuspendCmd(a),
		newDeadlineResumeCmd(a),
		newDeadlineNotifiedCmd(a),
		newDeadlineDeleteCmd(a),
	)
	return cmd
}

func newDeadlineAddCmd(a *app) *cobra.Command {
	var (
		d     docket.Draft
		start string
		mode  string
		term  string
	)

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Schedule a deadline",
		Example: `  plazos deadline add --title "Apelar sentencia" --case C-1234-2025 --start 2025-09-15 --term civil_appeal`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			days, m, err := resolveTerm(term, d.Days, flags.Changed(config.FlagDays), mode, flags.Changed(config.FlagMode))
			if err != nil {
				return err
			}
			if d.Start, err = calendar.ParseDate(start); err != nil {
				return err
			}
			d.Days, d.Mode, d.Proceeding = days, m, deadline.Proceeding(term)

			svc, err := a.docket(cmd)
			if err != nil {
				return err
			}
			r, err := svc.Schedule(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, r.ID)
			printDue(a, r)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&d.Title, config.FlagTitle, "", config.FlagDescTitle)
	f.StringVar(&d.Case, config.FlagCase, "", config.FlagDescCase)
	f.StringVar(&d.Notes, config.FlagNotes, "", config.FlagDescNotes)
	f.StringVar(&start, config.FlagStart, "", config.FlagDescStart)
	f.IntVar(&d.Days, config.FlagDays, 0, config.FlagDescDays)
	f.StringVar(&mode, config.FlagMode, config.ModeBusiness, config.FlagDescMode)
	f.StringVar(&term, config.FlagTerm, "", config.FlagDescTerm)
	_ = cmd.MarkFlagRequired(config.FlagTitle)
	_ = cmd.MarkFlagRequired(config.FlagStart)
	cmd.MarkFlagsOneRequired(config.FlagDays, config.FlagTerm)
	return cmd
}

func newDeadlineListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every scheduled deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			today, err := a.today()
			if err != nil {
				return err
			}
			svc, err := a.docket(cmd)
			if err != nil {
				return err
			}
			records, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(a.out, a.tr.T(config.TKeyLblNoDeadlines))
				return nil
			}
			return printRecords(a, a.out, records, today)
		},
	}
	a.addTodayFlag(cmd)
	return cmd
}

func newDeadlineUpcomingCmd(a *app) *cobra.Command {
	var within int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List deadlines falling due soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(config.FlagWithin) {
				within = a.settings.UpcomingWindow
			}
			today, err := a.today()
			if err != nil {
				return err
			}
			svc, err := a.docket(cmd)
			if err != nil {
				return err
			}
			records, err := svc.Upcoming(cmd.Context(), today, within)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(a.out, a.tr.T(config.TKeyLblNoUpcoming))
				return nil
			}
			fmt.Fprintln(a.out, a.tr.Tf(config.TKeyLblUpcoming, map[string]any{"Days": within}))
			return printRecords(a, a.out, records, today)
		},
	}

	cmd.Flags().IntVar(&within, config.FlagWithin, config.DefaultUpcomingWindow, config.FlagDescWithin)
	a.addTodayFlag(cmd)
	return cmd
}

func newDeadlineSuspendCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "suspend ID",
		Short: "Suspend a deadline, extending it by the suspended days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.docket(cmd)
			if err != nil {
				return err
			}
			r, err := svc.Suspend(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}
			printDue(a, r)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, config.FlagDays, 0, config.FlagDescSuspend)
	_ = cmd.MarkFlagRequired(config.FlagDays)
	return cmd
}

func newDeadlineResumeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resume ID",
		Short: "Lift the suspension of a deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.docket(cmd)
			if err != nil {
				return err
			}
			r, err := svc.Resume(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDue(a, r)
			return nil
		},
	}
}

func newDeadlineNotifiedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "notified ID",
		Short: "Record that the parties were notified of a deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.docket(cmd)
			if err != nil {
				return err
			}
			if _, err := svc.MarkNotified(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.tr.T(config.TKeyLblSaved))
			return nil
		},
	}
}

func newDeadlineDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a deadline",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.docket(cmd)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.tr.T(config.TKeyLblDeleted))
			return nil
		},
	}
}

// docket builds the service over the current holiday table.
func (a *app) docket(cmd *cobra.Command) (*docket.Service, error) {
	cal, err := a.calendar(cmd.Context())
	if err != nil {
		return nil, err
	}
	return a.service(cmd.Context(), cal)
}

func printDue(a *app, r docket.Record) {
	fmt.Fprintf(a.out, config.FormatDueLine,
		a.tr.T(config.TKeyLblDueDate), calendar.FormatDate(r.Due), r.Request().EffectiveDays(), a.tr.Mode(r.Mode))
}

func printRecords(a *app, out io.Writer, records []docket.Record, today time.Time) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range records {
		title := r.Title
		if r.Case != "" {
			title = fmt.Sprintf(config.FormatRecordTitle, r.Title, r.Case)
		}
		status := a.tr.Status(r.Status(today))
		if r.Suspended {
			status = fmt.Sprintf(config.FormatSuspended, status, a.tr.T(config.TKeyLblSuspended))
		}
		fmt.Fprintf(w, config.FormatRecordRow, r.ID, calendar.FormatDate(r.Due), r.DaysRemaining(today), status, title)
	}
	return w.Flush()
}
