package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/engine"
	"github.com/tartampluch/go-plazos/internal/storage"
)

func newHolidaysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "holidays",
		Aliases: []string{"feriados"},
		Short:   "Inspect and maintain the holiday table",
	}
	cmd.AddCommand(
		newHolidaysListCmd(a),
		newHolidaysNextCmd(a),
		newHolidaysAddCmd(a),
		newHolidaysRemoveCmd(a),
		newHolidaysResetCmd(a),
		newHolidaysImportCmd(a),
		newHolidaysGenerateCmd(a),
	)
	return cmd
}

func newHolidaysListCmd(a *app) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the holidays of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(config.FlagYear) {
				today, err := a.today()
				if err != nil {
					return err
				}
				year = today.Year()
			}
			cal, err := a.calendar(cmd.Context())
			if err != nil {
				return err
			}
			printHolidays(a, year, cal.HolidaysInYear(year))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, config.FlagYear, 0, config.FlagDescYear)
	a.addTodayFlag(cmd)
	return cmd
}

func printHolidays(a *app, year int, hs []calendar.Holiday) {
	fmt.Fprintln(a.out, a.tr.Tf(config.TKeyLblHolidays, map[string]any{"Year": year}))
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	for _, h := range hs {
		fmt.Fprintf(w, config.FormatHolidayRow, calendar.FormatDate(h.Date), h.Name)
	}
	_ = w.Flush()
}

func newHolidaysNextCmd(a *app) *cobra.Command {
	var from, name string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next holiday on or after a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := a.today()
			if err != nil {
				return err
			}
			if from != "" {
				if start, err = calendar.ParseDate(from); err != nil {
					return err
				}
			}
			cal, err := a.calendar(cmd.Context())
			if err != nil {
				return err
			}

			days, ok := cal.DaysUntilHoliday(start, name)
			if !ok {
				fmt.Fprintln(a.out, a.tr.T(config.TKeyLblNoHoliday))
				return nil
			}
			date := calendar.AddDays(start, days)
			label, _ := cal.HolidayName(date)
			fmt.Fprintf(a.out, config.FormatNextHoliday,
				a.tr.T(config.TKeyLblNextHoliday), calendar.FormatDate(date), label, days)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, config.FlagFrom, "", config.FlagDescFrom)
	cmd.Flags().StringVar(&name, config.FlagName, "", config.FlagDescName)
	a.addTodayFlag(cmd)
	return cmd
}

func newHolidaysAddCmd(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:     "add DATE NAME...",
		Short:   "Add or rename a holiday",
		Example: `  plazos holidays add 2025-06-20 "Día Nacional de los Pueblos Indígenas"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			if err := validKind(kind); err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")

			o := storage.Override{Date: date, Name: name, Kind: kind, Active: true}
			if err := a.saveOverride(cmd.Context(), o); err != nil {
				return err
			}
			slog.Info(config.MsgHolidayAdded,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyDate, calendar.FormatDate(date),
				config.LogKeyName, name,
			)
			fmt.Fprintln(a.out, a.tr.T(config.TKeyLblSaved))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, config.FlagKind, config.HolidayKindNational, config.FlagDescKind)
	return cmd
}

func newHolidaysRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove DATE",
		Short: "Remove a holiday from the table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			cal, err := a.calendar(cmd.Context())
			if err != nil {
				return err
			}
			name, _ := cal.HolidayName(date)

			// Seeded dates can only be hidden, so removal is stored as an inactive override.
			o := storage.Override{Date: date, Name: name, Active: false}
			if err := a.saveOverride(cmd.Context(), o); err != nil {
				return err
			}
			slog.Info(config.MsgHolidayRemoved,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyDate, calendar.FormatDate(date),
			)
			fmt.Fprintln(a.out, a.tr.T(config.TKeyLblDeleted))
			return nil
		},
	}
}

func newHolidaysResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset DATE",
		Short: "Forget a stored add or remove for a date",
		Long: `Reset drops the override stored for DATE by "holidays add", "holidays
remove" or "holidays import", so the date falls back to the seeded table and
the settings file. Dates without an override are left as they are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			db, err := a.database(ctx)
			if err != nil {
				return err
			}
			if err := storage.NewHolidayStore(db).Delete(ctx, date); err != nil {
				return err
			}
			if err := a.recompute(ctx); err != nil {
				return err
			}
			slog.Info(config.MsgHolidayReset,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyDate, calendar.FormatDate(date),
			)
			fmt.Fprintln(a.out, a.tr.T(config.TKeyLblReset))
			return nil
		},
	}
}

// saveOverride persists o and refreshes the stored due dates.
func (a *app) saveOverride(ctx context.Context, o storage.Override) error {
	db, err := a.database(ctx)
	if err != nil {
		return err
	}
	if err := storage.NewHolidayStore(db).Save(ctx, o); err != nil {
		return err
	}
	return a.recompute(ctx)
}

func newHolidaysImportCmd(a *app) *cobra.Command {
	var file, url, user, kind string
	var savePass bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import holidays from an iCalendar file or feed",
		Long: `Import reads every VEVENT of an .ics source and stores its date and
summary as a holiday. Without --file or --url the import section of the
settings file is used.

The feed password is read from ` + config.EnvFeedPassword + ` when it is set, and
otherwise from the system keyring entry of the feed user. Pass --save-password
once with ` + config.EnvFeedPassword + ` set to store it in the keyring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := validKind(kind); err != nil {
				return err
			}

			src := engine.SourceConfig{
				Mode:      a.settings.Import.Mode,
				LocalPath: a.settings.Import.LocalPath,
				WebURL:    a.settings.Import.WebURL,
				WebUser:   a.settings.Import.WebUser,
			}
			switch {
			case file != "":
				src = engine.SourceConfig{Mode: config.SourceModeLocal, LocalPath: file}
			case url != "":
				src = engine.SourceConfig{Mode: config.SourceModeWeb, WebURL: url, WebUser: user}
			}
			if savePass {
				if src.WebUser == "" {
					return errors.New(config.ErrKeyringUser)
				}
				if os.Getenv(config.EnvFeedPassword) == "" {
					return errors.New(config.ErrKeyringPass)
				}
			}
			src.WebPass = feedPassword(src.WebUser)

			imported := calendar.New()
			if _, err := a.generator(engine.RealClock{}).ImportHolidays(ctx, src, imported); err != nil {
				return err
			}
			// Only a password the source accepted is kept.
			if savePass {
				if err := saveFeedPassword(src.WebUser, os.Getenv(config.EnvFeedPassword)); err != nil {
					return err
				}
			}

			db, err := a.database(ctx)
			if err != nil {
				return err
			}
			store := storage.NewHolidayStore(db)
			holidays := imported.Holidays()
			for _, h := range holidays {
				if err := store.Save(ctx, storage.Override{Date: h.Date, Name: h.Name, Kind: kind, Active: true}); err != nil {
					return err
				}
			}
			if err := a.recompute(ctx); err != nil {
				return err
			}

			fmt.Fprintln(a.out, a.tr.Tf(config.TKeyLblImported, map[string]any{"Count": len(holidays)}))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, config.FlagFile, "", config.FlagDescFile)
	f.StringVar(&url, config.FlagURL, "", config.FlagDescURL)
	f.StringVar(&user, config.FlagUser, "", config.FlagDescUser)
	f.StringVar(&kind, config.FlagKind, config.HolidayKindNational, config.FlagDescKind)
	f.BoolVar(&savePass, config.FlagSavePass, false, config.FlagDescSavePass)
	cmd.MarkFlagsMutuallyExclusive(config.FlagFile, config.FlagURL)
	return cmd
}

func newHolidaysGenerateCmd(a *app) *cobra.Command {
	var years []int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Expand the holiday rules for years missing from the table",
		Long: `Generate prints the nominal holidays produced by the fixed-date and
Easter rules. Moved holidays are not predicted; add them with
"holidays add" once they are published, or list the years under
calendar.generate_years in the settings file.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(years) == 0 {
				today, err := a.today()
				if err != nil {
					return err
				}
				years = []int{today.Year() + 1}
			}
			for _, y := range years {
				hs, err := calendar.GenerateYear(y, calendar.ChileanRules(), calendar.ChileanEasterRules())
				if err != nil {
					return err
				}
				printHolidays(a, y, hs)
			}
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&years, config.FlagYears, nil, config.FlagDescYears)
	a.addTodayFlag(cmd)
	return cmd
}
