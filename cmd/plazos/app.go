package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/deadline"
	"github.com/tartampluch/go-plazos/internal/docket"
	"github.com/tartampluch/go-plazos/internal/engine"
	"github.com/tartampluch/go-plazos/internal/i18n"
	"github.com/tartampluch/go-plazos/internal/storage"
)

// app carries the state shared by every command of one invocation.
type app struct {
	out       io.Writer
	errOut    io.Writer
	logToFile bool

	// Global flags
	configPath  string
	dbPath      string
	lang        string
	debug       bool
	showVersion bool

	// --today, registered per command
	todayRaw string

	settings  config.Settings
	tr        *i18n.Translator
	db        *sql.DB
	logCloser io.Closer
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   config.BinaryName,
		Short: "Chilean legal deadline calculator",
		Long: `plazos computes procedural due dates under Chilean law.

Terms are counted in calendar days (corrido), business days (habil) or
judicial days (judicial, Saturdays count) against the national holiday
table. Deadlines can be kept in a local docket and published as an
iCalendar feed.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.showVersion {
				printVersion(a.out)
				return nil
			}
			return cmd.Help()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, config.FlagConfig, config.SettingsFileName, config.FlagDescConfig)
	f.StringVar(&a.dbPath, config.FlagDB, "", config.FlagDescDB)
	f.StringVar(&a.lang, config.FlagLang, "", config.FlagDescLang)
	f.BoolVar(&a.debug, config.FlagDebug, false, config.FlagDescDebug)
	root.Flags().BoolVar(&a.showVersion, config.FlagVersion, false, config.FlagDescVersion)

	root.AddCommand(
		newDueCmd(a),
		newStatusCmd(a),
		newTermsCmd(a),
		newHolidaysCmd(a),
		newDeadlineCmd(a),
		newFeedCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup configures logging, settings and translations before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.showVersion {
		return nil
	}

	a.logCloser = setupLogging(a.errOut, a.logToFile, a.debug, cmd.Name() == cmdServe)
	logStartupInfo()

	s, err := config.LoadSettings(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		s.DatabasePath = a.dbPath
	}
	if a.lang != "" {
		s.Language = a.lang
	}
	a.settings = s
	a.tr = i18n.New(s.Language)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close() // Best effort close
		a.logCloser = nil
	}
}

// database opens the SQLite file on first use.
func (a *app) database(ctx context.Context) (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := storage.Open(ctx, a.settings.DatabasePath)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

// calendar assembles the holiday table: seed, generated years, settings
// adjustments, then the overrides stored in the database.
func (a *app) calendar(ctx context.Context) (*calendar.Calendar, error) {
	cs := a.settings.Calendar

	var cal *calendar.Calendar
	if cs.DisableSeeding {
		cal = calendar.New()
	} else {
		cal = calendar.NewChilean()
	}

	if _, err := cal.ExtendYears(cs.GenerateYears...); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCalendarSetup, err)
	}
	for _, e := range cs.ExtraHolidays {
		d, err := calendar.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrCalendarSetup, err)
		}
		cal.AddHoliday(d, e.Name)
	}
	for _, raw := range cs.RemovedDates {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrCalendarSetup, err)
		}
		cal.RemoveHoliday(d)
	}

	db, err := a.database(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := storage.NewHolidayStore(db).ApplyTo(ctx, cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCalendarSetup, err)
	}
	return cal, nil
}

// service wires the docket to the database and cal.
func (a *app) service(ctx context.Context, cal *calendar.Calendar) (*docket.Service, error) {
	db, err := a.database(ctx)
	if err != nil {
		return nil, err
	}
	return docket.NewService(storage.NewDeadlineStore(db), deadline.NewCalculator(cal), engine.RealClock{}), nil
}

// recompute refreshes stored due dates after the holiday table changed.
func (a *app) recompute(ctx context.Context) error {
	cal, err := a.calendar(ctx)
	if err != nil {
		return err
	}
	svc, err := a.service(ctx, cal)
	if err != nil {
		return err
	}
	n, err := svc.Recompute(ctx)
	if err != nil {
		return err
	}
	slog.Debug(config.MsgRecomputed,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyCount, n,
	)
	return nil
}

// generator builds a feed generator with localized summaries.
func (a *app) generator(clock engine.Clock) *engine.Generator {
	return &engine.Generator{
		Clock:           clock,
		Fetcher:         engine.NewHTTPFetcher(),
		ReminderTrigger: a.settings.ReminderTrigger,
		FormatHoliday:   a.tr.HolidaySummary,
		FormatDeadline:  a.tr.DeadlineSummary,
	}
}

// addTodayFlag registers --today on cmd.
func (a *app) addTodayFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.todayRaw, config.FlagToday, "", config.FlagDescToday)
}

// today is the --today date, or the current local date.
func (a *app) today() (time.Time, error) {
	if a.todayRaw == "" {
		return engine.Today(engine.RealClock{}), nil
	}
	return calendar.ParseDate(a.todayRaw)
}

// clock pins the feed clock to --today when it is set.
func (a *app) clock() (engine.Clock, error) {
	if a.todayRaw == "" {
		return engine.RealClock{}, nil
	}
	t, err := calendar.ParseDate(a.todayRaw)
	if err != nil {
		return nil, err
	}
	return fixedClock(t), nil
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// resolveTerm returns the day count and mode for a term. A named proceeding
// supplies the statutory values unless the caller set them explicitly.
func resolveTerm(term string, days int, daysSet bool, mode string, modeSet bool) (int, deadline.Mode, error) {
	m, err := deadline.ParseMode(mode)
	if err != nil {
		return 0, 0, err
	}
	if term == "" {
		return days, m, nil
	}

	t, ok := deadline.LookupTerm(deadline.Proceeding(term))
	if !ok {
		return 0, 0, fmt.Errorf("%s: %q", config.ErrUnknownTerm, term)
	}
	if daysSet {
		return days, m, nil
	}
	n, fixed := t.Days()
	if !fixed {
		return 0, 0, fmt.Errorf("%s: %s", config.ErrNoFixedTerm, term)
	}
	if !modeSet {
		m = t.Mode
	}
	return n, m, nil
}

// validKind reports whether kind is an accepted holiday kind.
func validKind(kind string) error {
	if !slices.Contains(config.HolidayKinds, kind) {
		return fmt.Errorf("%s: %q", config.ErrInvalidKind, kind)
	}
	return nil
}
