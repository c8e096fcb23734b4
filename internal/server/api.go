package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/deadline"
	"github.com/tartampluch/go-plazos/internal/engine"
)

type holidayJSON struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type holidaysResponse struct {
	Year     int           `json:"year"`
	Holidays []holidayJSON `json:"holidays"`
}

type dueResponse struct {
	Start          string          `json:"start"`
	Days           int             `json:"days"`
	Mode           deadline.Mode   `json:"mode"`
	Suspended      bool            `json:"suspended"`
	SuspensionDays int             `json:"suspension_days"`
	EffectiveDays  int             `json:"effective_days"`
	Due            string          `json:"due"`
	Today          string          `json:"today"`
	DaysRemaining  int             `json:"days_remaining"`
	Status         deadline.Status `json:"status"`
}

type upcomingJSON struct {
	ID            string          `json:"id"`
	Case          string          `json:"case,omitempty"`
	Title         string          `json:"title"`
	Mode          deadline.Mode   `json:"mode"`
	Due           string          `json:"due"`
	DaysRemaining int             `json:"days_remaining"`
	Status        deadline.Status `json:"status"`
}

type upcomingResponse struct {
	Today     string         `json:"today"`
	Within    int            `json:"within"`
	Deadlines []upcomingJSON `json:"deadlines"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleHolidays lists the holidays of ?year= (default: the current year).
func (s *FeedServer) handleHolidays(w http.ResponseWriter, r *http.Request) {
	year := engine.Today(s.clock).Year()
	if raw := r.URL.Query().Get(config.QueryYear); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			s.badRequest(w, r, fmt.Errorf("%s: %q", config.ErrYearParse, raw))
			return
		}
		year = y
	}

	resp := holidaysResponse{Year: year, Holidays: []holidayJSON{}}
	s.ReadCalendar(func(cal *calendar.Calendar) {
		for _, h := range cal.HolidaysInYear(year) {
			resp.Holidays = append(resp.Holidays, holidayJSON{Date: calendar.FormatDate(h.Date), Name: h.Name})
		}
	})
	writeJSON(w, r, http.StatusOK, resp)
}

// handleDue computes a due date from ?start=&days=&mode=[&suspension=][&today=].
func (s *FeedServer) handleDue(w http.ResponseWriter, r *http.Request) {
	req, today, err := s.parseDueQuery(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	// One read lock per computation: every day is counted against the same table.
	var due time.Time
	s.ReadCalendar(func(cal *calendar.Calendar) {
		due, err = deadline.NewCalculator(cal).Compute(req)
	})
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dueResponse{
		Start:          calendar.FormatDate(req.Start),
		Days:           req.Days,
		Mode:           req.Mode,
		Suspended:      req.Suspended,
		SuspensionDays: req.SuspensionDays,
		EffectiveDays:  req.EffectiveDays(),
		Due:            calendar.FormatDate(due),
		Today:          calendar.FormatDate(today),
		DaysRemaining:  deadline.DaysRemaining(due, today),
		Status:         deadline.Classify(due, today),
	})
}

// handleUpcoming lists the open deadlines due within ?within= days of ?today=.
func (s *FeedServer) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	if s.Docket == nil {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	within := s.UpcomingWindow
	if within <= 0 {
		within = config.DefaultUpcomingWindow
	}
	if raw := q.Get(config.QueryWithin); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.badRequest(w, r, fmt.Errorf("%s: %q", config.ErrDaysParse, raw))
			return
		}
		within = n
	}
	today := engine.Today(s.clock)
	if raw := q.Get(config.QueryToday); raw != "" {
		var err error
		if today, err = calendar.ParseDate(raw); err != nil {
			s.badRequest(w, r, err)
			return
		}
	}

	records, err := s.Docket.Upcoming(r.Context(), today, within)
	if err != nil {
		slog.Error(config.ErrDBQuery,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: config.ErrDBQuery})
		return
	}

	resp := upcomingResponse{Today: calendar.FormatDate(today), Within: within, Deadlines: []upcomingJSON{}}
	for _, rec := range records {
		resp.Deadlines = append(resp.Deadlines, upcomingJSON{
			ID:            rec.ID,
			Case:          rec.Case,
			Title:         rec.Title,
			Mode:          rec.Mode,
			Due:           calendar.FormatDate(rec.Due),
			DaysRemaining: deadline.DaysRemaining(rec.Due, today),
			Status:        deadline.Classify(rec.Due, today),
		})
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *FeedServer) parseDueQuery(r *http.Request) (deadline.Request, time.Time, error) {
	q := r.URL.Query()
	var req deadline.Request

	for _, name := range []string{config.QueryStart, config.QueryDays, config.QueryMode} {
		if q.Get(name) == "" {
			return req, time.Time{}, fmt.Errorf("%s: %s", config.ErrMissingParameter, name)
		}
	}

	start, err := calendar.ParseDate(q.Get(config.QueryStart))
	if err != nil {
		return req, time.Time{}, err
	}
	days, err := strconv.Atoi(q.Get(config.QueryDays))
	if err != nil {
		return req, time.Time{}, fmt.Errorf("%s: %q", config.ErrDaysParse, q.Get(config.QueryDays))
	}
	mode, err := deadline.ParseMode(q.Get(config.QueryMode))
	if err != nil {
		return req, time.Time{}, err
	}
	req = deadline.Request{Start: start, Days: days, Mode: mode}

	if raw := q.Get(config.QuerySuspension); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, time.Time{}, fmt.Errorf("%s: %q", config.ErrDaysParse, raw)
		}
		req.Suspended = true
		req.SuspensionDays = n
	}

	today := engine.Today(s.clock)
	if raw := q.Get(config.QueryToday); raw != "" {
		if today, err = calendar.ParseDate(raw); err != nil {
			return req, time.Time{}, err
		}
	}
	return req, today, nil
}

func (s *FeedServer) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.Debug(config.MsgBadRequest,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyURL, r.URL.Path,
		config.LogKeyError, err,
	)
	writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
