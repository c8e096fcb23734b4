// Package i18n translates user-facing strings (CLI headings, status labels,
// feed summaries) from embedded go-i18n message files.
package i18n

import (
	"embed"
	"log/slog"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/deadline"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message IDs for one language. Unknown IDs resolve to themselves.
type Translator struct {
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	lang      string
	langs     []string
}

// New loads every embedded locale and selects lang (falling back to
// config.DefaultLanguage when empty or unsupported).
func New(lang string) *Translator {
	bundle := goi18n.NewBundle(language.Spanish)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.langs = append(t.langs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active language.
func (t *Translator) SetLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !slices.Contains(t.langs, lang) {
		lang = config.DefaultLanguage
	}
	t.lang = lang
	t.localizer = goi18n.NewLocalizer(t.bundle, lang)
}

// Language returns the active language code.
func (t *Translator) Language() string {
	return t.lang
}

// Languages lists the loaded locale codes.
func (t *Translator) Languages() []string {
	return slices.Clone(t.langs)
}

// T translates key.
func (t *Translator) T(key string) string {
	return t.Tf(key, nil)
}

// Tf translates key, filling the template with data.
func (t *Translator) Tf(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Mode returns the localized name of a counting mode.
func (t *Translator) Mode(m deadline.Mode) string {
	switch m {
	case deadline.Calendar:
		return t.T(config.TKeyModeCalendar)
	case deadline.Business:
		return t.T(config.TKeyModeBusiness)
	case deadline.Judicial:
		return t.T(config.TKeyModeJudicial)
	}
	return m.String()
}

// Status returns the localized label of an urgency bucket.
func (t *Translator) Status(s deadline.Status) string {
	switch s {
	case deadline.StatusOverdue:
		return t.T(config.TKeyStatusOverdue)
	case deadline.StatusDueToday:
		return t.T(config.TKeyStatusToday)
	case deadline.StatusCritical:
		return t.T(config.TKeyStatusCritical)
	case deadline.StatusWarning:
		return t.T(config.TKeyStatusWarning)
	}
	return t.T(config.TKeyStatusNormal)
}

// HolidaySummary is the feed summary for a holiday event.
func (t *Translator) HolidaySummary(name string) string {
	return t.Tf(config.TKeyEvtHoliday, map[string]any{"Name": name})
}

// DeadlineSummary is the feed summary for a deadline event.
func (t *Translator) DeadlineSummary(title, caseRef string) string {
	return t.Tf(config.TKeyEvtDeadline, map[string]any{"Title": title, "Case": caseRef})
}
