package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for holiday feed imports.
var UserAgent = "Go-Plazos/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Plazos"
	AppID             = "com.github.tartampluch.go-plazos"
	KeyringService    = AppID
	BinaryName        = "plazos"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "plazos.log"
	SettingsFileName  = "plazos.yaml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion  = "version"
	FlagDebug    = "debug"
	FlagConfig   = "config"
	FlagDB       = "db"
	FlagLang     = "lang"
	FlagToday    = "today"
	FlagStart    = "start"
	FlagDays     = "days"
	FlagMode     = "mode"
	FlagSuspend  = "suspension"
	FlagDue      = "due"
	FlagYear     = "year"
	FlagFrom     = "from"
	FlagName     = "name"
	FlagFile     = "file"
	FlagURL      = "url"
	FlagUser     = "user"
	FlagCase     = "case"
	FlagTitle    = "title"
	FlagNotes    = "notes"
	FlagWithin   = "within"
	FlagPort     = "port"
	FlagOutput   = "output"
	FlagYears    = "years"
	FlagKind     = "kind"
	FlagTerm     = "term"
	FlagSavePass = "save-password"

	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging"
	FlagDescConfig   = "Path to the YAML settings file"
	FlagDescDB       = "Path to the SQLite database (overrides settings)"
	FlagDescLang     = "Output language (es, en)"
	FlagDescToday    = "Reference date (YYYY-MM-DD); defaults to the current date"
	FlagDescStart    = "Start date of the term (YYYY-MM-DD)"
	FlagDescDays     = "Length of the term in days"
	FlagDescMode     = "Counting mode: corrido, habil or judicial"
	FlagDescSuspend  = "Suspension days added back to the term"
	FlagDescDue      = "Due date (YYYY-MM-DD)"
	FlagDescYear     = "Calendar year"
	FlagDescFrom     = "Search from this date (YYYY-MM-DD); defaults to today"
	FlagDescName     = "Holiday name"
	FlagDescFile     = "Local .ics file"
	FlagDescURL      = "Remote .ics feed URL"
	FlagDescUser     = "HTTP Basic Auth user for the feed URL"
	FlagDescCase     = "Case reference the deadline belongs to"
	FlagDescTitle    = "Deadline title"
	FlagDescNotes    = "Free-form notes"
	FlagDescWithin   = "Window in days for upcoming deadlines"
	FlagDescPort     = "HTTP port (overrides settings)"
	FlagDescOutput   = "Write the feed to this file instead of stdout"
	FlagDescYears    = "Years to generate from the holiday rules"
	FlagDescKind     = "Holiday kind: nacional, regional, religioso, administrativo"
	FlagDescTerm     = "Proceeding from the special terms catalog (e.g. civil_appeal)"
	FlagDescSavePass = "Store the " + EnvFeedPassword + " password in the system keyring for --user"

	MsgVersionOutput = "%s version %s (%s/%s)\n"

	// CLI output layouts.
	FormatDueLine     = "%s: %s (%d %s)\n"
	FormatStatusLine  = "%s: %d (%s)\n"
	FormatHolidayRow  = "%s\t%s\n"
	FormatNextHoliday = "%s: %s %s (%d)\n"
	FormatTermRow     = "%s\t%s\t%s\n"
	FormatTermDays    = "%d %s"
	FormatRecordRow   = "%s\t%s\t%d\t%s\t%s\n"
	FormatRecordTitle = "%s (%s)"
	FormatSuspended   = "%s [%s]"

	// EnvFeedPassword holds the HTTP Basic Auth password for feed imports.
	// When set it takes precedence over the keyring.
	EnvFeedPassword = "PLAZOS_FEED_PASSWORD"
)

// -----------------------------------------------------------------------------
// Deadline Counting Rules
// -----------------------------------------------------------------------------

const (
	// Counting mode wire names, as stored and accepted on the CLI.
	ModeCalendar = "corrido"
	ModeBusiness = "habil"
	ModeJudicial = "judicial"

	// English aliases accepted by the mode parser.
	ModeCalendarAlias = "calendar"
	ModeBusinessAlias = "business"

	// Status buckets (days remaining, inclusive upper bounds).
	CriticalThresholdDays = 3
	WarningThresholdDays  = 7

	StatusOverdue  = "vencido"
	StatusDueToday = "hoy"
	StatusCritical = "critico"
	StatusWarning  = "alerta"
	StatusNormal   = "normal"

	// Statutory default for family-law claims (art. 55 LPF).
	DefaultFamilyClaimDays = 30

	// DefaultUpcomingWindow is the look-ahead used for "upcoming deadlines".
	DefaultUpcomingWindow = 7

	// MaxTermDays bounds the effective day count of one term (about a century).
	MaxTermDays = 36500
)

// Holiday kinds stored with overrides.
const (
	HolidayKindNational       = "nacional"
	HolidayKindRegional       = "regional"
	HolidayKindReligious      = "religioso"
	HolidayKindAdministrative = "administrativo"
)

// HolidayKinds lists the accepted override kinds.
var HolidayKinds = []string{HolidayKindNational, HolidayKindRegional, HolidayKindReligious, HolidayKindAdministrative}

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	SourceModeWeb      = "web"
	SourceModeLocal    = "local"
	DefaultPort        = "18090"
	DefaultLanguage    = "es"
	DefaultDBFile      = "plazos.db"
	DefaultReminder    = "-P1D"
	UIDSalt            = "go-plazos-v1-"
	DefaultFeedYearsBk = 1
	DefaultFeedYearsFw = 1
)

// SupportedLanguages lists the embedded locales (ISO 639-1).
var SupportedLanguages = []string{"es", "en"}

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Plazos//Engine//ES"
	ICalCalName   = "Plazos"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "goplazos"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropCategories  = "CATEGORIES"

	CategoryHoliday  = "FERIADO"
	CategoryDeadline = "PLAZO"

	DefaultICalRefresh = 12 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	DateFormat      = "2006-01-02"
	DateFormatBasic = "20060102"

	MinPort = 1
	MaxPort = 65535

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%s@%s"

	// MaxImportSpanDays caps how many days a single imported event may cover.
	MaxImportSpanDays = 31
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB, holiday feeds are small
	FeedRebuildInterval = time.Hour
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteFeed           = "/feed.ics"
	RouteHolidays       = "/api/holidays"
	RouteDue            = "/api/due"
	RouteUpcoming       = "/api/upcoming"
	AddrSeparator       = ":"

	QueryYear       = "year"
	QueryStart      = "start"
	QueryDays       = "days"
	QueryMode       = "mode"
	QuerySuspension = "suspension"
	QueryToday      = "today"
	QueryWithin     = "within"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidMode      = "unknown deadline mode"
	ErrInvalidArgument  = "invalid deadline argument"
	ErrNegativeDays     = "day count must not be negative"
	ErrNegativeSuspend  = "suspension day count must not be negative"
	ErrTermTooLong      = "effective day count exceeds the maximum term"
	ErrRecordNotFound   = "deadline record not found"
	ErrRecordInvalid    = "deadline record is invalid"
	ErrEmptyTitle       = "deadline title cannot be empty"
	ErrEmptyStart       = "deadline start date cannot be zero"
	ErrDateParse        = "unable to parse date"
	ErrYearParse        = "unable to parse year"
	ErrDaysParse        = "unable to parse day count"
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrICalParse        = "failed to parse iCalendar stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrRuleExpand       = "failed to expand holiday rule"
	ErrSeedLoad         = "failed to load seed holiday table"
	ErrSettingsRead     = "failed to read settings file"
	ErrSettingsParse    = "failed to parse settings file"
	ErrDBOpen           = "failed to open database"
	ErrDBMigrate        = "failed to migrate database"
	ErrDBQuery          = "database query failed"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrPortNumber       = "server port must be a number"
	ErrPortRange        = "server port must be between 1 and 65535"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrMissingParameter = "missing required parameter"
	ErrRequestBuild     = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
	ErrFeedWrite        = "failed to write feed"
	ErrCalendarSetup    = "failed to prepare holiday calendar"
	ErrInvalidKind      = "unknown holiday kind"
	ErrUnknownTerm      = "unknown proceeding"
	ErrNoFixedTerm      = "proceeding has no fixed statutory term, pass --days"
	ErrKeyringUser      = "a feed user is required to store its password"
	ErrKeyringPass      = "no password to store, set " + EnvFeedPassword
	ErrKeyringSave      = "failed to save credentials to keyring"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgSettingsMissing = "Settings file not found, using defaults"
	MsgSettingsLoaded  = "Settings loaded"
	MsgSeedLoaded      = "Seed holiday table loaded"
	MsgRulesExpanded   = "Holiday rules expanded"
	MsgOverridesApply  = "Holiday overrides applied"
	MsgHolidayAdded    = "Holiday added"
	MsgHolidayRemoved  = "Holiday removed"
	MsgHolidayReset    = "Holiday override reset"
	MsgPassFail        = "No feed password in keyring"
	MsgPassSaved       = "Feed password saved to keyring"
	MsgImportStarted   = "Holiday import started..."
	MsgImportSkipped   = "Skipping event without usable date"
	MsgImportDone      = "Holiday import finished"
	MsgFetchStart      = "Initiating holiday feed download"
	MsgFetchStatus     = "Server returned error status"
	MsgFetchBody       = "Holiday feed downloading"
	MsgFeedBuilt       = "Feed generation successful"
	MsgDueComputed     = "Due date computed"
	MsgRecordSaved     = "Deadline record saved"
	MsgRecordDeleted   = "Deadline record deleted"
	MsgDBReady         = "Database initialized"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Feed cache updated"
	MsgBadRequest      = "Rejected API request"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgFeedRefresh     = "Feed rebuilt"
	MsgRecomputed      = "Deadline records recomputed"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyModeCalendar   = "mode_calendar"
	TKeyModeBusiness   = "mode_business"
	TKeyModeJudicial   = "mode_judicial"
	TKeyStatusOverdue  = "status_overdue"
	TKeyStatusToday    = "status_today"
	TKeyStatusCritical = "status_critical"
	TKeyStatusWarning  = "status_warning"
	TKeyStatusNormal   = "status_normal"
	TKeyEvtHoliday     = "event_holiday"  // Requires Name
	TKeyEvtDeadline    = "event_deadline" // Requires Title, Case
	TKeyLblDueDate     = "lbl_due_date"
	TKeyLblDaysLeft    = "lbl_days_left"
	TKeyLblHolidays    = "lbl_holidays"
	TKeyLblNextHoliday = "lbl_next_holiday"
	TKeyLblNoHoliday   = "lbl_no_holiday"
	TKeyLblNoFixedTerm = "lbl_no_fixed_term"
	TKeyLblUpcoming    = "lbl_upcoming"
	TKeyLblNoUpcoming  = "lbl_no_upcoming"
	TKeyLblImported    = "lbl_imported"
	TKeyLblSaved       = "lbl_saved"
	TKeyLblDeleted     = "lbl_deleted"
	TKeyLblSuspended   = "lbl_suspended"
	TKeyLblNoDeadlines = "lbl_no_deadlines"
	TKeyLblReset       = "lbl_reset"
)

// -----------------------------------------------------------------------------
// Fallbacks
// -----------------------------------------------------------------------------

const (
	FallbackHolidaySummary  = "Feriado: %s"
	FallbackDeadlineSummary = "Vence plazo: %s"
	FallbackName            = "Sin nombre"

	// FormatDeadlineDesc renders case, days, mode and start date of a deadline event.
	FormatDeadlineDesc = "%s · %d días (%s) desde %s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyDate      = "date"
	LogKeyName      = "name"
	LogKeyUser      = "user"
	LogKeyStart     = "start"
	LogKeyDue       = "due"
	LogKeyEffective = "effective_days"
	LogKeyID        = "id"
	LogKeyCount     = "count"
	LogKeyYear      = "year"
	LogKeyPath      = "path"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyStats     = "stats"
	LogKeyHolidays  = "holidays"
	LogKeyDeadlines = "deadlines"
	LogKeySkipped   = "skipped"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"

	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompCalendar = "calendar"
	CompDeadline = "deadline"
	CompDocket   = "docket"
	CompEngine   = "engine"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompStorage  = "storage"
	CompConfig   = "config"
	CompMain     = "main"
	CompI18n     = "i18n"
)
