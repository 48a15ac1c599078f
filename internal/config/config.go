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

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Jubileum/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Jubileum"
	AppID             = "com.github.tartampluch.go-jubileum"
	CLIName           = "jubileum"
	KeyringService    = "com.github.tartampluch.go-jubileum"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
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
	// Used for logs and exported calendars.
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
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"

	// cobra (cmd/jubileum)
	CmdCalc         = "calc"
	CmdVersion      = "version"
	FlagPerson      = "person"
	FlagFile        = "file"
	FlagVCF         = "vcf"
	FlagICS         = "ics"
	FlagReminder    = "reminder"
	FlagShortPerson = "p"
	FlagShortFile   = "f"
	FlagDescPerson  = `participant as "Name=DD-MM-YYYY" (repeatable)`
	FlagDescFile    = "YAML group file with participants"
	FlagDescVCF     = "vCard file to import participants from"
	FlagDescICS     = "write the jubilee dates to this iCalendar file"
	FlagDescDebugC  = "enable debug logging to stderr"
	FlagDescRemind  = `alarm offset for --ics events as an ISO8601 duration, e.g. "-P1D"`
	CmdShortRoot    = "Compute shared jubilee dates for a group of people"
	CmdShortCalc    = "Calculate the jubilee dates of a group"
	CmdShortVersion = "Print version information"
	PersonSeparator = "="
)

// -----------------------------------------------------------------------------
// Jubilee Computation
// -----------------------------------------------------------------------------

const (
	// DaysInYear is the mean year length used for all age conversions.
	DaysInYear = 365.2524

	MilestoneStart = 50
	MilestoneStep  = 50
	MilestoneEnd   = 450 // exclusive

	// MaxAgeYears is the too-old guard: no participant may exceed it at a milestone.
	MaxAgeYears = 105

	// DayCountCorrection compensates for day zero counting as the first day of life.
	DayCountCorrection = 1

	AgeDecimals = 2
)

// -----------------------------------------------------------------------------
// Input Validation & Formats
// -----------------------------------------------------------------------------

const (
	// PatternName allows letters and spaces only, 2 to 26 characters.
	// Spaces include \v and the Unicode space separators, not just ASCII.
	PatternName = `^[A-Za-z\s\v\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]{2,26}$`

	// PatternDate is the DD-MM-YYYY shape checked before calendar validation.
	PatternDate = `^\d{2}-\d{2}-\d{4}$`

	// DateFormatInput is the Go layout for DD-MM-YYYY (input and output).
	DateFormatInput = "02-01-2006"

	AgeFormat          = "%.2f"
	AgeEntryFormat     = "%s: %s"
	AgeListSeparator   = ", "
	ResultLineFallback = "%d jaar op %s (%s)"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600
	MainWindowWidth     = 640
	MainWindowHeight    = 560

	// Preference Keys
	PrefCardDAVURL      = "carddav_url"
	PrefUsername        = "username"
	PrefServerPort      = "server_port"
	PrefSourceMode      = "source_mode"
	PrefLocalPath       = "local_path"
	PrefReminderEnabled = "reminder_enabled"
	PrefReminderValue   = "reminder_value"
	PrefReminderUnit    = "reminder_unit"
	PrefReminderDir     = "reminder_direction"
	PrefLastRun         = "last_run_version"
)

// -----------------------------------------------------------------------------
// UI Participant Table Constants
// -----------------------------------------------------------------------------

const (
	ColIDName      = 0
	ColIDBirthdate = 1
	TableColumns   = 2

	ColWidthName      = 300
	ColWidthBirthdate = 140

	TablePlaceholder = "Cell Content"
	ListPlaceholder  = "List Item"
	YoungestMarker   = " *"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle        = "win_title"
	TKeyWinSettings     = "win_settings_title"
	TKeyMenuOpen        = "menu_open"
	TKeyMenuImport      = "menu_import"
	TKeyMenuSettings    = "menu_settings"
	TKeyNotifImport     = "notif_import_success"
	TKeyNotifImportErr  = "notif_import_error"
	TKeyModeCardDAV     = "mode_carddav"
	TKeyModeLocal       = "mode_local"
	TKeyLblPort         = "lbl_server_port"
	TKeyHelpPort        = "help_port"
	TKeyLblGeneral      = "lbl_general"
	TKeyLblEnableRem    = "lbl_enable_reminders"
	TKeyUnitDays        = "unit_days"
	TKeyUnitHours       = "unit_hours"
	TKeyUnitMinutes     = "unit_minutes"
	TKeyDirBefore       = "dir_before"
	TKeyDirAfter        = "dir_after"
	TKeyLblNotif        = "lbl_notifications"
	TKeyBtnSave         = "btn_save"
	TKeyBtnCancel       = "btn_cancel"
	TKeyLblFooter       = "lbl_footer"
	TKeyBtnBrowse       = "btn_browse"
	TKeyLblURL          = "lbl_url"
	TKeyHelpURL         = "help_carddav_url"
	TKeyLblUser         = "lbl_user"
	TKeyLblPass         = "lbl_pass"
	TKeyLblSource       = "lbl_source"
	TKeyLblStartDay     = "lbl_start_of_day"
	TKeyEvtSummary      = "event_summary" // Requires Milestone
	TKeyResultLine      = "result_line"   // Requires Milestone, Date, Ages
	TKeyImportSummary   = "import_summary"
	TKeyColName         = "col_name"
	TKeyColBirthdate    = "col_birthdate"
	TKeyLblName         = "lbl_name"
	TKeyLblBirthdate    = "lbl_birthdate"
	TKeyHintBirthdate   = "hint_birthdate"
	TKeyBtnAdd          = "btn_add"
	TKeyBtnReset        = "btn_reset"
	TKeyBtnCalculate    = "btn_calculate"
	TKeyBtnImport       = "btn_import"
	TKeyErrInvalidName  = "err_invalid_name"
	TKeyErrInvalidDate  = "err_invalid_date"
	TKeyErrEmpty        = "err_empty_registry"
	TKeyErrNoJubileum   = "err_no_jubileum"
	TKeyErrPortReq      = "err_port_required"
	TKeyErrPortNum      = "err_port_number"
	TKeyErrPortRange    = "err_port_range"
	TKeyErrUnexpected   = "err_unexpected"
	TKeyLblFeedLocation = "lbl_feed_location"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18081"
	DefaultLanguage      = "nl"
	DefaultReminderValue = 1
	UIDSalt              = "go-jubileum-v1-" // Salt for deterministic UID generation
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISOTime           = "T"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Jubileum//Engine//NL"
	ICalCalName   = "Jubilea"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gojubileum"

	// iCal/vCard Fields
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

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultICalRefresh = 24 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts accepted for vCard BDAY fields. A year is mandatory:
	// jubilees cannot be computed from --MM-DD birthdays.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%d|%s|%s|%s"
	FormatUID       = "%s-%d@%s"
	NameJoin        = "+"

	// File Extensions
	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ImportTimeout       = 2 * time.Minute
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteJSON           = "/jubilea.json"
	AddrSeparator       = ":"
	FeedURLFormat       = "http://%s:%s%s"
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
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidName      = "invalid name: letters and spaces only, 2 to 26 characters"
	ErrInvalidDate      = "invalid date: DD-MM-YYYY expected"
	ErrEmptyRegistry    = "no participants to calculate with"
	ErrNoJubileumFound  = "dates too far apart to compute jubilees"
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrJSONEncode       = "failed to encode results"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrPersonFlag       = `participant must be given as "Name=DD-MM-YYYY"`
	ErrGroupFile        = "failed to read group file"
	ErrWriteICS         = "failed to write calendar file"
	ErrImport           = "participant import failed"
	ErrRequestBuild     = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "No jubilees calculated yet, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "%d jaar samen"
	FallbackName       = "Onbekend"
	FallbackImportDone = "%d deelnemers toegevoegd, %d afgewezen"

	// StubVCalendar is the minimal valid iCalendar object used when no jubilee is found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	TitleImportError  = "Import Error"

	MsgPortBusy          = "Port %s is busy or unavailable."
	MsgParticipantAdded  = "Participant added"
	MsgParticipantReject = "Participant rejected"
	MsgRegistryReset     = "Participant list cleared"
	MsgYoungestChanged   = "Youngest participant changed"
	MsgSearchDone        = "Jubilee search finished"
	MsgMilestonePassed   = "Milestone already passed, skipping"
	MsgTooOld            = "Participant would exceed the age limit, stopping search"
	MsgImportStarted     = "Participant import started"
	MsgDownloading       = "Downloading address book"
	MsgBadStatus         = "Address book server returned error status"
	MsgImportReq         = "Import requested"
	MsgImportFailed      = "Participant import failed. Check logs."
	MsgAppStop           = "Application stopped gracefully"
	MsgCtxCancel         = "Context cancelled, shutting down UI"
	MsgSkippedCard       = "Skipping malformed vCard"
	MsgSkippedDate       = "Skipping birthday without usable date"
	MsgSkippedName       = "Skipping contact with unsupported name"
	MsgImportSuccess     = "Participant import successful"
	MsgCalendarBuilt     = "Jubilee calendar built"
	MsgAppStarting       = "Starting application"
	MsgServerListen      = "HTTP server listening"
	MsgServerStop        = "Shutting down HTTP server..."
	MsgCacheUpdated      = "Feed cache updated"
	MsgLocaleSkip        = "Skipping non-locale file"
	MsgLocaleBadName     = "Skipping malformed locale filename"
	MsgLocaleLoaded      = "Locale loaded successfully"
	MsgTransMissing      = "Missing translation key"
	MsgPassFail          = "Password retrieval failed (might be empty)"
	MsgLogWarning        = "Warning: %s at %s: %v\n"
	MsgICSWritten        = "Calendar file written"

	PlaceholderURL = "https://..."
)

// -----------------------------------------------------------------------------
// Reminder Units & Directions
// -----------------------------------------------------------------------------

const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
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
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyImported  = "imported"
	LogKeySkipped   = "skipped"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDuration  = "duration_ms"
	LogKeyMilestone = "milestone"
	LogKeyOffset    = "offset_days"
	LogKeyResults   = "results"
	LogKeyYoungest  = "youngest_index"
	LogKeyReason    = "reason"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
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
	CompUI       = "ui"
	CompUISet    = "ui_settings"
	CompEngine   = "engine"
	CompSearch   = "search"
	CompRegistry = "registry"
	CompImporter = "importer"
	CompCalendar = "calendar"
	CompServer   = "server"
	CompFetcher  = "fetcher"
	CompMain     = "main"
	CompCLI      = "cli"
	CompI18n     = "i18n"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
	LayoutColumnsQuad   = 4
)
