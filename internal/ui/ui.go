package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
	"github.com/tartampluch/go-jubileum/internal/locale"
	"github.com/tartampluch/go-jubileum/internal/server"
	"github.com/zalando/go-keyring"
)

// GoJubileumApp encapsulates the UI state, preferences, and the feed publisher.
type GoJubileumApp struct {
	App            fyne.App
	Window         fyne.Window
	SettingsWindow fyne.Window
	Preferences    fyne.Preferences
	T              *locale.Translator
	Ctx            context.Context

	Server  *server.FeedServer
	Fetcher engine.VCardFetcher
	Clock   engine.Clock // Injected clock for testability

	Controller *engine.Controller
	view       *mainView

	Tray desktop.App
	Menu *fyne.Menu

	TrayOpenItem     *fyne.MenuItem
	TrayImportItem   *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	// lastResults is only touched on the fyne main goroutine.
	lastResults []engine.JubileumResult
	importing   atomic.Bool
}

// NewGoJubileumApp constructs the application and wires dependencies.
func NewGoJubileumApp(a fyne.App, ctx context.Context, srv *server.FeedServer, fetcher engine.VCardFetcher) *GoJubileumApp {
	a.SetIcon(theme.CalendarIcon())

	app := &GoJubileumApp{
		App:         a,
		Preferences: a.Preferences(),
		T:           locale.New(config.DefaultLanguage),
		Ctx:         ctx,
		Server:      srv,
		Fetcher:     fetcher,
		Clock:       engine.RealClock{},
	}

	app.view = newMainView(app.T)
	app.Controller = engine.NewController(app.view)
	app.Controller.OnResults = app.publishResults
	app.Controller.OnStale = func() { app.publishResults(nil) }
	app.view.youngest = app.Controller.Session.Registry().YoungestIndex
	return app
}

// Run launches the feed server, the tray and the main window.
func (app *GoJubileumApp) Run() {
	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	// Subscribers get a valid, empty calendar until the first calculation.
	app.publishResults(nil)

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.ShowMainWindow()
	app.App.Run()
}

// setupTrayMenu constructs the system tray menu.
func (app *GoJubileumApp) setupTrayMenu() {
	app.TrayOpenItem = fyne.NewMenuItem(app.T.Msg(config.TKeyMenuOpen), func() {
		app.ShowMainWindow()
	})

	app.TrayImportItem = fyne.NewMenuItem(app.T.Msg(config.TKeyMenuImport), func() {
		go app.performImport()
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.T.Msg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayOpenItem,
		fyne.NewMenuItemSeparator(),
		app.TrayImportItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// publishResults renders the calculation as iCalendar and hands it to the feed server.
func (app *GoJubileumApp) publishResults(results []engine.JubileumResult) {
	app.lastResults = results

	builder := &engine.CalendarBuilder{
		Clock:         app.Clock,
		FormatSummary: app.T.Summary,
	}
	ics, err := builder.Build(results, app.reminderTrigger())
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		return
	}

	if err := app.Server.Update(ics, results); err != nil {
		slog.Error(config.ErrJSONEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
}

// performImport pulls participants from the configured address book and adds
// them through the controller. It blocks; call it from its own goroutine.
func (app *GoJubileumApp) performImport() {
	if !app.importing.CompareAndSwap(false, true) {
		return
	}
	defer app.importing.Store(false)

	slog.Info(config.MsgImportReq, config.LogKeyComponent, config.CompUI)

	ctx, cancel := context.WithTimeout(app.Ctx, config.ImportTimeout)
	defer cancel()

	importer := &engine.Importer{Fetcher: app.Fetcher}
	participants, stats, err := importer.Import(ctx, app.loadSourceConfig())
	if err != nil {
		slog.Error(config.MsgImportFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		app.App.SendNotification(fyne.NewNotification(config.TitleImportError, app.T.Msg(config.TKeyNotifImportErr)))
		return
	}

	// Registry and widgets belong to the main goroutine.
	fyne.DoAndWait(func() {
		report := app.Controller.AddParticipants(participants)
		app.view.setStatus(app.T.ImportSummary(report))
	})

	app.App.SendNotification(fyne.NewNotification(config.AppName,
		app.T.MsgWith(config.TKeyNotifImport, map[string]any{
			"Imported": stats.Imported,
			"Skipped":  stats.Skipped,
		})))
}

// loadSourceConfig assembles the import source from preferences and the keyring.
func (app *GoJubileumApp) loadSourceConfig() engine.SourceConfig {
	cfg := engine.SourceConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeLocal),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefCardDAVURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.Mode == config.SourceModeWeb && cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}

	return cfg
}

// reminderTrigger returns the alarm offset for published events, or "" when disabled.
func (app *GoJubileumApp) reminderTrigger() string {
	if !app.Preferences.Bool(config.PrefReminderEnabled) {
		return ""
	}
	return engine.ReminderTrigger(
		app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue),
		app.Preferences.StringWithFallback(config.PrefReminderUnit, config.UnitDays),
		app.Preferences.StringWithFallback(config.PrefReminderDir, config.DirBefore),
	)
}

// feedURL is the subscription address shown to the user.
func (app *GoJubileumApp) feedURL() string {
	return fmt.Sprintf(config.FeedURLFormat, config.LocalhostBindAddr, app.Server.Port, config.RouteRoot)
}
