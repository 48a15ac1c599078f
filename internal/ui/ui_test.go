package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/server"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the engine.VCardFetcher interface using testify/mock.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockTray implements minimal system tray functionality for headless testing.
type MockTray struct {
	Menu *fyne.Menu
}

func (m *MockTray) SetSystemTrayMenu(menu *fyne.Menu) {
	m.Menu = menu
}

func (m *MockTray) SetSystemTrayIcon(icon fyne.Resource) {}
func (m *MockTray) SetSystemTrayWindow(w fyne.Window)    {}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

// setupTestApp initializes a headless Fyne app with mocked dependencies and
// the main window content built.
func setupTestApp(t *testing.T) (*GoJubileumApp, *MockFetcher, *MockTray) {
	keyring.MockInit()
	a := test.NewApp()

	srv := server.NewFeedServer("0")
	fetcher := new(MockFetcher)
	mockTray := &MockTray{}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := NewGoJubileumApp(a, ctx, srv, fetcher)
	app.Tray = mockTray
	app.Clock = MockClock{CurrentTime: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}

	w := test.NewWindow(app.buildMainContent())
	t.Cleanup(w.Close)

	return app, fetcher, mockTray
}

func typeParticipant(app *GoJubileumApp, name, birthdate string) {
	app.view.nameEntry.SetText(name)
	app.view.birthdateEntry.SetText(birthdate)
	test.Tap(app.view.addButton)
}

// -----------------------------------------------------------------------------
// Main Window Tests
// -----------------------------------------------------------------------------

func TestMainView_AddAndCalculate(t *testing.T) {
	app, _, _ := setupTestApp(t)
	v := app.view

	typeParticipant(app, "Anna", "01-01-1990")
	typeParticipant(app, "Bram", "01-01-2000")

	require.Len(t, v.rows, 2)
	assert.Empty(t, v.nameEntry.Text, "form must be cleared after a successful add")
	assert.Equal(t, 1, app.Controller.Session.Registry().YoungestIndex())

	test.Tap(v.calculateButton)

	require.Len(t, v.lines, 2)
	assert.Equal(t, "50 jaar op 01-01-2020 (Anna: 30.00, Bram: 20.00)", v.lines[0])
	assert.True(t, strings.HasPrefix(v.lines[1], "100 jaar op "))
	assert.False(t, v.errorLabel.Visible())
	assert.Len(t, app.lastResults, 2)
}

func TestMainView_CalculatePublishesFeed(t *testing.T) {
	app, _, _ := setupTestApp(t)

	typeParticipant(app, "Anna", "01-01-1990")
	typeParticipant(app, "Bram", "01-01-2000")
	test.Tap(app.view.calculateButton)

	h := app.Server.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteJSON, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got []server.ResultJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "01-01-2020", got[0].Date)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteRoot, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SUMMARY:50 jaar samen")
	assert.Contains(t, w.Body.String(), "DTSTART;VALUE=DATE:20200101")
}

func TestMainView_InvalidInput(t *testing.T) {
	app, _, _ := setupTestApp(t)
	v := app.view

	typeParticipant(app, "A", "01-01-1990")

	assert.Empty(t, v.rows)
	assert.True(t, v.errorLabel.Visible())
	assert.Equal(t, "De naam mag alleen letters of spaties bevatten en tussen de 2 en 26 karakters zijn.", v.errorLabel.Text)
	assert.Equal(t, "A", v.nameEntry.Text, "form keeps the rejected input")

	typeParticipant(app, "Anna", "31-02-1990")
	assert.Empty(t, v.rows)
	assert.Equal(t, "Onjuist formaat of onjuiste datum. dd-mm-jjjj formaat verwacht.", v.errorLabel.Text)

	typeParticipant(app, "Anna", "28-02-1990")
	assert.Len(t, v.rows, 1)
	assert.False(t, v.errorLabel.Visible(), "a successful add clears the error")
}

func TestMainView_CalculateEmpty(t *testing.T) {
	app, _, _ := setupTestApp(t)

	test.Tap(app.view.calculateButton)

	assert.Equal(t, "Geen data in de lijst om mee te rekenen.", app.view.errorLabel.Text)
	assert.Empty(t, app.view.lines)
}

func TestMainView_TooFarApart(t *testing.T) {
	app, _, _ := setupTestApp(t)

	typeParticipant(app, "Oma", "01-01-1890")
	typeParticipant(app, "Kind", "01-01-2000")
	test.Tap(app.view.calculateButton)

	assert.Equal(t, "Datums te ver uit elkaar om jubilea te berekenen.", app.view.errorLabel.Text)
	assert.Empty(t, app.view.lines)
}

func TestMainView_Reset(t *testing.T) {
	app, _, _ := setupTestApp(t)
	v := app.view

	typeParticipant(app, "Anna", "01-01-1990")
	test.Tap(v.calculateButton)
	require.NotEmpty(t, v.lines)

	test.Tap(v.resetButton)

	assert.Empty(t, v.rows)
	assert.Empty(t, v.lines)
	assert.True(t, app.Controller.Session.Registry().IsEmpty())

	test.Tap(v.calculateButton)
	assert.Equal(t, "Geen data in de lijst om mee te rekenen.", v.errorLabel.Text)
}

func TestMainView_FeedFollowsTheGroup(t *testing.T) {
	app, _, _ := setupTestApp(t)
	v := app.view

	feed := func() []server.ResultJSON {
		w := httptest.NewRecorder()
		app.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteJSON, nil))
		require.Equal(t, http.StatusOK, w.Code)
		var got []server.ResultJSON
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		return got
	}

	typeParticipant(app, "Anna", "01-01-1990")
	typeParticipant(app, "Bram", "01-01-2000")
	test.Tap(v.calculateButton)
	require.NotEmpty(t, feed())

	typeParticipant(app, "Cees", "01-01-1985")
	assert.Empty(t, feed(), "adding someone withdraws the old jubilees")

	test.Tap(v.calculateButton)
	require.NotEmpty(t, feed())

	test.Tap(v.resetButton)
	assert.Empty(t, feed(), "clearing the list withdraws the jubilees")
	assert.Nil(t, app.lastResults)
}

func TestMainView_YoungestMarker(t *testing.T) {
	app, _, _ := setupTestApp(t)
	v := app.view

	typeParticipant(app, "Anna", "01-01-1990")
	typeParticipant(app, "Bram", "01-01-2000")
	typeParticipant(app, "Cees", "01-01-1985")

	label := widget.NewLabel("")
	v.table.UpdateCell(widget.TableCellID{Row: 1, Col: config.ColIDName}, label)
	assert.Equal(t, "Bram"+config.YoungestMarker, label.Text)

	v.table.UpdateCell(widget.TableCellID{Row: 2, Col: config.ColIDName}, label)
	assert.Equal(t, "Cees", label.Text)

	v.table.UpdateCell(widget.TableCellID{Row: 2, Col: config.ColIDBirthdate}, label)
	assert.Equal(t, "01-01-1985", label.Text)
}

// -----------------------------------------------------------------------------
// Tray Tests
// -----------------------------------------------------------------------------

func TestTrayMenu(t *testing.T) {
	app, _, mockTray := setupTestApp(t)
	app.setupTrayMenu()

	require.NotNil(t, mockTray.Menu)
	require.Len(t, mockTray.Menu.Items, 4)
	assert.Equal(t, "Venster openen", app.TrayOpenItem.Label)
	assert.Equal(t, "Deelnemers importeren", app.TrayImportItem.Label)
	assert.Equal(t, "Instellingen...", app.TraySettingsItem.Label)
}

// -----------------------------------------------------------------------------
// Import Tests
// -----------------------------------------------------------------------------

func TestPerformImport_Web(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)

	vcards := strings.Join([]string{
		"BEGIN:VCARD\nVERSION:3.0\nFN:Anna Jansen\nBDAY:1990-01-01\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nFN:Zonder Jaar\nBDAY:--0101\nEND:VCARD",
		"BEGIN:VCARD\nVERSION:3.0\nFN:Bram Jansen\nBDAY:20000101\nEND:VCARD",
	}, "\n")
	fetcher.On("Fetch", mock.Anything, "http://test.local", "", "").
		Return(io.NopCloser(bytes.NewBufferString(vcards)), nil)

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	app.Preferences.SetString(config.PrefCardDAVURL, "http://test.local")

	app.performImport()

	fetcher.AssertExpectations(t)
	require.Len(t, app.view.rows, 2)
	assert.Equal(t, "Anna Jansen", app.view.rows[0].Name)
	assert.Equal(t, "Bram Jansen", app.view.rows[1].Name)
	assert.Equal(t, 1, app.Controller.Session.Registry().YoungestIndex())
	assert.Equal(t, "2 deelnemers toegevoegd, 0 afgewezen.", app.view.statusLabel.Text)
}

func TestPerformImport_Local(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)

	path := filepath.Join(t.TempDir(), "familie.vcf")
	require.NoError(t, os.WriteFile(path, []byte("BEGIN:VCARD\nVERSION:3.0\nFN:Cees\nBDAY:1985-05-05\nEND:VCARD\n"), config.FilePermUserRW))

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeLocal)
	app.Preferences.SetString(config.PrefLocalPath, path)

	app.performImport()

	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	require.Len(t, app.view.rows, 1)
	assert.Equal(t, "Cees", app.view.rows[0].Name)
}

func TestPerformImport_Failure(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)

	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	app.Preferences.SetString(config.PrefCardDAVURL, "http://test.local")

	app.performImport()

	fetcher.AssertExpectations(t)
	assert.Empty(t, app.view.rows)
	assert.False(t, app.view.statusLabel.Visible())
}

func TestPerformImport_SingleFlight(t *testing.T) {
	app, fetcher, _ := setupTestApp(t)
	app.importing.Store(true)

	app.performImport()

	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// -----------------------------------------------------------------------------
// Configuration & Preferences Tests
// -----------------------------------------------------------------------------

func TestConfiguration_SourceMapping(t *testing.T) {
	app, _, _ := setupTestApp(t)

	cfg := app.loadSourceConfig()
	assert.Equal(t, config.SourceModeLocal, cfg.Mode, "local file is the default source")

	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	app.Preferences.SetString(config.PrefCardDAVURL, "https://secure.example.com")

	cfg = app.loadSourceConfig()
	assert.Equal(t, config.SourceModeWeb, cfg.Mode)
	assert.Equal(t, "https://secure.example.com", cfg.WebURL)
	assert.Empty(t, cfg.WebUser)
}

func TestConfiguration_ReminderTrigger(t *testing.T) {
	app, _, _ := setupTestApp(t)

	tests := []struct {
		name        string
		enabled     bool
		val         int
		unit        string
		direction   string
		wantTrigger string
	}{
		{"Disabled", false, 1, config.UnitDays, config.DirBefore, ""},
		{"1 Day Before", true, 1, config.UnitDays, config.DirBefore, "-P1D"},
		{"2 Hours After", true, 2, config.UnitHours, config.DirAfter, "PT2H"},
		{"30 Minutes Before", true, 30, config.UnitMinutes, config.DirBefore, "-PT30M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.Preferences.SetBool(config.PrefReminderEnabled, tt.enabled)
			app.Preferences.SetInt(config.PrefReminderValue, tt.val)
			app.Preferences.SetString(config.PrefReminderUnit, tt.unit)
			app.Preferences.SetString(config.PrefReminderDir, tt.direction)

			assert.Equal(t, tt.wantTrigger, app.reminderTrigger())
		})
	}
}

func TestSettings_ValidatePort(t *testing.T) {
	app, _, _ := setupTestApp(t)

	assert.NoError(t, app.validatePort("18081"))
	assert.EqualError(t, app.validatePort(""), "Een poort is verplicht.")
	assert.EqualError(t, app.validatePort("abc"), "De poort moet een getal zijn.")
	assert.EqualError(t, app.validatePort("70000"), "De poort moet tussen 1 en 65535 liggen.")
}

func TestSettings_SaveRepublishesWithReminder(t *testing.T) {
	app, _, _ := setupTestApp(t)

	typeParticipant(app, "Anna", "01-01-1990")
	typeParticipant(app, "Bram", "01-01-2000")
	test.Tap(app.view.calculateButton)

	form := app.newSettingsForm()
	form.port.SetText("18090")
	form.remindOn.SetChecked(true)
	form.remindValue.SetText("2")
	form.remindUnit.SetSelected(app.T.Msg(config.TKeyUnitDays))
	form.remindDir.SetSelected(app.T.Msg(config.TKeyDirBefore))

	app.saveSettings(form)

	assert.Equal(t, "18090", app.Preferences.String(config.PrefServerPort))
	assert.Equal(t, config.SourceModeLocal, app.Preferences.String(config.PrefSourceMode))
	assert.True(t, app.Preferences.Bool(config.PrefReminderEnabled))

	w := httptest.NewRecorder()
	app.Server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteRoot, nil))
	assert.Contains(t, w.Body.String(), "TRIGGER:-P2D")
}

func TestSettings_EmptyReminderValueDisables(t *testing.T) {
	app, _, _ := setupTestApp(t)

	form := app.newSettingsForm()
	form.remindOn.SetChecked(true)
	form.remindValue.SetText("")

	app.saveSettings(form)

	assert.False(t, app.Preferences.Bool(config.PrefReminderEnabled))
}

func TestSettings_WebSourceRoundTrip(t *testing.T) {
	app, _, _ := setupTestApp(t)

	form := app.newSettingsForm()
	assert.Equal(t, app.T.Msg(config.TKeyModeLocal), form.mode.Selected)

	form.mode.SetSelected(app.T.Msg(config.TKeyModeCardDAV))
	form.url.SetText("https://dav.example.com/family.vcf")
	form.user.SetText("anna")
	form.pass.SetText("geheim")
	form.remindUnit.SetSelected(app.T.Msg(config.TKeyUnitHours))
	form.remindDir.SetSelected(app.T.Msg(config.TKeyDirAfter))

	app.saveSettings(form)

	cfg := app.loadSourceConfig()
	assert.Equal(t, config.SourceModeWeb, cfg.Mode)
	assert.Equal(t, "https://dav.example.com/family.vcf", cfg.WebURL)
	assert.Equal(t, "anna", cfg.WebUser)
	assert.Equal(t, "geheim", cfg.WebPass, "password comes back from the keyring")
	assert.Equal(t, config.UnitHours, app.Preferences.String(config.PrefReminderUnit))
	assert.Equal(t, config.DirAfter, app.Preferences.String(config.PrefReminderDir))

	reopened := app.newSettingsForm()
	assert.Equal(t, app.T.Msg(config.TKeyModeCardDAV), reopened.mode.Selected)
	assert.Equal(t, "geheim", reopened.pass.Text)
	assert.Equal(t, app.T.Msg(config.TKeyUnitHours), reopened.remindUnit.Selected)
}
