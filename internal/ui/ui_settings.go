package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
	"github.com/zalando/go-keyring"
)

// choice pairs a translated select label with the value stored in preferences.
type choice struct {
	key   string
	value string
}

var (
	sourceChoices = []choice{
		{config.TKeyModeCardDAV, config.SourceModeWeb},
		{config.TKeyModeLocal, config.SourceModeLocal},
	}
	unitChoices = []choice{
		{config.TKeyUnitDays, config.UnitDays},
		{config.TKeyUnitHours, config.UnitHours},
		{config.TKeyUnitMinutes, config.UnitMinutes},
	}
	directionChoices = []choice{
		{config.TKeyDirBefore, config.DirBefore},
		{config.TKeyDirAfter, config.DirAfter},
	}
)

// choiceSelect builds a select over choices with current preselected.
// Unknown values select the first choice.
func (app *GoJubileumApp) choiceSelect(choices []choice, current string) *widget.Select {
	labels := make([]string, len(choices))
	selected := app.T.Msg(choices[0].key)
	for i, c := range choices {
		labels[i] = app.T.Msg(c.key)
		if c.value == current {
			selected = labels[i]
		}
	}
	s := widget.NewSelect(labels, nil)
	s.SetSelected(selected)
	return s
}

// chosen maps a select label back to its stored value.
func (app *GoJubileumApp) chosen(choices []choice, label string) string {
	for _, c := range choices {
		if app.T.Msg(c.key) == label {
			return c.value
		}
	}
	return choices[0].value
}

// settingsForm holds the controls whose values are persisted on save.
type settingsForm struct {
	mode *widget.Select
	url  *widget.Entry
	user *widget.Entry
	pass *widget.Entry
	path *widget.Entry

	port *FilteredEntry

	remindOn    *widget.Check
	remindValue *FilteredEntry
	remindUnit  *widget.Select
	remindDir   *widget.Select
}

// reminderPrefs is the reminder section of the settings window.
type reminderPrefs struct {
	Enabled bool
	Value   int
	Unit    string
	Dir     string
}

// ShowSettingsWindow displays the import, feed and reminder settings.
func (app *GoJubileumApp) ShowSettingsWindow() {
	if app.SettingsWindow != nil {
		app.SettingsWindow.RequestFocus()
		return
	}
	slog.Debug("Opening settings", config.LogKeyComponent, config.CompUISet)

	w := app.App.NewWindow(app.T.Msg(config.TKeyWinSettings))
	app.SettingsWindow = w
	w.SetOnClosed(func() { app.SettingsWindow = nil })

	form := app.newSettingsForm()

	// Sections hide and show rows, so the window height follows the content.
	var body *fyne.Container
	fit := func() {
		if body == nil {
			return
		}
		body.Refresh()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, body.MinSize().Height))
	}

	portItem := widget.NewFormItem(app.T.Msg(config.TKeyLblPort), form.port)
	portItem.HintText = app.T.Msg(config.TKeyHelpPort)

	save := widget.NewButtonWithIcon(app.T.Msg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		if err := form.port.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(form)
		w.Close()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon(app.T.Msg(config.TKeyBtnCancel), theme.CancelIcon(), w.Close)

	footer := widget.NewLabelWithStyle(
		fmt.Sprintf(app.T.Msg(config.TKeyLblFooter), config.Version),
		fyne.TextAlignCenter,
		fyne.TextStyle{Italic: true},
	)

	body = container.NewVBox(
		app.sourceSection(w, form, fit),
		widget.NewCard(app.T.Msg(config.TKeyLblGeneral), "", widget.NewForm(portItem)),
		app.reminderSection(form, fit),
		container.NewGridWithColumns(config.LayoutColumnsDouble, cancel, save),
		footer,
	)

	w.SetContent(container.NewPadded(body))
	w.SetFixedSize(true)
	fit()
	w.Show()
}

// newSettingsForm creates the controls pre-filled from preferences and the keyring.
func (app *GoJubileumApp) newSettingsForm() *settingsForm {
	src := app.loadSourceConfig()
	f := &settingsForm{
		mode: app.choiceSelect(sourceChoices, src.Mode),
		url:  widget.NewEntry(),
		user: widget.NewEntry(),
		pass: widget.NewPasswordEntry(),
		path: widget.NewEntry(),
		port: NewNumericalEntry(),

		remindOn:    widget.NewCheck(app.T.Msg(config.TKeyLblEnableRem), nil),
		remindValue: NewNumericalEntry(),
		remindUnit: app.choiceSelect(unitChoices,
			app.Preferences.StringWithFallback(config.PrefReminderUnit, config.UnitDays)),
		remindDir: app.choiceSelect(directionChoices,
			app.Preferences.StringWithFallback(config.PrefReminderDir, config.DirBefore)),
	}

	f.url.PlaceHolder = config.PlaceholderURL
	f.url.SetText(src.WebURL)
	f.user.SetText(src.WebUser)
	f.pass.SetText(src.WebPass)
	f.path.SetText(src.LocalPath)

	f.port.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	f.port.Validator = app.validatePort

	f.remindOn.Checked = app.Preferences.Bool(config.PrefReminderEnabled)
	f.remindValue.SetText(strconv.Itoa(
		app.Preferences.IntWithFallback(config.PrefReminderValue, config.DefaultReminderValue)))

	return f
}

// validatePort requires a number in the TCP port range.
func (app *GoJubileumApp) validatePort(s string) error {
	if s == "" {
		return errors.New(app.T.Msg(config.TKeyErrPortReq))
	}
	port, err := strconv.Atoi(s)
	switch {
	case err != nil:
		return errors.New(app.T.Msg(config.TKeyErrPortNum))
	case port < config.MinPort || port > config.MaxPort:
		return errors.New(app.T.Msg(config.TKeyErrPortRange))
	}
	return nil
}

// sourceSection shows either the address book server fields or the file picker.
func (app *GoJubileumApp) sourceSection(w fyne.Window, f *settingsForm, fit func()) *widget.Card {
	urlItem := widget.NewFormItem(app.T.Msg(config.TKeyLblURL), f.url)
	urlItem.HintText = app.T.Msg(config.TKeyHelpURL)
	server := widget.NewForm(
		urlItem,
		widget.NewFormItem(app.T.Msg(config.TKeyLblUser), f.user),
		widget.NewFormItem(app.T.Msg(config.TKeyLblPass), f.pass),
	)

	browse := widget.NewButton(app.T.Msg(config.TKeyBtnBrowse), func() {
		open := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			f.path.SetText(rc.URI().Path())
			_ = rc.Close()
		}, w)
		open.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		open.Show()
	})
	file := container.NewBorder(nil, nil, nil, browse, f.path)

	show := func(label string) {
		local := app.chosen(sourceChoices, label) == config.SourceModeLocal
		setVisible(file, local)
		setVisible(server, !local)
	}
	show(f.mode.Selected)
	f.mode.OnChanged = func(label string) {
		show(label)
		fit()
	}

	return widget.NewCard(app.T.Msg(config.TKeyLblSource), "", container.NewVBox(f.mode, server, file))
}

// reminderSection lays out: value | unit | direction | "start of day".
func (app *GoJubileumApp) reminderSection(f *settingsForm, fit func()) *widget.Card {
	trailing := container.NewHBox(f.remindUnit, f.remindDir, widget.NewLabel(app.T.Msg(config.TKeyLblStartDay)))
	row := container.NewBorder(nil, nil, nil, trailing, f.remindValue)

	setVisible(row, f.remindOn.Checked)
	f.remindOn.OnChanged = func(on bool) {
		setVisible(row, on)
		fit()
	}

	return widget.NewCard(app.T.Msg(config.TKeyLblNotif), "", container.NewVBox(f.remindOn, row))
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

// source reads the import section back into a SourceConfig.
func (app *GoJubileumApp) source(f *settingsForm) engine.SourceConfig {
	return engine.SourceConfig{
		Mode:      app.chosen(sourceChoices, f.mode.Selected),
		LocalPath: f.path.Text,
		WebURL:    f.url.Text,
		WebUser:   f.user.Text,
		WebPass:   f.pass.Text,
	}
}

// reminder reads the reminder section. An empty or unreadable value
// disables reminders whatever the checkbox says.
func (app *GoJubileumApp) reminder(f *settingsForm) reminderPrefs {
	r := reminderPrefs{
		Enabled: f.remindOn.Checked,
		Unit:    app.chosen(unitChoices, f.remindUnit.Selected),
		Dir:     app.chosen(directionChoices, f.remindDir.Selected),
	}
	v, err := strconv.Atoi(f.remindValue.Text)
	if err != nil {
		r.Enabled = false
		return r
	}
	r.Value = v
	return r
}

// saveSettings persists the form and republishes the feed so a changed
// reminder reaches subscribers without recalculating.
func (app *GoJubileumApp) saveSettings(f *settingsForm) {
	src := app.source(f)
	p := app.Preferences
	p.SetString(config.PrefSourceMode, src.Mode)
	p.SetString(config.PrefCardDAVURL, src.WebURL)
	p.SetString(config.PrefUsername, src.WebUser)
	p.SetString(config.PrefLocalPath, src.LocalPath)
	if src.WebUser != "" && src.WebPass != "" {
		if err := keyring.Set(config.KeyringService, src.WebUser, src.WebPass); err != nil {
			slog.Error("Storing password in keyring failed",
				config.LogKeyComponent, config.CompUISet,
				config.LogKeyError, err)
		}
	}

	if f.port.Text != "" {
		p.SetString(config.PrefServerPort, f.port.Text)
	}

	r := app.reminder(f)
	p.SetBool(config.PrefReminderEnabled, r.Enabled)
	if r.Value > 0 {
		p.SetInt(config.PrefReminderValue, r.Value)
	}
	p.SetString(config.PrefReminderUnit, r.Unit)
	p.SetString(config.PrefReminderDir, r.Dir)

	slog.Info("Settings saved",
		config.LogKeyComponent, config.CompUISet,
		config.LogKeyMode, src.Mode)
	app.publishResults(app.lastResults)
}
