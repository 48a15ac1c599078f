package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
	"github.com/tartampluch/go-jubileum/internal/locale"
)

// mainView is the fyne rendition of engine.Presentation.
type mainView struct {
	t        *locale.Translator
	youngest func() int

	nameEntry      *widget.Entry
	birthdateEntry *FilteredEntry

	rows  []engine.Participant
	table *widget.Table

	lines      []string
	resultList *widget.List

	errorLabel  *widget.Label
	statusLabel *widget.Label

	addButton       *widget.Button
	resetButton     *widget.Button
	calculateButton *widget.Button
	importButton    *widget.Button
}

var _ engine.Presentation = (*mainView)(nil)

func newMainView(t *locale.Translator) *mainView {
	v := &mainView{t: t}

	v.nameEntry = widget.NewEntry()
	v.birthdateEntry = NewDateEntry()
	v.birthdateEntry.PlaceHolder = t.Msg(config.TKeyHintBirthdate)

	v.table = widget.NewTable(
		func() (int, int) {
			return len(v.rows), config.TableColumns
		},
		func() fyne.CanvasObject {
			return widget.NewLabel(config.TablePlaceholder)
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row >= len(v.rows) {
				return
			}
			p := v.rows[id.Row]

			switch id.Col {
			case config.ColIDName:
				name := p.Name
				if v.youngest != nil && v.youngest() == id.Row {
					name += config.YoungestMarker
				}
				label.SetText(name)
			case config.ColIDBirthdate:
				label.SetText(engine.FormatDate(p.Birthdate))
			}
		},
	)
	v.table.ShowHeaderRow = true
	v.table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel(config.TablePlaceholder)
		label.TextStyle = fyne.TextStyle{Bold: true}
		return label
	}
	v.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		label := o.(*widget.Label)
		switch id.Col {
		case config.ColIDName:
			label.SetText(t.Msg(config.TKeyColName))
		case config.ColIDBirthdate:
			label.SetText(t.Msg(config.TKeyColBirthdate))
		}
	}
	v.table.SetColumnWidth(config.ColIDName, config.ColWidthName)
	v.table.SetColumnWidth(config.ColIDBirthdate, config.ColWidthBirthdate)

	v.resultList = widget.NewList(
		func() int { return len(v.lines) },
		func() fyne.CanvasObject { return widget.NewLabel(config.ListPlaceholder) },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id < len(v.lines) {
				o.(*widget.Label).SetText(v.lines[id])
			}
		},
	)

	v.errorLabel = widget.NewLabel("")
	v.errorLabel.Importance = widget.DangerImportance
	v.errorLabel.Wrapping = fyne.TextWrapWord
	v.errorLabel.Hide()

	v.statusLabel = widget.NewLabel("")
	v.statusLabel.Hide()

	return v
}

func (v *mainView) ReadFormInput() (string, string) {
	return v.nameEntry.Text, v.birthdateEntry.Text
}

func (v *mainView) RenderParticipantRow(p engine.Participant) {
	v.rows = append(v.rows, p)
	v.table.Refresh()
}

func (v *mainView) ClearParticipantRows() {
	v.rows = nil
	v.table.Refresh()
}

func (v *mainView) RenderJubileumResults(results []engine.JubileumResult) {
	v.lines = make([]string, len(results))
	for i, r := range results {
		v.lines[i] = v.t.ResultLine(r)
	}
	v.resultList.Refresh()
}

func (v *mainView) RenderError(reason error) {
	if reason == nil {
		v.errorLabel.SetText("")
		v.errorLabel.Hide()
		return
	}
	v.errorLabel.SetText(v.t.Error(reason))
	v.errorLabel.Show()
}

func (v *mainView) setStatus(text string) {
	v.statusLabel.SetText(text)
	v.statusLabel.Show()
}

func (v *mainView) clearForm() {
	v.nameEntry.SetText("")
	v.birthdateEntry.SetText("")
	v.statusLabel.Hide()
}

// buildMainContent assembles the window content and binds the controller events.
func (app *GoJubileumApp) buildMainContent() fyne.CanvasObject {
	v := app.view
	t := app.T

	submit := func() {
		if err := app.Controller.Submit(); err == nil {
			v.clearForm()
			if c := app.App.Driver().CanvasForObject(v.nameEntry); c != nil {
				c.Focus(v.nameEntry)
			}
		}
	}
	v.birthdateEntry.OnSubmitted = func(string) { submit() }

	v.addButton = widget.NewButtonWithIcon(t.Msg(config.TKeyBtnAdd), theme.ContentAddIcon(), submit)
	v.addButton.Importance = widget.HighImportance
	v.resetButton = widget.NewButtonWithIcon(t.Msg(config.TKeyBtnReset), theme.DeleteIcon(), func() {
		app.Controller.Reset()
		v.statusLabel.Hide()
	})
	v.calculateButton = widget.NewButtonWithIcon(t.Msg(config.TKeyBtnCalculate), theme.CalendarIcon(), func() {
		// Failures are already rendered by the controller.
		_, _ = app.Controller.Calculate()
	})
	v.importButton = widget.NewButtonWithIcon(t.Msg(config.TKeyBtnImport), theme.DownloadIcon(), func() {
		go app.performImport()
	})

	form := widget.NewForm(
		widget.NewFormItem(t.Msg(config.TKeyLblName), v.nameEntry),
		widget.NewFormItem(t.Msg(config.TKeyLblBirthdate), v.birthdateEntry),
	)

	feedLabel := widget.NewLabel(t.MsgWith(config.TKeyLblFeedLocation, map[string]any{"URL": app.feedURL()}))
	feedLabel.TextStyle = fyne.TextStyle{Italic: true}

	top := container.NewVBox(
		form,
		container.NewGridWithColumns(config.LayoutColumnsQuad, v.addButton, v.resetButton, v.calculateButton, v.importButton),
		v.errorLabel,
		v.statusLabel,
	)

	split := container.NewVSplit(v.table, v.resultList)
	return container.NewPadded(container.NewBorder(top, feedLabel, nil, nil, split))
}

// ShowMainWindow opens the calculator window or brings it to the front.
func (app *GoJubileumApp) ShowMainWindow() {
	if app.Window != nil {
		app.Window.Show()
		app.Window.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.T.Msg(config.TKeyWinTitle))
	app.Window = w
	w.SetContent(app.buildMainContent())
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))

	// With a tray the window only hides, so the feed keeps being served.
	if app.Tray != nil {
		w.SetCloseIntercept(w.Hide)
	} else {
		w.SetMaster()
	}
	w.Show()
}
