package engine

import (
	"errors"
	"log/slog"

	"github.com/tartampluch/go-jubileum/internal/config"
)

// Presentation is the display surface the controller drives.
// Implementations never touch the registry directly.
type Presentation interface {
	// ReadFormInput returns the raw name and birthdate fields.
	ReadFormInput() (name, birthdate string)
	RenderParticipantRow(p Participant)
	ClearParticipantRows()
	// RenderJubileumResults replaces the result list; nil clears it.
	RenderJubileumResults(results []JubileumResult)
	// RenderError shows a classified failure; nil clears the message.
	RenderError(reason error)
}

// ImportReport counts the outcome of adding a batch of participants.
type ImportReport struct {
	Added    int
	Rejected int
}

// Controller wires presentation events to a Session.
type Controller struct {
	Session *Session
	View    Presentation

	// OnResults, when set, receives every non-empty calculation.
	OnResults func(results []JubileumResult)

	// OnStale, when set, is called once published results no longer match
	// the group: after a change to the registry or a failed calculation.
	OnStale func()
}

// NewController creates a controller over a fresh session.
func NewController(view Presentation) *Controller {
	return &Controller{Session: NewSession(), View: view}
}

// Submit handles the "add participant" event.
func (c *Controller) Submit() error {
	c.View.RenderError(nil)
	c.View.RenderJubileumResults(nil)

	name, birthdate := c.View.ReadFormInput()
	snap, err := c.Session.AddParticipant(name, birthdate)
	if err != nil {
		c.View.RenderError(err)
		return err
	}

	c.View.RenderParticipantRow(c.lastParticipant())
	c.stale()
	slog.Info(config.MsgParticipantAdded,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(snap.Names),
		config.LogKeyYoungest, snap.YoungestIndex)
	return nil
}

// Reset handles the "reset" event.
func (c *Controller) Reset() {
	if c.Session.Registry().IsEmpty() {
		return
	}
	c.View.ClearParticipantRows()
	c.View.RenderJubileumResults(nil)
	c.Session.Reset()
	c.stale()
	slog.Info(config.MsgRegistryReset, config.LogKeyComponent, config.CompEngine)
}

// Calculate handles the "calculate" event.
func (c *Controller) Calculate() ([]JubileumResult, error) {
	if c.Session.Registry().IsEmpty() {
		c.View.RenderError(ErrEmptyRegistry)
		return nil, ErrEmptyRegistry
	}

	c.View.RenderJubileumResults(nil)
	results, err := c.Session.Calculate()
	if err != nil {
		c.View.RenderError(err)
		c.stale()
		return nil, err
	}

	c.View.RenderJubileumResults(results)
	c.View.RenderError(nil)
	slog.Info(config.MsgSearchDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyResults, len(results))

	if c.OnResults != nil {
		c.OnResults(results)
	}
	return results, nil
}

// AddParticipants adds an imported batch through the same validation path
// as the form. Invalid entries are counted, not rendered as errors.
func (c *Controller) AddParticipants(participants []Participant) ImportReport {
	var report ImportReport
	for _, p := range participants {
		_, err := c.Session.AddParticipant(p.Name, FormatDate(p.Birthdate))
		if err != nil {
			if !errors.Is(err, ErrInvalidName) && !errors.Is(err, ErrInvalidDate) {
				slog.Warn(config.MsgParticipantReject,
					config.LogKeyComponent, config.CompEngine,
					config.LogKeyError, err)
			}
			report.Rejected++
			continue
		}
		c.View.RenderParticipantRow(c.lastParticipant())
		report.Added++
	}
	if report.Added > 0 {
		c.View.RenderJubileumResults(nil)
		c.stale()
	}
	return report
}

// lastParticipant is the entry the session committed most recently,
// with its name trimmed and its birthdate normalised.
func (c *Controller) lastParticipant() Participant {
	participants := c.Session.Registry().Participants()
	return participants[len(participants)-1]
}

func (c *Controller) stale() {
	if c.OnStale != nil {
		c.OnStale()
	}
}
