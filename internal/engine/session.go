package engine

import (
	"log/slog"
	"strings"

	"github.com/tartampluch/go-jubileum/internal/config"
)

// Session is the core facade used by every front end: it validates input,
// owns the registry and runs the search on demand.
type Session struct {
	registry *Registry
}

// NewSession creates a session with an empty registry.
func NewSession() *Session {
	return &Session{registry: NewRegistry()}
}

// Registry exposes the session's participants for read-only use.
func (s *Session) Registry() *Registry {
	return s.registry
}

// AddParticipant validates the raw form values and commits the participant.
// On a validation failure the registry is left untouched and ErrInvalidName
// or ErrInvalidDate is returned.
func (s *Session) AddParticipant(name, birthdate string) (Snapshot, error) {
	name = strings.TrimSpace(name)
	birthdate = strings.TrimSpace(birthdate)

	if err := ValidateInput(name, birthdate); err != nil {
		slog.Debug(config.MsgParticipantReject,
			config.LogKeyComponent, config.CompRegistry,
			config.LogKeyReason, err)
		return Snapshot{}, err
	}

	date, err := ParseDate(birthdate)
	if err != nil {
		return Snapshot{}, ErrInvalidDate
	}

	s.registry.Add(Participant{Name: name, Birthdate: date})
	slog.Debug(config.MsgParticipantAdded,
		config.LogKeyComponent, config.CompRegistry,
		config.LogKeyName, name,
		config.LogKeyCount, s.registry.Len())
	return s.registry.Snapshot(), nil
}

// Reset clears the registry. It is a no-op when already empty.
func (s *Session) Reset() {
	if s.registry.IsEmpty() {
		return
	}
	s.registry.Reset()
	slog.Debug(config.MsgRegistryReset, config.LogKeyComponent, config.CompRegistry)
}

// Calculate runs the jubilee search over the current participants.
// It returns ErrEmptyRegistry without participants and ErrNoJubileumFound
// when no milestone fits.
func (s *Session) Calculate() ([]JubileumResult, error) {
	if s.registry.IsEmpty() {
		return nil, ErrEmptyRegistry
	}
	results := Search(s.registry.Participants(), s.registry.YoungestIndex())
	if len(results) == 0 {
		return nil, ErrNoJubileumFound
	}
	return results, nil
}
