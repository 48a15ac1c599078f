package engine

import (
	"log/slog"

	"github.com/tartampluch/go-jubileum/internal/config"
)

// Registry is the ordered, in-memory list of participants for one session.
// It is not safe for concurrent use.
type Registry struct {
	participants  []Participant
	youngestIndex int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends p and updates the tracked youngest participant.
//
// The update is online: p only becomes the youngest when its birthdate is
// strictly later than the currently tracked one. Earlier entries are never
// rescanned.
func (r *Registry) Add(p Participant) {
	r.participants = append(r.participants, p)
	last := len(r.participants) - 1
	if last > 0 && p.Birthdate.After(r.participants[r.youngestIndex].Birthdate) {
		r.youngestIndex = last
		slog.Debug(config.MsgYoungestChanged,
			config.LogKeyComponent, config.CompRegistry,
			config.LogKeyYoungest, last)
	}
}

// Reset removes every participant.
func (r *Registry) Reset() {
	r.participants = nil
	r.youngestIndex = 0
}

// IsEmpty reports whether no participant has been added.
func (r *Registry) IsEmpty() bool {
	return len(r.participants) == 0
}

// Len returns the number of participants.
func (r *Registry) Len() int {
	return len(r.participants)
}

// YoungestIndex returns the position of the tracked youngest participant.
func (r *Registry) YoungestIndex() int {
	return r.youngestIndex
}

// Youngest returns the tracked youngest participant; ok is false when empty.
func (r *Registry) Youngest() (Participant, bool) {
	if r.IsEmpty() {
		return Participant{}, false
	}
	return r.participants[r.youngestIndex], true
}

// Participants returns a copy of the participants in insertion order.
func (r *Registry) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// Snapshot returns the display view of the registry.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Names:         make([]string, 0, len(r.participants)),
		Birthdates:    make([]string, 0, len(r.participants)),
		YoungestIndex: r.youngestIndex,
	}
	for _, p := range r.participants {
		s.Names = append(s.Names, p.Name)
		s.Birthdates = append(s.Birthdates, FormatDate(p.Birthdate))
	}
	return s
}
