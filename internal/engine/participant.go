package engine

import "time"

// Participant is one person taking part in a jubilee calculation.
type Participant struct {
	// Name is the trimmed display name (letters and spaces only).
	Name string

	// Birthdate is a calendar date stored as UTC midnight.
	Birthdate time.Time
}

// ParticipantAge is a participant's age in years on a jubilee date.
type ParticipantAge struct {
	Participant Participant
	Years       float64
}

// JubileumResult is one milestone the group reaches together.
// Ages follow registry order; duplicate participants each get their own entry.
type JubileumResult struct {
	Milestone int
	Date      time.Time
	Ages      []ParticipantAge
}

// Snapshot is the registry state handed back to the presentation after an add.
type Snapshot struct {
	Names         []string
	Birthdates    []string
	YoungestIndex int
}
