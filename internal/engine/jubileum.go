package engine

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tartampluch/go-jubileum/internal/config"
)

// maxAgeDays is the too-old guard expressed in days.
const maxAgeDays = config.MaxAgeYears * config.DaysInYear

// Search finds the milestones (50, 100, ... 400 combined years) the group reaches.
//
// Ages are measured relative to the participant at youngestIndex. A milestone whose
// offset is negative has already passed and is skipped. The search stops entirely as
// soon as a milestone would make any participant older than config.MaxAgeYears.
// An empty result is a valid outcome.
func Search(participants []Participant, youngestIndex int) []JubileumResult {
	if len(participants) == 0 || youngestIndex < 0 || youngestIndex >= len(participants) {
		return nil
	}
	log := slog.With(config.LogKeyComponent, config.CompSearch)

	youngest := participants[youngestIndex]
	startingAges := startingAgesFrom(youngest, participants)
	ageSum := sumStartingAges(startingAges)
	n := float64(len(participants))

	var results []JubileumResult
	for m := config.MilestoneStart; m < config.MilestoneEnd; m += config.MilestoneStep {
		offset := (float64(m)*config.DaysInYear - ageSum) / n
		if offset < 0 {
			log.Debug(config.MsgMilestonePassed, config.LogKeyMilestone, m)
			continue
		}

		agesInDays, ok := agesAtOffset(startingAges, offset)
		if !ok {
			log.Debug(config.MsgTooOld, config.LogKeyMilestone, m, config.LogKeyOffset, offset)
			break
		}

		result := JubileumResult{
			Milestone: m,
			Date:      OffsetDate(youngest.Birthdate, offset),
			Ages:      make([]ParticipantAge, len(participants)),
		}
		for i, p := range participants {
			result.Ages[i] = ParticipantAge{Participant: p, Years: ageInYears(agesInDays[i])}
		}
		results = append(results, result)
	}

	log.Debug(config.MsgSearchDone,
		config.LogKeyCount, len(participants),
		config.LogKeyResults, len(results))
	return results
}

// startingAgesFrom returns each participant's age in days on the youngest's birthdate.
func startingAgesFrom(youngest Participant, participants []Participant) []float64 {
	ages := make([]float64, len(participants))
	for i, p := range participants {
		ages[i] = float64(DateDifferenceDays(youngest.Birthdate, p.Birthdate))
	}
	return ages
}

// sumStartingAges totals the starting ages. A lone participant contributes its
// own starting age directly, which is always zero.
func sumStartingAges(ages []float64) float64 {
	if len(ages) == 1 {
		return ages[0]
	}
	var sum float64
	for _, a := range ages {
		sum += a
	}
	return sum
}

// agesAtOffset shifts every starting age by offset days.
// It returns false as soon as one participant would be too old.
func agesAtOffset(startingAges []float64, offset float64) ([]float64, bool) {
	ages := make([]float64, len(startingAges))
	for i, start := range startingAges {
		age := start + offset
		if age > maxAgeDays {
			return nil, false
		}
		ages[i] = age
	}
	return ages, true
}

// ageInYears converts an age in days to years rounded to two decimals.
func ageInYears(days float64) float64 {
	scale := math.Pow10(config.AgeDecimals)
	return math.Round((days-config.DayCountCorrection)/config.DaysInYear*scale) / scale
}

// FormatAge renders an age with exactly two decimals.
func FormatAge(years float64) string {
	return fmt.Sprintf(config.AgeFormat, years)
}

// FormatAgeList renders "Name: age, Name: age" in registry order.
func FormatAgeList(r JubileumResult) string {
	parts := make([]string, len(r.Ages))
	for i, a := range r.Ages {
		parts[i] = fmt.Sprintf(config.AgeEntryFormat, a.Participant.Name, FormatAge(a.Years))
	}
	return strings.Join(parts, config.AgeListSeparator)
}

// FormatResultLine renders a result with the default Dutch wording.
func FormatResultLine(r JubileumResult) string {
	return fmt.Sprintf(config.ResultLineFallback, r.Milestone, FormatDate(r.Date), FormatAgeList(r))
}
