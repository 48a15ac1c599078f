package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-jubileum/internal/config"
)

// Clock supplies the DTSTAMP of generated events.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// CalendarBuilder turns jubilee results into an iCalendar document.
type CalendarBuilder struct {
	Clock Clock

	// FormatSummary lets the UI inject a localized event title.
	FormatSummary func(milestone int) string
}

// Build encodes one all-day event per result. reminderTrigger is an ISO8601
// duration ("-P1D"); empty disables alarms. Without results a minimal valid
// VCALENDAR is returned.
func (b *CalendarBuilder) Build(results []JubileumResult, reminderTrigger string) ([]byte, error) {
	if len(results) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var clock Clock = RealClock{}
	if b.Clock != nil {
		clock = b.Clock
	}
	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(clock.Now().UTC())

	cal := feedCalendar()
	for _, r := range results {
		ev := b.event(r, stamp)
		if reminderTrigger != "" {
			ev.Children = append(ev.Children, displayAlarm(reminderTrigger, ev.Props.Get(config.PropSummary).Value))
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgCalendarBuilt,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyResults, len(results),
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), nil
}

// feedCalendar carries the VCALENDAR headers subscribers use to name and
// poll the feed.
func feedCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	for name, value := range map[string]string{
		config.PropVersion:    config.ICalVersion,
		config.PropProdid:     config.ICalProdid,
		config.PropXWRCalName: config.ICalCalName,
		config.PropCalScale:   config.ICalScale,
		config.PropMethod:     config.ICalMethod,
	} {
		cal.Props.SetText(name, value)
	}
	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)
	return cal
}

// event is the all-day VEVENT for one milestone; the ages go in the description.
func (b *CalendarBuilder) event(r JubileumResult, stamp *ical.Prop) *ical.Event {
	summary := fmt.Sprintf(config.FallbackSummary, r.Milestone)
	if b.FormatSummary != nil {
		summary = b.FormatSummary(r.Milestone)
	}

	ev := ical.NewEvent()
	ev.Props.SetText(config.PropUID, resultUID(r))
	ev.Props.SetText(config.PropSummary, summary)
	ev.Props.SetText(config.PropDescription, FormatAgeList(r))
	ev.Props.Set(stamp)

	start := ical.NewProp(config.PropDTStart)
	start.SetDate(r.Date)
	ev.Props.Set(start)
	return ev
}

// resultUID is stable for the same group and milestone across rebuilds.
func resultUID(r JubileumResult) string {
	names := make([]string, len(r.Ages))
	for i, a := range r.Ages {
		names[i] = a.Participant.Name
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf(config.FormatHashInput,
		r.Milestone, FormatDate(r.Date), strings.Join(names, config.NameJoin), config.UIDSalt)))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", sum[:config.UIDHashLength]), r.Milestone, config.ICalDomain)
}

// displayAlarm is a VALARM that pops a notification at trigger.
func displayAlarm(trigger, description string) *ical.Component {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// SetText would add VALUE=TEXT, which calendar clients reject on TRIGGER.
	t := ical.NewProp(config.PropTrigger)
	t.Value = trigger
	alarm.Props.Set(t)
	return alarm
}

// ReminderTrigger builds the ISO8601 alarm offset for value units before or
// after the start of the event day, e.g. "-P1D" or "PT2H".
func ReminderTrigger(value int, unit, direction string) string {
	sign := config.ISOPeriodPrefix
	if direction != config.DirAfter {
		sign = config.ISONegativePrefix
	}

	switch unit {
	case config.UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTime, value, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTime, value, config.ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, value, config.ISODay)
	}
}
