package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/dto"
	ics "github.com/arran4/golang-ical"
)

// DefaultDuration is used as the length of events, which have no end time.
const DefaultDuration = time.Hour

// ExportEventsToICS renders the registrations of a user as an iCalendar feed.
// Every event gets reminders one day and one hour before the start.
func ExportEventsToICS(events []dto.UserEvent, now time.Time) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Campus Events//EN")
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")

	for _, event := range events {
		e := cal.AddEvent(fmt.Sprintf("%s@campus-events", event.ID))

		e.SetDtStampTime(now)
		e.SetCreatedTime(event.JoinedAt)
		e.SetModifiedAt(now)
		e.SetStartAt(event.StartsAt)
		e.SetEndAt(event.StartsAt.Add(DefaultDuration))

		e.SetSummary(event.Title)
		e.SetDescription(event.Description)
		e.SetLocation(event.Location)
		e.SetStatus(ics.ObjectStatusConfirmed)
		e.SetTimeTransparency(ics.TransparencyOpaque)
		e.SetClass(ics.ClassificationPublic)
		e.SetSequence(0)

		dayAlarm := e.AddAlarm()
		dayAlarm.SetAction(ics.ActionDisplay)
		dayAlarm.AddProperty("TRIGGER;VALUE=DURATION", "-P1D")
		dayAlarm.SetDescription(fmt.Sprintf("Reminder: %s (tomorrow)", event.Title))

		hourAlarm := e.AddAlarm()
		hourAlarm.SetAction(ics.ActionDisplay)
		hourAlarm.AddProperty("TRIGGER;VALUE=DURATION", "-PT1H")
		hourAlarm.SetDescription(fmt.Sprintf("Reminder: %s (in an hour)", event.Title))
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, fmt.Errorf("error serializing calendar: %w", err)
	}

	return buf.Bytes(), nil
}
