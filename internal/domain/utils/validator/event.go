package validator

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/utils/location"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	MaxCapacity = 100000
)

func EventTitle(title string) bool {
	title = strings.TrimSpace(title)
	return utf8.RuneCountInString(title) >= 3 && utf8.RuneCountInString(title) <= 120
}

func EventDescription(description string) bool {
	description = strings.TrimSpace(description)
	return description != "" && utf8.RuneCountInString(description) <= 2000
}

func EventLocation(location string) bool {
	location = strings.TrimSpace(location)
	return utf8.RuneCountInString(location) >= 2 && utf8.RuneCountInString(location) <= 150
}

func EventCapacity(capacity int) bool {
	return capacity >= 1 && capacity <= MaxCapacity
}

// EventStart parses date and clock in the configured location.
func EventStart(date, clock string) (time.Time, bool) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return time.Time{}, false
	}
	if _, err := time.Parse(timeLayout, clock); err != nil {
		return time.Time{}, false
	}
	start, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, location.Location())
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}

// Event checks every field of the submission and returns the start time in
// UTC. The returned error is an *errorz.ValidationError naming all failed
// fields.
func Event(input dto.EventInput, now time.Time) (time.Time, error) {
	var fields []string
	if !EventTitle(input.Title) {
		fields = append(fields, "title")
	}
	if !EventDescription(input.Description) {
		fields = append(fields, "description")
	}

	start, ok := EventStart(input.Date, input.Time)
	switch {
	case !ok:
		if _, err := time.Parse(dateLayout, input.Date); err != nil {
			fields = append(fields, "date")
		}
		if _, err := time.Parse(timeLayout, input.Time); err != nil {
			fields = append(fields, "time")
		}
	case !start.After(now):
		fields = append(fields, "date")
	}

	if !EventLocation(input.Location) {
		fields = append(fields, "location")
	}
	if !EventCapacity(input.Capacity) {
		fields = append(fields, "capacity")
	}

	if err := errorz.Validation(fields...); err != nil {
		return time.Time{}, err
	}
	return start.UTC(), nil
}
