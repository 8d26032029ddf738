package location

import (
	"sync/atomic"
	"time"
)

var current atomic.Pointer[time.Location]

// Location returns the time zone event dates are entered and shown in. It is
// UTC until Set is called.
func Location() *time.Location {
	if loc := current.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

func Set(loc *time.Location) {
	current.Store(loc)
}

// Load sets the location by its IANA name.
func Load(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Set(loc)
	return nil
}
