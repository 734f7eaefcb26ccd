package clock

import (
	"fmt"
	"time"

	"github.com/philtim/digiclock/config"
	zlog "github.com/rs/zerolog/log"
)

// Display is one rendered frame of the clock.
type Display struct {
	Time string
	Date string
	Zone string
}

// Clock renders the current time for a set of preferences
type Clock struct {
	Resolver *Resolver
	Now      func() time.Time
}

// New creates a new Clock reading the system clock
func New(resolver *Resolver) *Clock {
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Clock{
		Resolver: resolver,
		Now:      time.Now,
	}
}

// GetTime returns the current wall clock time for the given zone selection.
// The device selection and any zone that cannot be resolved use local time.
func (c *Clock) GetTime(zone string) time.Time {
	t, _, _ := c.resolve(zone)
	return t
}

// Render computes the time, date and zone lines for one tick
func (c *Clock) Render(prefs config.Preferences) Display {
	t, name, offset := c.resolve(prefs.Zone)
	return Display{
		Time: FormatTime(t.Hour(), t.Minute(), t.Second(), prefs.Use24Hour),
		Date: FormatDate(t),
		Zone: fmt.Sprintf("%s · %s", name, OffsetLabel(offset)),
	}
}

func (c *Clock) resolve(zone string) (time.Time, string, int) {
	now := c.Now()
	local := now.Local()
	_, localOffset := local.Zone()
	if zone == config.DeviceZone {
		return local, "Device time", localOffset
	}

	loc, err := c.Resolver.Location(zone)
	if err != nil {
		zlog.Debug().Err(err).Str("zone", zone).Msg("falling back to device time")
		return local, "Device time", localOffset
	}

	// the shifted time carries the local offset, so read it from the zone
	_, offset := now.In(loc).Zone()
	return Shift(now, loc), zone, offset
}

// Shift moves an instant into loc by rebuilding its wall clock fields as a
// local time. Sub-second precision is dropped, and wall times that fall into a
// local DST gap are normalised by time.Date.
func Shift(now time.Time, loc *time.Location) time.Time {
	w := now.In(loc)
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), 0, time.Local)
}

// FormatTime returns HH:MM:SS in 24-hour mode, hh:MM:SS AM/PM otherwise
func FormatTime(hour, minute, second int, use24Hour bool) string {
	if use24Hour {
		return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
	}

	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}
	suffix := " AM"
	if hour >= 12 {
		suffix = " PM"
	}
	return fmt.Sprintf("%02d:%02d:%02d%s", displayHour, minute, second, suffix)
}

// FormatDate returns the long form date, e.g. "Thursday, 11 December 2025"
func FormatDate(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

// OffsetLabel returns a short UTC offset label such as "UTC", "UTC+3" or
// "UTC-3:30" for an offset in seconds east of UTC.
func OffsetLabel(offset int) string {
	if offset == 0 {
		return "UTC"
	}

	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}

	hours := offset / 3600
	minutes := (offset % 3600) / 60
	if minutes == 0 {
		return fmt.Sprintf("UTC%s%d", sign, hours)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, hours, minutes)
}

// UTCLabel returns the short offset label of t in loc
func UTCLabel(t time.Time, loc *time.Location) string {
	if loc == nil {
		return "UTC"
	}
	_, offset := t.In(loc).Zone()
	return OffsetLabel(offset)
}
