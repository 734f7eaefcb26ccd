package clock

import (
	"strings"
	"testing"
	"time"

	"github.com/philtim/digiclock/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedNow is a Sunday in June, away from any DST transition
var fixedNow = time.Date(2025, 6, 15, 12, 30, 45, 123456789, time.UTC)

func newFixedClock() *Clock {
	c := New(nil)
	c.Now = func() time.Time { return fixedNow }
	return c
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		minute int
		second int
		use24  bool
		want   string
	}{
		{"midnight 24h", 0, 5, 9, true, "00:05:09"},
		{"midnight 12h", 0, 5, 9, false, "12:05:09 AM"},
		{"early afternoon 12h", 13, 0, 0, false, "01:00:00 PM"},
		{"noon 12h", 12, 0, 0, false, "12:00:00 PM"},
		{"morning 12h", 11, 30, 0, false, "11:30:00 AM"},
		{"last second 24h", 23, 59, 59, true, "23:59:59"},
		{"last second 12h", 23, 59, 59, false, "11:59:59 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.hour, tt.minute, tt.second, tt.use24))
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 12, 11, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "Thursday, 11 December 2025", FormatDate(d))
}

func TestOffsetLabel(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, "UTC"},
		{3 * 3600, "UTC+3"},
		{-8 * 3600, "UTC-8"},
		{-(3*3600 + 30*60), "UTC-3:30"},
		{5*3600 + 45*60, "UTC+5:45"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OffsetLabel(tt.offset))
		})
	}
}

func TestUTCLabel(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	assert.Equal(t, "UTC+5:30", UTCLabel(fixedNow, kolkata))
	assert.Equal(t, "UTC+2", UTCLabel(fixedNow, paris))
	assert.Equal(t, "UTC", UTCLabel(fixedNow, time.UTC))
	assert.Equal(t, "UTC", UTCLabel(fixedNow, nil))
}

func TestShift(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	shifted := Shift(fixedNow, tokyo)

	assert.Equal(t, 21, shifted.Hour())
	assert.Equal(t, 30, shifted.Minute())
	assert.Equal(t, 45, shifted.Second())
	assert.Equal(t, 15, shifted.Day())
	assert.Zero(t, shifted.Nanosecond(), "sub-second precision is dropped")
	assert.Equal(t, time.Local, shifted.Location())
}

func TestShiftCrossesDate(t *testing.T) {
	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)

	late := time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)
	shifted := Shift(late, auckland)

	assert.Equal(t, 16, shifted.Day())
	assert.Equal(t, 8, shifted.Hour())
}

func TestRender(t *testing.T) {
	c := newFixedClock()

	t.Run("zone in 24h", func(t *testing.T) {
		d := c.Render(config.Preferences{Zone: "Asia/Tokyo", Use24Hour: true})
		assert.Equal(t, "21:30:45", d.Time)
		assert.Equal(t, "Sunday, 15 June 2025", d.Date)
		assert.Equal(t, "Asia/Tokyo · UTC+9", d.Zone)
	})

	t.Run("zone in 12h", func(t *testing.T) {
		d := c.Render(config.Preferences{Zone: "Asia/Tokyo", Use24Hour: false})
		assert.Equal(t, "09:30:45 PM", d.Time)
	})

	t.Run("fractional offset", func(t *testing.T) {
		d := c.Render(config.Preferences{Zone: "Asia/Kolkata", Use24Hour: true})
		assert.Equal(t, "18:00:45", d.Time)
		assert.Equal(t, "Asia/Kolkata · UTC+5:30", d.Zone)
	})

	t.Run("device uses local time", func(t *testing.T) {
		local := fixedNow.Local()
		d := c.Render(config.Preferences{Zone: config.DeviceZone, Use24Hour: true})
		assert.Equal(t, local.Format("15:04:05"), d.Time)
		assert.Equal(t, FormatDate(local), d.Date)
		assert.True(t, strings.HasPrefix(d.Zone, "Device time · "))
	})

	t.Run("unknown zone falls back to local time", func(t *testing.T) {
		local := fixedNow.Local()
		d := c.Render(config.Preferences{Zone: "Mars/Olympus_Mons", Use24Hour: true})
		assert.Equal(t, local.Format("15:04:05"), d.Time)
		assert.True(t, strings.HasPrefix(d.Zone, "Device time · "))
	})
}

func TestGetTime(t *testing.T) {
	c := newFixedClock()

	assert.Equal(t, 21, c.GetTime("Asia/Tokyo").Hour())
	assert.Equal(t, fixedNow.Local(), c.GetTime(config.DeviceZone))
}

func TestResolver(t *testing.T) {
	r := NewResolver()

	first, err := r.Location("Europe/Paris")
	require.NoError(t, err)
	second, err := r.Location("Europe/Paris")
	require.NoError(t, err)
	assert.Same(t, first, second, "second lookup is served from the cache")

	for _, id := range []string{"", "Local", "device", "Mars/Olympus_Mons"} {
		_, err := r.Location(id)
		assert.Error(t, err, id)
		assert.False(t, r.Valid(id), id)
	}
	assert.True(t, r.Valid("UTC"))
}
