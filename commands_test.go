package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/philtim/digiclock/config"
	"github.com/philtim/digiclock/zonedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver answers prompts from fixed values and records what it was asked
type fakeDriver struct {
	choose  string
	use24   bool
	err     error
	options []string
	def     int
}

func (d *fakeDriver) Select(_ context.Context, _ string, options []string, defaultIndex int) (int, error) {
	d.options = options
	d.def = defaultIndex
	if d.err != nil {
		return 0, d.err
	}
	return indexOf(options, d.choose), nil
}

func (d *fakeDriver) Confirm(_ context.Context, _ string, _ bool) (bool, error) {
	return d.use24, nil
}

func TestPrintZones(t *testing.T) {
	color.NoColor = true
	f := newFixture(t)

	var out bytes.Buffer
	require.NoError(t, printZones(&out, f.builder, f.zones, parisDevice))

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "Device time: Central European Time / Paris, France (UTC+2)\n"))

	europe := strings.Index(got, "\nEurope (2)\n")
	asia := strings.Index(got, "\nAsia (1)\n")
	americas := strings.Index(got, "\nAmericas (1)\n")
	require.NotEqual(t, -1, europe)
	assert.Less(t, europe, asia)
	assert.Less(t, asia, americas)

	assert.Contains(t, got, "  Europe/Paris                       UTC+2     Paris *\n")
	assert.Contains(t, got, "  Asia/Tokyo                         UTC+9     Tokyo\n")
	assert.Less(t, strings.Index(got, "Europe/London"), strings.Index(got, "Europe/Paris"))
}

func TestPrintZonesWithoutSource(t *testing.T) {
	color.NoColor = true
	f := newFixture(t)

	var out bytes.Buffer
	zones := zonedb.NewDatabase(nil, filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, printZones(&out, f.builder, zones, parisDevice))
	assert.Equal(t, "Device time: Central European Time / Paris, France (UTC+2)\n", out.String())
}

func TestPrintNow(t *testing.T) {
	f := newFixture(t)

	var out bytes.Buffer
	require.NoError(t, printNow(&out, f.store, f.clock, f.builder, f.zones, parisDevice, nowOverrides{zone: "Asia/Tokyo", format: "12"}))
	assert.Equal(t, "09:30:45 PM\nSunday, 15 June 2025\nAsia/Tokyo · UTC+9\n", out.String())
}

func TestPrintNowSavedPreferences(t *testing.T) {
	f := newFixture(t)
	f.store.Save(config.Preferences{Zone: "America/New_York", Use24Hour: true})

	var out bytes.Buffer
	require.NoError(t, printNow(&out, f.store, f.clock, f.builder, f.zones, parisDevice, nowOverrides{}))
	assert.Equal(t, "08:30:45\nSunday, 15 June 2025\nAmerica/New_York · UTC-4\n", out.String())

	out.Reset()
	require.NoError(t, printNow(&out, f.store, f.clock, f.builder, f.zones, parisDevice, nowOverrides{format: "12"}))
	assert.True(t, strings.HasPrefix(out.String(), "08:30:45 AM\n"))
}

func TestPrintNowSavedZoneNotOffered(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.store.Path(), []byte("timezone: US/Eastern\nhour_format: \"24\"\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, printNow(&out, f.store, f.clock, f.builder, f.zones, parisDevice, nowOverrides{}))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "Device time · "), lines[2])
	assert.NotContains(t, out.String(), "US/Eastern")
	assert.Equal(t, "US/Eastern", f.store.Load().Zone, "reverting is not persisted")
}

func TestPrintNowWithoutSourceKeepsSavedZone(t *testing.T) {
	f := newFixture(t)
	f.store.Save(config.Preferences{Zone: "Asia/Kolkata", Use24Hour: true})
	zones := zonedb.NewDatabase(nil, filepath.Join(t.TempDir(), "missing"))

	var out bytes.Buffer
	require.NoError(t, printNow(&out, f.store, f.clock, f.builder, zones, parisDevice, nowOverrides{}))
	assert.Equal(t, "18:00:45\nSunday, 15 June 2025\nAsia/Kolkata · UTC+5:30\n", out.String())
}

func TestPrintNowInvalidZone(t *testing.T) {
	f := newFixture(t)

	var out bytes.Buffer
	err := printNow(&out, f.store, f.clock, f.builder, f.zones, parisDevice, nowOverrides{zone: "Mars/Olympus_Mons"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid zone 'Mars/Olympus_Mons'")
	assert.Empty(t, out.String())
}

func TestConfigure(t *testing.T) {
	f := newFixture(t)
	driver := &fakeDriver{choose: "Asia › Tokyo (UTC+9)", use24: false}

	require.NoError(t, configure(context.Background(), driver, f.store, f.builder, f.zones, parisDevice))

	assert.Equal(t, "Device time: Central European Time / Paris, France (UTC+2)", driver.options[0])
	assert.Len(t, driver.options, len(fixtureZones)+1)
	assert.Equal(t, 0, driver.def)
	assert.Equal(t, config.Preferences{Zone: "Asia/Tokyo", Use24Hour: false}, f.store.Load())
}

func TestConfigureDefaultsToSavedZone(t *testing.T) {
	f := newFixture(t)
	f.store.Save(config.Preferences{Zone: "Europe/London", Use24Hour: true})
	driver := &fakeDriver{choose: "Europe › London (UTC+1)", use24: true}

	require.NoError(t, configure(context.Background(), driver, f.store, f.builder, f.zones, parisDevice))
	assert.Equal(t, "Europe › London (UTC+1)", driver.options[driver.def])
}

func TestConfigureAborted(t *testing.T) {
	f := newFixture(t)
	f.store.Save(config.Preferences{Zone: "Asia/Tokyo", Use24Hour: false})
	driver := &fakeDriver{err: ErrAborted}

	err := configure(context.Background(), driver, f.store, f.builder, f.zones, parisDevice)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, config.Preferences{Zone: "Asia/Tokyo", Use24Hour: false}, f.store.Load())
}

func TestConfigureUnknownOption(t *testing.T) {
	f := newFixture(t)
	driver := &fakeDriver{choose: "Nowhere"}

	err := configure(context.Background(), driver, f.store, f.builder, f.zones, parisDevice)
	assert.Error(t, err)
	assert.Equal(t, config.Defaults(), f.store.Load())
}
