package main

import (
	"context"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/philtim/digiclock/catalog"
	"github.com/philtim/digiclock/clock"
	"github.com/philtim/digiclock/config"
	"github.com/philtim/digiclock/zonedb"
	zlog "github.com/rs/zerolog/log"
)

// ErrAborted is returned when the user interrupts a prompt
var ErrAborted = errors.New("aborted")

// loadCatalog enumerates zones synchronously and builds the catalog. An
// enumeration failure leaves only the device option; ok reports success.
func loadCatalog(builder *catalog.Builder, zones *zonedb.Database, device func() (string, float64)) (*catalog.Catalog, bool) {
	err := zones.Load()
	if err != nil {
		zlog.Warn().Err(err).Msg("timezone enumeration failed, offering device time only")
	}
	id, offset := device()
	return builder.Build(id, offset, zones.Zones()), err == nil
}

// printZones writes the grouped catalog
func printZones(w io.Writer, builder *catalog.Builder, zones *zonedb.Database, device func() (string, float64)) error {
	cat, _ := loadCatalog(builder, zones, device)

	regionColor := color.New(color.FgCyan, color.Bold)
	currentColor := color.New(color.FgGreen)

	if _, err := currentColor.Fprintln(w, cat.Device.Label()); err != nil {
		return err
	}
	for _, g := range cat.Groups {
		if _, err := regionColor.Fprintf(w, "\n%s (%d)\n", g.Region, len(g.Entries)); err != nil {
			return err
		}
		for _, e := range g.Entries {
			line := fmt.Sprintf("  %-34s %-9s %s", e.ID, e.UTCLabel, e.City)
			var err error
			if e.Current {
				_, err = currentColor.Fprintln(w, line+" *")
			} else {
				_, err = fmt.Fprintln(w, line)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// nowOverrides replace saved preferences for a single render
type nowOverrides struct {
	zone   string
	format string
}

// printNow writes one rendered frame for the saved or overridden preferences.
// A saved zone missing from the catalog reverts to device time, as in the
// clock view.
func printNow(w io.Writer, store *config.Store, clk *clock.Clock, builder *catalog.Builder, zones *zonedb.Database, device func() (string, float64), o nowOverrides) error {
	prefs := store.Load()
	if cat, ok := loadCatalog(builder, zones, device); ok {
		prefs.Reconcile(cat.Contains)
	}
	if o.zone != "" {
		prefs.Zone = o.zone
		if err := prefs.Validate(); err != nil {
			return errors.Wrapf(err, "invalid zone '%s'", o.zone)
		}
	}
	switch o.format {
	case "12":
		prefs.Use24Hour = false
	case "24":
		prefs.Use24Hour = true
	}

	d := clk.Render(prefs)
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", d.Time, d.Date, d.Zone)
	return err
}

// promptDriver abstracts the interactive prompts so configure can be tested
// without a terminal.
type promptDriver interface {
	Select(ctx context.Context, message string, options []string, defaultIndex int) (int, error)
	Confirm(ctx context.Context, message string, defaultValue bool) (bool, error)
}

// configure asks for a timezone and hour format and saves them
func configure(ctx context.Context, driver promptDriver, store *config.Store, builder *catalog.Builder, zones *zonedb.Database, device func() (string, float64)) error {
	cat, ok := loadCatalog(builder, zones, device)
	prefs := store.Load()
	if ok {
		prefs.Reconcile(cat.Contains)
	}

	options := cat.Options()
	labels := make([]string, len(options))
	current := 0
	for i, e := range options {
		labels[i] = e.Label()
		if e.Region != "" {
			labels[i] = e.Region + " › " + e.Label()
		}
		if e.ID == prefs.Zone {
			current = i
		}
	}

	idx, err := driver.Select(ctx, "Timezone", labels, current)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return errors.Newf("no timezone option at index %d", idx)
	}

	use24Hour, err := driver.Confirm(ctx, "Use 24-hour format?", prefs.Use24Hour)
	if err != nil {
		return err
	}

	prefs.Zone = options[idx].ID
	prefs.Use24Hour = use24Hour
	store.Save(prefs)
	return nil
}

type surveyDriver struct{}

func newSurveyDriver() promptDriver {
	return &surveyDriver{}
}

func (d *surveyDriver) Select(ctx context.Context, message string, options []string, defaultIndex int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 15,
	}
	if defaultIndex >= 0 && defaultIndex < len(options) {
		prompt.Default = options[defaultIndex]
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, translateSurveyErr(err)
	}
	return indexOf(options, out), nil
}

func (d *surveyDriver) Confirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
