// Package main provides the digiclock entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/philtim/digiclock/catalog"
	"github.com/philtim/digiclock/clock"
	"github.com/philtim/digiclock/config"
	"github.com/philtim/digiclock/logger"
	"github.com/philtim/digiclock/zonedb"
	zlog "github.com/rs/zerolog/log"
)

var (
	app        = kingpin.New("digiclock", "Terminal digital clock with a selectable timezone")
	configPath = app.Flag("config", "Path to the preferences file (default: ~/.config/digiclock.yaml)").Envar("DIGICLOCK_CONFIG").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Envar("VERBOSE").Bool()
	logfile    = app.Flag("logfile", "Log target: stdout, stderr, discard or a file path").Envar("LOGFILE").String()

	runCmd = app.Command("run", "Show the clock (default)").Default()

	zonesCmd = app.Command("zones", "List the timezone catalog")

	nowCmd    = app.Command("now", "Print the current time and date once")
	nowZone   = nowCmd.Flag("zone", "IANA timezone or 'device', instead of the saved one").String()
	nowFormat = nowCmd.Flag("format", "Hour format instead of the saved one").Enum("12", "24")

	configureCmd = app.Command("configure", "Choose timezone and hour format interactively")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	target := *logfile
	if target == "" && command == runCmd.FullCommand() {
		target = logger.Discard
	}
	if err := logger.Init(*verbose, target); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	store := config.NewStore(*configPath)
	resolver := clock.NewResolver()
	zones := zonedb.NewDatabase(resolver.Valid)
	builder := catalog.NewBuilder(resolver)
	clk := clock.New(resolver)

	var err error
	switch command {
	case runCmd.FullCommand():
		zones.LoadAsync()
		p := tea.NewProgram(newModel(store, clk, builder, zones), tea.WithAltScreen())
		_, err = p.Run()

	case zonesCmd.FullCommand():
		err = printZones(os.Stdout, builder, zones, zonedb.Device)

	case nowCmd.FullCommand():
		err = printNow(os.Stdout, store, clk, builder, zones, zonedb.Device, nowOverrides{zone: *nowZone, format: *nowFormat})

	case configureCmd.FullCommand():
		err = configure(context.Background(), newSurveyDriver(), store, builder, zones, zonedb.Device)
	}

	if err != nil {
		zlog.Error().Err(err).Str("command", command).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
