package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/codeGROOVE-dev/retry"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	// DeviceZone selects the timezone the host resolves as local
	DeviceZone = "device"

	// FileName is the preferences file inside the user config directory
	FileName = "digiclock.yaml"

	hourFormat12 = "12"
	hourFormat24 = "24"

	saveAttempts = 3
)

var validate = newValidator()

// Preferences are the two user choices that survive restarts
type Preferences struct {
	Zone      string `validate:"required,zone"`
	Use24Hour bool
}

// Defaults returns the preferences used before anything has been saved
func Defaults() Preferences {
	return Preferences{Zone: DeviceZone, Use24Hour: true}
}

// Validate checks that Zone is the device selection or a loadable IANA id
func (p Preferences) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// Reconcile reverts the zone to the device selection when the catalog does
// not offer it. It reports whether anything changed.
func (p *Preferences) Reconcile(offered func(string) bool) bool {
	if p.Zone == DeviceZone || offered(p.Zone) {
		return false
	}
	zlog.Info().Str("zone", p.Zone).Msg("stored timezone is not offered, using device time")
	p.Zone = DeviceZone
	return true
}

// document is the on-disk form: two string keys
type document struct {
	Timezone   string `yaml:"timezone"`
	HourFormat string `yaml:"hour_format"`
}

func (d document) preferences() Preferences {
	prefs := Defaults()
	if d.Timezone != "" {
		prefs.Zone = d.Timezone
	}
	prefs.Use24Hour = d.HourFormat != hourFormat12
	return prefs
}

func newDocument(p Preferences) document {
	format := hourFormat24
	if !p.Use24Hour {
		format = hourFormat12
	}
	return document{Timezone: p.Zone, HourFormat: format}
}

// Store persists preferences to a YAML file. Every operation is best effort.
type Store struct {
	path string
}

// NewStore creates a store at path, or at ~/.config/digiclock.yaml when path is empty
func NewStore(path string) *Store {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			zlog.Warn().Err(err).Msg("no home directory, preferences will not persist")
		}
	}
	return &Store{path: path}
}

// Path returns the file the store reads and writes
func (s *Store) Path() string {
	return s.path
}

// Load reads the preferences file. A missing, unreadable or corrupt file
// yields Defaults.
func (s *Store) Load() Preferences {
	prefs, err := s.load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zlog.Warn().Err(err).Str("path", s.path).Msg("ignoring stored preferences")
		}
		return Defaults()
	}
	return prefs
}

func (s *Store) load() (Preferences, error) {
	if s.path == "" {
		return Preferences{}, errors.Wrap(os.ErrNotExist, "no preferences path")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Preferences{}, errors.Wrap(err, "failed to read preferences")
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Preferences{}, errors.Wrap(err, "failed to parse preferences")
	}
	return doc.preferences(), nil
}

// Save writes the preferences. Failures are logged and otherwise ignored.
func (s *Store) Save(p Preferences) {
	if err := s.save(p); err != nil {
		zlog.Warn().Err(err).Str("path", s.path).Msg("preferences not saved")
		return
	}
	zlog.Debug().Str("zone", p.Zone).Bool("use24h", p.Use24Hour).Msg("preferences saved")
}

func (s *Store) save(p Preferences) error {
	if s.path == "" {
		return errors.New("no preferences path")
	}

	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "invalid preferences")
	}

	data, err := yaml.Marshal(newDocument(p))
	if err != nil {
		return errors.Wrap(err, "failed to marshal preferences")
	}

	return retry.Do(
		func() error { return writeAtomic(s.path, data) },
		retry.Attempts(saveAttempts),
		retry.Delay(50*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			zlog.Debug().Err(err).Uint("attempt", n+1).Msg("retrying preferences write")
		}),
	)
}

// writeAtomic writes data to a temp file next to path, then renames it
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tempFile, err := os.CreateTemp(dir, "digiclock-*.yaml.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return errors.Wrap(err, "failed to write temp file")
	}

	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(err, "failed to close temp file")
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Wrap(err, "failed to rename temp file")
	}

	return nil
}

// DefaultPath returns ~/.config/digiclock.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", FileName), nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	// "zone" accepts the device selection or anything time.LoadLocation knows
	_ = v.RegisterValidation("zone", func(fl validator.FieldLevel) bool {
		zone := fl.Field().String()
		if zone == DeviceZone {
			return true
		}
		if zone == "Local" {
			return false
		}
		_, err := time.LoadLocation(zone)
		return err == nil
	})
	return v
}
