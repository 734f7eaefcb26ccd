// Package zonedb enumerates the IANA zone ids available on the host.
package zonedb

import (
	"archive/zip"
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// canonicalAreas are the first path segments of canonical zone ids.
// Backward-compatible links such as US/Eastern live outside them, but links
// inside an area (Asia/Calcutta) are only caught by the source's index files.
var canonicalAreas = map[string]bool{
	"Africa":     true,
	"America":    true,
	"Antarctica": true,
	"Arctic":     true,
	"Asia":       true,
	"Atlantic":   true,
	"Australia":  true,
	"Europe":     true,
	"Indian":     true,
	"Pacific":    true,
}

// ErrNoSource is returned when none of the sources yields a zone id
var ErrNoSource = errors.New("no zoneinfo source found")

// Database holds the zone ids found on the host
type Database struct {
	sources []string
	valid   func(id string) bool
	zones   []string
	ready   bool
	err     error
	mu      sync.RWMutex
}

// NewDatabase creates a database that scans sources in order, keeping only
// ids accepted by valid. With no sources DefaultSources is used.
func NewDatabase(valid func(id string) bool, sources ...string) *Database {
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	if valid == nil {
		valid = func(string) bool { return true }
	}
	return &Database{
		sources: sources,
		valid:   valid,
	}
}

// DefaultSources returns the zoneinfo locations to scan: $ZONEINFO, the usual
// system directories, then the zip shipped with the Go toolchain.
func DefaultSources() []string {
	var sources []string
	if zi := os.Getenv("ZONEINFO"); zi != "" {
		sources = append(sources, zi)
	}
	sources = append(sources,
		"/usr/share/zoneinfo",
		"/usr/lib/zoneinfo",
		"/usr/share/lib/zoneinfo",
	)
	if root := runtime.GOROOT(); root != "" {
		sources = append(sources, filepath.Join(root, "lib", "time", "zoneinfo.zip"))
	}
	return sources
}

// LoadAsync scans the sources in the background
func (db *Database) LoadAsync() {
	go func() {
		if err := db.Load(); err != nil {
			zlog.Warn().Err(err).Msg("timezone enumeration failed, offering device time only")
		}
	}()
}

// Load scans the sources until one yields zone ids. On failure the database
// becomes ready with no zones and the error is kept for GetError.
func (db *Database) Load() error {
	zones, err := db.scan()

	db.mu.Lock()
	defer db.mu.Unlock()
	db.zones = zones
	db.err = err
	db.ready = true
	return err
}

func (db *Database) scan() ([]string, error) {
	for _, source := range db.sources {
		names, official, err := list(source)
		if err != nil {
			zlog.Debug().Err(err).Str("source", source).Msg("skipping zoneinfo source")
			continue
		}

		zones := db.filter(names, official)
		if len(zones) == 0 {
			continue
		}
		zlog.Debug().Str("source", source).Int("zones", len(zones)).Msg("zoneinfo loaded")
		return zones, nil
	}
	return nil, ErrNoSource
}

// filter keeps canonical, valid ids. A non-nil official set further restricts
// the result to the names the source's index files declare as zones.
func (db *Database) filter(names []string, official map[string]bool) []string {
	seen := make(map[string]bool, len(names))
	var zones []string
	for _, name := range names {
		if seen[name] || !Canonical(name) || !db.valid(name) {
			continue
		}
		if official != nil && name != "UTC" && !official[name] {
			continue
		}
		seen[name] = true
		zones = append(zones, name)
	}
	sort.Strings(zones)
	return zones
}

// IsReady returns whether loading has finished, successfully or not
func (db *Database) IsReady() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.ready
}

// GetError returns any error that occurred during loading
func (db *Database) GetError() error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.err
}

// Zones returns a copy of the loaded zone ids, sorted
func (db *Database) Zones() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]string(nil), db.zones...)
}

// Canonical reports whether name looks like a canonical zone id
func Canonical(name string) bool {
	if name == "UTC" {
		return true
	}
	area, rest, ok := strings.Cut(name, "/")
	return ok && rest != "" && canonicalAreas[area]
}

// list returns the candidate names in a zoneinfo directory or zip, plus the
// official zone names from its index files (nil when it has none)
func list(source string) ([]string, map[string]bool, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, nil, err
	}

	var fsys fs.FS
	if info.IsDir() {
		fsys = os.DirFS(source)
	} else {
		r, err := zip.OpenReader(source)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to open %s", source)
		}
		defer r.Close()
		fsys = r
	}

	var names []string
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to list %s", source)
	}
	return names, officialNames(fsys), nil
}

// officialNames collects zone names from tzdata.zi ("Z" lines; "L" lines are
// links) and the third column of zone1970.tab and zone.tab.
func officialNames(fsys fs.FS) map[string]bool {
	official := make(map[string]bool)

	if data, err := fs.ReadFile(fsys, "tzdata.zi"); err == nil {
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) >= 2 && fields[0] == "Z" {
				official[fields[1]] = true
			}
		}
	}

	for _, tab := range []string{"zone1970.tab", "zone.tab"} {
		data, err := fs.ReadFile(fsys, tab)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "#") {
				continue
			}
			fields := strings.Split(line, "\t")
			if len(fields) >= 3 {
				official[fields[2]] = true
			}
		}
	}

	if len(official) == 0 {
		return nil
	}
	zlog.Debug().Int("zones", len(official)).Msg("using zoneinfo index files")
	return official
}
