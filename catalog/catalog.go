// Package catalog groups IANA zone ids into labelled display regions for the
// zone picker.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/philtim/digiclock/clock"
	"github.com/philtim/digiclock/config"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Display regions in the order they are listed.
const (
	RegionAfrica   = "Africa"
	RegionEurope   = "Europe"
	RegionAsia     = "Asia"
	RegionAmericas = "Americas"
	RegionOceania  = "Australia & Oceania"
	RegionIndian   = "Indian Ocean"
	RegionAtlantic = "Atlantic"
	RegionOther    = "Other"
)

// Regions lists every display region in order
var Regions = []string{
	RegionAfrica,
	RegionEurope,
	RegionAsia,
	RegionAmericas,
	RegionOceania,
	RegionIndian,
	RegionAtlantic,
	RegionOther,
}

var regionByPrefix = map[string]string{
	"Africa":    RegionAfrica,
	"Europe":    RegionEurope,
	"Asia":      RegionAsia,
	"America":   RegionAmericas,
	"Australia": RegionOceania,
	"Pacific":   RegionOceania,
	"Indian":    RegionIndian,
	"Atlantic":  RegionAtlantic,
}

// RegionOf returns the display region for a zone id's first path segment
func RegionOf(id string) string {
	prefix, _, _ := strings.Cut(id, "/")
	if region, ok := regionByPrefix[prefix]; ok {
		return region
	}
	return RegionOther
}

// Entry is one selectable timezone
type Entry struct {
	ID       string
	Region   string
	City     string
	UTCLabel string
	// Current marks the device option and the zone the device resolves to
	Current bool
}

// Group is a region and its entries, sorted by city
type Group struct {
	Region  string
	Entries []Entry
}

// Catalog is the device option followed by the region groups
type Catalog struct {
	Device Entry
	Groups []Group
	ids    map[string]struct{}
}

// Builder builds catalogs. Now and Load are replaceable for tests.
type Builder struct {
	Now  func() time.Time
	Load func(id string) (*time.Location, error)
}

// NewBuilder returns a Builder that reads the system clock and loads zones
// through resolver.
func NewBuilder(resolver *clock.Resolver) *Builder {
	if resolver == nil {
		resolver = clock.NewResolver()
	}
	return &Builder{
		Now:  time.Now,
		Load: resolver.Location,
	}
}

// Build builds a catalog with a default Builder
func Build(deviceZone string, offsetHours float64, zones []string) *Catalog {
	return NewBuilder(nil).Build(deviceZone, offsetHours, zones)
}

// Build groups zones into regions. deviceZone is the IANA id the host
// resolves as local and offsetHours its current offset from UTC. An empty
// zone list yields a catalog holding only the device option.
func (b *Builder) Build(deviceZone string, offsetHours float64, zones []string) *Catalog {
	now := b.Now()
	c := &Catalog{
		Device: Entry{
			ID:       config.DeviceZone,
			City:     DeviceLabel(deviceZone),
			UTCLabel: "UTC" + FormatOffset(offsetHours),
			Current:  true,
		},
		ids: make(map[string]struct{}, len(zones)),
	}

	byRegion := make(map[string][]Entry, len(Regions))
	for _, id := range zones {
		if id == "" || id == config.DeviceZone {
			continue
		}
		if _, dup := c.ids[id]; dup {
			continue
		}
		c.ids[id] = struct{}{}

		region := RegionOf(id)
		byRegion[region] = append(byRegion[region], Entry{
			ID:       id,
			Region:   region,
			City:     CityLabel(id),
			UTCLabel: b.utcLabel(now, id),
			Current:  id == deviceZone,
		})
	}

	col := collate.New(language.English, collate.Loose)
	for _, region := range Regions {
		entries := byRegion[region]
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			if cmp := col.CompareString(entries[i].City, entries[j].City); cmp != 0 {
				return cmp < 0
			}
			return entries[i].ID < entries[j].ID
		})
		c.Groups = append(c.Groups, Group{Region: region, Entries: entries})
	}

	zlog.Debug().Int("zones", len(c.ids)).Int("groups", len(c.Groups)).Msg("catalog built")
	return c
}

func (b *Builder) utcLabel(now time.Time, id string) string {
	loc, err := b.Load(id)
	if err != nil {
		return "UTC"
	}
	return clock.UTCLabel(now, loc)
}

// Contains reports whether id is offered, the device option included
func (c *Catalog) Contains(id string) bool {
	if id == config.DeviceZone {
		return true
	}
	_, ok := c.ids[id]
	return ok
}

// Len returns the number of concrete zones
func (c *Catalog) Len() int {
	return len(c.ids)
}

// Options returns every entry in display order, device option first
func (c *Catalog) Options() []Entry {
	options := make([]Entry, 0, len(c.ids)+1)
	options = append(options, c.Device)
	for _, g := range c.Groups {
		options = append(options, g.Entries...)
	}
	return options
}

// Search filters Options by a case-insensitive substring of the id, city or
// region. The device option is always kept first.
func (c *Catalog) Search(query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Options()
	}

	results := []Entry{c.Device}
	for _, g := range c.Groups {
		for _, e := range g.Entries {
			if strings.Contains(strings.ToLower(e.ID), query) ||
				strings.Contains(strings.ToLower(e.City), query) ||
				strings.Contains(strings.ToLower(e.Region), query) {
				results = append(results, e)
			}
		}
	}
	return results
}

// Label returns the text shown for an entry in the picker
func (e Entry) Label() string {
	if e.ID == config.DeviceZone {
		return fmt.Sprintf("Device time: %s (%s)", e.City, e.UTCLabel)
	}
	return fmt.Sprintf("%s (%s)", e.City, e.UTCLabel)
}
