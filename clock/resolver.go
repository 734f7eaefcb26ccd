package clock

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maypok86/otter/v2"
)

// resolverCapacity covers the full tz database with room to spare.
const resolverCapacity = 1024

// Resolver loads IANA locations and keeps them in a bounded cache, since the
// clock looks its zone up on every tick and the catalog looks up every zone.
type Resolver struct {
	cache *otter.Cache[string, *time.Location]
}

// NewResolver creates an empty Resolver
func NewResolver() *Resolver {
	return &Resolver{
		cache: otter.Must(&otter.Options[string, *time.Location]{
			MaximumSize: resolverCapacity,
		}),
	}
}

// Location returns the location for an IANA zone id.
// Failed lookups are not cached.
func (r *Resolver) Location(id string) (*time.Location, error) {
	if id == "" || id == "Local" {
		return nil, errors.Newf("'%s' is not an IANA timezone", id)
	}

	if loc, ok := r.cache.GetIfPresent(id); ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load timezone '%s'", id)
	}
	r.cache.Set(id, loc)
	return loc, nil
}

// Valid reports whether id names a loadable IANA zone
func (r *Resolver) Valid(id string) bool {
	_, err := r.Location(id)
	return err == nil
}
