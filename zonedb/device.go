package zonedb

import (
	"os"
	"strings"
	"time"
	_ "time/tzdata" // zones load even where the host has no tz database
)

const localtimePath = "/etc/localtime"

// Device returns the zone id the host resolves as local and its current
// offset from UTC in hours.
func Device() (string, float64) {
	_, offset := time.Now().Zone()
	return DeviceZone(), float64(offset) / 3600
}

// DeviceZone resolves the host zone id from TZ, then the /etc/localtime
// symlink, then time.Local. It returns "Local" when nothing names the zone.
func DeviceZone() string {
	if tz, ok := os.LookupEnv("TZ"); ok {
		tz = strings.TrimPrefix(tz, ":")
		if tz == "" {
			return "UTC"
		}
		if _, err := time.LoadLocation(tz); err == nil {
			return tz
		}
	}

	if target, err := os.Readlink(localtimePath); err == nil {
		if id := zoneFromPath(target); id != "" {
			return id
		}
	}

	return time.Local.String()
}

// zoneFromPath extracts "Area/City" from a path like /usr/share/zoneinfo/Area/City
func zoneFromPath(path string) string {
	const marker = "zoneinfo/"
	i := strings.LastIndex(path, marker)
	if i < 0 {
		return ""
	}
	id := path[i+len(marker):]
	for _, prefix := range []string{"posix/", "right/"} {
		id = strings.TrimPrefix(id, prefix)
	}
	return id
}
