package catalog

import (
	"strconv"
	"strings"
)

// deviceLabels are friendly names for zones users commonly run in.
var deviceLabels = map[string]string{
	"Africa/Cairo":                   "Eastern European Time / Cairo, Egypt",
	"Africa/Johannesburg":            "South Africa Standard Time / Johannesburg, South Africa",
	"Africa/Lagos":                   "West Africa Time / Lagos, Nigeria",
	"Africa/Nairobi":                 "East Africa Time / Nairobi, Kenya",
	"America/Anchorage":              "Alaska Time / Anchorage, USA",
	"America/Argentina/Buenos_Aires": "Argentina Time / Buenos Aires, Argentina",
	"America/Bogota":                 "Colombia Time / Bogotá, Colombia",
	"America/Chicago":                "Central Time / Chicago, USA",
	"America/Denver":                 "Mountain Time / Denver, USA",
	"America/Halifax":                "Atlantic Time / Halifax, Canada",
	"America/Los_Angeles":            "Pacific Time / Los Angeles, USA",
	"America/Mexico_City":            "Central Time / Mexico City, Mexico",
	"America/New_York":               "Eastern Time / New York, USA",
	"America/Phoenix":                "Mountain Standard Time / Phoenix, USA",
	"America/Sao_Paulo":              "Brasília Time / São Paulo, Brazil",
	"America/St_Johns":               "Newfoundland Time / St. John's, Canada",
	"America/Toronto":                "Eastern Time / Toronto, Canada",
	"America/Vancouver":              "Pacific Time / Vancouver, Canada",
	"Asia/Bangkok":                   "Indochina Time / Bangkok, Thailand",
	"Asia/Dubai":                     "Gulf Standard Time / Dubai, UAE",
	"Asia/Hong_Kong":                 "Hong Kong Time / Hong Kong",
	"Asia/Jakarta":                   "Western Indonesia Time / Jakarta, Indonesia",
	"Asia/Kathmandu":                 "Nepal Time / Kathmandu, Nepal",
	"Asia/Kolkata":                   "India Standard Time / Kolkata, India",
	"Asia/Manila":                    "Philippine Time / Manila, Philippines",
	"Asia/Seoul":                     "Korea Standard Time / Seoul, South Korea",
	"Asia/Shanghai":                  "China Standard Time / Shanghai, China",
	"Asia/Singapore":                 "Singapore Time / Singapore",
	"Asia/Tehran":                    "Iran Time / Tehran, Iran",
	"Asia/Tokyo":                     "Japan Standard Time / Tokyo, Japan",
	"Atlantic/Reykjavik":             "Greenwich Mean Time / Reykjavík, Iceland",
	"Australia/Adelaide":             "Australian Central Time / Adelaide, Australia",
	"Australia/Brisbane":             "Australian Eastern Standard Time / Brisbane, Australia",
	"Australia/Perth":                "Australian Western Time / Perth, Australia",
	"Australia/Sydney":               "Australian Eastern Time / Sydney, Australia",
	"Europe/Amsterdam":               "Central European Time / Amsterdam, Netherlands",
	"Europe/Athens":                  "Eastern European Time / Athens, Greece",
	"Europe/Berlin":                  "Central European Time / Berlin, Germany",
	"Europe/Dublin":                  "Greenwich Mean Time / Dublin, Ireland",
	"Europe/Helsinki":                "Eastern European Time / Helsinki, Finland",
	"Europe/Istanbul":                "Turkey Time / Istanbul, Türkiye",
	"Europe/Kyiv":                    "Eastern European Time / Kyiv, Ukraine",
	"Europe/Lisbon":                  "Western European Time / Lisbon, Portugal",
	"Europe/London":                  "Greenwich Mean Time / London, UK",
	"Europe/Madrid":                  "Central European Time / Madrid, Spain",
	"Europe/Moscow":                  "Moscow Time / Moscow, Russia",
	"Europe/Paris":                   "Central European Time / Paris, France",
	"Europe/Rome":                    "Central European Time / Rome, Italy",
	"Europe/Stockholm":               "Central European Time / Stockholm, Sweden",
	"Europe/Warsaw":                  "Central European Time / Warsaw, Poland",
	"Europe/Zurich":                  "Central European Time / Zurich, Switzerland",
	"Pacific/Auckland":               "New Zealand Time / Auckland, New Zealand",
	"Pacific/Honolulu":               "Hawaii-Aleutian Time / Honolulu, USA",
	"UTC":                            "Coordinated Universal Time",
}

// DeviceLabel returns the friendly name of a zone id. Ids without an entry
// have their path separators and underscores replaced by spaces.
func DeviceLabel(id string) string {
	if label, ok := deviceLabels[id]; ok {
		return label
	}
	return strings.NewReplacer("/", " ", "_", " ").Replace(id)
}

// FormatOffset renders an hour offset with an explicit sign. Whole hours have
// no decimals, fractional offsets get one decimal place.
func FormatOffset(hours float64) string {
	sign := "+"
	if hours < 0 {
		sign = "-"
		hours = -hours
	}

	if hours == float64(int(hours)) {
		return sign + strconv.Itoa(int(hours))
	}
	return sign + strconv.FormatFloat(hours, 'f', 1, 64)
}

// CityLabel returns the human readable city part of a zone id: every segment
// after the first, joined with " / " and with underscores as spaces.
func CityLabel(id string) string {
	parts := strings.Split(id, "/")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ReplaceAll(strings.Join(parts, " / "), "_", " ")
}
