// display.go - Preferred display labels for units
//
// Display labels are independent of conversion factors; a missing entry
// falls back to the canonical unit token.

package units

var displayLabels = map[Category]map[string]string{
	Length: {
		"in": "in", "ft": "ft", "yd": "yd", "mi": "mi",
	},
	Volume: {
		"tsp": "tsp.", "tbsp": "tbsp.", "floz": "fl. oz.",
		"l": "L", "ml": "mL",
	},
	Weight: {
		"lb": "lb", "oz": "oz", "st": "st",
	},
	Time: {
		"s": "s", "min": "min", "h": "h",
	},
	Data: {
		"kb": "kB", "mb": "MB", "gb": "GB", "tb": "TB",
		"kib": "KiB", "mib": "MiB", "gib": "GiB", "tib": "TiB",
	},
	Temperature: {
		"c": "°C", "f": "°F", "k": "K",
	},
}

// Label returns the preferred display string for a canonical unit.
func Label(cat Category, unit string) string {
	if labels, ok := displayLabels[cat]; ok {
		if label, ok := labels[unit]; ok {
			return label
		}
	}
	return unit
}
