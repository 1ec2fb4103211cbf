// units.go - Unit categories, alias tables and conversion factors
//
// Every linear category maps unit aliases to a multiplicative factor relative
// to the category's base unit (metre, litre, kilogram, second, byte).
// Conversion is source_value * factor[source] / factor[target]. Temperature
// and CSS units are not linear and live in temperature.go and css.go.

package units

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a family of interconvertible units.
type Category string

const (
	Length      Category = "length"
	Volume      Category = "volume"
	Weight      Category = "weight"
	Time        Category = "time"
	Data        Category = "data"
	Temperature Category = "temperature"
	CSS         Category = "css"
	Currency    Category = "currency"
)

// unitDef ties an alias to its canonical unit and conversion factor.
type unitDef struct {
	canonical string
	factor    decimal.Decimal
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// defs builds an alias table from (canonical, factor, aliases...) rows.
func defs(rows ...[]string) map[string]unitDef {
	table := make(map[string]unitDef)
	for _, row := range rows {
		def := unitDef{canonical: row[0], factor: d(row[1])}
		table[row[0]] = def
		for _, alias := range row[2:] {
			table[alias] = def
		}
	}
	return table
}

// Base unit: metre.
var lengthUnits = defs(
	[]string{"mm", "0.001", "millimeter", "millimeters", "millimetre", "millimetres"},
	[]string{"cm", "0.01", "centimeter", "centimeters", "centimetre", "centimetres"},
	[]string{"m", "1", "meter", "meters", "metre", "metres"},
	[]string{"km", "1000", "kilometer", "kilometers", "kilometre", "kilometres"},
	[]string{"in", "0.0254", "inch", "inches"},
	[]string{"ft", "0.3048", "foot", "feet"},
	[]string{"yd", "0.9144", "yard", "yards"},
	[]string{"mi", "1609.344", "mile", "miles"},
)

// Base unit: litre.
var volumeUnits = defs(
	[]string{"ml", "0.001", "milliliter", "milliliters", "millilitre", "millilitres"},
	[]string{"l", "1", "liter", "liters", "litre", "litres"},
	[]string{"tsp", "0.00492892159375", "teaspoon", "teaspoons"},
	[]string{"tbsp", "0.01478676478125", "tablespoon", "tablespoons"},
	[]string{"floz", "0.0295735295625", "fluidounce", "fluidounces"},
	[]string{"cup", "0.2365882365", "cups"},
	[]string{"pint", "0.473176473", "pints"},
	[]string{"quart", "0.946352946", "quarts"},
	[]string{"gal", "3.785411784", "gallon", "gallons"},
)

// Base unit: kilogram.
var weightUnits = defs(
	[]string{"mg", "0.000001", "milligram", "milligrams"},
	[]string{"g", "0.001", "gram", "grams"},
	[]string{"kg", "1", "kilogram", "kilograms", "kilo", "kilos"},
	[]string{"tonne", "1000", "tonnes", "ton", "tons"},
	[]string{"oz", "0.028349523125", "ounce", "ounces"},
	[]string{"lb", "0.45359237", "lbs", "pound", "pounds"},
	[]string{"st", "6.35029318", "stone", "stones"},
)

// Base unit: second.
var timeUnits = defs(
	[]string{"ms", "0.001", "millisecond", "milliseconds"},
	[]string{"s", "1", "sec", "secs", "second", "seconds"},
	[]string{"min", "60", "mins", "minute", "minutes"},
	[]string{"h", "3600", "hr", "hrs", "hour", "hours"},
	[]string{"day", "86400", "days"},
	[]string{"week", "604800", "weeks"},
	// Average Gregorian month and year.
	[]string{"month", "2629746", "months"},
	[]string{"year", "31556952", "years", "yr", "yrs"},
)

// Base unit: byte. Decimal multiples per SI, binary multiples separate.
var dataUnits = defs(
	[]string{"bit", "0.125", "bits"},
	[]string{"b", "1", "byte", "bytes"},
	[]string{"kb", "1000", "kilobyte", "kilobytes"},
	[]string{"mb", "1000000", "megabyte", "megabytes"},
	[]string{"gb", "1000000000", "gigabyte", "gigabytes"},
	[]string{"tb", "1000000000000", "terabyte", "terabytes"},
	[]string{"kib", "1024", "kibibyte", "kibibytes"},
	[]string{"mib", "1048576", "mebibyte", "mebibytes"},
	[]string{"gib", "1073741824", "gibibyte", "gibibytes"},
	[]string{"tib", "1099511627776", "tebibyte", "tebibytes"},
)

var linearTables = map[Category]map[string]unitDef{
	Length: lengthUnits,
	Volume: volumeUnits,
	Weight: weightUnits,
	Time:   timeUnits,
	Data:   dataUnits,
}

// Lookup order matters: "in" is length, "pt" is CSS points, "c" is Celsius.
var categoryOrder = []Category{Length, Volume, Weight, Time, Data, Temperature, CSS, Currency}

// Find resolves a unit token to its category and canonical unit.
func Find(token string) (Category, string, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return "", "", false
	}
	for _, cat := range categoryOrder {
		switch cat {
		case Temperature:
			if canon, ok := tempAliases[token]; ok {
				return Temperature, canon, true
			}
		case CSS:
			if canon, ok := cssAliases[token]; ok {
				return CSS, canon, true
			}
		case Currency:
			if canon, ok := currencyAliases[token]; ok {
				return Currency, canon, true
			}
		default:
			if def, ok := linearTables[cat][token]; ok {
				return cat, def.canonical, true
			}
		}
	}
	return "", "", false
}

// IsUnit reports whether token names any known unit.
func IsUnit(token string) bool {
	_, _, ok := Find(token)
	return ok
}

// Bases carries the context-dependent CSS conversion bases.
type Bases struct {
	Em  decimal.Decimal // pixels per em
	PPI decimal.Decimal // pixels per inch
}

// DefaultBases returns the conventional web defaults (16px em, 96ppi).
func DefaultBases() Bases {
	return Bases{Em: decimal.NewFromInt(16), PPI: decimal.NewFromInt(96)}
}

// pxPerInch of physical length, used to chain length <-> CSS conversions.
var inchInMetres = d("0.0254")

// Convert converts v from one unit to another. Both tokens may be aliases.
// Same-category conversions use the factor tables (or function pairs for
// temperature and CSS); length and CSS chain through the PPI base.
func Convert(v decimal.Decimal, from, to string, bases Bases) (decimal.Decimal, error) {
	fromCat, fromCanon, ok := Find(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown unit %q", from)
	}
	toCat, toCanon, ok := Find(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown unit %q", to)
	}

	switch {
	case fromCat == toCat:
		return convertSame(v, fromCat, fromCanon, toCanon, bases)
	case fromCat == Length && toCat == CSS:
		// physical length -> inches -> px -> css target
		inches := v.Mul(lengthUnits[fromCanon].factor).Div(inchInMetres)
		px := inches.Mul(bases.PPI)
		return fromPx(px, toCanon, bases)
	case fromCat == CSS && toCat == Length:
		px, err := toPx(v, fromCanon, bases)
		if err != nil {
			return decimal.Zero, err
		}
		inches := px.Div(bases.PPI)
		return inches.Mul(inchInMetres).Div(lengthUnits[toCanon].factor), nil
	default:
		return decimal.Zero, fmt.Errorf("can't convert %s to %s", from, to)
	}
}

func convertSame(v decimal.Decimal, cat Category, from, to string, bases Bases) (decimal.Decimal, error) {
	switch cat {
	case Temperature:
		return convertTemperature(v, from, to)
	case CSS:
		px, err := toPx(v, from, bases)
		if err != nil {
			return decimal.Zero, err
		}
		return fromPx(px, to, bases)
	case Currency:
		return convertCurrency(v, from, to)
	default:
		table := linearTables[cat]
		return v.Mul(table[from].factor).Div(table[to].factor), nil
	}
}
