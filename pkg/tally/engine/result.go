// result.go - CalculationResult: the tagged result of evaluating one line
//
// Exactly one of Unit/Currency/Err is meaningful, gated by Kind. Values are
// decimals throughout; float64 only ever appears transiently for display
// grouping, never as a stored value.

package engine

import (
	"time"

	"github.com/goodsign/monday"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sambeau/tally/pkg/tally/units"
)

// Kind tags a CalculationResult.
type Kind string

const (
	KindNumber     Kind = "number"
	KindCurrency   Kind = "currency"
	KindUnit       Kind = "unit"
	KindPercentage Kind = "percentage"
	KindDate       Kind = "date"
	KindError      Kind = "error"
)

// CalculationResult is the immutable outcome of evaluating one input line.
type CalculationResult struct {
	Kind      Kind            `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted"`
	Unit      string          `json:"unit,omitempty"`     // set when Kind == KindUnit
	Currency  string          `json:"currency,omitempty"` // set when Kind == KindCurrency
	Err       string          `json:"error,omitempty"`    // set when Kind == KindError; "" means render nothing
}

// IsError reports whether the result is an error of any sort.
func (r CalculationResult) IsError() bool { return r.Kind == KindError }

// IsSilent reports whether the result should render as nothing at all
// (blank lines and comments).
func (r CalculationResult) IsSilent() bool { return r.Kind == KindError && r.Err == "" }

// DefaultPlaces selects the automatic rule: 0 decimals for whole numbers,
// 2 otherwise.
const DefaultPlaces = -1

// dateEpoch anchors day-count arithmetic. Dates are integers of days since
// this instant, which keeps date maths inside the plain expression evaluator.
var dateEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

var enUS = message.NewPrinter(language.AmericanEnglish)

var thousand = decimal.NewFromInt(1000)

// formatNumber renders a decimal in the single fixed numeric style: grouped
// thousands at |v| >= 1000, two decimals for non-integers unless overridden.
func formatNumber(v decimal.Decimal, places int) string {
	if places < 0 {
		if v.IsInteger() {
			places = 0
		} else {
			places = 2
		}
	}
	rounded := v.Round(int32(places))
	if rounded.Abs().Cmp(thousand) < 0 {
		return rounded.StringFixed(int32(places))
	}
	f, _ := rounded.Float64()
	return enUS.Sprintf("%v", number.Decimal(f, number.Scale(places)))
}

// NumberResult builds a plain numeric result.
func NumberResult(v decimal.Decimal, places int) CalculationResult {
	return CalculationResult{
		Kind:      KindNumber,
		Value:     v,
		Formatted: formatNumber(v, places),
	}
}

// CurrencyResult builds a currency result. Currency always shows 2 decimals
// unless explicitly overridden.
func CurrencyResult(v decimal.Decimal, code string, places int) CalculationResult {
	if places < 0 {
		places = 2
	}
	formatted := units.CurrencySymbol(code) + formatNumber(v.Abs(), places)
	if v.IsNegative() {
		formatted = "-" + formatted
	}
	return CalculationResult{
		Kind:      KindCurrency,
		Value:     v,
		Formatted: formatted,
		Currency:  code,
	}
}

// UnitResult builds a result carrying a display unit label.
func UnitResult(v decimal.Decimal, label string, places int) CalculationResult {
	return CalculationResult{
		Kind:      KindUnit,
		Value:     v,
		Formatted: formatNumber(v, places) + " " + label,
		Unit:      label,
	}
}

// PercentageResult builds a percentage result.
func PercentageResult(v decimal.Decimal, places int) CalculationResult {
	return CalculationResult{
		Kind:      KindPercentage,
		Value:     v,
		Formatted: formatNumber(v, places) + " %",
	}
}

// DateResult builds a calendar date from an integer day count since the epoch.
func DateResult(days int64) CalculationResult {
	t := dateEpoch.AddDate(0, 0, int(days))
	return CalculationResult{
		Kind:      KindDate,
		Value:     decimal.NewFromInt(days),
		Formatted: monday.Format(t, "Jan 2, 2006", monday.LocaleEnUS),
	}
}

// ErrorResult builds an error result. An empty message means "show nothing":
// blank lines and comments use it to opt out of rendering.
func ErrorResult(message string) CalculationResult {
	return CalculationResult{
		Kind:      KindError,
		Value:     decimal.Zero,
		Formatted: message,
		Err:       message,
	}
}

// SilentResult is the shared result for blank and comment lines.
func SilentResult() CalculationResult {
	return CalculationResult{Kind: KindError, Value: decimal.Zero}
}
