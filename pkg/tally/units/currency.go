// currency.go - Static currency rates and symbols
//
// Rates are approximate USD-relative snapshots, not live data. Conversion
// composes source -> USD -> target. Rates can be overridden from config via
// SetRates without a rebuild.

package units

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var currencyAliases = map[string]string{
	"usd": "USD", "dollar": "USD", "dollars": "USD",
	"eur": "EUR", "euro": "EUR", "euros": "EUR",
	"gbp": "GBP", "pound_sterling": "GBP",
	"jpy": "JPY", "yen": "JPY",
	"cad": "CAD", "aud": "AUD", "nzd": "NZD",
	"chf": "CHF", "cny": "CNY", "inr": "INR",
	"sek": "SEK", "nok": "NOK", "dkk": "DKK",
	"mxn": "MXN", "brl": "BRL", "krw": "KRW",
}

// usdRates holds USD per one unit of the currency.
var (
	ratesMu  sync.RWMutex
	usdRates = map[string]decimal.Decimal{
		"USD": d("1"),
		"EUR": d("1.09"),
		"GBP": d("1.27"),
		"JPY": d("0.0067"),
		"CAD": d("0.74"),
		"AUD": d("0.66"),
		"NZD": d("0.61"),
		"CHF": d("1.13"),
		"CNY": d("0.14"),
		"INR": d("0.012"),
		"SEK": d("0.095"),
		"NOK": d("0.094"),
		"DKK": d("0.146"),
		"MXN": d("0.059"),
		"BRL": d("0.20"),
		"KRW": d("0.00075"),
	}
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"KRW": "₩",
}

// symbolCodes maps a currency glyph back to its code. "¥" could be CNY too;
// JPY wins as the more common reading.
var symbolCodes = map[rune]string{
	'$': "USD",
	'€': "EUR",
	'£': "GBP",
	'¥': "JPY",
	'₹': "INR",
	'₩': "KRW",
}

func convertCurrency(v decimal.Decimal, from, to string) (decimal.Decimal, error) {
	ratesMu.RLock()
	defer ratesMu.RUnlock()
	src, ok := usdRates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s", from)
	}
	dst, ok := usdRates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s", to)
	}
	return v.Mul(src).Div(dst), nil
}

// SetRates overrides or extends the built-in USD-relative rate table.
func SetRates(rates map[string]float64) {
	ratesMu.Lock()
	defer ratesMu.Unlock()
	for code, rate := range rates {
		code = strings.ToUpper(code)
		usdRates[code] = decimal.NewFromFloat(rate)
		if _, ok := currencyAliases[strings.ToLower(code)]; !ok {
			currencyAliases[strings.ToLower(code)] = code
		}
	}
}

// CurrencySymbol returns the display symbol for a currency code, falling back
// to the code itself followed by a space.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return sym
	}
	return strings.ToUpper(code) + " "
}

// SymbolCurrency resolves a currency glyph to its code.
func SymbolCurrency(r rune) (string, bool) {
	code, ok := symbolCodes[r]
	return code, ok
}

// CurrencySymbolRunes returns the set of recognized currency glyphs.
func CurrencySymbolRunes() []rune {
	runes := make([]rune, 0, len(symbolCodes))
	for r := range symbolCodes {
		runes = append(runes, r)
	}
	return runes
}
