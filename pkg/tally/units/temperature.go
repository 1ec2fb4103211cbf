// temperature.go - Temperature conversion
//
// Temperature scales are affine, not multiplicative, so each unit carries a
// toKelvin/fromKelvin pair and conversion composes through Kelvin.

package units

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var tempAliases = map[string]string{
	"c": "c", "celsius": "c", "centigrade": "c",
	"f": "f", "fahrenheit": "f",
	"k": "k", "kelvin": "k",
}

var (
	absZeroC  = d("273.15")
	fOffset   = d("32")
	fNum      = d("5")
	fDen      = d("9")
	fNumInv   = d("9")
	fDenInv   = d("5")
	tempScale = map[string]struct {
		toKelvin   func(decimal.Decimal) decimal.Decimal
		fromKelvin func(decimal.Decimal) decimal.Decimal
	}{
		"c": {
			toKelvin:   func(v decimal.Decimal) decimal.Decimal { return v.Add(absZeroC) },
			fromKelvin: func(v decimal.Decimal) decimal.Decimal { return v.Sub(absZeroC) },
		},
		"f": {
			toKelvin: func(v decimal.Decimal) decimal.Decimal {
				return v.Sub(fOffset).Mul(fNum).Div(fDen).Add(absZeroC)
			},
			fromKelvin: func(v decimal.Decimal) decimal.Decimal {
				return v.Sub(absZeroC).Mul(fNumInv).Div(fDenInv).Add(fOffset)
			},
		},
		"k": {
			toKelvin:   func(v decimal.Decimal) decimal.Decimal { return v },
			fromKelvin: func(v decimal.Decimal) decimal.Decimal { return v },
		},
	}
)

func convertTemperature(v decimal.Decimal, from, to string) (decimal.Decimal, error) {
	src, ok := tempScale[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown temperature unit %q", from)
	}
	dst, ok := tempScale[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown temperature unit %q", to)
	}
	return dst.fromKelvin(src.toKelvin(v)), nil
}
