// css.go - CSS unit conversion
//
// CSS units have no static factors: em and rem depend on the context's
// pixels-per-em base and pt depends on pixels-per-inch, so conversion is a
// toPx/fromPx function pair parameterized by Bases.

package units

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var cssAliases = map[string]string{
	"px": "px", "pixel": "px", "pixels": "px",
	"em": "em", "ems": "em",
	"rem": "rem", "rems": "rem",
	"pt": "pt", "point": "pt", "points": "pt",
}

var ptPerInch = decimal.NewFromInt(72)

func toPx(v decimal.Decimal, unit string, bases Bases) (decimal.Decimal, error) {
	switch unit {
	case "px":
		return v, nil
	case "em", "rem":
		return v.Mul(bases.Em), nil
	case "pt":
		return v.Mul(bases.PPI).Div(ptPerInch), nil
	}
	return decimal.Zero, fmt.Errorf("unknown css unit %q", unit)
}

func fromPx(px decimal.Decimal, unit string, bases Bases) (decimal.Decimal, error) {
	switch unit {
	case "px":
		return px, nil
	case "em", "rem":
		return px.Div(bases.Em), nil
	case "pt":
		return px.Mul(ptPerInch).Div(bases.PPI), nil
	}
	return decimal.Zero, fmt.Errorf("unknown css unit %q", unit)
}
