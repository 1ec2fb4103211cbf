// mathexpr.go - Generic arithmetic over arbitrary-precision floats
//
// The heavy lifting is delegated to zephyrtronium/expressions, which parses
// and evaluates big.Float arithmetic with named functions. The library
// reserves the trig names without implementing them, so those (plus the
// rounding family and cbrt) are registered here. Results come back as
// decimals; ±Inf from division by zero is reported out-of-band because a
// decimal cannot represent it.

package engine

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/expressions"
)

// mathPrec is the big.Float mantissa width. 128 bits is ~38 significant
// decimal digits, comfortably past the 14 the formatter ever shows.
const mathPrec = 128

// floatFunc bridges a float64 function into an expressions.Func. Fine for
// transcendentals, where float64's 15-16 digits exceed display precision.
func floatFunc(fn func(float64) float64) expressions.Func {
	return expressions.Monadic(func(out, in *big.Float) *big.Float {
		x, _ := in.Float64()
		return out.SetFloat64(fn(x))
	})
}

// bigFunc wraps an exact big.Float transform.
func bigFunc(fn func(out, in *big.Float) *big.Float) expressions.Func {
	return expressions.Monadic(fn)
}

var mathFuncs = map[string]expressions.Func{
	"sin":  floatFunc(math.Sin),
	"cos":  floatFunc(math.Cos),
	"tan":  floatFunc(math.Tan),
	"asin": floatFunc(math.Asin),
	"acos": floatFunc(math.Acos),
	"atan": floatFunc(math.Atan),
	"cbrt": floatFunc(math.Cbrt),

	"abs": bigFunc(func(out, in *big.Float) *big.Float {
		return out.Abs(in)
	}),
	"floor": bigFunc(func(out, in *big.Float) *big.Float {
		i, acc := in.Int(nil)
		if acc != big.Exact && in.Signbit() {
			i.Sub(i, oneInt)
		}
		return out.SetInt(i)
	}),
	"ceil": bigFunc(func(out, in *big.Float) *big.Float {
		i, acc := in.Int(nil)
		if acc != big.Exact && !in.Signbit() {
			i.Add(i, oneInt)
		}
		return out.SetInt(i)
	}),
	"round": floatFunc(math.Round),
}

var oneInt = big.NewInt(1)

// evalOutcome is the raw numeric result of the math layer.
type evalOutcome struct {
	value    decimal.Decimal
	infinite bool
	negative bool // sign of the infinity
}

// evalMath parses and evaluates a fully normalized arithmetic string.
func evalMath(src string) (evalOutcome, error) {
	expr, err := expressions.Parse(strings.NewReader(src), expressions.ParseFuncs(mathFuncs))
	if err != nil {
		return evalOutcome{}, err
	}
	ctx := expressions.NewContext(expressions.Prec(mathPrec))
	f := ctx.Eval(expr)
	if f == nil {
		return evalOutcome{}, ctx.Err()
	}
	if f.IsInf() {
		return evalOutcome{infinite: true, negative: f.Signbit()}, nil
	}
	// 'g' with enough digits round-trips every value the formatter can show.
	value, err := decimal.NewFromString(f.Text('g', 30))
	if err != nil {
		return evalOutcome{}, err
	}
	return evalOutcome{value: value}, nil
}
