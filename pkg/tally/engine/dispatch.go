// dispatch.go - Ordered pattern dispatchers
//
// Each dispatcher either fully resolves a line or declines and the next one
// gets a look. The order is fixed and first-match-wins: blank/comment,
// assignment, unit conversion, the percentage sentence forms (reverse form
// before plain "of", which it textually contains), then the generic
// evaluator. A line containing both "=" and "in" resolves as an assignment
// because assignment is checked first.

package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sambeau/tally/pkg/tally/units"
)

var (
	reAssignment = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*=\s*(.+)$`)
	reConversion = regexp.MustCompile(`(?i)^(.+?)\s+in\s+(\w+)\s*$`)
	reNumberUnit = regexp.MustCompile(`(?i)^\s*(-?\d+(?:[.,]\d+)*)\s*([A-Za-z]+)\s*$`)

	// Sentence forms. Reverse percentage is a superset of "N% of M" and must
	// be tried first or it would never win.
	rePctOfWhat = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*%\s+of\s+what\s+is\s+(.+)$`)
	rePctOf     = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*%\s+of\s+(.+)$`)
	rePctOff    = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*%\s+off\s+(.+)$`)
	reAsPctOf   = regexp.MustCompile(`(?i)^\s*(.+?)\s+as\s+a\s+%\s+of\s+(.+)$`)

	hundred = decimal.NewFromInt(100)
)

// splitAssignment returns the variable name and right-hand side of an
// assignment line.
func splitAssignment(input string) (name, rhs string, ok bool) {
	m := reAssignment.FindStringSubmatch(input)
	if m == nil {
		return "", "", false
	}
	// Unit tokens make fine variable names: "in = 3" is an assignment.
	return strings.ToLower(m[1]), m[2], true
}

// tryConversion handles "X unit in unit" and "expr in unit" lines.
// It declines unless the target token names a known unit, so "x in y" with
// variables still reaches the generic evaluator.
func (e *Engine) tryConversion(input string, ctx *Context) (CalculationResult, bool) {
	m := reConversion.FindStringSubmatch(input)
	if m == nil {
		return CalculationResult{}, false
	}
	left, target := m[1], m[2]
	targetCat, targetCanon, ok := units.Find(target)
	if !ok {
		return CalculationResult{}, false
	}

	// Simple case: "<number> <unit> in <unit>".
	if nm := reNumberUnit.FindStringSubmatch(left); nm != nil {
		if _, _, ok := units.Find(nm[2]); ok {
			value, err := decimal.NewFromString(strings.ReplaceAll(nm[1], ",", ""))
			if err != nil {
				return ErrorResult(err.Error()), true
			}
			return e.convert(value, nm[2], target, ctx), true
		}
		// Number glued to an unknown token: not ours.
		return CalculationResult{}, false
	}

	// Otherwise the left side is an expression; evaluate it first.
	sub := e.Evaluate(left, ctx)
	if sub.IsError() {
		return sub, true
	}
	switch sub.Kind {
	case KindCurrency:
		if targetCat == units.Currency {
			return e.convert(sub.Value, sub.Currency, target, ctx), true
		}
		return ErrorResult(fmt.Sprintf("can't convert %s to %s", sub.Currency, target)), true
	case KindUnit:
		return e.convert(sub.Value, sub.Unit, target, ctx), true
	default:
		// A bare number has no source unit to convert from; the one
		// conventional reading is css px when the target is em (and the
		// reverse), which designers type constantly.
		if targetCanon == "em" || targetCanon == "rem" || targetCanon == "px" {
			from := "px"
			if targetCanon == "px" {
				from = "em"
			}
			return e.convert(sub.Value, from, target, ctx), true
		}
		return ErrorResult(fmt.Sprintf("can't convert a plain number to %s", target)), true
	}
}

// convert runs a table conversion and wraps the result in the right kind.
func (e *Engine) convert(value decimal.Decimal, from, to string, ctx *Context) CalculationResult {
	converted, err := units.Convert(value, from, to, ctx.bases())
	if err != nil {
		return ErrorResult(err.Error())
	}
	cat, canon, _ := units.Find(to)
	if cat == units.Currency {
		return CurrencyResult(converted, canon, ctx.DecimalPlaces)
	}
	return UnitResult(converted, units.Label(cat, canon), ctx.DecimalPlaces)
}

// tryPercentForms handles the whole-line percentage sentences, in their
// fixed order of precedence.
func (e *Engine) tryPercentForms(input string, ctx *Context) (CalculationResult, bool) {
	if m := rePctOfWhat.FindStringSubmatch(input); m != nil {
		pct, err := decimal.NewFromString(m[1])
		if err != nil {
			return ErrorResult(err.Error()), true
		}
		if pct.IsZero() {
			return ErrorResult("0% of nothing is everything"), true
		}
		part := e.Evaluate(m[2], ctx)
		if part.IsError() {
			return part, true
		}
		return rewrap(part, part.Value.Mul(hundred).Div(pct), ctx), true
	}

	if m := rePctOf.FindStringSubmatch(input); m != nil {
		return e.percentArith(m[1], m[2], ctx, func(pct, base decimal.Decimal) decimal.Decimal {
			return base.Mul(pct).Div(hundred)
		})
	}

	if m := rePctOff.FindStringSubmatch(input); m != nil {
		return e.percentArith(m[1], m[2], ctx, func(pct, base decimal.Decimal) decimal.Decimal {
			return base.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
		})
	}

	if m := reAsPctOf.FindStringSubmatch(input); m != nil {
		x := e.Evaluate(m[1], ctx)
		if x.IsError() {
			return x, true
		}
		y := e.Evaluate(m[2], ctx)
		if y.IsError() {
			return y, true
		}
		if y.Value.IsZero() {
			return ErrorResult("can't take a percentage of zero"), true
		}
		return PercentageResult(x.Value.Mul(hundred).Div(y.Value), ctx.DecimalPlaces), true
	}

	return CalculationResult{}, false
}

// percentArith evaluates the operand of a percentage sentence and applies f,
// preserving the operand's kind (a discount on money stays money).
func (e *Engine) percentArith(pctText, operand string, ctx *Context, f func(pct, base decimal.Decimal) decimal.Decimal) (CalculationResult, bool) {
	pct, err := decimal.NewFromString(pctText)
	if err != nil {
		return ErrorResult(err.Error()), true
	}
	base := e.Evaluate(operand, ctx)
	if base.IsError() {
		return base, true
	}
	return rewrap(base, f(pct, base.Value), ctx), true
}

// rewrap rebuilds a result of the same kind as base around a new value.
func rewrap(base CalculationResult, value decimal.Decimal, ctx *Context) CalculationResult {
	switch base.Kind {
	case KindCurrency:
		return CurrencyResult(value, base.Currency, ctx.DecimalPlaces)
	case KindUnit:
		return UnitResult(value, base.Unit, ctx.DecimalPlaces)
	case KindPercentage:
		return PercentageResult(value, ctx.DecimalPlaces)
	default:
		return NumberResult(value, ctx.DecimalPlaces)
	}
}
