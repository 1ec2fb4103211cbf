// engine.go - The calculation engine's public surface
//
// Evaluate is a pure function from (line, context) to a CalculationResult.
// It never panics across this boundary and it never touches the variable
// map: assignments return their value and the caller decides whether to
// store it (see the document package).

package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sambeau/tally/pkg/tally/units"
)

// Context is the per-call bundle of variable bindings and configuration.
// Variables map lowercase names to their results.
type Context struct {
	Variables     map[string]CalculationResult
	EmBase        float64   // pixels per css em
	PPIBase       float64   // pixels per inch
	DecimalPlaces int       // DefaultPlaces for the automatic rule
	Now           time.Time // clock for relative dates, injected for testability
}

// NewContext returns a context with the conventional defaults.
func NewContext() *Context {
	return &Context{
		Variables:     make(map[string]CalculationResult),
		EmBase:        16,
		PPIBase:       96,
		DecimalPlaces: DefaultPlaces,
		Now:           time.Now(),
	}
}

func (c *Context) bases() units.Bases {
	b := units.DefaultBases()
	if c.EmBase > 0 {
		b.Em = decimal.NewFromFloat(c.EmBase)
	}
	if c.PPIBase > 0 {
		b.PPI = decimal.NewFromFloat(c.PPIBase)
	}
	return b
}

// Engine evaluates natural-language calculator lines.
type Engine struct{}

// New returns a calculation engine.
func New() *Engine { return &Engine{} }

func currencyGlyph(r rune) (string, bool) { return units.SymbolCurrency(r) }

// Evaluate resolves one line to a typed, formatted result. Errors come back
// as results, never as panics; blank lines and comments come back silent.
func (e *Engine) Evaluate(input string, ctx *Context) (result CalculationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ErrorResult(fmt.Sprint(r))
		}
	}()
	if ctx == nil {
		ctx = NewContext()
	}
	if ctx.Now.IsZero() {
		ctx.Now = time.Now()
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
		return SilentResult()
	}

	if _, rhs, ok := splitAssignment(trimmed); ok {
		return e.Evaluate(rhs, ctx)
	}
	if res, ok := e.tryConversion(trimmed, ctx); ok {
		return res
	}
	// "10% of $" would otherwise match the percent sentence with a bare
	// glyph operand and fail with a parser error instead of the specific one.
	if stripped, _ := stripCurrency(trimmed); reIncompletePct.MatchString(strings.TrimSpace(stripped)) {
		return incompleteError(trimmed)
	}
	if res, ok := e.tryPercentForms(trimmed, ctx); ok {
		return res
	}
	return e.evalGeneric(trimmed, ctx)
}

// evalGeneric is the fallback path: normalize, evaluate, wrap.
func (e *Engine) evalGeneric(input string, ctx *Context) CalculationResult {
	n := e.normalize(input, ctx)
	if n.incomplete {
		return incompleteError(input)
	}

	outcome, err := evalMath(n.expr)
	if err != nil {
		return ErrorResult(err.Error())
	}
	if outcome.infinite {
		if outcome.negative {
			return CalculationResult{Kind: KindNumber, Value: decimal.Zero, Formatted: "-Infinity"}
		}
		return CalculationResult{Kind: KindNumber, Value: decimal.Zero, Formatted: "Infinity"}
	}

	value := outcome.value
	switch {
	case n.currency != "":
		return CurrencyResult(value, n.currency, ctx.DecimalPlaces)
	case n.percent:
		return PercentageResult(value, ctx.DecimalPlaces)
	case n.dateTokens == 1:
		return DateResult(value.IntPart())
	case n.dateTokens >= 2 && n.hasSub:
		return UnitResult(value, "days", ctx.DecimalPlaces)
	case n.dateTokens >= 2:
		// Adding two calendar dates has no calendar meaning; read it as a
		// date anyway, matching the single-token rule.
		return DateResult(value.IntPart())
	default:
		return NumberResult(value, ctx.DecimalPlaces)
	}
}

// ExtractVariableName reports the variable a line assigns to, without
// running evaluation. Names are normalized to lowercase.
func ExtractVariableName(input string) (string, bool) {
	name, _, ok := splitAssignment(strings.TrimSpace(input))
	return name, ok
}
