// normalize.go - Natural-language rewrite pipeline
//
// Ordered textual passes turn a human line into something the math layer can
// parse. The order is load-bearing: dates go first so date arithmetic becomes
// integer arithmetic, currency symbols are stripped before the percent
// rewrites see the numbers, and the percent rewrite runs a second time after
// variable substitution because "tax% of price" only becomes numeric then.
// Do not reorder passes without a regression test for the old winner.

package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// normalized carries the rewritten expression plus everything the final
// wrapping step needs to pick a result kind.
type normalized struct {
	expr       string
	currency   string // currency code if a symbol was stripped
	dateTokens int    // number of date substitutions made
	hasSub     bool   // expression contains subtraction (day-span rule)
	percent    bool   // bare % literal with no of/off
	incomplete bool   // trailing "N% of"/"N% off" with no operand
}

var (
	reThousands = regexp.MustCompile(`(\d),(\d)`)

	// Inline percent-of/off. The percentage may be a bare literal or a
	// parenthesized one, which is what variable substitution produces; the
	// first pass binds numeric operands, the second parenthesized ones.
	pctTerm   = `(?:\((\d+(?:\.\d+)?)\)|(\d+(?:\.\d+)?))`
	numTerm   = `(-?\d+(?:\.\d+)?)`
	parenTerm = `(\((?:[^()]|\([^()]*\))*\))`

	rePctOfNum    = regexp.MustCompile(pctTerm + `\s*%\s+of\s+` + numTerm)
	rePctOffNum   = regexp.MustCompile(pctTerm + `\s*%\s+off\s+` + numTerm)
	rePctOfParen  = regexp.MustCompile(pctTerm + `\s*%\s+of\s+` + parenTerm)
	rePctOffParen = regexp.MustCompile(pctTerm + `\s*%\s+off\s+` + parenTerm)

	reIncompletePct = regexp.MustCompile(`(?i)%\s*(?:of|off)\s*$`)

	reBarePct = regexp.MustCompile(`\(?(\d+(?:\.\d+)?)\)?\s*%`)

	reDegrees = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*°`)
)

// wordOp is one natural-language operator substitution. Table order matters:
// longer phrases are listed before the substrings they contain.
type wordOp struct {
	re   *regexp.Regexp
	repl string
}

func op(pattern, repl string) wordOp {
	return wordOp{re: regexp.MustCompile(`(?i)` + pattern), repl: repl}
}

var wordOps = []wordOp{
	op(`\bto\s+the\s+power\s+of\b`, "^"),
	op(`\bsquare\s+root\s+of\s+`, "sqrt("),
	op(`\bcube\s+root\s+of\s+`, "cbrt("),
	op(`\bmultiplied\s+by\b`, "*"),
	op(`\bdivided\s+by\b`, "/"),
	op(`\bsquared\b`, "^2"),
	op(`\bcubed\b`, "^3"),
	op(`\btimes\b`, "*"),
	op(`\bplus\b`, "+"),
	op(`\band\b`, "+"),
	op(`\bminus\b`, "-"),
	op(`\bover\b`, "/"),
	op(`\bpow\b`, "^"),
	// "sin of 30", "log of 100" and friends open a call.
	op(`\b(sqrt|cbrt|sin|cos|tan|asin|acos|atan|log|ln|floor|ceil|round|abs)\s+of\s+`, "$1("),
	// "5 x 3" but never an x inside a word or variable name.
	{re: regexp.MustCompile(`(?i)([\d)])\s*x\s*([\d(])`), repl: "$1*$2"},
}

// normalize runs the full rewrite pipeline for the generic evaluation path.
func (e *Engine) normalize(input string, ctx *Context) normalized {
	n := normalized{expr: strings.TrimSpace(input)}

	// Grouping commas would otherwise read as argument separators.
	n.expr = reThousands.ReplaceAllString(n.expr, "$1$2")

	// 1. Dates first: everything after this sees plain integers.
	n.expr, n.dateTokens = substituteDates(n.expr, ctx.Now)

	// 2. Currency symbol detection and stripping.
	n.expr, n.currency = stripCurrency(n.expr)

	// 3. Trailing "N% of" with nothing after it is a user error worth a
	// specific message, not a parser stack trace.
	if reIncompletePct.MatchString(n.expr) {
		n.incomplete = true
		return n
	}

	// 4. Inline percent arithmetic, numeric-literal pass.
	n.expr = rewritePercent(n.expr)

	// 5. Operator words.
	for _, w := range wordOps {
		n.expr = w.re.ReplaceAllString(n.expr, w.repl)
	}

	// 6. Degrees to radians.
	n.expr = reDegrees.ReplaceAllString(n.expr, "($1 * pi / 180)")

	// 7. Variable substitution, then the percent rewrite again now that
	// variable references are parenthesized numbers.
	var currencyVar string
	n.expr, currencyVar = substituteVariables(n.expr, ctx)
	if n.currency == "" {
		n.currency = currencyVar
	}
	n.expr = rewritePercent(n.expr)

	// 8. A % that survived both rewrites is a percentage literal.
	if strings.Contains(n.expr, "%") {
		n.expr = reBarePct.ReplaceAllString(n.expr, "$1")
		n.percent = true
	}

	// 9. Close any parens opened by function rewrites the user never closed.
	if deficit := strings.Count(n.expr, "(") - strings.Count(n.expr, ")"); deficit > 0 {
		n.expr += strings.Repeat(")", deficit)
	}

	n.hasSub = containsSubtraction(n.expr)
	return n
}

// rewritePercent applies the inline of/off rewrites:
// "N% of M" => ((N/100)*M) and "N% off M" => (M*(1-N/100)).
func rewritePercent(s string) string {
	// Exactly one of the two percentage groups captures; $1$2 is that one.
	s = rePctOfNum.ReplaceAllString(s, "(($1$2/100)*$3)")
	s = rePctOffNum.ReplaceAllString(s, "($3*(1-$1$2/100))")
	s = rePctOfParen.ReplaceAllString(s, "(($1$2/100)*$3)")
	s = rePctOffParen.ReplaceAllString(s, "($3*(1-$1$2/100))")
	return s
}

// stripCurrency looks for a recognized currency glyph leading, trailing, or
// attached to a number, records its code, and removes every occurrence of
// that glyph so the remainder evaluates as a plain expression.
func stripCurrency(s string) (string, string) {
	for _, r := range s {
		if code, ok := currencyGlyph(r); ok {
			return strings.ReplaceAll(s, string(r), ""), code
		}
	}
	return s, ""
}

// substituteVariables replaces every known variable reference with its
// parenthesized numeric value. Longer names first so "taxrate" never gets
// chewed up by "tax". Returns the currency code of the first substituted
// currency variable, if any, so "price * 2" can stay money.
func substituteVariables(s string, ctx *Context) (string, string) {
	if len(ctx.Variables) == 0 {
		return s, ""
	}
	names := make([]string, 0, len(ctx.Variables))
	for name := range ctx.Variables {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	currency := ""
	for _, name := range names {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			continue
		}
		value := ctx.Variables[name]
		replaced := false
		s = re.ReplaceAllStringFunc(s, func(string) string {
			replaced = true
			return "(" + value.Value.String() + ")"
		})
		if replaced && currency == "" && value.Kind == KindCurrency {
			currency = value.Currency
		}
	}
	return s, currency
}

// containsSubtraction reports a binary minus: a '-' with something numeric
// or closing on its left. A leading unary minus doesn't count.
func containsSubtraction(s string) bool {
	return reBinaryMinus.MatchString(s)
}

var reBinaryMinus = regexp.MustCompile(`[\d)]\s*-`)

// incompleteError is the specific error for trailing percent forms.
func incompleteError(input string) CalculationResult {
	return ErrorResult(fmt.Sprintf("Incomplete expression: %q", strings.TrimSpace(input)))
}
