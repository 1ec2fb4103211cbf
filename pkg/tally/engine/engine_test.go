package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// fixedNow keeps every relative-date test deterministic.
var fixedNow = time.Date(2026, time.August, 31, 10, 30, 0, 0, time.UTC)

func testContext() *Context {
	ctx := NewContext()
	ctx.Now = fixedNow
	return ctx
}

func testEval(t *testing.T, input, expected string) {
	t.Helper()
	res := New().Evaluate(input, testContext())
	if res.IsError() {
		t.Errorf("Evaluate(%q): unexpected error: %s", input, res.Err)
		return
	}
	if res.Formatted != expected {
		t.Errorf("Evaluate(%q): expected %q, got %q", input, expected, res.Formatted)
	}
}

func testEvalError(t *testing.T, input, contains string) {
	t.Helper()
	res := New().Evaluate(input, testContext())
	if !res.IsError() || res.IsSilent() {
		t.Errorf("Evaluate(%q): expected error, got %q", input, res.Formatted)
		return
	}
	if contains != "" && !strings.Contains(res.Err, contains) {
		t.Errorf("Evaluate(%q): expected error containing %q, got %q", input, contains, res.Err)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct{ input, expected string }{
		{"5 + 3", "8"},
		{"10 / 4", "2.50"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"1234 * 2", "2,468"},
		{"1,234 + 1", "1,235"},
		{"2 ^ 10", "1,024"},
		{"1 / 3", "0.33"},
		{"-5 + 2", "-3"},
	}
	for _, tt := range tests {
		testEval(t, tt.input, tt.expected)
	}
}

func TestNaturalLanguageOperators(t *testing.T) {
	tests := []struct{ input, expected string }{
		{"5 times 3", "15"},
		{"5 multiplied by 3", "15"},
		{"20 divided by 4", "5"},
		{"7 plus 2", "9"},
		{"7 and 2", "9"},
		{"7 minus 2", "5"},
		{"10 over 4", "2.50"},
		{"2 to the power of 10", "1,024"},
		{"2 pow 10", "1,024"},
		{"5 squared", "25"},
		{"3 cubed", "27"},
		{"square root of 16", "4"},
		{"5 x 3", "15"},
	}
	for _, tt := range tests {
		testEval(t, tt.input, tt.expected)
	}

	// Word forms and symbols are the same operation.
	ctx := testContext()
	word := New().Evaluate("6 times 7", ctx)
	sym := New().Evaluate("6 * 7", ctx)
	if !word.Value.Equal(sym.Value) {
		t.Errorf("word and symbol forms disagree: %s vs %s", word.Value, sym.Value)
	}
}

func TestFunctions(t *testing.T) {
	tests := []struct{ input, expected string }{
		{"sqrt(16)", "4"},
		{"abs(-5)", "5"},
		{"floor(2.7)", "2"},
		{"floor(-2.3)", "-3"},
		{"ceil(2.3)", "3"},
		{"ceil(-2.7)", "-2"},
		{"round(2.5)", "3"},
		{"sin of 0", "0"},
	}
	for _, tt := range tests {
		testEval(t, tt.input, tt.expected)
	}

	// "log of 100" opens a call like any other function word.
	logRes := New().Evaluate("log of 100", testContext())
	if logRes.IsError() {
		t.Fatalf("log of 100: %s", logRes.Err)
	}
	if !logRes.Value.Round(6).Equal(decimal.NewFromInt(2)) {
		t.Errorf("log of 100: expected 2, got %s", logRes.Value)
	}

	cbrtRes := New().Evaluate("cube root of 27", testContext())
	if cbrtRes.IsError() {
		t.Fatalf("cube root of 27: %s", cbrtRes.Err)
	}
	if !cbrtRes.Value.Round(6).Equal(decimal.NewFromInt(3)) {
		t.Errorf("cube root of 27: expected 3, got %s", cbrtRes.Value)
	}

	// sin(90°) evaluates in radians after the degree rewrite.
	res := New().Evaluate("sin(90°)", testContext())
	if res.IsError() {
		t.Fatalf("sin(90°): %s", res.Err)
	}
	if !res.Value.Round(6).Equal(decimal.NewFromInt(1)) {
		t.Errorf("sin(90°): expected 1, got %s", res.Value)
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct{ input, expected string }{
		{"$6 times 5", "$30.00"},
		{"$5 + $6", "$11.00"},
		{"€50 + €30", "€80.00"},
		{"$100 / 3", "$33.33"},
		{"$10 - $20", "-$10.00"},
	}
	for _, tt := range tests {
		testEval(t, tt.input, tt.expected)
	}

	res := New().Evaluate("$6 times 5", testContext())
	if res.Kind != KindCurrency || res.Currency != "USD" {
		t.Errorf("$6 times 5: expected USD currency result, got %s/%s", res.Kind, res.Currency)
	}
}

func TestPercentages(t *testing.T) {
	tests := []struct{ input, expected string }{
		{"20% of 80", "16"},
		{"20% off 80", "64"},
		{"20% off $99.99", "$79.99"},
		{"10% off $99.99", "$89.99"},
		{"10 + 20% of 50", "20"},
		{"30 as a % of 120", "25 %"},
		{"$5 as a % of $10", "50 %"},
		{"20% of what is 30", "150"},
		{"50%", "50 %"},
		{"5% + 10%", "15 %"},
	}
	for _, tt := range tests {
		testEval(t, tt.input, tt.expected)
	}

	// The discount keeps the operand's kind.
	res := New().Evaluate("20% off $99.99", testContext())
	if res.Kind != KindCurrency || res.Currency != "USD" {
		t.Errorf("20%% off $99.99: expected USD currency result, got %s/%s", res.Kind, res.Currency)
	}

	// "as a % of" is a ratio; the currency does not carry through.
	ratio := New().Evaluate("$5 as a % of $10", testContext())
	if ratio.Kind != KindPercentage {
		t.Errorf("$5 as a %% of $10: expected a percentage, got %s", ratio.Kind)
	}
}

func TestPercentagePrecedence(t *testing.T) {
	// "N% of what is M" contains "N% of M" textually; the reverse form must
	// win or it could never match.
	res := New().Evaluate("25% of what is 50", testContext())
	if res.IsError() {
		t.Fatalf("reverse percentage: %s", res.Err)
	}
	if !res.Value.Equal(decimal.NewFromInt(200)) {
		t.Errorf("25%% of what is 50: expected 200, got %s", res.Value)
	}
}

func TestIncompletePercent(t *testing.T) {
	testEvalError(t, "25% of", "Incomplete expression")
	testEvalError(t, "25% off", "Incomplete expression")
	testEvalError(t, "10% of $", "Incomplete expression")
	testEvalError(t, "$100 + 8% of", "Incomplete expression")
}

func TestInfinity(t *testing.T) {
	testEval(t, "1 / 0", "Infinity")
	testEval(t, "-1 / 0", "-Infinity")

	res := New().Evaluate("1 / 0", testContext())
	if !res.Value.IsZero() {
		t.Errorf("infinite result should carry a zero value, got %s", res.Value)
	}
}

func TestVariables(t *testing.T) {
	ctx := testContext()
	ctx.Variables["amount"] = NumberResult(decimal.NewFromInt(3), DefaultPlaces)
	ctx.Variables["price"] = CurrencyResult(decimal.NewFromInt(25), "USD", DefaultPlaces)
	ctx.Variables["tax"] = NumberResult(decimal.NewFromInt(10), DefaultPlaces)
	ctx.Variables["taxrate"] = NumberResult(decimal.NewFromInt(2), DefaultPlaces)

	tests := []struct{ input, expected string }{
		{"amount * 8", "24"},
		{"Amount * 8", "24"},       // case-insensitive reference
		{"price * 2", "$50.00"},    // currency flows through the variable
		{"taxrate + 1", "3"},       // longest-first: "tax" must not eat "taxrate"
		{"tax% of price", "$2.50"}, // percent rewrite after substitution
	}
	for _, tt := range tests {
		res := New().Evaluate(tt.input, ctx)
		if res.IsError() {
			t.Errorf("Evaluate(%q): unexpected error: %s", tt.input, res.Err)
			continue
		}
		if res.Formatted != tt.expected {
			t.Errorf("Evaluate(%q): expected %q, got %q", tt.input, tt.expected, res.Formatted)
		}
	}

	testEvalError(t, "missing + 1", "undefined variable")
}

func TestAssignment(t *testing.T) {
	res := New().Evaluate("amount = 3", testContext())
	if res.IsError() {
		t.Fatalf("amount = 3: %s", res.Err)
	}
	if res.Formatted != "3" {
		t.Errorf("amount = 3: expected 3, got %q", res.Formatted)
	}

	name, ok := ExtractVariableName("  Amount = 3")
	if !ok || name != "amount" {
		t.Errorf("ExtractVariableName: expected amount, got %q (%v)", name, ok)
	}
	if _, ok := ExtractVariableName("5 + 3"); ok {
		t.Error("ExtractVariableName(5 + 3): expected no assignment")
	}
}

func TestUnitConversions(t *testing.T) {
	tests := []struct{ input, expected string }{
		{"4 cm in inches", "1.57 in"},
		{"2 km in miles", "1.24 mi"},
		{"100 c in f", "212 °F"},
		{"3 tsp in tbsp", "1 tbsp."},
		{"1 gb in mb", "1,000 MB"},
		{"16 px in em", "1 em"},
		{"16 in em", "1 em"},
		{"2 in px", "32 px"},
		{"$100 in gbp", "£78.74"},
	}
	for _, tt := range tests {
		testEval(t, tt.input, tt.expected)
	}

	// Unknown target unit: not a conversion, falls through and fails as an
	// undefined variable rather than a conversion error.
	testEvalError(t, "5 kg in wombats", "")
	// A plain number has no source unit outside the css px/em convention.
	testEvalError(t, "5 in kg", "plain number")
}

func TestCSSBases(t *testing.T) {
	ctx := testContext()
	ctx.EmBase = 14
	res := New().Evaluate("16 px in em", ctx)
	if res.IsError() {
		t.Fatalf("16 px in em at em base 14: %s", res.Err)
	}
	if res.Formatted != "1.14 em" {
		t.Errorf("16 px in em at em base 14: expected 1.14 em, got %q", res.Formatted)
	}
	want := decimal.NewFromInt(16).Div(decimal.NewFromInt(14))
	if !res.Value.Round(6).Equal(want.Round(6)) {
		t.Errorf("16 px in em at em base 14: expected %s, got %s", want, res.Value)
	}
}

func TestDates(t *testing.T) {
	tests := []struct{ input, expected string }{
		{"today", "Aug 31, 2026"},
		{"tomorrow", "Sep 1, 2026"},
		{"yesterday", "Aug 30, 2026"},
		{"next week", "Sep 7, 2026"},
		{"today + 7", "Sep 7, 2026"},
		{"day after tomorrow", "Sep 2, 2026"},
		{"Jan 5, 2026 + 1", "Jan 6, 2026"},
		{"tomorrow - today", "1 days"},
		{"2026-12-25 - today", "116 days"},
	}
	for _, tt := range tests {
		testEval(t, tt.input, tt.expected)
	}

	res := New().Evaluate("today", testContext())
	if res.Kind != KindDate {
		t.Errorf("today: expected date kind, got %s", res.Kind)
	}
	span := New().Evaluate("tomorrow - today", testContext())
	if span.Kind != KindUnit || span.Unit != "days" {
		t.Errorf("tomorrow - today: expected a day span, got %s/%s", span.Kind, span.Unit)
	}
}

func TestBlankAndComments(t *testing.T) {
	for _, input := range []string{"", "   ", "// groceries", "# groceries"} {
		res := New().Evaluate(input, testContext())
		if !res.IsSilent() {
			t.Errorf("Evaluate(%q): expected silent result, got %q", input, res.Formatted)
		}
	}
}

func TestAssignmentBeforeConversion(t *testing.T) {
	// "x = 5 in cm" is an assignment whose right side is a conversion, not a
	// conversion of "x = 5".
	res := New().Evaluate("x = 5 m in cm", testContext())
	if res.IsError() {
		t.Fatalf("x = 5 m in cm: %s", res.Err)
	}
	if res.Formatted != "500 cm" {
		t.Errorf("x = 5 m in cm: expected 500 cm, got %q", res.Formatted)
	}
}

func TestEvaluateNeverPanics(t *testing.T) {
	inputs := []string{
		"((((", "))))", "* / * /", "% % %", "$", "°", "in in in",
		"9999999999999999999999 ^ 9999", "sqrt(", "x =",
	}
	for _, input := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Evaluate(%q) panicked: %v", input, r)
				}
			}()
			New().Evaluate(input, testContext())
		}()
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"// note", CategoryComment},
		{"", CategoryComment},
		{"x = 5", CategoryVariables},
		{"16px + 2em", CategoryCSS},
		{"4 cm in inches", CategoryUnitConversion},
		{"sqrt(16)", CategoryFunctions},
		{"square root of 16", CategoryFunctions},
		{"5 + 3", CategoryBasic},
		{"x in y", CategoryBasic}, // unknown target unit is not a conversion
	}
	for _, tt := range tests {
		if got := DetectCategory(tt.input); got != tt.expected {
			t.Errorf("DetectCategory(%q): expected %s, got %s", tt.input, tt.expected, got)
		}
		// Deterministic on repeat.
		if got := DetectCategory(tt.input); got != tt.expected {
			t.Errorf("DetectCategory(%q): unstable on second call", tt.input)
		}
	}
}
