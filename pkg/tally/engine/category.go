// category.go - Line classification for display
//
// DetectCategory is pure string pattern matching, independent of evaluation,
// so a UI can colour lines without recomputing them.

package engine

import (
	"regexp"
	"strings"

	"github.com/sambeau/tally/pkg/tally/units"
)

// Category classifies a line for display purposes.
type Category string

const (
	CategoryBasic          Category = "basic"
	CategoryUnitConversion Category = "unitConversion"
	CategoryFunctions      Category = "functions"
	CategoryVariables      Category = "variables"
	CategoryCSS            Category = "cssCalculations"
	CategoryComment        Category = "comment"
)

var (
	reFunctionName = regexp.MustCompile(`(?i)\b(sqrt|cbrt|sin|cos|tan|asin|acos|atan|log|ln|exp|floor|ceil|round|abs|square\s+root|cube\s+root)\b`)
	reCSSUnit      = regexp.MustCompile(`(?i)\d\s*(px|em|rem|pt)\b`)
)

// DetectCategory classifies one input line. Deterministic: same input, same
// tag, regardless of evaluation order or variable state.
func DetectCategory(input string) Category {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#"):
		return CategoryComment
	case reAssignment.MatchString(trimmed):
		return CategoryVariables
	case reCSSUnit.MatchString(trimmed):
		return CategoryCSS
	case isConversionLine(trimmed):
		return CategoryUnitConversion
	case reFunctionName.MatchString(trimmed):
		return CategoryFunctions
	default:
		return CategoryBasic
	}
}

func isConversionLine(s string) bool {
	m := reConversion.FindStringSubmatch(s)
	return m != nil && units.IsUnit(m[2])
}
