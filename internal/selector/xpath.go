package selector

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/domfinder/internal/dom"
)

// Literal quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so strings holding both quote kinds become a concat() call.
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	args := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if part != "" {
			args = append(args, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

const normalizedText = "normalize-space(string(.))"

func containsText(lit string) string {
	return fmt.Sprintf("contains(%s, %s)", normalizedText, lit)
}

// fieldOf restricts descendants to the given form controls
func fieldOf(tests ...string) string {
	return "*[" + strings.Join(tests, " or ") + "]"
}

func inputTypes(types ...string) string {
	conds := make([]string, 0, len(types))
	for _, t := range types {
		conds = append(conds, "@type="+Literal(t))
	}
	return "self::input[" + strings.Join(conds, " or ") + "]"
}

func inputNotTypes(types ...string) string {
	conds := make([]string, 0, len(types))
	for _, t := range types {
		conds = append(conds, "@type="+Literal(t))
	}
	return "self::input[not(" + strings.Join(conds, " or ") + ")]"
}

// locateField expands a form control locator into the id/name/placeholder,
// label[@for] and nested-label lookups, in that order
func locateField(base, locator string) []dom.Expression {
	if locator == "" {
		return []dom.Expression{dom.XPath(".//" + base)}
	}
	lit := Literal(locator)
	return []dom.Expression{
		dom.XPath(fmt.Sprintf(".//%s[@id=%s or @name=%s or @placeholder=%s]", base, lit, lit, lit)),
		dom.XPath(fmt.Sprintf(".//%s[@id=//label[%s]/@for]", base, containsText(lit))),
		dom.XPath(fmt.Sprintf(".//label[%s]//%s", containsText(lit), base)),
	}
}
