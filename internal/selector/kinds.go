package selector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/domfinder/internal/dom"
)

var (
	anyField      = fieldOf(inputNotTypes("submit", "image", "hidden", "button", "reset"), "self::textarea", "self::select")
	fillableField = fieldOf(inputNotTypes("submit", "image", "radio", "checkbox", "hidden", "file", "button", "reset"), "self::textarea")
	buttonInput   = fieldOf(inputTypes("submit", "reset", "image", "button"))
)

// Builtins returns fresh copies of the standard selector kinds
func Builtins() []*Kind {
	return []*Kind{
		{
			Name:        XPath,
			Expressions: func(locator string) []dom.Expression { return []dom.Expression{dom.XPath(locator)} },
		},
		{
			Name:        CSS,
			Expressions: func(locator string) []dom.Expression { return []dom.Expression{dom.CSS(locator)} },
		},
		{
			Name:  ID,
			Label: "element with id",
			Expressions: func(locator string) []dom.Expression {
				return []dom.Expression{dom.XPath(".//*[@id=" + Literal(locator) + "]")}
			},
		},
		{
			Name:         Field,
			Expressions:  func(locator string) []dom.Expression { return locateField(anyField, locator) },
			Filters:      fieldFilters(),
			MatchLocator: matchFieldLocator,
		},
		{
			Name:         FillableField,
			Label:        "fillable field",
			Expressions:  func(locator string) []dom.Expression { return locateField(fillableField, locator) },
			Filters:      map[string]Filter{"with": filterWith},
			MatchLocator: matchFieldLocator,
		},
		{
			Name: Checkbox,
			Expressions: func(locator string) []dom.Expression {
				return locateField(fieldOf(inputTypes("checkbox")), locator)
			},
			Filters:      checkFilters(),
			MatchLocator: matchFieldLocator,
		},
		{
			Name:  RadioButton,
			Label: "radio button",
			Expressions: func(locator string) []dom.Expression {
				return locateField(fieldOf(inputTypes("radio")), locator)
			},
			Filters:      checkFilters(),
			MatchLocator: matchFieldLocator,
		},
		{
			Name:  FileField,
			Label: "file field",
			Expressions: func(locator string) []dom.Expression {
				return locateField(fieldOf(inputTypes("file")), locator)
			},
			MatchLocator: matchFieldLocator,
		},
		{
			Name:  Select,
			Label: "select box",
			Expressions: func(locator string) []dom.Expression {
				return locateField(fieldOf("self::select"), locator)
			},
			Filters:      map[string]Filter{"multiple": filterMultiple},
			MatchLocator: matchFieldLocator,
			FailureMessage: func(scope dom.Node, sel *Selector) string {
				return fmt.Sprintf("no select box with id, name, or label %s found", sel.Locator())
			},
		},
		{
			Name: Option,
			Expressions: func(locator string) []dom.Expression {
				if locator == "" {
					return []dom.Expression{dom.XPath(".//option")}
				}
				return []dom.Expression{dom.XPath(".//option[" + normalizedText + "=" + Literal(locator) + "]")}
			},
			MatchLocator: func(node dom.Node, pattern *regexp.Regexp) bool {
				return pattern.MatchString(node.Text())
			},
			FailureMessage: func(scope dom.Node, sel *Selector) string {
				if scope != nil && scope.TagName() == "select" {
					return fmt.Sprintf("no option with text %s in the select box", sel.Locator())
				}
				return fmt.Sprintf("no option with text %s found", sel.Locator())
			},
		},
		{
			Name:         Link,
			Expressions:  linkExpressions,
			Filters:      map[string]Filter{"href": filterHref},
			MatchLocator: matchTextOrAttrs("id", "title"),
		},
		{
			Name:         Button,
			Expressions:  buttonExpressions,
			Filters:      map[string]Filter{"value": filterValue},
			MatchLocator: matchTextOrAttrs("id", "value", "title", "alt"),
		},
		{
			Name:  LinkOrButton,
			Label: "link or button",
			Expressions: func(locator string) []dom.Expression {
				return append(linkExpressions(locator), buttonExpressions(locator)...)
			},
			MatchLocator: matchTextOrAttrs("id", "value", "title", "alt"),
		},
		{
			Name: Fieldset,
			Expressions: func(locator string) []dom.Expression {
				if locator == "" {
					return []dom.Expression{dom.XPath(".//fieldset")}
				}
				lit := Literal(locator)
				return []dom.Expression{dom.XPath(".//fieldset[@id=" + lit + " or .//legend[" + containsText(lit) + "]]")}
			},
		},
		{
			Name: Table,
			Expressions: func(locator string) []dom.Expression {
				if locator == "" {
					return []dom.Expression{dom.XPath(".//table")}
				}
				lit := Literal(locator)
				return []dom.Expression{dom.XPath(".//table[@id=" + lit + " or .//caption[" + containsText(lit) + "]]")}
			},
		},
	}
}

func linkExpressions(locator string) []dom.Expression {
	if locator == "" {
		return []dom.Expression{dom.XPath(".//a[@href]")}
	}
	lit := Literal(locator)
	return []dom.Expression{dom.XPath(fmt.Sprintf(
		".//a[@href][@id=%s or %s or contains(@title, %s) or .//img[contains(@alt, %s)]]",
		lit, containsText(lit), lit, lit))}
}

func buttonExpressions(locator string) []dom.Expression {
	if locator == "" {
		return []dom.Expression{dom.XPath(".//" + buttonInput), dom.XPath(".//button")}
	}
	lit := Literal(locator)
	return []dom.Expression{
		dom.XPath(fmt.Sprintf(".//%s[@id=%s or contains(@value, %s) or contains(@title, %s)]", buttonInput, lit, lit, lit)),
		dom.XPath(fmt.Sprintf(".//button[@id=%s or contains(@value, %s) or %s or contains(@title, %s)]", lit, lit, containsText(lit), lit)),
		dom.XPath(fmt.Sprintf(".//input[@type='image'][contains(@alt, %s)]", lit)),
	}
}

func fieldFilters() map[string]Filter {
	return map[string]Filter{
		"with":      filterWith,
		"checked":   filterChecked,
		"unchecked": filterUnchecked,
		"type":      filterType,
	}
}

func checkFilters() map[string]Filter {
	return map[string]Filter{
		"checked":   filterChecked,
		"unchecked": filterUnchecked,
	}
}

func filterWith(node dom.Node, value any) bool {
	if re, ok := value.(*regexp.Regexp); ok {
		return re.MatchString(node.Value())
	}
	return node.Value() == fmt.Sprint(value)
}

func filterChecked(node dom.Node, value any) bool {
	want, _ := value.(bool)
	return node.Checked() == want
}

func filterUnchecked(node dom.Node, value any) bool {
	want, _ := value.(bool)
	return node.Checked() != want
}

func filterType(node dom.Node, value any) bool {
	want := strings.ToLower(fmt.Sprint(value))
	switch tag := node.TagName(); tag {
	case "textarea", "select":
		return want == tag
	}
	typ, ok := node.Attr("type")
	if !ok {
		typ = "text"
	}
	return strings.ToLower(typ) == want
}

func filterHref(node dom.Node, value any) bool {
	href, ok := node.Attr("href")
	if !ok {
		return false
	}
	if re, isPattern := value.(*regexp.Regexp); isPattern {
		return re.MatchString(href)
	}
	return href == fmt.Sprint(value)
}

func filterValue(node dom.Node, value any) bool {
	if re, ok := value.(*regexp.Regexp); ok {
		return re.MatchString(node.Value())
	}
	return node.Value() == fmt.Sprint(value)
}

func filterMultiple(node dom.Node, value any) bool {
	want, _ := value.(bool)
	_, ok := node.Attr("multiple")
	return ok == want
}

func matchFieldLocator(node dom.Node, pattern *regexp.Regexp) bool {
	for _, key := range []string{"id", "name", "placeholder"} {
		if v, ok := node.Attr(key); ok && pattern.MatchString(v) {
			return true
		}
	}
	return false
}

func matchTextOrAttrs(keys ...string) func(dom.Node, *regexp.Regexp) bool {
	return func(node dom.Node, pattern *regexp.Regexp) bool {
		if pattern.MatchString(node.Text()) {
			return true
		}
		for _, key := range keys {
			if v, ok := node.Attr(key); ok && pattern.MatchString(v) {
				return true
			}
		}
		return false
	}
}
