package submission

import (
	"regexp"
	"strings"
)

// DefaultFormName replaces {form_name} when the form has no name.
const DefaultFormName = "Form"

const (
	formNameToken  = "{form_name}"
	allFieldsToken = "{all_fields}"
)

var fieldToken = regexp.MustCompile(`\{([A-Za-z0-9_-]+)\}`)

// Interpolate substitutes {form_name} and then every {field_id} token in
// template. Tokens naming a missing field become the empty string.
// {all_fields} is left in place for Expand.
func Interpolate(template string, fields Fields, formName string) string {
	if formName == "" {
		formName = DefaultFormName
	}
	s := strings.ReplaceAll(template, formNameToken, formName)

	return fieldToken.ReplaceAllStringFunc(s, func(token string) string {
		if token == allFieldsToken {
			return token
		}
		field, ok := fields.Lookup(token[1 : len(token)-1])
		if !ok {
			return ""
		}
		return field.Value
	})
}

// AllFields renders every field as a "**label**: value" line in submission
// order. The label falls back to the field id.
func AllFields(fields Fields) string {
	lines := make([]string, 0, fields.Len())
	for _, field := range fields.All() {
		label := field.Title
		if label == "" {
			label = field.ID
		}
		lines = append(lines, "**"+label+"**: "+field.Value)
	}
	return strings.Join(lines, "\n")
}

// Expand interpolates template and then replaces {all_fields}.
func Expand(template string, fields Fields, formName string) string {
	s := Interpolate(template, fields, formName)
	if strings.Contains(s, allFieldsToken) {
		s = strings.ReplaceAll(s, allFieldsToken, AllFields(fields))
	}
	return s
}
