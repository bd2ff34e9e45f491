package submission

import (
	"regexp"
	"strings"

	"clickform/internal/service"
)

var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// ParseCustomFields reads "custom_field_id:form_field_id" lines and returns
// the custom field values for form fields that were submitted. Blank lines,
// lines without a colon and lines naming an unknown form field are skipped.
func ParseCustomFields(mapping string, fields Fields) []service.CustomField {
	var result []service.CustomField
	for _, line := range lineBreak.Split(mapping, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		customID, fieldID, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field, ok := fields.Lookup(strings.TrimSpace(fieldID))
		if !ok {
			continue
		}
		result = append(result, service.CustomField{
			ID:    strings.TrimSpace(customID),
			Value: field.Value,
		})
	}
	return result
}
