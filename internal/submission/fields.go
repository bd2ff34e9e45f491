// Package submission turns submitted form fields and action settings into
// ClickUp task or document payloads and creates them.
package submission

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Field is one submitted form field.
type Field struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// Fields is an immutable, ordered set of submitted fields keyed by id.
// The zero value is an empty set.
type Fields struct {
	order []string
	byID  map[string]Field
}

// NewFields builds a field set in the given order. A repeated id keeps its
// first position and takes the later value.
func NewFields(fields ...Field) Fields {
	f := Fields{byID: make(map[string]Field, len(fields))}
	for _, field := range fields {
		if _, seen := f.byID[field.ID]; !seen {
			f.order = append(f.order, field.ID)
		}
		f.byID[field.ID] = field
	}
	return f
}

// Lookup returns the field with the given id.
func (f Fields) Lookup(id string) (Field, bool) {
	field, ok := f.byID[id]
	return field, ok
}

// All returns the fields in submission order.
func (f Fields) All() []Field {
	result := make([]Field, 0, len(f.order))
	for _, id := range f.order {
		result = append(result, f.byID[id])
	}
	return result
}

// Len returns the number of fields.
func (f Fields) Len() int {
	return len(f.order)
}

// ParseFields decodes submitted fields from JSON. Two shapes are accepted:
// an array of {"id","title","value"} objects, or an object keyed by field id
// whose members are either {"title","value"} objects or bare values.
// Non-string values are kept in their JSON text form.
func ParseFields(data []byte) (Fields, error) {
	if !gjson.ValidBytes(data) {
		return Fields{}, errors.New("fields are not valid JSON")
	}

	root := gjson.ParseBytes(data)
	var fields []Field
	switch {
	case root.IsArray():
		for i, item := range root.Array() {
			id := item.Get("id").String()
			if !item.IsObject() || id == "" {
				return Fields{}, fmt.Errorf("field %d has no id", i)
			}
			fields = append(fields, Field{
				ID:    id,
				Title: item.Get("title").String(),
				Value: item.Get("value").String(),
			})
		}
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			field := Field{ID: key.String()}
			if value.IsObject() {
				field.Title = value.Get("title").String()
				field.Value = value.Get("value").String()
			} else {
				field.Value = value.String()
			}
			fields = append(fields, field)
			return true
		})
	default:
		return Fields{}, errors.New("fields must be a JSON array or object")
	}
	return NewFields(fields...), nil
}

// UnmarshalJSON implements json.Unmarshaler using ParseFields.
func (f *Fields) UnmarshalJSON(data []byte) error {
	parsed, err := ParseFields(data)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
