package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleFields() Fields {
	return NewFields(
		Field{ID: "name", Title: "Name", Value: "Ada"},
		Field{ID: "email", Title: "Email", Value: "ada@example.com"},
		Field{ID: "msg", Value: "Hello"},
	)
}

func TestInterpolate(t *testing.T) {
	fields := sampleFields()

	t.Run("Should return templates without tokens unchanged", func(t *testing.T) {
		for _, tpl := range []string{"", "plain text", "braces { name }", "{not valid!}", "100% {"} {
			assert.Equal(t, tpl, Interpolate(tpl, fields, "Contact"))
		}
	})

	t.Run("Should substitute field values", func(t *testing.T) {
		got := Interpolate("Lead: {name} <{email}>", fields, "Contact")
		assert.Equal(t, "Lead: Ada <ada@example.com>", got)
	})

	t.Run("Should blank tokens naming missing fields", func(t *testing.T) {
		assert.Equal(t, "Hi , bye", Interpolate("Hi {missing}, bye", fields, "Contact"))
	})

	t.Run("Should replace form_name and fall back when unnamed", func(t *testing.T) {
		assert.Equal(t, "New task from Contact", Interpolate(DefaultTaskName, fields, "Contact"))
		assert.Equal(t, "New task from Form", Interpolate(DefaultTaskName, fields, ""))
	})

	t.Run("Should leave all_fields for Expand", func(t *testing.T) {
		assert.Equal(t, "Data: {all_fields}", Interpolate("Data: {all_fields}", fields, ""))
	})

	t.Run("Should not re-expand tokens inside values", func(t *testing.T) {
		f := NewFields(Field{ID: "a", Value: "{b}"}, Field{ID: "b", Value: "x"})
		assert.Equal(t, "{b}", Interpolate("{a}", f, ""))
	})
}

func TestAllFields(t *testing.T) {
	t.Run("Should render labelled lines in submission order", func(t *testing.T) {
		want := "**Name**: Ada\n**Email**: ada@example.com\n**msg**: Hello"
		assert.Equal(t, want, AllFields(sampleFields()))
	})

	t.Run("Should render an empty set as empty string", func(t *testing.T) {
		assert.Equal(t, "", AllFields(Fields{}))
	})
}

func TestExpand(t *testing.T) {
	t.Run("Should expand all_fields after interpolation", func(t *testing.T) {
		got := Expand("From {name}:\n{all_fields}", sampleFields(), "")
		assert.Equal(t, "From Ada:\n**Name**: Ada\n**Email**: ada@example.com\n**msg**: Hello", got)
	})

	t.Run("Should expand to empty text for no fields", func(t *testing.T) {
		assert.Equal(t, "", Expand(DefaultDescription, Fields{}, ""))
	})
}
