package submission

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	t.Run("Should read an array in order", func(t *testing.T) {
		fields, err := ParseFields([]byte(`[
			{"id":"name","title":"Name","value":"Ada"},
			{"id":"age","title":"Age","value":36}
		]`))
		require.NoError(t, err)
		assert.Equal(t, []Field{
			{ID: "name", Title: "Name", Value: "Ada"},
			{ID: "age", Title: "Age", Value: "36"},
		}, fields.All())
	})

	t.Run("Should read an object keeping document order", func(t *testing.T) {
		fields, err := ParseFields([]byte(`{"zeta":{"title":"Z","value":"1"},"alpha":"2"}`))
		require.NoError(t, err)
		assert.Equal(t, []Field{
			{ID: "zeta", Title: "Z", Value: "1"},
			{ID: "alpha", Value: "2"},
		}, fields.All())
	})

	t.Run("Should reject entries without an id", func(t *testing.T) {
		_, err := ParseFields([]byte(`[{"title":"x"}]`))
		assert.Error(t, err)
	})

	t.Run("Should reject invalid JSON and scalars", func(t *testing.T) {
		_, err := ParseFields([]byte(`{`))
		assert.Error(t, err)
		_, err = ParseFields([]byte(`"text"`))
		assert.Error(t, err)
	})

	t.Run("Should decode through encoding/json", func(t *testing.T) {
		var payload struct {
			Fields Fields `json:"fields"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"fields":{"email":{"title":"Email","value":"a@b.c"}}}`), &payload))
		field, ok := payload.Fields.Lookup("email")
		require.True(t, ok)
		assert.Equal(t, "a@b.c", field.Value)
	})
}

func TestNewFields(t *testing.T) {
	t.Run("Should keep first position for repeated ids", func(t *testing.T) {
		fields := NewFields(
			Field{ID: "a", Value: "1"},
			Field{ID: "b", Value: "2"},
			Field{ID: "a", Value: "3"},
		)
		assert.Equal(t, 2, fields.Len())
		assert.Equal(t, []Field{{ID: "a", Value: "3"}, {ID: "b", Value: "2"}}, fields.All())
	})

	t.Run("Should treat the zero value as empty", func(t *testing.T) {
		var fields Fields
		_, ok := fields.Lookup("a")
		assert.False(t, ok)
		assert.Empty(t, fields.All())
	})
}
