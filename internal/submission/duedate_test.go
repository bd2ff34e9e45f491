package submission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedResolver() (DueDateResolver, time.Time) {
	now := time.Date(2024, time.March, 10, 14, 30, 15, 500_000_000, time.UTC)
	return DueDateResolver{Now: func() time.Time { return now }, Location: time.UTC}, now
}

func TestDueDateResolver_Resolve(t *testing.T) {
	r, now := fixedResolver()
	nowMillis := now.Unix() * 1000
	day := int64(86400 * 1000)

	t.Run("Should parse a referenced field as a UTC date", func(t *testing.T) {
		fields := NewFields(Field{ID: "due", Value: "2024-01-15"})
		got, ok := r.Resolve("{due}", fields)
		assert.True(t, ok)
		assert.Equal(t, int64(1705276800000), got)
	})

	t.Run("Should add relative days to the resolution time", func(t *testing.T) {
		got, ok := r.Resolve("+3 days", Fields{})
		assert.True(t, ok)
		assert.Equal(t, nowMillis+3*day, got)
	})

	t.Run("Should accept combined and singular terms", func(t *testing.T) {
		got, ok := r.Resolve("+1 week 2 days", Fields{})
		assert.True(t, ok)
		assert.Equal(t, nowMillis+9*day, got)

		got, ok = r.Resolve("+1 Hour", Fields{})
		assert.True(t, ok)
		assert.Equal(t, nowMillis+3600*1000, got)

		got, ok = r.Resolve("+1 fortnight", Fields{})
		assert.True(t, ok)
		assert.Equal(t, nowMillis+14*day, got)
	})

	t.Run("Should add calendar months", func(t *testing.T) {
		got, ok := r.Resolve("+1 month", Fields{})
		assert.True(t, ok)
		assert.Equal(t, time.Date(2024, time.April, 10, 14, 30, 15, 0, time.UTC).Unix()*1000, got)
	})

	t.Run("Should accept compact durations", func(t *testing.T) {
		got, ok := r.Resolve("+36h", Fields{})
		assert.True(t, ok)
		assert.Equal(t, nowMillis+36*3600*1000, got)

		got, ok = r.Resolve("+1w", Fields{})
		assert.True(t, ok)
		assert.Equal(t, nowMillis+7*day, got)
	})

	t.Run("Should resolve keywords at midnight", func(t *testing.T) {
		midnight := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC).Unix() * 1000

		got, ok := r.Resolve("tomorrow", Fields{})
		assert.True(t, ok)
		assert.Equal(t, midnight+day, got)

		got, ok = r.Resolve("today +2 days", Fields{})
		assert.True(t, ok)
		assert.Equal(t, midnight+2*day, got)

		got, ok = r.Resolve("now", Fields{})
		assert.True(t, ok)
		assert.Equal(t, nowMillis, got)
	})

	t.Run("Should parse absolute dates and times", func(t *testing.T) {
		got, ok := r.Resolve("2024-06-01 09:30:00", Fields{})
		assert.True(t, ok)
		assert.Equal(t, time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC).Unix()*1000, got)

		got, ok = r.Resolve("June 1, 2024", Fields{})
		assert.True(t, ok)
		assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC).Unix()*1000, got)
	})

	t.Run("Should read dates in the configured zone", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*3600)
		zoned := DueDateResolver{Now: r.Now, Location: loc}
		got, ok := zoned.Resolve("2024-01-15", Fields{})
		assert.True(t, ok)
		assert.Equal(t, int64(1705276800000-2*3600*1000), got)
	})

	t.Run("Should resolve relative values from a field", func(t *testing.T) {
		fields := NewFields(Field{ID: "when", Value: "+2 days"})
		got, ok := r.Resolve("{when}", fields)
		assert.True(t, ok)
		assert.Equal(t, nowMillis+2*day, got)
	})

	t.Run("Should yield nothing for unusable input", func(t *testing.T) {
		fields := NewFields(Field{ID: "bad", Value: "someday maybe"})
		for _, spec := range []string{"", "   ", "{missing_field}", "{bad}", "garbage text", "+3 parsecs", "+"} {
			_, ok := r.Resolve(spec, fields)
			assert.False(t, ok, spec)
		}
	})
}
