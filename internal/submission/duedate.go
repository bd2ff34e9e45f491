package submission

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xhit/go-str2duration/v2"
)

// DueDateResolver turns a due-date setting into epoch milliseconds.
//
// The setting is one of:
//   - a {field_id} reference, whose submitted value is parsed as below;
//   - a relative expression starting with "+", such as "+3 days",
//     "+1 week 2 days" or "+36h";
//   - anything else: a keyword (now, today, tomorrow, yesterday), optionally
//     followed by relative terms, or an absolute date/time.
//
// Results are truncated to whole seconds. Anything unparseable yields no
// due date.
type DueDateResolver struct {
	// Now returns the reference time for relative expressions. Defaults to time.Now.
	Now func() time.Time

	// Location is used for keywords and dates without a zone. Defaults to UTC.
	Location *time.Location
}

var relativeTerm = regexp.MustCompile(`([+-]?)\s*(\d+)\s*([a-z]+)`)

var relativeUnits = map[string]func(t time.Time, n int) time.Time{
	"sec":        addDuration(time.Second),
	"secs":       addDuration(time.Second),
	"second":     addDuration(time.Second),
	"seconds":    addDuration(time.Second),
	"min":        addDuration(time.Minute),
	"mins":       addDuration(time.Minute),
	"minute":     addDuration(time.Minute),
	"minutes":    addDuration(time.Minute),
	"hour":       addDuration(time.Hour),
	"hours":      addDuration(time.Hour),
	"day":        addDays(1),
	"days":       addDays(1),
	"week":       addDays(7),
	"weeks":      addDays(7),
	"fortnight":  addDays(14),
	"fortnights": addDays(14),
	"month":      func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
	"months":     func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
	"year":       func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) },
	"years":      func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) },
}

func addDuration(unit time.Duration) func(time.Time, int) time.Time {
	return func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * unit) }
}

func addDays(days int) func(time.Time, int) time.Time {
	return func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n*days) }
}

// Resolve returns the due date in epoch milliseconds, or false when spec
// does not yield one.
func (r DueDateResolver) Resolve(spec string, fields Fields) (int64, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, false
	}

	if m := fieldToken.FindStringSubmatch(spec); m != nil {
		field, ok := fields.Lookup(m[1])
		if !ok {
			return 0, false
		}
		return millis(r.parse(field.Value))
	}

	if strings.HasPrefix(spec, "+") {
		if t, ok := r.relative(strings.ToLower(spec), r.now()); ok {
			return millis(t, true)
		}
	}
	return millis(r.parse(spec))
}

func (r DueDateResolver) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r DueDateResolver) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return now().In(r.location())
}

// parse handles keywords, relative expressions and absolute dates.
func (r DueDateResolver) parse(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	lower := strings.ToLower(value)
	now := r.now()

	keyword, rest, _ := strings.Cut(lower, " ")
	if base, ok := keywordTime(keyword, now); ok {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return base, true
		}
		return r.relative(rest, base)
	}

	if t, ok := r.relative(lower, now); ok {
		return t, true
	}

	t, err := dateparse.ParseIn(value, r.location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func keywordTime(word string, now time.Time) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch word {
	case "now":
		return now, true
	case "today", "midnight":
		return midnight, true
	case "tomorrow":
		return midnight.AddDate(0, 0, 1), true
	case "yesterday":
		return midnight.AddDate(0, 0, -1), true
	}
	return time.Time{}, false
}

// relative applies a sequence of "[+-]N unit" terms to base. A compact
// duration such as "+36h" or "+1w2d" is accepted as well.
func (r DueDateResolver) relative(expr string, base time.Time) (time.Time, bool) {
	expr = strings.TrimSpace(expr)
	matches := relativeTerm.FindAllStringSubmatchIndex(expr, -1)
	if len(matches) == 0 {
		return compactDuration(expr, base)
	}

	t := base
	pos := 0
	for _, m := range matches {
		if strings.TrimSpace(expr[pos:m[0]]) != "" {
			return compactDuration(expr, base)
		}
		pos = m[1]

		n, err := strconv.Atoi(expr[m[4]:m[5]])
		if err != nil {
			return time.Time{}, false
		}
		if expr[m[2]:m[3]] == "-" {
			n = -n
		}
		apply, ok := relativeUnits[expr[m[6]:m[7]]]
		if !ok {
			return compactDuration(expr, base)
		}
		t = apply(t, n)
	}
	if strings.TrimSpace(expr[pos:]) != "" {
		return time.Time{}, false
	}
	return t, true
}

func compactDuration(expr string, base time.Time) (time.Time, bool) {
	if !strings.HasPrefix(expr, "+") && !strings.HasPrefix(expr, "-") {
		return time.Time{}, false
	}
	d, err := str2duration.ParseDuration(strings.TrimPrefix(expr, "+"))
	if err != nil {
		return time.Time{}, false
	}
	return base.Add(d), true
}

func millis(t time.Time, ok bool) (int64, bool) {
	if !ok {
		return 0, false
	}
	return t.Unix() * 1000, true
}
