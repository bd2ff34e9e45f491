// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"clickform/internal/service"
)

// FormatChoices prints one "{ID}  {NAME}" line per entry, ids left-aligned
// to the widest id.
func FormatChoices(w io.Writer, choices []service.Choice) {
	width := 0
	for _, c := range choices {
		width = max(width, len(c.ID))
	}
	for _, c := range choices {
		fmt.Fprintf(w, "%-*s  %s\n", width, c.ID, normalizeTitle(c.Name))
	}
}

// FormatLists prints one "{ID}  {LABEL}" line per list. Folder lists carry
// their "folder → list" label.
func FormatLists(w io.Writer, lists []service.ListChoice) {
	width := 0
	for _, l := range lists {
		width = max(width, len(l.Value))
	}
	for _, l := range lists {
		fmt.Fprintf(w, "%-*s  %s\n", width, l.Value, normalizeTitle(l.Label))
	}
}

// FormatStatuses prints one status per line, followed by its color if set.
func FormatStatuses(w io.Writer, statuses []service.Status) {
	for _, s := range statuses {
		if s.Color != "" {
			fmt.Fprintf(w, "%s (%s)\n", normalizeTitle(s.Name), s.Color)
			continue
		}
		fmt.Fprintln(w, normalizeTitle(s.Name))
	}
}

// FormatJSON prints v as indented JSON.
func FormatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// normalizeTitle normalizes a name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
