package transfer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"mangabook/pkg/listmap"
)

// ExportTXT renders the map as category headings followed by one line per
// entry. Entries are sorted alphabetically at serialization time only; the
// stored order is untouched.
func ExportTXT(m *listmap.Map) string {
	var b strings.Builder
	for i, category := range m.Categories() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(category.Name)
		b.WriteString("\n")
		for _, entry := range sortedByName(category.Entries) {
			fmt.Fprintf(&b, "[%s Ch %d](%s)\n", entry.Name, entry.Chapter, entry.ImageURL)
		}
	}
	return b.String()
}

// ExportJSON renders the map as an indented JSON document, categories in
// stored order.
func ExportJSON(m *listmap.Map) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func sortedByName(entries []listmap.Entry) []listmap.Entry {
	sorted := make([]listmap.Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}
