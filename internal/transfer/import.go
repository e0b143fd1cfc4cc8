// Package transfer converts between on-disk list formats (TXT, JSON, PDF)
// and the in-memory category map. All transforms are stateless.
package transfer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mangabook/pkg/listmap"
)

// entryPattern matches a single exported manga line, e.g.
// [One Piece Ch 1100](http://example.com/cover.jpg)
var entryPattern = regexp.MustCompile(`(?i)^\[(.+)\s+Ch\s+(\d+)\]\((\S+)\)$`)

// ParseText scans text top to bottom in a single forward pass. A line
// matching the entry pattern is appended to the current category; any other
// non-blank line opens a new category (a duplicate heading re-opens the
// existing one). Entry lines seen before the first heading are skipped and
// reported as warnings.
func ParseText(text string) (*listmap.Map, []string) {
	m := listmap.New()
	var warnings []string
	currentCategory := ""

	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if match := entryPattern.FindStringSubmatch(line); match != nil {
			if currentCategory == "" {
				warnings = append(warnings, fmt.Sprintf("line %d: entry %q appears before any category heading, skipped", lineNo+1, match[1]))
				continue
			}
			chapter, err := strconv.Atoi(match[2])
			if err != nil || chapter > listmap.MaxChapter {
				warnings = append(warnings, fmt.Sprintf("line %d: invalid chapter %q, skipped", lineNo+1, match[2]))
				continue
			}
			entry := listmap.NewEntry(match[1])
			entry.Chapter = chapter
			entry.ImageURL = match[3]
			if err := entry.Validate(); err != nil {
				warnings = append(warnings, fmt.Sprintf("line %d: %v, skipped", lineNo+1, err))
				continue
			}
			if err := m.AddEntry(currentCategory, entry); err != nil {
				warnings = append(warnings, fmt.Sprintf("line %d: %v, skipped", lineNo+1, err))
			}
			continue
		}

		// Any other non-blank line is a category heading.
		currentCategory = line
		if err := m.AddCategory(line); err != nil && !errors.Is(err, listmap.ErrCategoryExists) {
			warnings = append(warnings, fmt.Sprintf("line %d: %v, skipped", lineNo+1, err))
			currentCategory = ""
		}
	}

	return m, warnings
}

// ParseJSON decodes a full category map document. The root must be a JSON
// object; beyond that the entries are normalized rather than rejected so
// partially filled exports remain importable.
func ParseJSON(data []byte) (*listmap.Map, error) {
	m := listmap.New()
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	m.Normalize()
	return m, nil
}
