package listmap

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The wire shape of a list is a JSON object mapping category name to entry
// array. Go maps do not keep key order, so both directions are hand-rolled:
// marshalling writes categories in slice order, unmarshalling streams tokens
// so arrival order is kept.

// MarshalJSON renders the map as {"<category>": [<entry>...], ...} in
// category order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range m.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		entries := c.Entries
		if entries == nil {
			entries = []Entry{}
		}
		val, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses the wire shape, preserving key order. The root must be
// a JSON object; anything else is rejected.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("list must be a JSON object")
	}

	var categories []Category
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid category key")
		}
		var entries []Entry
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
		if entries == nil {
			entries = []Entry{}
		}
		// Duplicate keys collapse last-wins so category names stay unique;
		// the first occurrence keeps its position.
		if i, dup := seen[name]; dup {
			categories[i].Entries = entries
			continue
		}
		seen[name] = len(categories)
		categories = append(categories, Category{
			Name:      name,
			Entries:   entries,
			SortOrder: len(categories) + 1,
		})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	m.categories = categories
	return nil
}
