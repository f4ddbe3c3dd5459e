package persist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hpungsan/spark/internal/entry"
)

// Encode renders entries as the entries document: an indented JSON array with
// UTC timestamps and explicit nulls. Equal input always yields equal bytes.
func Encode(entries []entry.Entry) ([]byte, error) {
	out := make([]entry.Entry, len(entries))
	for i, e := range entries {
		c := e.Clone()
		c.CreationDate = c.CreationDate.UTC()
		c.EarliestUnlock = c.EarliestUnlock.UTC()
		if c.UnlockedAt != nil {
			u := c.UnlockedAt.UTC()
			c.UnlockedAt = &u
		}
		out[i] = c
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses an entries document. Documents written before earliestUnlock
// existed load with earliestUnlock equal to creationDate. Missing or duplicate
// ids are schema errors.
func Decode(data []byte) ([]entry.Entry, error) {
	var entries []entry.Entry
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after entries array")
	}
	if entries == nil {
		return nil, fmt.Errorf("entries document is not an array")
	}

	seen := make(map[string]bool, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("entry %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true

		if e.EarliestUnlock.IsZero() {
			e.EarliestUnlock = e.CreationDate
		}
	}
	return entries, nil
}
