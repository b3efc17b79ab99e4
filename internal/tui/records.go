package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// titleFields are tried in order to label a record in lists.
var titleFields = []string{"name", "clientName", "start", "date"}

// record is one element of a collection, kept as raw JSON. The TUI works
// for every record type, so it only looks at a few well-known fields.
type record struct {
	ID           string
	Title        string
	LastModified string
	Raw          json.RawMessage
}

func decodeRecords(text string) ([]record, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}

	out := make([]record, 0, len(raws))
	for _, raw := range raws {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}

		rec := record{Raw: raw}
		rec.ID, _ = fields["id"].(string)
		rec.LastModified, _ = fields["lastModified"].(string)
		for _, name := range titleFields {
			if v, ok := fields[name].(string); ok && v != "" {
				rec.Title = v
				break
			}
		}
		out = append(out, rec)
	}

	return out, nil
}

func (r record) pretty() string {
	var b bytes.Buffer
	if err := json.Indent(&b, r.Raw, "", "  "); err != nil {
		return string(r.Raw)
	}
	return b.String()
}
