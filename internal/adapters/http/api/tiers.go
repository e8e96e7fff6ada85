package api

import (
	"encoding/json"
	"fmt"
)

// Tiers is a tier selection that accepts JSON numbers and strings alike, so
// both [6, 7.5] and ["3", "top"] decode. A bare value is a one-tier list.
type Tiers []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tiers) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		raw = []json.RawMessage{b}
	}
	out := make(Tiers, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err != nil {
			return fmt.Errorf("tier %s: must be a number or a string", string(r))
		}
		out = append(out, n.String())
	}
	*t = out
	return nil
}
