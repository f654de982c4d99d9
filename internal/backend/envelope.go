package backend

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Envelope is the canonical shape every backend response is normalized into:
// a success flag, the HTTP status, the list payload when one was present, and
// the remaining object fields. Flows consume envelopes instead of raw bodies
// so shape quirks stay confined to this package.
type Envelope struct {
	OK     bool
	Status int
	Data   []json.RawMessage
	Fields map[string]json.RawMessage
}

// StringField decodes a top-level string field, returning "" when absent or
// not a string.
func (e Envelope) StringField(name string) string {
	raw, ok := e.Fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// DecodeField unmarshals a top-level field into out, reporting whether the
// field was present and decodable.
func (e Envelope) DecodeField(name string, out any) bool {
	raw, ok := e.Fields[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// normalize reconstitutes one of the three body shapes the backend produces
// into an Envelope. The paginated {"results": [...]} object is the canonical
// contract; a bare array and an object whose keys are consecutive integers
// are compatibility fallbacks observed in the wild. Non-JSON bodies fail soft
// with OK false.
func normalize(status int, body []byte) Envelope {
	env := Envelope{Status: status, Fields: map[string]json.RawMessage{}}
	httpOK := status >= 200 && status < 300

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		env.OK = httpOK
		return env
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return env
		}
		env.OK = httpOK
		env.Data = items
		return env
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return env
		}
		env.OK = httpOK
		env.Fields = fields

		if results, ok := fields["results"]; ok {
			var items []json.RawMessage
			if err := json.Unmarshal(results, &items); err == nil {
				env.Data = items
				return env
			}
		}
		if items, ok := integerKeyedList(fields); ok {
			env.Data = items
		}
		return env
	default:
		// Scalar JSON bodies carry nothing the flows consume.
		return env
	}
}

// integerKeyedList rebuilds a list from an object whose own keys are all
// integers, e.g. {"0": a, "1": b}. Such bodies show up when the backend
// spreads an array into an object.
func integerKeyedList(fields map[string]json.RawMessage) ([]json.RawMessage, bool) {
	if len(fields) == 0 {
		return nil, false
	}
	type entry struct {
		idx int
		raw json.RawMessage
	}
	entries := make([]entry, 0, len(fields))
	for key, raw := range fields {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, false
		}
		entries = append(entries, entry{idx: idx, raw: raw})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	items := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.raw)
	}
	return items, true
}
