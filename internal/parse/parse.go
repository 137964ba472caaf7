// Package parse turns backend response payloads of unknown shape into
// structured mappings, with a regex fallback for content that defeats
// JSON decoding entirely.
package parse

import (
	"encoding/json"
	"strings"
)

// PayloadKind tags the possible shapes of a backend response.
type PayloadKind int

const (
	// KindText is free-form text, possibly containing JSON.
	KindText PayloadKind = iota
	// KindObject is an already-decoded structured mapping.
	KindObject
	// KindList is an already-decoded sequence.
	KindList
)

// Payload is a tagged union over the shapes a backend may return. Exactly
// one of Object, List, Text is meaningful, selected by Kind.
type Payload struct {
	Kind   PayloadKind
	Object map[string]any
	List   []any
	Text   string
}

// TextPayload wraps free-form response text.
func TextPayload(s string) Payload {
	return Payload{Kind: KindText, Text: s}
}

// ObjectPayload wraps an already-structured mapping.
func ObjectPayload(m map[string]any) Payload {
	return Payload{Kind: KindObject, Object: m}
}

// ListPayload wraps an already-structured sequence.
func ListPayload(l []any) Payload {
	return Payload{Kind: KindList, List: l}
}

const fenceMarker = "```json"

// ParseObject resolves a payload to a structured mapping. Resolution
// order, first success wins: structured mapping as-is; strict JSON decode
// of text; JSON decode of a fenced ```json block. A single pass, no
// retries; ok=false hands off to the regex fallback.
func ParseObject(p Payload) (map[string]any, bool) {
	switch p.Kind {
	case KindObject:
		return p.Object, true
	case KindList:
		return nil, false
	case KindText:
		return decodeObjectText(p.Text)
	}
	return nil, false
}

// ParseRecords resolves a payload to a sequence of mappings. Accepts a
// direct sequence, a mapping carrying a "properties" sequence, or text
// decoding to either shape.
func ParseRecords(p Payload) ([]map[string]any, bool) {
	switch p.Kind {
	case KindList:
		return toRecordSlice(p.List)
	case KindObject:
		return propertiesOf(p.Object)
	case KindText:
		var decoded any
		if err := json.Unmarshal([]byte(p.Text), &decoded); err != nil {
			inner, ok := fencedJSON(p.Text)
			if !ok {
				return nil, false
			}
			if err := json.Unmarshal([]byte(inner), &decoded); err != nil {
				return nil, false
			}
		}
		switch v := decoded.(type) {
		case []any:
			return toRecordSlice(v)
		case map[string]any:
			return propertiesOf(v)
		}
		return nil, false
	}
	return nil, false
}

func decodeObjectText(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, true
	}
	inner, ok := fencedJSON(text)
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal([]byte(inner), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// fencedJSON extracts the substring between a ```json marker and the next
// fence close. A missing close fence yields the remainder of the text.
func fencedJSON(text string) (string, bool) {
	idx := strings.Index(text, fenceMarker)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(fenceMarker):]
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

func toRecordSlice(list []any) ([]map[string]any, bool) {
	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			records = append(records, m)
		}
	}
	return records, true
}

func propertiesOf(obj map[string]any) ([]map[string]any, bool) {
	props, ok := obj["properties"].([]any)
	if !ok {
		return nil, false
	}
	return toRecordSlice(props)
}
