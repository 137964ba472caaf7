package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObject_StructuredMapping(t *testing.T) {
	obj := map[string]any{"title": "Sky Residence"}

	got, ok := ParseObject(ObjectPayload(obj))

	require.True(t, ok)
	assert.Equal(t, "Sky Residence", got["title"])
}

func TestParseObject_StrictJSONText(t *testing.T) {
	got, ok := ParseObject(TextPayload(`{"title": "Sky Residence", "price": "RM 650,000"}`))

	require.True(t, ok)
	assert.Equal(t, "RM 650,000", got["price"])
}

func TestParseObject_FencedJSON(t *testing.T) {
	text := "Here is the extracted data:\n```json\n{\"title\": \"Sky Residence\"}\n```\nLet me know if you need more."

	got, ok := ParseObject(TextPayload(text))

	require.True(t, ok)
	assert.Equal(t, "Sky Residence", got["title"])
}

func TestParseObject_StrictDecodeWinsOverFence(t *testing.T) {
	// A payload that is itself valid JSON never reaches fence extraction.
	text := `{"title": "Direct", "note": "contains ` + "```json" + ` marker"}`

	got, ok := ParseObject(TextPayload(text))

	require.True(t, ok)
	assert.Equal(t, "Direct", got["title"])
}

func TestParseObject_UnterminatedFence(t *testing.T) {
	text := "```json\n{\"title\": \"Sky Residence\"}"

	got, ok := ParseObject(TextPayload(text))

	require.True(t, ok)
	assert.Equal(t, "Sky Residence", got["title"])
}

func TestParseObject_ProseFails(t *testing.T) {
	_, ok := ParseObject(TextPayload("I could not find any structured data on that page."))
	assert.False(t, ok)
}

func TestParseObject_ListPayloadFails(t *testing.T) {
	_, ok := ParseObject(ListPayload([]any{map[string]any{"title": "A"}}))
	assert.False(t, ok)
}

func TestParseObject_MalformedFencedJSON(t *testing.T) {
	_, ok := ParseObject(TextPayload("```json\n{not json}\n```"))
	assert.False(t, ok)
}

func TestParseRecords_DirectList(t *testing.T) {
	records, ok := ParseRecords(ListPayload([]any{
		map[string]any{"title": "A"},
		"stray string",
		map[string]any{"title": "B"},
	}))

	require.True(t, ok)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0]["title"])
	assert.Equal(t, "B", records[1]["title"])
}

func TestParseRecords_PropertiesWrapper(t *testing.T) {
	records, ok := ParseRecords(ObjectPayload(map[string]any{
		"properties": []any{
			map[string]any{"title": "A"},
		},
	}))

	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0]["title"])
}

func TestParseRecords_ObjectWithoutProperties(t *testing.T) {
	_, ok := ParseRecords(ObjectPayload(map[string]any{"title": "A"}))
	assert.False(t, ok)
}

func TestParseRecords_FencedArrayText(t *testing.T) {
	text := "Found these listings:\n```json\n[{\"title\": \"A\"}, {\"title\": \"B\"}]\n```"

	records, ok := ParseRecords(TextPayload(text))

	require.True(t, ok)
	require.Len(t, records, 2)
}

func TestParseRecords_TextObjectWithProperties(t *testing.T) {
	records, ok := ParseRecords(TextPayload(`{"properties": [{"title": "A"}]}`))

	require.True(t, ok)
	require.Len(t, records, 1)
}

func TestParseRecords_ProseFails(t *testing.T) {
	_, ok := ParseRecords(TextPayload("no listings found"))
	assert.False(t, ok)
}

func TestParseRecords_ScalarJSONFails(t *testing.T) {
	_, ok := ParseRecords(TextPayload(`"just a string"`))
	assert.False(t, ok)
}

func TestFencedJSON_TrimsWhitespace(t *testing.T) {
	inner, ok := fencedJSON("```json\n\n  {\"a\": 1}  \n\n```")

	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, inner)
}
