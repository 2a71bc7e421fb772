package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoafnganh/notionblog/notion"
)

func parse(t *testing.T, js string) *notion.RecordMap {
	t.Helper()
	rm, err := notion.ParseRecordMap([]byte(js))
	require.NoError(t, err)
	return rm
}

func TestExtractNilAndEmpty(t *testing.T) {
	assert.Empty(t, Extract(nil))
	assert.NotNil(t, Extract(nil))
	assert.Empty(t, Extract(&notion.RecordMap{}))
	assert.Empty(t, Extract(parse(t, `{}`)))
	assert.Empty(t, Extract(parse(t, `{"block": null}`)))
	assert.Empty(t, Extract(parse(t, `{"block": {}}`)))
}

func TestExtractKeepsSourceOrder(t *testing.T) {
	rm := parse(t, `{"block": {
		"A": {"value": {"type": "header", "properties": {"title": [["Intro"]]}}},
		"B": {"value": {"type": "sub_header", "properties": {"title": [["Setup"]]}}}
	}}`)

	got := Extract(rm)

	assert.Equal(t, Outline{
		{ID: "A", Text: "Intro", Level: 1},
		{ID: "B", Text: "Setup", Level: 2},
	}, got)
}

func TestExtractOrderIsNotSorted(t *testing.T) {
	rm := parse(t, `{"block": {
		"zz": {"value": {"type": "sub_sub_header", "properties": {"title": [["Last key first"]]}}},
		"aa": {"value": {"type": "header", "properties": {"title": [["First key last"]]}}}
	}}`)

	assert.Equal(t, []string{"zz", "aa"}, Extract(rm).IDs())
}

func TestExtractLevels(t *testing.T) {
	tests := []struct {
		blockType string
		level     int
		heading   bool
	}{
		{"header", 1, true},
		{"sub_header", 2, true},
		{"sub_sub_header", 3, true},
		{"text", 0, false},
		{"page", 0, false},
		{"bulleted_list", 0, false},
		{"Header", 0, false},
	}
	for _, tt := range tests {
		rm := parse(t, `{"block": {"x": {"value": {"type": "`+tt.blockType+`", "properties": {"title": [["T"]]}}}}}`)
		got := Extract(rm)
		if !tt.heading {
			assert.Empty(t, got, tt.blockType)
			continue
		}
		require.Len(t, got, 1, tt.blockType)
		assert.Equal(t, tt.level, got[0].Level, tt.blockType)
	}
}

func TestHeadingKind(t *testing.T) {
	for _, k := range []HeadingKind{Header, SubHeader, SubSubHeader} {
		parsed, ok := ParseHeadingKind(k.BlockType())
		require.True(t, ok)
		assert.Equal(t, k, parsed)
	}
	_, ok := ParseHeadingKind("quote")
	assert.False(t, ok)
}

func TestExtractFlattensAllRuns(t *testing.T) {
	rm := parse(t, `{"block": {
		"h": {"value": {"type": "header", "properties": {"title": [["Hello, "], ["bold", [["b"]]], [" world", [["a", "https://x.test"]]]]}}}
	}}`)

	got := Extract(rm)

	require.Len(t, got, 1)
	assert.Equal(t, "Hello, bold world", got[0].Text)
}

func TestExtractToleratesMalformedBlocks(t *testing.T) {
	rm := parse(t, `{"block": {
		"novalue": {},
		"noprops": {"value": {"type": "header"}},
		"notitle": {"value": {"type": "header", "properties": {}}},
		"badtitle": {"value": {"type": "header", "properties": {"title": "oops"}}},
		"blank": {"value": {"type": "sub_header", "properties": {"title": [["   "]]}}},
		"mixed": {"value": {"type": "sub_header", "properties": {"title": [[42], ["ok"]]}}},
		"good": {"value": {"type": "header", "properties": {"title": [["Kept"]]}}}
	}}`)

	assert.Equal(t, Outline{
		{ID: "mixed", Text: "ok", Level: 2},
		{ID: "good", Text: "Kept", Level: 1},
	}, Extract(rm))
}

func TestExtractSkipsBlocksOfTheWrongShape(t *testing.T) {
	rm := parse(t, `{"block": {
		"p": {"value": {"type": "page", "content": "x"}},
		"arr": {"value": {"type": "header", "properties": []}},
		"str": {"value": {"type": "sub_header", "properties": "x"}},
		"bogus": {"value": "bogus"},
		"good": {"value": {"type": "header", "properties": {"title": [["Kept"]]}}}
	}}`)

	assert.Equal(t, Outline{{ID: "good", Text: "Kept", Level: 1}}, Extract(rm))
}

func TestExtractIsIdempotent(t *testing.T) {
	rm := parse(t, `{"block": {
		"A": {"value": {"type": "header", "properties": {"title": [["One"]]}}},
		"B": {"value": {"type": "sub_sub_header", "properties": {"title": [["Two"]]}}}
	}}`)

	assert.Equal(t, Extract(rm), Extract(rm))
}

func TestExtractStructuralFollowsContentTree(t *testing.T) {
	rm := parse(t, `{"block": {
		"page": {"value": {"type": "page", "content": ["h2", "toggle", "h1"], "properties": {"title": [["Post"]]}}},
		"h1": {"value": {"type": "header", "properties": {"title": [["Later"]]}}},
		"h2": {"value": {"type": "header", "properties": {"title": [["Earlier"]]}}},
		"toggle": {"value": {"type": "toggle", "content": ["h3"], "properties": {"title": [["More"]]}}},
		"h3": {"value": {"type": "sub_header", "properties": {"title": [["Nested"]]}}},
		"orphan": {"value": {"type": "header", "properties": {"title": [["Unreachable"]]}}}
	}}`)

	assert.Equal(t, []string{"h1", "h2", "h3", "orphan"}, Extract(rm).IDs())
	assert.Equal(t, []string{"h2", "h3", "h1"}, ExtractStructural(rm, "page").IDs())
	assert.Empty(t, ExtractStructural(rm, "missing"))
	assert.Empty(t, ExtractStructural(nil, "page"))
}

func TestExtractStructuralSurvivesCycles(t *testing.T) {
	rm := parse(t, `{"block": {
		"page": {"value": {"type": "page", "content": ["t"]}},
		"t": {"value": {"type": "toggle", "content": ["h", "t", "page"]}},
		"h": {"value": {"type": "header", "properties": {"title": [["Once"]]}}}
	}}`)

	assert.Equal(t, []string{"h"}, ExtractStructural(rm, "page").IDs())
}

func TestOutlineHelpers(t *testing.T) {
	assert.Equal(t, 1, threeHeadings.Index("b"))
	assert.Equal(t, -1, threeHeadings.Index("z"))
	assert.True(t, threeHeadings.Contains("c"))
	assert.False(t, Outline(nil).Contains("a"))
}
