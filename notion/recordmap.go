// Package notion models the record map a Notion page export is made of and
// renders it to HTML as a templ component.
//
// A record map is the JSON document produced by the unofficial Notion client
// (loadPageChunk): a "block" object keyed by block id whose key order is the
// order the source supplied. Go maps do not keep that order, so blocks are
// held in an ordered map.
package notion

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrInvalidRecordMap is returned when a payload is not a record map.
	ErrInvalidRecordMap = errors.New("notion: invalid record map")
	// ErrNoRootPage is returned when a record map holds no page block.
	ErrNoRootPage = errors.New("notion: record map has no page block")
)

// Block types the renderer and the outline extractor care about.
const (
	TypePage           = "page"
	TypeText           = "text"
	TypeHeader         = "header"
	TypeSubHeader      = "sub_header"
	TypeSubSubHeader   = "sub_sub_header"
	TypeBulletedList   = "bulleted_list"
	TypeNumberedList   = "numbered_list"
	TypeToDo           = "to_do"
	TypeToggle         = "toggle"
	TypeQuote          = "quote"
	TypeCallout        = "callout"
	TypeCode           = "code"
	TypeDivider        = "divider"
	TypeImage          = "image"
	TypeBookmark       = "bookmark"
	TypeColumnList     = "column_list"
	TypeColumn         = "column"
	TypeTableOfContent = "table_of_contents"
)

// RecordMap is the subset of a Notion record map used by this module.
type RecordMap struct {
	Block *orderedmap.OrderedMap[string, BlockRecord] `json:"block"`
}

// BlockRecord wraps a block value together with the caller's role on it.
type BlockRecord struct {
	Role  string `json:"role,omitempty"`
	Value *Block `json:"value"`
}

// Block is a single Notion block.
type Block struct {
	ID             string                     `json:"id"`
	Type           string                     `json:"type"`
	Properties     map[string]json.RawMessage `json:"properties,omitempty"`
	Format         map[string]json.RawMessage `json:"format,omitempty"`
	Content        []string                   `json:"content,omitempty"`
	ParentID       string                     `json:"parent_id,omitempty"`
	ParentTable    string                     `json:"parent_table,omitempty"`
	Alive          *bool                      `json:"alive,omitempty"`
	CreatedTime    int64                      `json:"created_time,omitempty"`
	LastEditedTime int64                      `json:"last_edited_time,omitempty"`
}

// UnmarshalJSON decodes a record leniently. A value that is not a block
// object leaves Value nil so one bad record does not reject the whole map.
func (r *BlockRecord) UnmarshalJSON(data []byte) error {
	*r = BlockRecord{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	r.Role = field[string](fields, "role")
	if raw, ok := fields["value"]; ok {
		var b *Block
		if err := json.Unmarshal(raw, &b); err == nil {
			r.Value = b
		}
	}
	return nil
}

// UnmarshalJSON decodes each field on its own. A field of the wrong shape is
// left at its zero value; only a payload that is not an object fails.
func (b *Block) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("notion: null block")
	}
	*b = Block{
		ID:             field[string](fields, "id"),
		Type:           field[string](fields, "type"),
		Properties:     field[map[string]json.RawMessage](fields, "properties"),
		Format:         field[map[string]json.RawMessage](fields, "format"),
		Content:        field[[]string](fields, "content"),
		ParentID:       field[string](fields, "parent_id"),
		ParentTable:    field[string](fields, "parent_table"),
		Alive:          field[*bool](fields, "alive"),
		CreatedTime:    field[int64](fields, "created_time"),
		LastEditedTime: field[int64](fields, "last_edited_time"),
	}
	return nil
}

func field[T any](fields map[string]json.RawMessage, key string) T {
	var v T
	raw, ok := fields[key]
	if !ok {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// ParseRecordMap decodes a record map from data, keeping block order.
func ParseRecordMap(data []byte) (*RecordMap, error) {
	var rm RecordMap
	if err := json.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecordMap, err)
	}
	return &rm, nil
}

// DecodeRecordMap reads a whole record map from r.
func DecodeRecordMap(r io.Reader) (*RecordMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("notion: read record map: %w", err)
	}
	return ParseRecordMap(data)
}

// Len returns the number of blocks, zero for a nil or empty map.
func (rm *RecordMap) Len() int {
	if rm == nil || rm.Block == nil {
		return 0
	}
	return rm.Block.Len()
}

// Get returns the block stored under id. The block's ID field is filled in
// from the key when the payload omitted it.
func (rm *RecordMap) Get(id string) (*Block, bool) {
	if rm == nil || rm.Block == nil {
		return nil, false
	}
	rec, ok := rm.Block.Get(id)
	if !ok || rec.Value == nil {
		return nil, false
	}
	if rec.Value.ID == "" {
		rec.Value.ID = id
	}
	return rec.Value, true
}

// Each calls fn for every block in source order until fn returns false.
// Records without a value are skipped.
func (rm *RecordMap) Each(fn func(id string, b *Block) bool) {
	if rm == nil || rm.Block == nil {
		return
	}
	for pair := rm.Block.Oldest(); pair != nil; pair = pair.Next() {
		b := pair.Value.Value
		if b == nil {
			continue
		}
		if b.ID == "" {
			b.ID = pair.Key
		}
		if !fn(pair.Key, b) {
			return
		}
	}
}

// RootPageID returns the id of the first page block in source order, which
// is the page the record map was fetched for.
func (rm *RecordMap) RootPageID() (string, error) {
	var root string
	rm.Each(func(id string, b *Block) bool {
		if b.Type == TypePage {
			root = id
			return false
		}
		return true
	})
	if root == "" {
		return "", ErrNoRootPage
	}
	return root, nil
}

// Title returns the flattened text of the block's title property. A missing
// or malformed title yields "".
func (b *Block) Title() string {
	if b == nil {
		return ""
	}
	return b.RichText("title").Plain()
}

// RichText decodes the named property as rich text.
func (b *Block) RichText(name string) RichText {
	if b == nil || b.Properties == nil {
		return nil
	}
	raw, ok := b.Properties[name]
	if !ok {
		return nil
	}
	return ParseRichText(raw)
}

// FormatString returns a string-valued entry of the block's format object.
func (b *Block) FormatString(key string) string {
	if b == nil || b.Format == nil {
		return ""
	}
	raw, ok := b.Format[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Checked reports whether a to_do block is ticked.
func (b *Block) Checked() bool {
	return b.RichText("checked").Plain() == "Yes"
}

// IsAlive reports whether the block has not been deleted. Blocks that do
// not carry the flag are treated as alive.
func (b *Block) IsAlive() bool {
	return b.Alive == nil || *b.Alive
}
