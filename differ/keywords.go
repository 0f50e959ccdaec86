package differ

import "encoding/json"

// Keyword names used in keyword-level changes.
const (
	KeywordSchema   = "schema"
	KeywordRequired = "required"
)

// KeywordChange is one keyword-level change inside a changed record:
// either a SchemaKeywordChange or a RequiredKeywordChange.
type KeywordChange interface {
	json.Marshaler
	// Keyword returns "schema" or "required".
	Keyword() string
	// Message returns the human-readable comment.
	Message() string
}

// SchemaKeywordChange groups the leaf differences found in a schema.
type SchemaKeywordChange struct {
	Changes []SchemaChange `json:"changes"`
	Comment string         `json:"comment"`
}

func (SchemaKeywordChange) Keyword() string   { return KeywordSchema }
func (c SchemaKeywordChange) Message() string { return c.Comment }

// MarshalJSON adds the keyword discriminator.
func (c SchemaKeywordChange) MarshalJSON() ([]byte, error) {
	type record SchemaKeywordChange
	return json.Marshal(struct {
		Keyword string `json:"keyword"`
		record
	}{KeywordSchema, record(c)})
}

// RequiredKeywordChange reports a flip of the required flag.
// Source is nil when the source did not set required at all.
type RequiredKeywordChange struct {
	Source  *bool  `json:"source,omitempty"`
	Target  *bool  `json:"target,omitempty"`
	Comment string `json:"comment"`
}

func (RequiredKeywordChange) Keyword() string   { return KeywordRequired }
func (c RequiredKeywordChange) Message() string { return c.Comment }

// MarshalJSON adds the keyword discriminator.
func (c RequiredKeywordChange) MarshalJSON() ([]byte, error) {
	type record RequiredKeywordChange
	return json.Marshal(struct {
		Keyword string `json:"keyword"`
		record
	}{KeywordRequired, record(c)})
}

var (
	_ KeywordChange = SchemaKeywordChange{}
	_ KeywordChange = RequiredKeywordChange{}
)

// SchemaChange is one leaf difference between two schemas.
//
// JSONPath is a JSON pointer into the dereferenced schema, rooted at the
// compared schema ("#/properties/id/type"); following a $ref does not add
// a segment. Action distinguishes a key that is absent on one side from a
// key that is present with a null value.
type SchemaChange struct {
	JSONPath string
	Source   any
	Target   any
	Action   Action
}

// MarshalJSON writes jsonPath, source and target, leaving out the side the
// value is absent from.
func (c SchemaChange) MarshalJSON() ([]byte, error) {
	out := struct {
		JSONPath string `json:"jsonPath"`
		Source   *any   `json:"source,omitempty"`
		Target   *any   `json:"target,omitempty"`
	}{JSONPath: c.JSONPath}
	if c.Action != ActionAdded {
		out.Source = &c.Source
	}
	if c.Action != ActionDeleted {
		out.Target = &c.Target
	}
	return json.Marshal(out)
}
