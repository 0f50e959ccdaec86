package differ

import "encoding/json"

// Action describes what happened to a parameter, request body, header or response body.
type Action string

const (
	// ActionAdded indicates the element only exists in the target document
	ActionAdded Action = "added"
	// ActionChanged indicates the element exists in both documents and differs
	ActionChanged Action = "changed"
	// ActionDeleted indicates the element only exists in the source document
	ActionDeleted Action = "deleted"
)

// ChangeType identifies the kind of element a Change describes.
type ChangeType string

const (
	// TypeParameter is an operation parameter, matched by name and location
	TypeParameter ChangeType = "parameter"
	// TypeRequestBody is a request body media type
	TypeRequestBody ChangeType = "requestBody"
	// TypeResponseHeader is a response header
	TypeResponseHeader ChangeType = "responseHeader"
	// TypeResponseBody is a response body media type
	TypeResponseBody ChangeType = "responseBody"
)

// Change is one change record of an operation.
//
// Every (ChangeType, Action) pair has its own struct, so an added record
// cannot carry a source schema and a deleted record cannot carry keyword
// changes. Use a type switch to get at the identity fields:
//
//	switch c := change.(type) {
//	case differ.ParameterChanged:
//	    fmt.Println(c.In, c.Name, len(c.Changes))
//	case differ.ResponseBodyDeleted:
//	    fmt.Println(c.StatusCode, c.MediaType)
//	}
type Change interface {
	json.Marshaler
	// Type returns the kind of element that changed.
	Type() ChangeType
	// Action returns whether the element was added, changed or deleted.
	Action() Action
	// Message returns the human-readable comment.
	Message() string
}

// tag carries the discriminator fields of a serialized Change.
type tag struct {
	Type   ChangeType `json:"type"`
	Action Action     `json:"action"`
}

// ParameterAdded reports a parameter that only the target operation declares.
type ParameterAdded struct {
	Name         string `json:"name"`
	In           string `json:"in"`
	TargetSchema any    `json:"targetSchema"`
	Comment      string `json:"comment"`
}

func (ParameterAdded) Type() ChangeType  { return TypeParameter }
func (ParameterAdded) Action() Action    { return ActionAdded }
func (c ParameterAdded) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ParameterAdded) MarshalJSON() ([]byte, error) {
	type record ParameterAdded
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeParameter, ActionAdded}, record(c)})
}

// ParameterChanged reports a parameter whose schema changed or that became required.
type ParameterChanged struct {
	Name         string          `json:"name"`
	In           string          `json:"in"`
	SourceSchema any             `json:"sourceSchema"`
	TargetSchema any             `json:"targetSchema"`
	Changes      []KeywordChange `json:"changes"`
	Comment      string          `json:"comment"`
}

func (ParameterChanged) Type() ChangeType  { return TypeParameter }
func (ParameterChanged) Action() Action    { return ActionChanged }
func (c ParameterChanged) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ParameterChanged) MarshalJSON() ([]byte, error) {
	type record ParameterChanged
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeParameter, ActionChanged}, record(c)})
}

// ParameterDeleted reports a parameter that only the source operation declares.
type ParameterDeleted struct {
	Name         string `json:"name"`
	In           string `json:"in"`
	SourceSchema any    `json:"sourceSchema"`
	Comment      string `json:"comment"`
}

func (ParameterDeleted) Type() ChangeType  { return TypeParameter }
func (ParameterDeleted) Action() Action    { return ActionDeleted }
func (c ParameterDeleted) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ParameterDeleted) MarshalJSON() ([]byte, error) {
	type record ParameterDeleted
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeParameter, ActionDeleted}, record(c)})
}

// RequestBodyAdded reports a request body media type only the target accepts.
type RequestBodyAdded struct {
	MediaType    string `json:"mediaType"`
	TargetSchema any    `json:"targetSchema"`
	Comment      string `json:"comment"`
}

func (RequestBodyAdded) Type() ChangeType  { return TypeRequestBody }
func (RequestBodyAdded) Action() Action    { return ActionAdded }
func (c RequestBodyAdded) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c RequestBodyAdded) MarshalJSON() ([]byte, error) {
	type record RequestBodyAdded
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeRequestBody, ActionAdded}, record(c)})
}

// RequestBodyChanged reports a request body media type whose schema or
// required flag changed.
type RequestBodyChanged struct {
	MediaType    string          `json:"mediaType"`
	SourceSchema any             `json:"sourceSchema"`
	TargetSchema any             `json:"targetSchema"`
	Changes      []KeywordChange `json:"changes"`
	Comment      string          `json:"comment"`
}

func (RequestBodyChanged) Type() ChangeType  { return TypeRequestBody }
func (RequestBodyChanged) Action() Action    { return ActionChanged }
func (c RequestBodyChanged) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c RequestBodyChanged) MarshalJSON() ([]byte, error) {
	type record RequestBodyChanged
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeRequestBody, ActionChanged}, record(c)})
}

// RequestBodyDeleted reports a request body media type only the source accepts.
type RequestBodyDeleted struct {
	MediaType    string `json:"mediaType"`
	SourceSchema any    `json:"sourceSchema"`
	Comment      string `json:"comment"`
}

func (RequestBodyDeleted) Type() ChangeType  { return TypeRequestBody }
func (RequestBodyDeleted) Action() Action    { return ActionDeleted }
func (c RequestBodyDeleted) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c RequestBodyDeleted) MarshalJSON() ([]byte, error) {
	type record RequestBodyDeleted
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeRequestBody, ActionDeleted}, record(c)})
}

// ResponseHeaderAdded reports a response header only the target sends.
type ResponseHeaderAdded struct {
	StatusCode   string `json:"statusCode"`
	Header       string `json:"header"`
	TargetSchema any    `json:"targetSchema"`
	Comment      string `json:"comment"`
}

func (ResponseHeaderAdded) Type() ChangeType  { return TypeResponseHeader }
func (ResponseHeaderAdded) Action() Action    { return ActionAdded }
func (c ResponseHeaderAdded) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ResponseHeaderAdded) MarshalJSON() ([]byte, error) {
	type record ResponseHeaderAdded
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeResponseHeader, ActionAdded}, record(c)})
}

// ResponseHeaderChanged reports a response header whose schema changed.
type ResponseHeaderChanged struct {
	StatusCode   string                `json:"statusCode"`
	Header       string                `json:"header"`
	SourceSchema any                   `json:"sourceSchema"`
	TargetSchema any                   `json:"targetSchema"`
	Changes      []SchemaKeywordChange `json:"changes"`
	Comment      string                `json:"comment"`
}

func (ResponseHeaderChanged) Type() ChangeType  { return TypeResponseHeader }
func (ResponseHeaderChanged) Action() Action    { return ActionChanged }
func (c ResponseHeaderChanged) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ResponseHeaderChanged) MarshalJSON() ([]byte, error) {
	type record ResponseHeaderChanged
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeResponseHeader, ActionChanged}, record(c)})
}

// ResponseHeaderDeleted reports a response header only the source sends.
type ResponseHeaderDeleted struct {
	StatusCode   string `json:"statusCode"`
	Header       string `json:"header"`
	SourceSchema any    `json:"sourceSchema"`
	Comment      string `json:"comment"`
}

func (ResponseHeaderDeleted) Type() ChangeType  { return TypeResponseHeader }
func (ResponseHeaderDeleted) Action() Action    { return ActionDeleted }
func (c ResponseHeaderDeleted) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ResponseHeaderDeleted) MarshalJSON() ([]byte, error) {
	type record ResponseHeaderDeleted
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeResponseHeader, ActionDeleted}, record(c)})
}

// ResponseBodyAdded reports a response media type only the target produces.
type ResponseBodyAdded struct {
	StatusCode   string `json:"statusCode"`
	MediaType    string `json:"mediaType"`
	TargetSchema any    `json:"targetSchema"`
	Comment      string `json:"comment"`
}

func (ResponseBodyAdded) Type() ChangeType  { return TypeResponseBody }
func (ResponseBodyAdded) Action() Action    { return ActionAdded }
func (c ResponseBodyAdded) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ResponseBodyAdded) MarshalJSON() ([]byte, error) {
	type record ResponseBodyAdded
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeResponseBody, ActionAdded}, record(c)})
}

// ResponseBodyChanged reports a response media type whose schema changed.
type ResponseBodyChanged struct {
	StatusCode   string                `json:"statusCode"`
	MediaType    string                `json:"mediaType"`
	SourceSchema any                   `json:"sourceSchema"`
	TargetSchema any                   `json:"targetSchema"`
	Changes      []SchemaKeywordChange `json:"changes"`
	Comment      string                `json:"comment"`
}

func (ResponseBodyChanged) Type() ChangeType  { return TypeResponseBody }
func (ResponseBodyChanged) Action() Action    { return ActionChanged }
func (c ResponseBodyChanged) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ResponseBodyChanged) MarshalJSON() ([]byte, error) {
	type record ResponseBodyChanged
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeResponseBody, ActionChanged}, record(c)})
}

// ResponseBodyDeleted reports a response media type only the source produces.
type ResponseBodyDeleted struct {
	StatusCode   string `json:"statusCode"`
	MediaType    string `json:"mediaType"`
	SourceSchema any    `json:"sourceSchema"`
	Comment      string `json:"comment"`
}

func (ResponseBodyDeleted) Type() ChangeType  { return TypeResponseBody }
func (ResponseBodyDeleted) Action() Action    { return ActionDeleted }
func (c ResponseBodyDeleted) Message() string { return c.Comment }

// MarshalJSON adds the type and action discriminators.
func (c ResponseBodyDeleted) MarshalJSON() ([]byte, error) {
	type record ResponseBodyDeleted
	return json.Marshal(struct {
		tag
		record
	}{tag{TypeResponseBody, ActionDeleted}, record(c)})
}

// Compile-time checks that every record implements Change.
var (
	_ Change = ParameterAdded{}
	_ Change = ParameterChanged{}
	_ Change = ParameterDeleted{}
	_ Change = RequestBodyAdded{}
	_ Change = RequestBodyChanged{}
	_ Change = RequestBodyDeleted{}
	_ Change = ResponseHeaderAdded{}
	_ Change = ResponseHeaderChanged{}
	_ Change = ResponseHeaderDeleted{}
	_ Change = ResponseBodyAdded{}
	_ Change = ResponseBodyChanged{}
	_ Change = ResponseBodyDeleted{}
)
