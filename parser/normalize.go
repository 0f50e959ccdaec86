package parser

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/oaschangelog/oaserrors"
)

// Normalize returns a copy of v expressed only in terms of map[string]any,
// []any and scalars.
//
// YAML decodes mappings with non-string keys (an unquoted `200:` status code)
// into map[any]any; those keys are formatted with fmt.Sprint. Values outside
// the generic vocabulary, such as structs or typed maps, are round-tripped
// through encoding/json. The input is never modified.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return val, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, &oaserrors.ParseError{Message: "invalid number " + val.String(), Cause: err}
		}
		return f, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			n, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, &oaserrors.ParseError{Message: fmt.Sprintf("cannot convert %T to a document tree", val), Cause: err}
		}
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &oaserrors.ParseError{Message: fmt.Sprintf("cannot convert %T to a document tree", val), Cause: err}
		}
		return raw, nil
	}
}
