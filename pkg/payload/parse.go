package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Kind tells which variant a Parsed value holds.
type Kind int

const (
	// KindScalar is a plain value that does not look like JSON.
	KindScalar Kind = iota
	// KindObject is a value that decoded into a JSON object.
	KindObject
	// KindParseFailure is a value that looked like a JSON object but did not decode.
	KindParseFailure
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindParseFailure:
		return "parse_failure"
	default:
		return "unknown"
	}
}

// Parsed is the classification of a nested payload value.
type Parsed struct {
	Kind   Kind
	Raw    string
	Object map[string]any
	Err    error
}

// Classify decides whether s is a nested JSON object. Only values starting
// with "{" are treated as JSON; numbers are kept as json.Number.
func Classify(s string) Parsed {
	if !strings.HasPrefix(s, "{") {
		return Parsed{Kind: KindScalar, Raw: s}
	}
	obj, err := decodeObject(s)
	if err != nil {
		return Parsed{Kind: KindParseFailure, Raw: s, Err: errors.Join(ErrMalformedJSON, err)}
	}
	return Parsed{Kind: KindObject, Raw: s, Object: obj}
}

func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, ErrTrailingData
	}
	if obj == nil {
		return nil, ErrNotAnObject
	}
	return obj, nil
}

func decodeArray(s string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var arr []any
	if err := dec.Decode(&arr); err != nil {
		return nil, err
	}
	return arr, nil
}
