package rmp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Scalar is an optional JSON scalar kept as text. The API is inconsistent
// about quoting numbers ("4.5" vs 4.5), so optional fields accept either.
type Scalar struct {
	Value string
	Valid bool
}

// NewScalar returns a valid Scalar holding v.
func NewScalar(v string) Scalar {
	return Scalar{Value: v, Valid: true}
}

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Scalar{}
		return nil
	}

	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = NewScalar(v)
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = NewScalar(strconv.FormatBool(v))
	case '{', '[':
		return fmt.Errorf("expected scalar, got %s", kindOf(data[0]))
	default:
		var v json.Number
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = NewScalar(v.String())
	}
	return nil
}

// MarshalJSON writes the value as a string, or null when unset.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// String returns the value, or "" when unset.
func (s Scalar) String() string {
	return s.Value
}

// Ptr returns nil for unset values.
func (s Scalar) Ptr() *string {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// Int64 parses the value as an integer.
func (s Scalar) Int64() (int64, error) {
	if !s.Valid {
		return 0, fmt.Errorf("value not set")
	}
	if n, err := strconv.ParseInt(s.Value, 10, 64); err == nil {
		return n, nil
	}
	// Integral floats such as "12345.0".
	f, err := strconv.ParseFloat(s.Value, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("not an integer: %q", s.Value)
	}
	return int64(f), nil
}

// StringList is an optional list of strings. A bare scalar is read as a
// one-element list.
type StringList []string

// UnmarshalJSON accepts an array of scalars, a single scalar, or null.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] != '[' {
		var s Scalar
		if err := s.UnmarshalJSON(data); err != nil {
			return err
		}
		*l = StringList{s.Value}
		return nil
	}

	var items []Scalar
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if item.Valid {
			out = append(out, item.Value)
		}
	}
	*l = out
	return nil
}

func kindOf(c byte) string {
	if c == '{' {
		return "object"
	}
	return "array"
}
