package rmp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedPage is wrapped by every decode failure.
	ErrMalformedPage = errors.New("malformed page")

	// ErrMissingField reports a required field absent from a record.
	ErrMissingField = errors.New("missing required field")
)

// DecodeProfessorPage parses a listing response. The body must be an object
// with a numeric "remaining" and a "professors" array; unknown fields are ignored.
func DecodeProfessorPage(data []byte) (*ProfessorPage, error) {
	var wire struct {
		Remaining  *int         `json:"remaining"`
		Professors *[]Professor `json:"professors"`
	}
	if err := decodeObject(data, &wire); err != nil {
		return nil, err
	}
	if wire.Remaining == nil {
		return nil, fmt.Errorf("%w: %w: remaining", ErrMalformedPage, ErrMissingField)
	}
	if wire.Professors == nil {
		return nil, fmt.Errorf("%w: %w: professors", ErrMalformedPage, ErrMissingField)
	}

	return &ProfessorPage{
		Remaining:  *wire.Remaining,
		Professors: *wire.Professors,
	}, nil
}

// DecodeRatingsPage parses a ratings response: an object with a numeric
// "remaining" and a "ratings" array.
func DecodeRatingsPage(data []byte) (*RatingsPage, error) {
	var wire struct {
		Remaining *int      `json:"remaining"`
		Ratings   *[]Review `json:"ratings"`
	}
	if err := decodeObject(data, &wire); err != nil {
		return nil, err
	}
	if wire.Remaining == nil {
		return nil, fmt.Errorf("%w: %w: remaining", ErrMalformedPage, ErrMissingField)
	}
	if wire.Ratings == nil {
		return nil, fmt.Errorf("%w: %w: ratings", ErrMalformedPage, ErrMissingField)
	}

	return &RatingsPage{
		Remaining: *wire.Remaining,
		Ratings:   *wire.Ratings,
	}, nil
}

func decodeObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedPage)
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("%w: body is not a JSON object", ErrMalformedPage)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPage, err)
	}
	return nil
}
