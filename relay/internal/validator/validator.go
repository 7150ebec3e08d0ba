// Package validator checks inbound event payloads against the required
// email-event schema before they reach the publisher.
package validator

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RequiredFields lists the event fields in their fixed enumeration order.
// Validation reports the first missing field in this order.
var RequiredFields = []string{"subject", "sender", "timestream", "content"}

// Event is a validated email event. All four fields are present and
// non-empty; timestream is kept as text regardless of its wire type.
type Event struct {
	Subject    string `json:"subject"`
	Sender     string `json:"sender"`
	Timestream string `json:"timestream"`
	Content    string `json:"content"`
}

// MissingDataError reports a payload whose data object is absent or not a
// structured mapping.
type MissingDataError struct{}

func (e *MissingDataError) Error() string {
	return `invalid request: missing or malformed "data" object`
}

// MissingFieldError reports the first required field missing from the data
// object.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %s in \"data\"", e.Field)
}

// Validate checks the data object and returns the typed event.
func Validate(data map[string]any) (*Event, error) {
	if data == nil {
		return nil, &MissingDataError{}
	}

	values := make(map[string]string, len(RequiredFields))
	for _, name := range RequiredFields {
		raw, ok := data[name]
		if !ok {
			return nil, &MissingFieldError{Field: name}
		}
		value := coerceString(raw)
		if value == "" {
			return nil, &MissingFieldError{Field: name}
		}
		values[name] = value
	}

	return &Event{
		Subject:    values["subject"],
		Sender:     values["sender"],
		Timestream: values["timestream"],
		Content:    values["content"],
	}, nil
}

// coerceString renders a decoded JSON value as text. Numeric timestamps are
// coerced rather than rejected; unsupported shapes coerce to "" and fail the
// non-empty check.
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
