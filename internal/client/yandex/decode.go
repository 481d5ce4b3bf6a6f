package yandex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an entity identifier. The service sends ids both as JSON numbers and strings.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	value, err := unmarshalFlexString(data)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	*id = ID(value)

	return nil
}

// String returns the id as text.
func (id ID) String() string {
	return string(id)
}

// FlexString is a text field the service sometimes sends as a number.
type FlexString string

// UnmarshalJSON accepts strings, numbers and null.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	value, err := unmarshalFlexString(data)
	if err != nil {
		return err
	}

	*s = FlexString(value)

	return nil
}

func unmarshalFlexString(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)

	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return "", nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", err
		}

		return text, nil
	default:
		var number json.Number
		if err := json.Unmarshal(trimmed, &number); err != nil {
			return "", fmt.Errorf("expected a string or a number, got %s", trimmed)
		}

		return number.String(), nil
	}
}

// validator is implemented by entities with required fields.
// Implementations must report a nil receiver as a missing entity.
type validator interface {
	validate() error
}

// decodeJSON unwraps the nested keys of path and decodes the remainder into T.
func decodeJSON[T any](raw []byte, path ...string) (*T, error) {
	payload, err := unwrap(raw, path)
	if err != nil {
		return nil, err
	}

	var result T
	if err = json.Unmarshal(payload, &result); err != nil {
		return nil, &DecodeError{Path: strings.Join(path, "."), Err: err}
	}

	if v, ok := any(&result).(validator); ok {
		if err = v.validate(); err != nil {
			return nil, &DecodeError{Path: strings.Join(path, "."), Err: err}
		}
	}

	return &result, nil
}

// decodeList decodes an array of entities in source order, validating each element.
func decodeList[E validator](raw []byte, path ...string) ([]E, error) {
	items, err := decodeJSON[[]E](raw, path...)
	if err != nil {
		return nil, err
	}

	if err = validateAll(*items); err != nil {
		return nil, &DecodeError{Path: strings.Join(path, "."), Err: err}
	}

	return *items, nil
}

func validateAll[E validator](items []E) error {
	for i, item := range items {
		if err := item.validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}

	return nil
}

func unwrap(raw []byte, path []string) (json.RawMessage, error) {
	payload := json.RawMessage(raw)

	for i, key := range path {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(payload, &envelope); err != nil {
			return nil, &DecodeError{Path: strings.Join(path[:i], "."), Err: err}
		}

		next, ok := envelope[key]
		if !ok || bytes.Equal(bytes.TrimSpace(next), []byte("null")) {
			return nil, &DecodeError{
				Path: strings.Join(path[:i+1], "."),
				Err:  fmt.Errorf("%w: key '%s'", ErrMissingField, key),
			}
		}

		payload = next
	}

	return payload, nil
}

func requireID(entity string, id ID) error {
	if strings.TrimSpace(string(id)) == "" {
		return fmt.Errorf("%w: %s id", ErrMissingField, entity)
	}

	return nil
}
