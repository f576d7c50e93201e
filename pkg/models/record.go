package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrFieldNotFound is matched by every *FieldError.
var ErrFieldNotFound = errors.New("field not found")

// FieldError is returned when a record has no attribute with the requested name.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q not found", e.Field)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrFieldNotFound
}

// Record is a decoded JSON object from the NVR. Fields are resolved by name at
// runtime because the bootstrap schema varies between firmware versions.
type Record map[string]any

// DecodeRecord parses a JSON object. Numbers are kept as json.Number so epoch
// millisecond values stay exact.
func DecodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if r == nil {
		return nil, errors.New("failed to decode record: document is not an object")
	}
	return r, nil
}

// Field returns the raw value stored under name. A present key holding JSON
// null resolves to nil without error.
func (r Record) Field(name string) (any, error) {
	v, ok := r[name]
	if !ok {
		return nil, &FieldError{Field: name}
	}
	return v, nil
}

// Has reports whether the record carries the attribute.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

func (r Record) String(name string) (string, error) {
	v, err := r.Field(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is %T, not a string", name, v)
	}
	return s, nil
}

func (r Record) Bool(name string) (bool, error) {
	v, err := r.Field(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("field %q is %T, not a bool", name, v)
	}
	return b, nil
}

// Millis returns a numeric field as an integer. ok is false when the field is
// null.
func (r Record) Millis(name string) (ms int64, ok bool, err error) {
	v, err := r.Field(name)
	if err != nil {
		return 0, false, err
	}
	if v == nil {
		return 0, false, nil
	}
	ms, err = ToInt64(v)
	if err != nil {
		return 0, false, fmt.Errorf("field %q: %w", name, err)
	}
	return ms, true, nil
}

// Sub returns a nested object.
func (r Record) Sub(name string) (Record, error) {
	v, err := r.Field(name)
	if err != nil {
		return nil, err
	}
	sub, ok := AsRecord(v)
	if !ok {
		return nil, fmt.Errorf("field %q is %T, not an object", name, v)
	}
	return sub, nil
}

// AsRecord converts a decoded JSON value into a Record when it is an object.
func AsRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, true
	case map[string]any:
		return Record(t), true
	default:
		return nil, false
	}
}

// ToInt64 converts a decoded JSON number. Fractional values are floored.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return int64(math.Floor(f)), nil
	case float64:
		return int64(math.Floor(n)), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%T is not a number", v)
	}
}
