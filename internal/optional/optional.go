// Package optional provides a field type that distinguishes an absent
// value from an explicit null in partial-update payloads.
//
// # Usage
//
//	type Patch struct {
//		Description optional.Field[string] `json:"description"`
//	}
//
//	// {}                     -> Description.IsSet() == false
//	// {"description": null}  -> IsSet() == true, Ptr() == nil
//	// {"description": "x"}   -> IsSet() == true, *Ptr() == "x"
package optional

import (
	"bytes"
	"encoding/json"
)

// Field holds a value that may be absent, explicitly null, or set.
type Field[T any] struct {
	set   bool
	value *T
}

// Of returns a present field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{set: true, value: &v}
}

// Null returns a present field with no value.
func Null[T any]() Field[T] {
	return Field[T]{set: true}
}

// FromPtr returns a present field holding *p, or a present null when p is nil.
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Null[T]()
	}
	return Of(*p)
}

// IsSet reports whether the field appeared in the payload.
func (f Field[T]) IsSet() bool {
	return f.set
}

// IsNull reports whether the field was present with a null value.
func (f Field[T]) IsNull() bool {
	return f.set && f.value == nil
}

// Ptr returns the held value or nil.
func (f Field[T]) Ptr() *T {
	return f.value
}

// Value returns the held value, or the zero value when absent or null.
func (f Field[T]) Value() T {
	var zero T
	if f.value == nil {
		return zero
	}
	return *f.value
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.value = &v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}
