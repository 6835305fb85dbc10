package domain

import (
	"bytes"
	"encoding/json"
)

type patchState uint8

const (
	patchUnchanged patchState = iota
	patchSet
	patchCleared
)

// Patch is a tagged update value for partial edits: a field is either left
// unchanged, set to a value, or explicitly cleared. In JSON an absent key
// decodes as Unchanged, null as Cleared, and anything else as Set.
type Patch[T any] struct {
	state patchState
	value T
}

func Unchanged[T any]() Patch[T] { return Patch[T]{} }

func SetTo[T any](v T) Patch[T] { return Patch[T]{state: patchSet, value: v} }

func Cleared[T any]() Patch[T] { return Patch[T]{state: patchCleared} }

func (p Patch[T]) IsUnchanged() bool { return p.state == patchUnchanged }
func (p Patch[T]) IsSet() bool       { return p.state == patchSet }
func (p Patch[T]) IsCleared() bool   { return p.state == patchCleared }

// Value returns the set value and true, or the zero value and false.
func (p Patch[T]) Value() (T, bool) {
	return p.value, p.state == patchSet
}

// Apply returns the patched version of current: current when unchanged,
// the zero value when cleared, the new value when set.
func (p Patch[T]) Apply(current T) T {
	switch p.state {
	case patchSet:
		return p.value
	case patchCleared:
		var zero T
		return zero
	default:
		return current
	}
}

func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Cleared[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = SetTo(v)
	return nil
}

// MarshalJSON encodes Set as the value and everything else as null.
func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if p.state != patchSet {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}
