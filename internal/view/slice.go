package view

import "encoding/json"

// Kind is the state of one independently fetched piece of a dashboard.
type Kind int

const (
	KindIdle Kind = iota
	KindLoading
	KindLoaded
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindLoaded:
		return "loaded"
	case KindFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Slice is a tagged state for one data slice of a view. A Slice is either
// idle, loading, loaded with data, or failed with a reason; it can never be
// loaded and failed at once. The zero value is idle.
type Slice[T any] struct {
	kind   Kind
	data   T
	reason string
}

func Idle[T any]() Slice[T] {
	return Slice[T]{kind: KindIdle}
}

func Loading[T any]() Slice[T] {
	return Slice[T]{kind: KindLoading}
}

func Loaded[T any](data T) Slice[T] {
	return Slice[T]{kind: KindLoaded, data: data}
}

func Failed[T any](reason string) Slice[T] {
	return Slice[T]{kind: KindFailed, reason: reason}
}

func (s Slice[T]) Kind() Kind { return s.kind }

func (s Slice[T]) IsLoaded() bool { return s.kind == KindLoaded }

func (s Slice[T]) IsFailed() bool { return s.kind == KindFailed }

// Value returns the data, or T's zero value unless the slice is loaded.
func (s Slice[T]) Value() T { return s.data }

// Get returns the data and whether the slice is loaded.
func (s Slice[T]) Get() (T, bool) { return s.data, s.kind == KindLoaded }

// Reason is the failure message; empty unless the slice failed.
func (s Slice[T]) Reason() string { return s.reason }

// MarshalJSON encodes the slice as {"kind": ..., "data": ...} or
// {"kind": "failed", "reason": ...}.
func (s Slice[T]) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindLoaded:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			Data T      `json:"data"`
		}{Kind: s.kind.String(), Data: s.data})
	case KindFailed:
		return json.Marshal(struct {
			Kind   string `json:"kind"`
			Reason string `json:"reason"`
		}{Kind: s.kind.String(), Reason: s.reason})
	default:
		return json.Marshal(struct {
			Kind string `json:"kind"`
		}{Kind: s.kind.String()})
	}
}
