package filter

import "encoding/json"

// Set is a multi-valued filter dimension. The zero value is Unconstrained;
// a constrained Set always holds at least one value. There is no way to
// build a constrained-but-empty Set, so "no filter" and "filter that matches
// nothing" cannot be confused.
type Set[T comparable] struct {
	values []T
}

// Unconstrained returns a Set that places no constraint on its dimension.
func Unconstrained[T comparable]() Set[T] { return Set[T]{} }

// Constrained returns a Set holding vals in first-seen order with duplicates
// dropped. With no values it returns Unconstrained.
func Constrained[T comparable](vals ...T) Set[T] {
	var out []T
	seen := make(map[T]struct{}, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return Set[T]{values: out}
}

// IsConstrained reports whether the Set narrows its dimension.
func (s Set[T]) IsConstrained() bool { return len(s.values) > 0 }

// Values returns a copy of the values in insertion order.
func (s Set[T]) Values() []T {
	if len(s.values) == 0 {
		return nil
	}
	return append([]T(nil), s.values...)
}

// Contains reports whether v is one of the values.
func (s Set[T]) Contains(v T) bool {
	for _, x := range s.values {
		if x == v {
			return true
		}
	}
	return false
}

// Intersects reports whether any element of vals is in the Set.
func (s Set[T]) Intersects(vals []T) bool {
	for _, v := range vals {
		if s.Contains(v) {
			return true
		}
	}
	return false
}

// Toggle adds v when absent and removes it when present. Removing the last
// value yields Unconstrained.
func (s Set[T]) Toggle(v T) Set[T] {
	if !s.Contains(v) {
		return Constrained(append(s.Values(), v)...)
	}
	out := make([]T, 0, len(s.values)-1)
	for _, x := range s.values {
		if x != v {
			out = append(out, x)
		}
	}
	return Constrained(out...)
}

// MarshalJSON encodes an unconstrained Set as null.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	if !s.IsConstrained() {
		return []byte("null"), nil
	}
	return json.Marshal(s.values)
}

// UnmarshalJSON accepts null or an array; an empty array is Unconstrained.
func (s *Set[T]) UnmarshalJSON(b []byte) error {
	var vals []T
	if err := json.Unmarshal(b, &vals); err != nil {
		return err
	}
	*s = Constrained(vals...)
	return nil
}
