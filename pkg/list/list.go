// Package list provides a generic growable array that owns its backing storage.
//
// Unlike a bare slice, a List never shares its buffer with another List: growth
// reallocates explicitly, Clone copies into fresh storage, and index violations
// panic instead of silently re-slicing.
package list

import (
	"fmt"
	"iter"
	"slices"
	"unsafe"
)

// defaultReserveBytes is the amount of storage a List reserves when no capacity is given.
const defaultReserveBytes = 1024

// List is an ordered, index-addressable sequence of T.
// The zero value is an empty list ready to use.
type List[T any] struct {
	data []T // len(data) is the capacity.
	n    int
}

// New creates a List with the given initial capacity. Without an argument the
// capacity defaults to roughly one kilobyte worth of elements.
func New[T any](capacity ...int) *List[T] {
	reserve := defaultCapacity[T]()
	if len(capacity) > 0 {
		reserve = capacity[0]
	}

	if reserve <= 0 {
		panic(fmt.Sprintf("list: capacity must be positive, got %d", reserve))
	}

	return &List[T]{data: make([]T, reserve)}
}

// Of creates a List holding vals in order.
func Of[T any](vals ...T) *List[T] {
	l := &List[T]{}
	l.AppendMany(vals...)

	return l
}

func defaultCapacity[T any]() int {
	var zero T

	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return defaultReserveBytes
	}

	return defaultReserveBytes/size + 1
}

// Len returns the number of elements. A nil list is empty.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}

	return l.n
}

// Cap returns the number of elements the backing storage can hold without growing.
func (l *List[T]) Cap() int {
	if l == nil {
		return 0
	}

	return len(l.data)
}

// At returns the element at index i.
func (l *List[T]) At(i int) T {
	l.checkIndex(i)

	return l.data[i]
}

// Set replaces the element at index i.
func (l *List[T]) Set(i int, v T) {
	l.checkIndex(i)
	l.data[i] = v
}

// Append adds v at the end. When the list is full the capacity becomes 2*cap+1.
func (l *List[T]) Append(v T) {
	if l.n == len(l.data) {
		l.realloc(2*len(l.data) + 1)
	}

	l.data[l.n] = v
	l.n++
}

// AppendMany adds vals at the end in order, growing at most once.
func (l *List[T]) AppendMany(vals ...T) {
	need := l.n + len(vals)
	if need > len(l.data) {
		capacity := len(l.data)
		for need > capacity {
			capacity = 2*capacity + 1
		}

		l.realloc(capacity)
	}

	copy(l.data[l.n:], vals)
	l.n = need
}

// InsertAt inserts v at index i, shifting the elements at i and after one slot up.
// i may equal Len, which appends.
func (l *List[T]) InsertAt(i int, v T) {
	if i < 0 || i > l.n {
		panic(fmt.Sprintf("list: insert index %d out of range [0,%d]", i, l.n))
	}

	var zero T

	l.Append(zero)
	copy(l.data[i+1:l.n], l.data[i:l.n-1])
	l.data[i] = v
}

// RemoveAt removes the element at index i in O(1) by moving the last element into
// its slot. The relative order of the remaining elements is not preserved.
func (l *List[T]) RemoveAt(i int) {
	l.checkIndex(i)

	var zero T

	l.n--
	l.data[i] = l.data[l.n]
	l.data[l.n] = zero
}

// RemoveRange removes the elements in [first, last) and shifts the tail down,
// preserving the order of everything outside the range.
func (l *List[T]) RemoveRange(first, last int) {
	if first < 0 || first >= last || last > l.n {
		panic(fmt.Sprintf("list: invalid range [%d,%d) for length %d", first, last, l.n))
	}

	removed := last - first
	copy(l.data[first:], l.data[last:l.n])
	clear(l.data[l.n-removed : l.n])
	l.n -= removed
}

// Pop removes and returns the last element.
func (l *List[T]) Pop() T {
	if l.n == 0 {
		panic("list: pop from empty list")
	}

	var zero T

	l.n--
	v := l.data[l.n]
	l.data[l.n] = zero

	return v
}

// Clone returns an independent List holding a copy of the elements.
// The clone's capacity equals its length.
func (l *List[T]) Clone() *List[T] {
	data := make([]T, l.n)
	copy(data, l.data[:l.n])

	return &List[T]{data: data, n: l.n}
}

// ShrinkToFit reallocates the backing storage so that Cap equals Len.
func (l *List[T]) ShrinkToFit() {
	if len(l.data) == l.n {
		return
	}

	l.realloc(l.n)
}

// SortFunc sorts the elements in place using cmp, keeping equal elements in order.
func (l *List[T]) SortFunc(cmp func(a, b T) int) {
	slices.SortStableFunc(l.data[:l.n], cmp)
}

// All iterates over index/element pairs in order.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range l.Len() {
			if !yield(i, l.data[i]) {
				return
			}
		}
	}
}

// Values iterates over the elements in order.
func (l *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range l.Len() {
			if !yield(l.data[i]) {
				return
			}
		}
	}
}

// ToSlice copies the elements into a new slice.
func (l *List[T]) ToSlice() []T {
	out := make([]T, l.n)
	copy(out, l.data[:l.n])

	return out
}

func (l *List[T]) realloc(capacity int) {
	data := make([]T, capacity)
	copy(data, l.data[:l.n])
	l.data = data
}

func (l *List[T]) checkIndex(i int) {
	if i < 0 || i >= l.n {
		panic(fmt.Sprintf("list: index %d out of range [0,%d)", i, l.n))
	}
}
