package list_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codecbench/pkg/list"
)

func TestNew_DefaultCapacity(t *testing.T) {
	t.Parallel()

	l := list.New[int64]()

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 1024/8+1, l.Cap())
}

func TestNew_NonPositiveCapacityPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { list.New[int](0) })
	assert.Panics(t, func() { list.New[int](-3) })
}

func TestAppend_GrowthKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	const total = 1000

	l := list.New[int](1)

	for i := range total {
		l.Append(i)
		require.GreaterOrEqual(t, l.Cap(), l.Len())
	}

	require.Equal(t, total, l.Len())

	for i, v := range l.All() {
		assert.Equal(t, i, v)
	}
}

func TestAppend_DoublesPlusOne(t *testing.T) {
	t.Parallel()

	l := list.New[int](3)
	l.AppendMany(1, 2, 3)
	require.Equal(t, 3, l.Cap())

	l.Append(4)
	assert.Equal(t, 7, l.Cap())

	var zero list.List[string]

	zero.Append("a")
	assert.Equal(t, 1, zero.Cap())
	zero.Append("b")
	assert.Equal(t, 3, zero.Cap())
}

func TestAppendMany_GrowsToSmallestFit(t *testing.T) {
	t.Parallel()

	l := list.New[int](1)
	l.AppendMany(make([]int, 10)...)

	// 1 -> 3 -> 7 -> 15.
	assert.Equal(t, 15, l.Cap())
	assert.Equal(t, 10, l.Len())

	l.AppendMany(1, 2, 3)
	assert.Equal(t, 15, l.Cap())
	assert.Equal(t, 13, l.Len())
	assert.Equal(t, 3, l.At(12))
}

func TestClone_Independence(t *testing.T) {
	t.Parallel()

	orig := list.Of(1, 2, 3)
	clone := orig.Clone()

	assert.Equal(t, orig.ToSlice(), clone.ToSlice())
	assert.Equal(t, clone.Len(), clone.Cap())

	clone.Set(0, 99)
	clone.Append(4)
	orig.Set(2, -1)

	assert.Equal(t, []int{1, 2, -1}, orig.ToSlice())
	assert.Equal(t, []int{99, 2, 3, 4}, clone.ToSlice())
}

func TestRemoveAt_Unordered(t *testing.T) {
	t.Parallel()

	for idx := range 5 {
		l := list.Of(10, 20, 30, 40, 50)
		want := l.ToSlice()
		removed := want[idx]
		want = slices.Delete(want, idx, idx+1)

		l.RemoveAt(idx)

		got := l.ToSlice()
		require.Len(t, got, 4)
		assert.ElementsMatch(t, want, got, "removed %d", removed)
	}
}

func TestRemoveAt_MovesLastIntoSlot(t *testing.T) {
	t.Parallel()

	l := list.Of("a", "b", "c", "d")
	l.RemoveAt(1)

	assert.Equal(t, []string{"a", "d", "c"}, l.ToSlice())
}

func TestRemoveRange_PreservesOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		first, last int
		want        []int
	}{
		{name: "head", first: 0, last: 2, want: []int{2, 3, 4, 5}},
		{name: "middle", first: 2, last: 4, want: []int{0, 1, 4, 5}},
		{name: "tail", first: 4, last: 6, want: []int{0, 1, 2, 3}},
		{name: "single", first: 3, last: 4, want: []int{0, 1, 2, 4, 5}},
		{name: "everything", first: 0, last: 6, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := list.Of(0, 1, 2, 3, 4, 5)
			capBefore := l.Cap()

			l.RemoveRange(tt.first, tt.last)

			assert.Equal(t, tt.want, l.ToSlice())
			assert.Equal(t, capBefore, l.Cap())
		})
	}
}

func TestRemoveRange_InvalidPanics(t *testing.T) {
	t.Parallel()

	l := list.Of(1, 2, 3)

	assert.Panics(t, func() { l.RemoveRange(2, 2) })
	assert.Panics(t, func() { l.RemoveRange(2, 1) })
	assert.Panics(t, func() { l.RemoveRange(0, 4) })
	assert.Panics(t, func() { l.RemoveRange(-1, 1) })
}

func TestInsertAt(t *testing.T) {
	t.Parallel()

	l := list.New[int](2)
	l.InsertAt(0, 2)
	l.InsertAt(0, 0)
	l.InsertAt(1, 1)
	l.InsertAt(3, 3)

	assert.Equal(t, []int{0, 1, 2, 3}, l.ToSlice())
	assert.Panics(t, func() { l.InsertAt(5, 9) })
}

func TestPop(t *testing.T) {
	t.Parallel()

	l := list.Of(1, 2)

	assert.Equal(t, 2, l.Pop())
	assert.Equal(t, 1, l.Pop())
	assert.Equal(t, 0, l.Len())
	assert.Panics(t, func() { l.Pop() })
}

func TestAt_OutOfRangePanics(t *testing.T) {
	t.Parallel()

	l := list.Of(1)

	assert.Panics(t, func() { l.At(1) })
	assert.Panics(t, func() { l.At(-1) })
	assert.Panics(t, func() { l.Set(3, 0) })
}

func TestShrinkToFit(t *testing.T) {
	t.Parallel()

	l := list.New[int](64)
	l.AppendMany(1, 2, 3)
	l.ShrinkToFit()

	assert.Equal(t, 3, l.Cap())
	assert.Equal(t, []int{1, 2, 3}, l.ToSlice())

	l.Append(4)
	assert.Equal(t, 7, l.Cap())
}

func TestSortFunc_Stable(t *testing.T) {
	t.Parallel()

	type pair struct {
		key int
		tag string
	}

	l := list.Of(pair{2, "a"}, pair{1, "b"}, pair{2, "c"}, pair{1, "d"})
	l.SortFunc(func(a, b pair) int { return a.key - b.key })

	assert.Equal(t, []pair{{1, "b"}, {1, "d"}, {2, "a"}, {2, "c"}}, l.ToSlice())
}

func TestValues_StopsEarly(t *testing.T) {
	t.Parallel()

	l := list.Of(1, 2, 3, 4)

	var seen []int

	for v := range l.Values() {
		if v == 3 {
			break
		}

		seen = append(seen, v)
	}

	assert.Equal(t, []int{1, 2}, seen)
}

func TestNilList_ReadsAsEmpty(t *testing.T) {
	t.Parallel()

	var l *list.List[int]

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.Cap())

	for range l.Values() {
		t.Fatal("nil list yielded a value")
	}

	for range l.All() {
		t.Fatal("nil list yielded a pair")
	}
}
