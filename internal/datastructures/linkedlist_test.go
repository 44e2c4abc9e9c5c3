package datastructures

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(names ...string) []*Node[string] {
	result := make([]*Node[string], len(names))
	for i, name := range names {
		result[i] = &Node[string]{Value: name}
	}
	return result
}

func listOf(ns ...*Node[string]) *LinkedList[string] {
	l := &LinkedList[string]{}
	for _, n := range ns {
		l.Append(n)
	}
	return l
}

// assertChain checks boundaries and that forward and backward links agree.
func assertChain(t *testing.T, l *LinkedList[string], expected ...*Node[string]) {
	t.Helper()
	assert.Equal(t, expected, l.ToSlice())
	assert.Equal(t, len(expected), l.Size())
	assert.Equal(t, len(expected) == 0, l.IsEmpty())
	if len(expected) == 0 {
		assert.Nil(t, l.First())
		assert.Nil(t, l.Last())
		return
	}

	assert.Same(t, expected[0], l.First())
	assert.Same(t, expected[len(expected)-1], l.Last())
	assert.Nil(t, l.First().Prev())
	assert.Nil(t, l.Last().Next())
	for i := 1; i < len(expected); i++ {
		assert.Same(t, expected[i], expected[i-1].Next())
		assert.Same(t, expected[i-1], expected[i].Prev())
	}

	backward := slices.Collect(l.Backward())
	slices.Reverse(backward)
	assert.Equal(t, expected, backward)
}

func TestLinkedList_Empty(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var l LinkedList[string]
		assert.True(t, l.IsEmpty())
		assert.Equal(t, 0, l.Size())
		assert.Empty(t, l.ToSlice())
		assert.NotNil(t, l.ToSlice())
	})
	t.Run("constructed without nodes", func(t *testing.T) {
		l := NewLinkedList[string](nil)
		assertChain(t, l)
	})
	t.Run("nil first with a last node is still empty", func(t *testing.T) {
		l := NewLinkedList[string](nil, &Node[string]{})
		assertChain(t, l)
	})
}

func TestNewLinkedList(t *testing.T) {
	t.Run("singleton", func(t *testing.T) {
		a := &Node[string]{Value: "a"}
		l := NewLinkedList(a)
		assertChain(t, l, a)
	})
	t.Run("nil last means singleton", func(t *testing.T) {
		a := &Node[string]{Value: "a"}
		l := NewLinkedList(a, nil)
		assertChain(t, l, a)
	})
	t.Run("round trip from boundaries", func(t *testing.T) {
		ns := nodes("a", "b", "c", "d")
		original := listOf(ns...)

		rebuilt := NewLinkedList(original.First(), original.Last())

		assert.Equal(t, original.ToSlice(), rebuilt.ToSlice())
		assertChain(t, rebuilt, ns...)
	})
}

func TestLinkedList_Append(t *testing.T) {
	t.Run("order", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns...)

		assertChain(t, l, ns...)
		assert.Equal(t, 3, l.Size())
	})
	t.Run("back links", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		listOf(ns...)

		assert.Same(t, ns[1], ns[2].Prev())
		assert.Same(t, ns[0], ns[1].Prev())
		assert.Nil(t, ns[0].Prev())
		assert.Nil(t, ns[2].Next())
	})
	t.Run("returns the list", func(t *testing.T) {
		ns := nodes("a", "b")
		l := &LinkedList[string]{}
		assert.Same(t, l, l.Append(ns[0]).Append(ns[1]))
		assertChain(t, l, ns...)
	})
	t.Run("clears stale links of the new node", func(t *testing.T) {
		ns := nodes("a", "b", "stale")
		a := ns[0]
		a.prev = ns[2]
		a.next = ns[2]
		l := listOf(a)
		assertChain(t, l, a)

		b := ns[1]
		b.next = ns[2]
		l.Append(b)
		assertChain(t, l, a, b)
	})
}

func TestLinkedList_Prepend(t *testing.T) {
	ns := nodes("a", "b", "c")
	l := &LinkedList[string]{}
	l.Prepend(ns[2]).Prepend(ns[1]).Prepend(ns[0])

	assertChain(t, l, ns...)
}

func TestLinkedList_Insert(t *testing.T) {
	t.Run("into the middle", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		a, b, c := ns[0], ns[1], ns[2]
		l := listOf(a, c)

		l.Insert(b, a)

		assertChain(t, l, a, b, c)
		assert.Same(t, c, l.Last())
		assert.Same(t, b, a.Next())
		assert.Same(t, c, b.Next())
	})
	t.Run("after the last node updates last", func(t *testing.T) {
		ns := nodes("a", "b")
		a, b := ns[0], ns[1]
		l := listOf(a)

		l.Insert(b, a)

		assert.Same(t, b, l.Last())
		assertChain(t, l, a, b)
	})
	t.Run("into an empty list ignores the anchor", func(t *testing.T) {
		a := &Node[string]{Value: "a"}
		l := &LinkedList[string]{}

		l.Insert(a, nil)

		assertChain(t, l, a)
	})
	t.Run("returns the list", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns[0])
		assert.Same(t, l, l.Insert(ns[2], ns[0]).Insert(ns[1], ns[0]))
		assertChain(t, l, ns...)
	})
}

func TestLinkedList_Remove(t *testing.T) {
	t.Run("sole node empties the list", func(t *testing.T) {
		a := &Node[string]{Value: "a"}
		l := listOf(a)

		l.Remove(a)

		assert.True(t, l.IsEmpty())
		assert.Equal(t, 0, l.Size())
		assertChain(t, l)
	})
	t.Run("head", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns...)

		l.Remove(ns[0])

		assert.Same(t, ns[1], l.First())
		assert.Nil(t, ns[1].Prev())
		assertChain(t, l, ns[1], ns[2])
	})
	t.Run("tail", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns...)

		l.Remove(ns[2])

		assert.Same(t, ns[1], l.Last())
		assert.Nil(t, ns[1].Next())
		assertChain(t, l, ns[0], ns[1])
	})
	t.Run("middle preserves order", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns...)

		l.Remove(ns[1])

		assertChain(t, l, ns[0], ns[2])
		assert.Same(t, ns[2], ns[0].Next())
		assert.Same(t, ns[0], ns[2].Prev())
	})
	t.Run("removed node keeps its links", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns...)

		l.Remove(ns[1])

		assert.Same(t, ns[0], ns[1].Prev())
		assert.Same(t, ns[2], ns[1].Next())
	})
	t.Run("removed node can be attached again", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns...)

		l.Remove(ns[0]).Append(ns[0])

		assertChain(t, l, ns[1], ns[2], ns[0])
	})
	t.Run("drain", func(t *testing.T) {
		ns := nodes("a", "b", "c", "d")
		l := listOf(ns...)
		for _, n := range ns {
			l.Remove(n)
		}
		assertChain(t, l)
	})
}

func TestLinkedList_Boundaries(t *testing.T) {
	// mixes every mutator and checks the boundary links after each step
	ns := nodes("a", "b", "c", "d", "e", "f")
	l := &LinkedList[string]{}
	steps := []func(){
		func() { l.Append(ns[0]) },
		func() { l.Append(ns[1]) },
		func() { l.Insert(ns[2], ns[0]) },
		func() { l.Insert(ns[3], ns[1]) },
		func() { l.Prepend(ns[4]) },
		func() { l.Remove(ns[4]) },
		func() { l.Remove(ns[3]) },
		func() { l.Insert(ns[5], ns[1]) },
	}
	for _, step := range steps {
		step()
		require.False(t, l.IsEmpty())
		assert.Nil(t, l.First().Prev())
		assert.Nil(t, l.Last().Next())
	}
	assertChain(t, l, ns[0], ns[2], ns[1], ns[5])
}

func TestLinkedList_All(t *testing.T) {
	t.Run("restartable", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns...)
		seq := l.All()

		assert.Equal(t, ns, slices.Collect(seq))
		assert.Equal(t, ns, slices.Collect(seq))
	})
	t.Run("reflects the current head", func(t *testing.T) {
		ns := nodes("a", "b", "c")
		l := listOf(ns...)
		seq := l.All()

		l.Remove(ns[0])

		assert.Equal(t, ns[1:], slices.Collect(seq))
	})
	t.Run("early exit", func(t *testing.T) {
		l := listOf(nodes("a", "b", "c")...)
		visited := 0
		for range l.All() {
			visited++
			if visited == 2 {
				break
			}
		}
		assert.Equal(t, 2, visited)
	})
	t.Run("values", func(t *testing.T) {
		l := listOf(nodes("a", "b", "c")...)
		assert.Equal(t, []string{"a", "b", "c"}, slices.Collect(l.Values()))
	})
	t.Run("to slice is a fresh copy", func(t *testing.T) {
		l := listOf(nodes("a", "b")...)
		first := l.ToSlice()
		first[0] = nil
		assert.NotNil(t, l.ToSlice()[0])
	})
}
