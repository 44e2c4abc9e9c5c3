package datastructures

import "iter"

type (
	// LinkedList is a bidirectional, non-circular list of caller-owned nodes.
	// The zero value is an empty list ready to use.
	//
	// The list only rewires prev/next links. It never allocates, copies or
	// frees nodes and performs no membership checks, so every mutation is O(1).
	// Callers must not:
	//   - insert a node that is already attached to this or another list,
	//   - pass a node that is not attached to this list to Insert or Remove,
	//   - mutate the list while iterating over it.
	// Breaking any of these leaves the chain inconsistent (a later traversal
	// may loop forever); it is not reported.
	LinkedList[T any] struct {
		first *Node[T]
		last  *Node[T]
	}

	// Node is an element of a LinkedList. Value is opaque to the list.
	Node[T any] struct {
		Value T
		prev  *Node[T]
		next  *Node[T]
	}
)

// Prev returns the preceding node, or nil.
func (n *Node[T]) Prev() *Node[T] {
	return n.prev
}

// Next returns the following node, or nil.
func (n *Node[T]) Next() *Node[T] {
	return n.next
}

// NewLinkedList creates a list whose head is first. Without last (or with a
// nil last) the tail is first as well. A nil first yields an empty list.
// Existing links of the supplied nodes are taken as they are.
func NewLinkedList[T any](first *Node[T], last ...*Node[T]) *LinkedList[T] {
	l := &LinkedList[T]{first: first, last: first}
	if len(last) > 0 && last[0] != nil {
		l.last = last[0]
	}
	if l.first == nil {
		l.last = nil
	}
	return l
}

// First returns the head node, or nil when the list is empty.
func (l *LinkedList[T]) First() *Node[T] {
	return l.first
}

// Last returns the tail node, or nil when the list is empty.
func (l *LinkedList[T]) Last() *Node[T] {
	return l.last
}

// All walks the list from first to last by following next links. Each call
// starts a fresh walk from the current head; links are read at every step.
func (l *LinkedList[T]) All() iter.Seq[*Node[T]] {
	return func(yield func(*Node[T]) bool) {
		for n := l.first; n != nil; n = n.next {
			if !yield(n) {
				return
			}
		}
	}
}

// Backward walks the list from last to first by following prev links.
func (l *LinkedList[T]) Backward() iter.Seq[*Node[T]] {
	return func(yield func(*Node[T]) bool) {
		for n := l.last; n != nil; n = n.prev {
			if !yield(n) {
				return
			}
		}
	}
}

// Values yields the payload of every node from first to last.
func (l *LinkedList[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := range l.All() {
			if !yield(n.Value) {
				return
			}
		}
	}
}

// Size counts the attached nodes. It walks the whole chain on every call.
func (l *LinkedList[T]) Size() int {
	count := 0
	for range l.All() {
		count++
	}
	return count
}

// ToSlice returns the attached nodes in order, first to last.
func (l *LinkedList[T]) ToSlice() []*Node[T] {
	nodes := []*Node[T]{}
	for n := range l.All() {
		nodes = append(nodes, n)
	}
	return nodes
}

// IsEmpty reports whether the list has no nodes.
func (l *LinkedList[T]) IsEmpty() bool {
	return l.first == nil
}

// Append attaches n as the new tail.
func (l *LinkedList[T]) Append(n *Node[T]) *LinkedList[T] {
	if l.IsEmpty() {
		l.first = n
	} else {
		n.prev = l.last
		l.last.next = n
	}
	l.last = n

	l.terminate()
	return l
}

// Prepend attaches n as the new head.
func (l *LinkedList[T]) Prepend(n *Node[T]) *LinkedList[T] {
	if l.IsEmpty() {
		l.last = n
	} else {
		n.next = l.first
		l.first.prev = n
	}
	l.first = n

	l.terminate()
	return l
}

// Insert attaches n directly after before. On an empty list n becomes the
// only node and before is not touched. Otherwise before must belong to l.
func (l *LinkedList[T]) Insert(n, before *Node[T]) *LinkedList[T] {
	if l.IsEmpty() {
		l.first = n
		l.last = n
	} else {
		after := before.next
		before.next = n
		if after != nil {
			after.prev = n
		}

		n.prev = before
		n.next = after

		if l.last == before {
			l.last = n
		}
	}

	l.terminate()
	return l
}

// Remove detaches n from the list. The links held by n itself are left
// as they were; n must belong to l.
func (l *LinkedList[T]) Remove(n *Node[T]) *LinkedList[T] {
	if n == l.first && n == l.last {
		l.first = nil
		l.last = nil
		return l
	}

	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if n == l.first {
		l.first = n.next
	}
	if n == l.last {
		l.last = n.prev
	}
	return l
}

// terminate clears the outward links of both boundary nodes.
func (l *LinkedList[T]) terminate() {
	l.last.next = nil
	l.first.prev = nil
}
