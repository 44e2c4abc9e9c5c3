package datastructures

import (
	"errors"
)

var (
	ErrDequeFull  = errors.New("deque is full")
	ErrDequeEmpty = errors.New("deque is empty")
)

// Deque represents a bounded double-ended queue. Pushes return the node
// holding the element so it can later be dropped from the middle in O(1).
type Deque[T any] struct {
	chain    LinkedList[T]
	size     int
	capacity int
}

// NewDeque creates a new Deque with the specified capacity.
func NewDeque[T any](capacity int) *Deque[T] {
	if capacity <= 0 {
		panic("capacity must be greater than 0")
	}
	return &Deque[T]{capacity: capacity}
}

// PushFront adds an element to the front of the deque.
func (d *Deque[T]) PushFront(value T) (*Node[T], error) {
	if d.size == d.capacity {
		return nil, ErrDequeFull
	}
	n := &Node[T]{Value: value}
	d.chain.Prepend(n)
	d.size++
	return n, nil
}

// PushBack adds an element to the back of the deque.
func (d *Deque[T]) PushBack(value T) (*Node[T], error) {
	if d.size == d.capacity {
		return nil, ErrDequeFull
	}
	n := &Node[T]{Value: value}
	d.chain.Append(n)
	d.size++
	return n, nil
}

// PopFront removes an element from the front of the deque.
func (d *Deque[T]) PopFront() (T, error) {
	return d.pop(d.chain.First())
}

// PopBack removes an element from the back of the deque.
func (d *Deque[T]) PopBack() (T, error) {
	return d.pop(d.chain.Last())
}

func (d *Deque[T]) pop(n *Node[T]) (T, error) {
	if n == nil {
		var zeroValue T
		return zeroValue, ErrDequeEmpty
	}
	d.Remove(n)
	return n.Value, nil
}

// Remove drops n, which must have been returned by a push on this deque
// and not removed since.
func (d *Deque[T]) Remove(n *Node[T]) {
	d.chain.Remove(n)
	d.size--
}

// MoveToBack moves n to the back of the deque.
func (d *Deque[T]) MoveToBack(n *Node[T]) {
	if d.chain.Last() == n {
		return
	}
	d.chain.Remove(n).Append(n)
}

// Front returns the element at the front of the deque.
func (d *Deque[T]) Front() (T, error) {
	if d.Empty() {
		var zeroValue T
		return zeroValue, ErrDequeEmpty
	}
	return d.chain.First().Value, nil
}

// Back returns the element at the back of the deque.
func (d *Deque[T]) Back() (T, error) {
	if d.Empty() {
		var zeroValue T
		return zeroValue, ErrDequeEmpty
	}
	return d.chain.Last().Value, nil
}

// Size returns the number of elements in the deque.
func (d *Deque[T]) Size() int {
	return d.size
}

// Capacity returns the maximum number of elements the deque holds.
func (d *Deque[T]) Capacity() int {
	return d.capacity
}

// Empty checks if the deque is empty.
func (d *Deque[T]) Empty() bool {
	return d.size == 0
}
