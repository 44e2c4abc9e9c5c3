package datastructures

import "errors"

// ErrEmptyList is returned when popping from a list without elements.
var ErrEmptyList = errors.New("list is empty")

// List represents a list of values backed by a LinkedList.
type List struct {
	chain  LinkedList[interface{}]
	length int
}

// New creates a new list.
func NewList() *List {
	return &List{}
}

// LPush adds a value to the left (head) of the list.
func (l *List) LPush(value interface{}) {
	l.chain.Prepend(&Node[interface{}]{Value: value})
	l.length++
}

// RPush adds a value to the right (tail) of the list.
func (l *List) RPush(value interface{}) {
	l.chain.Append(&Node[interface{}]{Value: value})
	l.length++
}

// LPop removes and returns the value from the left (head) of the list.
func (l *List) LPop() (interface{}, error) {
	return l.pop(l.chain.First())
}

// RPop removes and returns the value from the right (tail) of the list.
func (l *List) RPop() (interface{}, error) {
	return l.pop(l.chain.Last())
}

func (l *List) pop(n *Node[interface{}]) (interface{}, error) {
	if n == nil {
		return nil, ErrEmptyList
	}
	l.chain.Remove(n)
	l.length--
	return n.Value, nil
}

// Index returns the value at position i. Negative positions count from the tail.
func (l *List) Index(i int) (interface{}, bool) {
	if i < 0 {
		i += l.length
	}
	if i < 0 || i >= l.length {
		return nil, false
	}

	// walk from the closer end
	if i < l.length/2 {
		n := l.chain.First()
		for ; i > 0; i-- {
			n = n.Next()
		}
		return n.Value, true
	}
	n := l.chain.Last()
	for j := l.length - 1; j > i; j-- {
		n = n.Prev()
	}
	return n.Value, true
}

// Range returns the values between start and stop inclusive, using LRANGE
// index rules: negative indices count from the tail and out of range
// bounds are clamped.
func (l *List) Range(start, stop int) []interface{} {
	if start < 0 {
		start += l.length
	}
	if stop < 0 {
		stop += l.length
	}
	if start < 0 {
		start = 0
	}
	if stop >= l.length {
		stop = l.length - 1
	}

	values := []interface{}{}
	if start > stop {
		return values
	}

	i := 0
	for v := range l.chain.Values() {
		if i > stop {
			break
		}
		if i >= start {
			values = append(values, v)
		}
		i++
	}
	return values
}

// Values returns every value from head to tail.
func (l *List) Values() []interface{} {
	return l.Range(0, -1)
}

// Len returns the number of elements in the list.
func (l *List) Len() int {
	return l.length
}

// Size is an alias for Len to maintain consistency with the required operations.
func (l *List) Size() int {
	return l.Len()
}

// Clear removes all elements from the list.
func (l *List) Clear() {
	l.chain = LinkedList[interface{}]{}
	l.length = 0
}
