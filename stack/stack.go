// Package stack provides a fixed-capacity LIFO container.
package stack

import "errors"

var (
	// ErrFull is returned by Push on a stack at capacity.
	ErrFull = errors.New("stack: push onto full stack")
	// ErrEmpty is returned by Pop and Peek on an empty stack.
	ErrEmpty = errors.New("stack: empty stack")
	// ErrReleased is returned by Push on a released stack.
	ErrReleased = errors.New("stack: use of released stack")
)

// Stack is a LIFO stack holding at most a fixed number of elements. The
// storage is allocated once, when the stack is created. It is not safe to use
// a Stack concurrently.
type Stack[T any] struct {
	items []T
	freed bool
}

// New creates an empty stack able to hold up to capacity elements. Panics if
// capacity is negative.
func New[T any](capacity int) *Stack[T] {
	if capacity < 0 {
		panic("stack: negative capacity")
	}
	return &Stack[T]{items: make([]T, 0, capacity)}
}

// Push adds v to the top of the stack.
func (s *Stack[T]) Push(v T) error {
	if s.freed {
		return ErrReleased
	}
	if len(s.items) == cap(s.items) {
		return ErrFull
	}
	s.items = append(s.items, v)
	return nil
}

// Pop removes and returns the top of the stack.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrEmpty
	}
	k := len(s.items) - 1
	v := s.items[k]
	// Don't hold on to popped pointers.
	s.items[k] = zero
	s.items = s.items[:k]
	return v, nil
}

// Peek returns the top of the stack without removing it.
func (s *Stack[T]) Peek() (T, error) {
	if len(s.items) == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return s.items[len(s.items)-1], nil
}

// Empty returns whether the stack holds no elements.
func (s *Stack[T]) Empty() bool {
	return len(s.items) == 0
}

// Len returns the number of elements on the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Cap returns the maximum number of elements the stack can hold.
func (s *Stack[T]) Cap() int {
	return cap(s.items)
}

// Clear removes all elements, keeping the storage.
func (s *Stack[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// Release drops the stack's storage. Any later Push fails with ErrReleased.
func (s *Stack[T]) Release() {
	s.items = nil
	s.freed = true
}
