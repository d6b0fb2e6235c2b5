package blob

import (
	"fmt"
	"iter"
)

// lockFunc takes one lock on a blob's memory.
type lockFunc func() (*LockedMemory, error)

// lockTyped takes a lock and reinterprets it as n elements of T.
func lockTyped[T Element](lock lockFunc, n int) (*Locked[T], error) {
	mem, err := lock()
	if err != nil {
		return nil, err
	}
	return newLocked[T](mem, n), nil
}

// values yields the n elements under one lock per traversal.
// The lock is released when the traversal ends or the consumer stops early.
func values[T Element](lock lockFunc, n int) iter.Seq[T] {
	return func(yield func(T) bool) {
		l, err := lockTyped[T](lock, n)
		if err != nil {
			panic(fmt.Sprintf("blob: iteration could not lock memory: %v", err))
		}
		defer l.Release()

		for _, v := range l.Slice() {
			if !yield(v) {
				return
			}
		}
	}
}

// elements yields index and pointer pairs under one write lock per traversal.
func elements[T Element](lock lockFunc, n int) iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		l, err := lockTyped[T](lock, n)
		if err != nil {
			panic(fmt.Sprintf("blob: iteration could not lock memory: %v", err))
		}
		defer l.Release()

		elems := l.Slice()
		for i := range elems {
			if !yield(i, &elems[i]) {
				return
			}
		}
	}
}
