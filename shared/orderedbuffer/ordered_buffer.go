package orderedbuffer

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
)

var ErrClosedBuffer = errors.New("buffer is closed")

type CompareFunc[T any] func(a, b T) int

// OrderedBoundedBuffer keeps up to maxBufLen values sorted by compare.
// When it overflows, the smallest value is emitted on Source. Close flushes
// the remaining values in order and closes Source.
//
// Values inserted out of order within the window come out in order; a value
// arriving later than a full window is emitted as soon as it is inserted.
type OrderedBoundedBuffer[T any] struct {
	mu        sync.Mutex
	data      []T
	maxBufLen int
	compare   CompareFunc[T]

	sink   chan T
	closed bool
}

func NewOrderedBoundedBuffer[T any](maxBufLen int, cmp CompareFunc[T]) *OrderedBoundedBuffer[T] {
	if maxBufLen <= 0 {
		maxBufLen = 1
	}
	return &OrderedBoundedBuffer[T]{
		data:      make([]T, 0, maxBufLen+1),
		maxBufLen: maxBufLen,
		compare:   cmp,
		sink:      make(chan T, maxBufLen*2),
	}
}

// Insert adds val. It blocks while Source is full, until ctx is done.
func (b *OrderedBoundedBuffer[T]) Insert(ctx context.Context, val T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosedBuffer
	}

	idx := sort.Search(len(b.data), func(i int) bool {
		return b.compare(val, b.data[i]) < 0
	})
	b.data = slices.Insert(b.data, idx, val)

	if len(b.data) > b.maxBufLen {
		evicted := b.data[0]
		b.data = b.data[1:]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b.sink <- evicted:
		}
	}

	return nil
}

func (b *OrderedBoundedBuffer[T]) Source() <-chan T {
	return b.sink
}

// Pending returns a copy of the values still held in the window.
func (b *OrderedBoundedBuffer[T]) Pending() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.data)
}

// Close flushes the window to Source and closes it. Repeated calls are ignored.
func (b *OrderedBoundedBuffer[T]) Close(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	defer close(b.sink)
	for _, v := range b.data {
		select {
		case <-ctx.Done():
			return
		case b.sink <- v:
		}
	}
	b.data = nil
}
