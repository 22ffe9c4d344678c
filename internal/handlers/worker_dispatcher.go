package handlers

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/on-the-ground/impure_go/internal/model"
)

// WorkerDispatcher picks the worker channel a message must be sent to.
type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan T
	// Wait blocks until every worker has returned.
	Wait()
}

// --- single queue ---

type singleQueue[T any] struct {
	effectCh chan T
	wg       *sync.WaitGroup
}

func (q singleQueue[T]) GetChannelOf(_ T) chan T {
	return q.effectCh
}

func (q singleQueue[T]) Wait() {
	q.wg.Wait()
}

// NewSingleQueue starts one worker handling messages in arrival order
// until ctx is done.
func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	wg := &sync.WaitGroup{}
	return singleQueue[T]{
		effectCh: startWorker(ctx, wg, bufferSize, handleFn),
		wg:       wg,
	}
}

// --- partitioned queue ---

type partitionedQueue[T model.Partitionable] struct {
	effectChs []chan T
	wg        *sync.WaitGroup
}

func (pq partitionedQueue[T]) GetChannelOf(msg T) chan T {
	return pq.effectChs[getIndexByHash(msg, len(pq.effectChs))]
}

func (pq partitionedQueue[T]) Wait() {
	pq.wg.Wait()
}

// NewPartitionedQueue starts numWorkers workers. Messages sharing a partition
// key always go to the same worker.
func NewPartitionedQueue[T model.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	wg := &sync.WaitGroup{}
	channels := make([]chan T, numWorkers)
	for i := 0; i < numWorkers; i++ {
		channels[i] = startWorker(ctx, wg, bufferSize, handleFn)
	}
	return partitionedQueue[T]{effectChs: channels, wg: wg}
}

// startWorker returns once the worker goroutine is running.
// The channel is never closed: senders select on ctx instead.
func startWorker[T any](
	ctx context.Context,
	wg *sync.WaitGroup,
	bufferSize int,
	handleFn func(context.Context, T),
) chan T {
	ch := make(chan T, bufferSize)
	ready := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(ready)
		for {
			select {
			case msg := <-ch:
				handleFn(ctx, msg)
			case <-ctx.Done():
				return
			}
		}
	}()
	<-ready
	return ch
}

func hash(key string) uint64 {
	return xxhash.Sum64String(key)
}

func getIndexByHash(payload model.Partitionable, numChs int) int {
	switch numChs {
	case 0:
		panic("number of channels cannot be 0")
	case 1:
		return 0
	default:
		return int(hash(payload.PartitionKey()) % uint64(numChs))
	}
}
