package middleware

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/impure_go/action"
	"github.com/on-the-ground/impure_go/shared/orderedbuffer"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// Entry is one dispatch recorded by a Journal.
type Entry struct {
	ID     uuid.UUID
	Seq    uint64
	Action action.Action
	Impure bool
	Span   timespan.TimeSpan
}

// Journal records dispatched actions with the time span of their handling.
//
// Nested dispatches finish before the dispatch that caused them, so entries
// complete out of order. The journal re-orders them by dispatch sequence within
// a bounded window before committing them.
type Journal struct {
	seq    atomic.Uint64
	buf    *orderedbuffer.OrderedBoundedBuffer[Entry]
	logger *zap.Logger

	mu        sync.Mutex
	committed []Entry
	drained   chan struct{}
}

// NewJournal creates a journal re-ordering entries within window dispatches.
func NewJournal(window int, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Journal{
		buf: orderedbuffer.NewOrderedBoundedBuffer(window, func(a, b Entry) int {
			return cmp.Compare(a.Seq, b.Seq)
		}),
		logger:  logger,
		drained: make(chan struct{}),
	}
	ready := make(chan struct{})
	go func() {
		defer close(j.drained)
		close(ready)
		for e := range j.buf.Source() {
			j.mu.Lock()
			j.committed = append(j.committed, e)
			j.mu.Unlock()
		}
	}()
	<-ready
	return j
}

// Record returns the middleware feeding j.
func Record[S any](j *Journal) Middleware[S] {
	return func(_ StoreAPI[S]) func(next Next) Next {
		return func(next Next) Next {
			return func(a action.Action) any {
				seq := j.seq.Add(1)
				start := time.Now()
				res := next(a)
				j.add(Entry{
					ID:     uuid.New(),
					Seq:    seq,
					Action: a,
					Impure: a.IsImpure(),
					Span:   timespan.BetweenTimes(start, time.Now()),
				})
				return res
			}
		}
	}
}

func (j *Journal) add(e Entry) {
	if err := j.buf.Insert(context.Background(), e); err != nil {
		j.logger.Debug("journal entry dropped",
			zap.String("type", e.Action.Type),
			zap.Uint64("seq", e.Seq),
			zap.Error(err),
		)
	}
}

// Entries returns the recorded entries, committed or still in the window, in
// dispatch order. While dispatches are in flight an entry being committed may
// be missing; after Close the result is complete.
func (j *Journal) Entries() []Entry {
	pending := j.buf.Pending()

	j.mu.Lock()
	entries := slices.Concat(j.committed, pending)
	j.mu.Unlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return slices.CompactFunc(entries, func(a, b Entry) bool {
		return a.Seq == b.Seq
	})
}

// Close commits the window. Entries recorded afterwards are dropped.
func (j *Journal) Close(ctx context.Context) {
	j.buf.Close(ctx)
	select {
	case <-j.drained:
	case <-ctx.Done():
	}
}
