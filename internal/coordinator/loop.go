package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var ErrLoopStopped = errors.New("coordinator: loop stopped")

type request struct {
	ctx    context.Context
	intent Intent // nil means read-only snapshot
	reply  chan result
}

type result struct {
	snap Snapshot
	err  error
}

// Loop serializes intents onto a single goroutine. Intents are applied in the
// order they are received, each to completion, followed by a fresh snapshot.
type Loop struct {
	c        *Coordinator
	log      zerolog.Logger
	requests chan request
	done     chan struct{}
}

// NewLoop wraps c; nothing is applied until Run starts.
func NewLoop(c *Coordinator, log zerolog.Logger) *Loop {
	return &Loop{
		c:        c,
		log:      log.With().Str("component", "loop").Logger(),
		requests: make(chan request),
		done:     make(chan struct{}),
	}
}

// Run processes intents until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	l.log.Info().Msg("intent loop started")
	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("intent loop stopped")
			return
		case req := <-l.requests:
			req.reply <- l.handle(req)
		}
	}
}

func (l *Loop) handle(req request) result {
	if req.intent == nil {
		return result{snap: l.c.Snapshot()}
	}
	start := time.Now()
	err := req.intent.apply(req.ctx, l.c)
	ev := l.log.Debug()
	if err != nil {
		ev = l.log.Info().Err(err)
	}
	ev.Str("intent", req.intent.Name()).Dur("took", time.Since(start)).Msg("intent applied")
	return result{snap: l.c.Snapshot(), err: err}
}

// Dispatch enqueues intent and waits for the snapshot taken right after it was
// applied. On error the snapshot reflects the unchanged state. ctx only bounds
// the wait to enqueue: once the loop has taken the intent it is applied and its
// result returned, so a caller never sees an error for a committed intent.
func (l *Loop) Dispatch(ctx context.Context, intent Intent) (Snapshot, error) {
	req := request{ctx: ctx, intent: intent, reply: make(chan result, 1)}
	select {
	case l.requests <- req:
	case <-l.done:
		return Snapshot{}, ErrLoopStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	res := <-req.reply
	return res.snap, res.err
}

// Snapshot reads the current derived views through the same queue, so it never
// observes a half-applied intent.
func (l *Loop) Snapshot(ctx context.Context) (Snapshot, error) {
	return l.Dispatch(ctx, nil)
}
