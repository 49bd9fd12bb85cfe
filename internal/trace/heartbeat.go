package trace

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Heartbeat periodically emits heartbeat events while commands run. A trace
// that keeps beating without a command span ending points at a hung command.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat emits a heartbeat every interval until Stop. status, when
// not nil, describes the current activity and is appended to each beat.
func StartHeartbeat(tracer Tracer, interval time.Duration, status func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go h.run(ctx, tracer, interval, status)
	return h
}

func (h *Heartbeat) run(ctx context.Context, tracer Tracer, interval time.Duration, status func() string) {
	defer close(h.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	started := time.Now()
	for beat := 1; ; beat++ {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			detail := fmt.Sprintf("#%d +%s", beat, now.Sub(started).Truncate(time.Millisecond))
			if status != nil {
				if s := status(); s != "" {
					detail += " " + s
				}
			}
			tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: detail,
			})
		}
	}
}

// Stop ends the heartbeat and waits for the last beat to be emitted. Safe to
// call more than once and on a nil Heartbeat.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(h.cancel)
	<-h.done
}
