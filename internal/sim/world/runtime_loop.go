package world

import (
	"context"
	"time"
)

// Run owns all world state until ctx is cancelled or Stop is called.
// Every mutation (bot ticks, food regeneration, idle reset) executes
// here, followed by a broadcast, so observers and sessions never see a
// torn state.
func (w *World) Run(ctx context.Context) error {
	regen := time.NewTicker(w.cfg.RegenEvery)
	defer regen.Stop()
	idle := time.NewTicker(w.cfg.IdleCheckEvery)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.updates:
			res := w.applyUpdate(req.Msg)
			if req.Resp != nil {
				req.Resp <- res
			}
			if res.mutated {
				w.broadcast()
			}
			w.syncGauges()
		case req := <-w.observerJoin:
			w.handleObserverJoin(req)
			w.syncGauges()
		case id := <-w.observerLeave:
			w.handleObserverLeave(id)
			w.syncGauges()
		case <-regen.C:
			if w.regenFood() {
				w.logEvent(EventEntry{Kind: EventRegen})
				w.broadcast()
			}
			w.syncGauges()
		case now := <-idle.C:
			if w.maybeReset(now) {
				w.broadcast()
			}
			w.syncGauges()
		}
	}
}

func (w *World) Stop() { close(w.stop) }

func (w *World) handleObserverJoin(req ObserverJoinRequest) {
	w.observers[req.ID] = &observerState{out: req.Out}

	// The initial message carries only the grid; the next broadcast
	// delivers the full payload.
	b, err := w.marshalSnapshot(false)
	if err != nil {
		if w.log != nil {
			w.log.Printf("observer %s: initial snapshot: %v", req.ID, err)
		}
		return
	}
	select {
	case req.Out <- b:
	default:
		// A fresh buffer that is already full cannot make progress.
		w.dropObserver(req.ID)
	}
}

func (w *World) handleObserverLeave(id string) {
	// Tolerates ids already dropped by a saturated broadcast.
	if o, ok := w.observers[id]; ok {
		delete(w.observers, id)
		close(o.out)
	}
}

func (w *World) dropObserver(id string) {
	if o, ok := w.observers[id]; ok {
		delete(w.observers, id)
		close(o.out)
		if w.log != nil {
			w.log.Printf("observer %s dropped (send stalled)", id)
		}
	}
}
