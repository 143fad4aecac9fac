package world

import "time"

// maybeReset fires the idle-world reset at most once per quiet period.
// The armed flag is set by every inbound bot tick and cleared when the
// reset fires, so the level check can never re-trigger on later polls.
// The upper bound keeps a long-dead world from resetting again even if
// the flag were somehow still armed.
func (w *World) maybeReset(now time.Time) bool {
	if !w.resetArmed || w.lastActivity.IsZero() {
		return false
	}
	idle := now.Sub(w.lastActivity)
	if idle <= w.cfg.IdleResetAfter || idle > w.cfg.IdleResetMax {
		return false
	}
	w.resetArmed = false
	w.resetWorld()
	return true
}

// resetWorld clears every bot, restores the deterministic seeded food
// layout, rewinds the color pool and clears the activity clock. The
// record survives a reset.
func (w *World) resetWorld() {
	w.bots = make(map[string]*Bot)
	w.foods = make(map[Pos]Food)
	w.placeSeededFood(w.cfg.FoodInitial)
	w.colorNext = 0
	w.lastActivity = time.Time{}
	if w.log != nil {
		w.log.Printf("world reset: idle period expired")
	}
	w.logEvent(EventEntry{Kind: EventReset})
}
