package world

import (
	"fmt"

	"botfield.ai/internal/observerproto"
	"botfield.ai/internal/protocol"
)

// applyUpdate executes one bot tick: validate, register if unseen, move,
// consume at most one food, decay energy, and purge on death. It runs on
// the loop goroutine; the whole sequence is atomic with respect to every
// other mutator.
func (w *World) applyUpdate(msg protocol.UpdateMsg) UpdateResult {
	if msg.Nickname == "" {
		return UpdateResult{Err: "invalid data"}
	}
	if !w.inBounds(Pos{X: msg.X, Y: msg.Y}) {
		return UpdateResult{Err: fmt.Sprintf("coordinates out of range 0-%d", w.cfg.BoardW-1)}
	}

	now := w.now()
	w.lastActivity = now
	w.resetArmed = true

	b, seen := w.bots[msg.Nickname]
	if !seen {
		b = &Bot{
			Nickname:    msg.Nickname,
			Color:       w.nextColor(),
			Energy:      w.cfg.StartEnergy,
			StartTime:   now,
			StartEnergy: w.cfg.StartEnergy,
			Path:        []protocol.Coord{{msg.X, msg.Y}},
		}
		w.bots[msg.Nickname] = b
		w.logEvent(EventEntry{Kind: EventJoin, Nickname: b.Nickname, Pos: &[2]int{msg.X, msg.Y}, Energy: b.Energy})
	}

	b.Pos = Pos{X: msg.X, Y: msg.Y}
	if msg.Path != nil {
		b.Path = msg.Path
	}
	if msg.Remembered != nil {
		b.Remembered = msg.Remembered
	}

	// At most one food per tick: an explicit target first, the bot's own
	// cell second.
	consumed := false
	if msg.TargetFood != nil {
		p := Pos{X: msg.TargetFood[0], Y: msg.TargetFood[1]}
		if f, ok := w.foods[p]; ok {
			delete(w.foods, p)
			b.Energy += f.Value
			consumed = true
		}
	}
	if !consumed {
		if f, ok := w.foods[b.Pos]; ok {
			delete(w.foods, b.Pos)
			b.Energy += f.Value
			consumed = true
		}
	}
	if !consumed {
		b.Energy--
	}

	if b.Energy <= 0 {
		w.killBot(b)
		return UpdateResult{Reply: protocol.DeadReply(), Dead: true, mutated: true}
	}

	w.ticksN.Add(1)
	w.logEvent(EventEntry{Kind: EventTick, Nickname: b.Nickname, Pos: &[2]int{b.Pos.X, b.Pos.Y}, Energy: b.Energy})
	return UpdateResult{
		Reply: protocol.TickReply{
			Positions: w.Surroundings(b.Pos, b.Nickname),
			Energy:    b.Energy,
		},
		mutated: true,
	}
}

// killBot removes the bot from the world in one step and updates the
// record when its survival beat the stored one.
func (w *World) killBot(b *Bot) {
	now := w.now()
	survived := now.Sub(b.StartTime).Seconds()
	if survived > w.record.DurationSec {
		w.record = observerproto.Record{
			HolderName:  b.Nickname,
			DurationSec: survived,
			Timestamp:   now,
			StartEnergy: b.StartEnergy,
		}
		w.publishRecord()
	}
	delete(w.bots, b.Nickname)
	w.logEvent(EventEntry{Kind: EventDeath, Nickname: b.Nickname, Pos: &[2]int{b.Pos.X, b.Pos.Y}})
}

// publishRecord hands the improved record to the persistence consumer
// without ever blocking the loop. Losing a write is acceptable;
// corrupting world state is not.
func (w *World) publishRecord() {
	if w.recordSink == nil {
		return
	}
	select {
	case w.recordSink <- w.record:
	default:
		if w.log != nil {
			w.log.Printf("record sink full; dropping persist for %q", w.record.HolderName)
		}
	}
}
