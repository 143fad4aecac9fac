package world

import (
	"encoding/json"

	"botfield.ai/internal/observerproto"
	"botfield.ai/internal/protocol"
)

// buildGrid renders the board: dim path trails first, then bot markers,
// then foods, so a trail only shows on otherwise empty cells.
func (w *World) buildGrid() observerproto.Grid {
	grid := make(observerproto.Grid, w.cfg.BoardH)
	for y := range grid {
		grid[y] = make([]observerproto.Cell, w.cfg.BoardW)
	}

	for _, b := range w.bots {
		for _, c := range b.Path {
			p := Pos{X: c[0], Y: c[1]}
			if !w.inBounds(p) {
				continue
			}
			grid[p.Y][p.X] = observerproto.Cell{Marker: &observerproto.Marker{
				Symbol: w.symbolFor(b.Nickname),
				Color:  observerproto.DimPrefix + b.Color,
			}}
		}
	}
	for _, b := range w.bots {
		grid[b.Pos.Y][b.Pos.X] = observerproto.Cell{Marker: &observerproto.Marker{
			Symbol: w.symbolFor(b.Nickname),
			Color:  b.Color,
		}}
	}
	for p := range w.foods {
		grid[p.Y][p.X] = observerproto.Cell{Food: true}
	}
	return grid
}

// buildSnapshot assembles the observer payload. The full form carries
// energies, the record and remembered coordinates; the initial gridOnly
// form is what a freshly connected observer receives.
func (w *World) buildSnapshot(full bool) observerproto.Snapshot {
	snap := observerproto.Snapshot{Grid: w.buildGrid()}
	if !full {
		return snap
	}

	snap.Energies = make(map[string]int, len(w.bots))
	snap.Remembered = make(map[string][]protocol.Coord, len(w.bots))
	for nick, b := range w.bots {
		snap.Energies[nick] = b.Energy
		if len(b.Remembered) > 0 {
			snap.Remembered[nick] = b.Remembered
		}
	}
	rec := w.record
	snap.Record = &rec
	return snap
}

func (w *World) marshalSnapshot(full bool) ([]byte, error) {
	return json.Marshal(w.buildSnapshot(full))
}

// broadcast pushes the current snapshot to every observer. Delivery is
// non-blocking: an observer whose buffer is full is dropped rather than
// allowed to stall the loop.
func (w *World) broadcast() {
	if len(w.observers) == 0 {
		return
	}
	b, err := w.marshalSnapshot(true)
	if err != nil {
		if w.log != nil {
			w.log.Printf("broadcast: marshal snapshot: %v", err)
		}
		return
	}
	var stalled []string
	for id, o := range w.observers {
		select {
		case o.out <- b:
		default:
			stalled = append(stalled, id)
		}
	}
	for _, id := range stalled {
		w.dropObserver(id)
	}
}
