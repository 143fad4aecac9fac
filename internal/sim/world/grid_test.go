package world

import (
	"testing"

	"botfield.ai/internal/observerproto"
	"botfield.ai/internal/protocol"
)

func TestSnapshotGridLayers(t *testing.T) {
	w, _ := newTestWorld(testConfig())
	w.addFood(7, 7, 5)
	w.bots["alice"] = &Bot{
		Nickname: "alice",
		Pos:      Pos{2, 3},
		Energy:   8,
		Color:    "RED",
		Path:     []protocol.Coord{{1, 3}, {2, 3}},
	}

	snap := w.buildSnapshot(true)
	if len(snap.Grid) != 10 || len(snap.Grid[0]) != 10 {
		t.Fatalf("grid is %dx%d, want 10x10", len(snap.Grid), len(snap.Grid[0]))
	}

	// Bot marker at the current position, full color.
	cell := snap.Grid[3][2]
	if cell.Marker == nil || cell.Marker.Symbol != "A" || cell.Marker.Color != "RED" {
		t.Fatalf("bot cell = %+v", cell)
	}

	// Visited-but-vacated cell shows the dim trail.
	trail := snap.Grid[3][1]
	if trail.Marker == nil || trail.Marker.Color != "DIM_RED" {
		t.Fatalf("trail cell = %+v, want DIM_RED marker", trail)
	}

	if !snap.Grid[7][7].Food {
		t.Fatalf("food cell missing")
	}
	if snap.Grid[0][0].Food || snap.Grid[0][0].Marker != nil {
		t.Fatalf("expected empty cell at (0,0)")
	}
}

func TestFoodOverridesTrailOnTheGrid(t *testing.T) {
	w, _ := newTestWorld(testConfig())
	w.addFood(1, 3, 5)
	w.bots["alice"] = &Bot{
		Nickname: "alice",
		Pos:      Pos{2, 3},
		Energy:   8,
		Color:    "RED",
		Path:     []protocol.Coord{{1, 3}, {2, 3}},
	}

	snap := w.buildSnapshot(true)
	if !snap.Grid[3][1].Food {
		t.Fatalf("trail hid a food cell")
	}
}

func TestSnapshotPayloadFields(t *testing.T) {
	w, _ := newTestWorld(testConfig())
	w.record = observerproto.Record{HolderName: "bob", DurationSec: 42}
	w.bots["alice"] = &Bot{
		Nickname:   "alice",
		Pos:        Pos{2, 3},
		Energy:     8,
		Color:      "RED",
		Remembered: []protocol.Coord{{4, 4}},
	}

	full := w.buildSnapshot(true)
	if full.Energies["alice"] != 8 {
		t.Fatalf("energies = %v", full.Energies)
	}
	if full.Record == nil || full.Record.HolderName != "bob" {
		t.Fatalf("record = %+v", full.Record)
	}
	if len(full.Remembered["alice"]) != 1 {
		t.Fatalf("remembered = %v", full.Remembered)
	}

	// The connect-time snapshot carries only the grid.
	initial := w.buildSnapshot(false)
	if initial.Energies != nil || initial.Record != nil || initial.Remembered != nil {
		t.Fatalf("initial snapshot leaked full payload: %+v", initial)
	}
}
