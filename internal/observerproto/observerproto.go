// Package observerproto defines the one-way payload pushed to observer
// connections: a rendered board grid plus energies, the survival record
// and the per-bot remembered coordinates.
package observerproto

import (
	"encoding/json"
	"fmt"
	"time"

	"botfield.ai/internal/protocol"
)

// Grid markers for non-bot cells.
const (
	EmptyMarker = "."
	FoodMarker  = "F"
)

// DimPrefix marks the dim trail variant of a bot color.
const DimPrefix = "DIM_"

// Marker renders a bot (or a dim path trail) on the grid.
type Marker struct {
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
}

// Cell is one grid square. It marshals as the empty marker string, the
// food marker string, or a Marker object.
type Cell struct {
	Food   bool
	Marker *Marker
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch {
	case c.Marker != nil:
		return json.Marshal(c.Marker)
	case c.Food:
		return json.Marshal(FoodMarker)
	default:
		return json.Marshal(EmptyMarker)
	}
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch s {
		case EmptyMarker:
			*c = Cell{}
		case FoodMarker:
			*c = Cell{Food: true}
		default:
			return fmt.Errorf("unknown grid marker %q", s)
		}
		return nil
	}
	var m Marker
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*c = Cell{Marker: &m}
	return nil
}

// Grid is indexed grid[y][x], matching the rendered board.
type Grid [][]Cell

// Record is the best-ever survival record. Duration is in seconds.
type Record struct {
	HolderName  string    `json:"holder_name"`
	DurationSec float64   `json:"duration"`
	Timestamp   time.Time `json:"timestamp"`
	StartEnergy int       `json:"start_energy"`
}

// IsZero reports whether no record has been set yet.
func (r Record) IsZero() bool { return r.HolderName == "" && r.DurationSec == 0 }

// Snapshot is one observer message. The initial message after connect
// carries only the grid; every subsequent broadcast carries all fields.
type Snapshot struct {
	Grid       Grid                        `json:"grid"`
	Energies   map[string]int              `json:"energies,omitempty"`
	Record     *Record                     `json:"record,omitempty"`
	Remembered map[string][]protocol.Coord `json:"remembered,omitempty"`
}
