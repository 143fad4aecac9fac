package observerproto

import (
	"encoding/json"
	"testing"
)

func TestCellMarshal(t *testing.T) {
	cases := []struct {
		name string
		cell Cell
		want string
	}{
		{"empty", Cell{}, `"."`},
		{"food", Cell{Food: true}, `"F"`},
		{"marker", Cell{Marker: &Marker{Symbol: "A", Color: "RED"}}, `{"symbol":"A","color":"RED"}`},
		{"marker wins over food", Cell{Food: true, Marker: &Marker{Symbol: "A", Color: "RED"}}, `{"symbol":"A","color":"RED"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.cell)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tc.want {
				t.Fatalf("cell = %s, want %s", b, tc.want)
			}
		})
	}
}

func TestCellUnmarshal(t *testing.T) {
	var c Cell
	if err := json.Unmarshal([]byte(`"."`), &c); err != nil || c.Food || c.Marker != nil {
		t.Fatalf("empty cell = %+v, err %v", c, err)
	}
	if err := json.Unmarshal([]byte(`"F"`), &c); err != nil || !c.Food {
		t.Fatalf("food cell = %+v, err %v", c, err)
	}
	if err := json.Unmarshal([]byte(`{"symbol":"A","color":"DIM_RED"}`), &c); err != nil {
		t.Fatalf("marker cell: %v", err)
	}
	if c.Marker == nil || c.Marker.Color != DimPrefix+"RED" {
		t.Fatalf("marker = %+v", c.Marker)
	}
	if err := json.Unmarshal([]byte(`"X"`), &c); err == nil {
		t.Fatalf("unknown marker string accepted")
	}
}

func TestSnapshotOmitsEmptyPayload(t *testing.T) {
	b, err := json.Marshal(Snapshot{Grid: Grid{{Cell{}}}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"grid":[["."]]}` {
		t.Fatalf("grid-only snapshot = %s", b)
	}
}

func TestRecordIsZero(t *testing.T) {
	if !(Record{}).IsZero() {
		t.Fatalf("empty record not zero")
	}
	if (Record{HolderName: "alice", DurationSec: 1}).IsZero() {
		t.Fatalf("set record reported zero")
	}
}
