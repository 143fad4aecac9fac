package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeUpdateFullMessage(t *testing.T) {
	raw := `{"x":3,"y":4,"nickname":"alice","energy":7,
		"path":[[2,4],[3,4]],"remembered":[[9,9]],"target_food":[3,4]}`

	m, err := DecodeUpdate([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.X != 3 || m.Y != 4 || m.Nickname != "alice" {
		t.Fatalf("decoded = %+v", m)
	}
	if m.Energy == nil || *m.Energy != 7 {
		t.Fatalf("energy = %v", m.Energy)
	}
	if len(m.Path) != 2 || m.Path[1] != (Coord{3, 4}) {
		t.Fatalf("path = %v", m.Path)
	}
	if m.TargetFood == nil || *m.TargetFood != (Coord{3, 4}) {
		t.Fatalf("target_food = %v", m.TargetFood)
	}
}

func TestDecodeUpdateDistinguishesAbsentFields(t *testing.T) {
	m, err := DecodeUpdate([]byte(`{"x":0,"y":0,"nickname":"a"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Energy != nil || m.Path != nil || m.Remembered != nil || m.TargetFood != nil {
		t.Fatalf("absent fields decoded non-nil: %+v", m)
	}
}

func TestCoordMarshalsAsArray(t *testing.T) {
	b, err := json.Marshal(Coord{3, 4})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[3,4]" {
		t.Fatalf("coord = %s", b)
	}
}

func TestDeadReplyWireShape(t *testing.T) {
	b, err := json.Marshal(DeadReply())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Dying bots must see an empty array, not null.
	if string(b) != `{"positions":[],"energy":0}` {
		t.Fatalf("dead reply = %s", b)
	}
}

func TestContentWireShapes(t *testing.T) {
	b, _ := json.Marshal(SurroundingsCell{X: 1, Y: 2, Content: FoodContent(5)})
	if !strings.Contains(string(b), `"type":"food"`) || !strings.Contains(string(b), `"value":5`) {
		t.Fatalf("food cell = %s", b)
	}

	b, _ = json.Marshal(SurroundingsCell{X: 1, Y: 2, Content: BotContent()})
	if strings.Contains(string(b), "value") {
		t.Fatalf("bot content leaked a value field: %s", b)
	}

	b, _ = json.Marshal(SurroundingsCell{X: 1, Y: 2})
	if !strings.Contains(string(b), `"content":null`) {
		t.Fatalf("empty cell = %s", b)
	}
}
