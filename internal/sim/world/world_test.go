package world

import (
	"time"

	"botfield.ai/internal/observerproto"
)

// testConfig keeps periods long so timers never interfere with direct
// calls into the loop's methods.
func testConfig() Config {
	return Config{
		BoardW: 10,
		BoardH: 10,

		StartEnergy: 10,
		FoodValue:   5,

		FoodTarget:        15,
		FoodInitial:       0,
		FoodPlaceAttempts: 100,
		RegenEvery:        time.Hour,

		IdleCheckEvery: time.Hour,
		IdleResetAfter: 5 * time.Second,
		IdleResetMax:   10 * time.Second,

		Seed: 1,

		Palette:       []string{"RED", "GREEN", "BLUE", "YELLOW", "MAGENTA", "CYAN"},
		FallbackColor: "WHITE",
		Symbols:       map[string]string{},
	}
}

type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestWorld(cfg Config) (*World, *testClock) {
	clk := newTestClock()
	w := New(cfg, observerproto.Record{}, nil)
	w.now = clk.now
	return w, clk
}

func (w *World) addFood(x, y, value int) {
	p := Pos{X: x, Y: y}
	w.foods[p] = Food{Pos: p, Value: value}
}
