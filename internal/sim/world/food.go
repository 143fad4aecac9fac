package world

import "math/rand"

// regenFood tops the supply back up toward the target, one food per
// firing. Placement is random within a bounded attempt budget; a crowded
// board simply skips the cycle.
func (w *World) regenFood() bool {
	if len(w.foods) >= w.cfg.FoodTarget {
		return false
	}
	return w.placeFood(w.rng)
}

// placeFood tries up to the configured attempt budget to drop one food
// on a cell with no food and no bot.
func (w *World) placeFood(rng *rand.Rand) bool {
	for i := 0; i < w.cfg.FoodPlaceAttempts; i++ {
		p := Pos{X: rng.Intn(w.cfg.BoardW), Y: rng.Intn(w.cfg.BoardH)}
		if _, taken := w.foods[p]; taken {
			continue
		}
		if w.botOccupies(p) {
			continue
		}
		w.foods[p] = Food{Pos: p, Value: w.cfg.FoodValue}
		return true
	}
	return false
}

// placeSeededFood lays out count foods from a fresh source seeded with
// the world seed, so init and every reset produce the same layout for a
// given config.
func (w *World) placeSeededFood(count int) {
	rng := rand.New(rand.NewSource(w.cfg.Seed))
	for i := 0; i < count; i++ {
		w.placeFood(rng)
	}
}

func (w *World) botOccupies(p Pos) bool {
	for _, b := range w.bots {
		if b.Pos == p {
			return true
		}
	}
	return false
}
