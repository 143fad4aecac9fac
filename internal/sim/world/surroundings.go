package world

import "botfield.ai/internal/protocol"

// Surroundings enumerates the 24 radius-2 cells around center in a fixed
// order: dx from -2 to 2, dy from -2 to 2, skipping (0,0). Off-board
// cells appear with their out-of-range coordinates and nil content. Food
// wins over bots when both occupy a cell; the querying bot itself never
// appears.
func (w *World) Surroundings(center Pos, self string) []protocol.SurroundingsCell {
	cells := make([]protocol.SurroundingsCell, 0, 24)
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			p := Pos{X: center.X + dx, Y: center.Y + dy}
			cell := protocol.SurroundingsCell{X: p.X, Y: p.Y}
			if w.inBounds(p) {
				if f, ok := w.foods[p]; ok {
					cell.Content = protocol.FoodContent(f.Value)
				} else if w.botAt(p, self) {
					cell.Content = protocol.BotContent()
				}
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// botAt reports whether any bot other than self occupies p.
func (w *World) botAt(p Pos, self string) bool {
	for nick, b := range w.bots {
		if nick == self {
			continue
		}
		if b.Pos == p {
			return true
		}
	}
	return false
}
