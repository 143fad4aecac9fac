package world

import (
	"unicode"
	"unicode/utf8"
)

// nextColor pops the next palette color for a newly seen nickname.
// Once the pool is exhausted every further bot gets the fallback color;
// colors are never returned to the pool when a bot dies.
func (w *World) nextColor() string {
	if w.colorNext < len(w.cfg.Palette) {
		c := w.cfg.Palette[w.colorNext]
		w.colorNext++
		return c
	}
	return w.cfg.FallbackColor
}

// symbolFor derives the grid glyph for a nickname: a configured override
// when present, otherwise the uppercased first rune.
func (w *World) symbolFor(nickname string) string {
	if s, ok := w.cfg.Symbols[nickname]; ok {
		return s
	}
	r, _ := utf8.DecodeRuneInString(nickname)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
