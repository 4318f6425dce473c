package utils

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/temirov/dirinfo/internal/types"
)

// MeasureFunc reports how many columns a piece of text occupies.
type MeasureFunc func(text string) int

// RuneWidth counts runes, so a box-drawing glyph is one column.
func RuneWidth(text string) int {
	return utf8.RuneCountInString(text)
}

// DisplayWidth counts terminal cells, so wide East Asian runes take two columns.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// ResolveMeasure returns the measuring function for a width mode name.
func ResolveMeasure(mode string) (MeasureFunc, error) {
	switch mode {
	case EmptyString, types.WidthRunes:
		return RuneWidth, nil
	case types.WidthDisplay:
		return DisplayWidth, nil
	default:
		return nil, fmt.Errorf("unsupported width mode %q", mode)
	}
}
