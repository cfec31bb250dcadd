package display

import (
	"math"

	"github.com/nsf/termbox-go"
)

// Bar runes and styles.
const (
	BarRune  rune = '█'
	BarRuneR rune = ' '

	NumRunes = 8

	StyleDefault     = termbox.ColorDefault
	StyleDefaultBack = termbox.ColorDefault
	StyleCenter      = termbox.ColorMagenta
	StyleReverse     = termbox.ColorDefault | termbox.AttrReverse
)

var barRunes = [NumRunes + 1]rune{
	BarRuneR,
	'▁',
	'▂',
	'▃',
	'▄',
	'▅',
	'▆',
	'▇',
	BarRune,
}

// stopAndTop converts a bar height in rows to the row the full blocks stop at
// and the partial rune drawn past it. Up bars grow from row height towards 0,
// down bars from row 0 towards height.
func stopAndTop(value float64, height int, up bool) (int, rune) {
	if value <= 0 || height <= 0 {
		if up {
			return height, BarRuneR
		}
		return 0, BarRune
	}

	whole, frac := math.Modf(value)
	rows := int(whole)
	part := int(frac * NumRunes)

	if rows >= height {
		rows, part = height, 0
	}

	if up {
		return height - rows, barRunes[part]
	}

	// down bars draw the partial rune reversed
	return rows, barRunes[NumRunes-part]
}

// layout returns the first column of the bars and how many of count fit in
// width.
func layout(width, count, barWidth, spaceWidth int) (int, int) {
	binWidth := barWidth + spaceWidth

	fit := (width + spaceWidth) / binWidth
	if count > fit {
		count = fit
	}

	padded := (binWidth * count) - spaceWidth
	if padded < 0 {
		padded = 0
	}

	return (width - padded) / 2, count
}

// drawUp draws one set of bars growing upwards from the base line.
func drawUp(bins []float64, cfg Config, scale float64) {
	cWidth, cHeight := termbox.Size()

	vHeight := cHeight - cfg.BaseThick
	if vHeight < 0 {
		vHeight = 0
	}

	scale = float64(vHeight) / scale

	xCol, count := layout(cWidth, len(bins), cfg.BarWidth, cfg.SpaceWidth)

	for xBin := 0; xBin < count; xBin++ {
		stop, top := stopAndTop(bins[xBin]*scale, vHeight, true)

		for lCol := xCol + cfg.BarWidth; xCol < lCol; xCol++ {
			xRow := cHeight - 1

			for ; xRow >= vHeight; xRow-- {
				termbox.SetCell(xCol, xRow, BarRune, StyleCenter, StyleDefaultBack)
			}

			for ; xRow >= stop; xRow-- {
				termbox.SetCell(xCol, xRow, BarRune, StyleDefault, StyleDefaultBack)
			}

			if top > BarRuneR && xRow >= 0 {
				termbox.SetCell(xCol, xRow, top, StyleDefault, StyleDefaultBack)
			}
		}

		xCol += cfg.SpaceWidth
	}
}

// drawUpDown draws left bars up and right bars down from a center line.
func drawUpDown(left, right []float64, cfg Config, scale float64) {
	cWidth, cHeight := termbox.Size()

	centerStart := (cHeight - cfg.BaseThick) / 2
	if centerStart < 0 {
		centerStart = 0
	}

	centerStop := centerStart + cfg.BaseThick

	scale = float64(centerStart) / scale

	count := len(left)
	if len(right) < count {
		count = len(right)
	}

	xCol, count := layout(cWidth, count, cfg.BarWidth, cfg.SpaceWidth)

	for xBin := 0; xBin < count; xBin++ {
		lStop, lTop := stopAndTop(left[xBin]*scale, centerStart, true)
		rStop, rTop := stopAndTop(right[xBin]*scale, centerStart, false)

		if rStop += centerStop; rStop >= cHeight {
			rStop = cHeight
			rTop = BarRune
		}

		for lCol := xCol + cfg.BarWidth; xCol < lCol; xCol++ {
			xRow := lStop

			if lTop > BarRuneR && xRow > 0 {
				termbox.SetCell(xCol, xRow-1, lTop, StyleDefault, StyleDefaultBack)
			}

			for ; xRow < centerStart; xRow++ {
				termbox.SetCell(xCol, xRow, BarRune, StyleDefault, StyleDefaultBack)
			}

			// center line
			for ; xRow < centerStop; xRow++ {
				termbox.SetCell(xCol, xRow, BarRune, StyleCenter, StyleDefaultBack)
			}

			// right bars go down
			for ; xRow < rStop; xRow++ {
				termbox.SetCell(xCol, xRow, BarRune, StyleDefault, StyleDefaultBack)
			}

			// last part of right bars
			if rTop < BarRune {
				termbox.SetCell(xCol, xRow, rTop, StyleReverse, StyleDefault)
			}
		}

		xCol += cfg.SpaceWidth
	}
}
