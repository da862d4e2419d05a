package main

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"codelang/pkg/grid"
)

// 80x25 text screen in the 7x13 basic font.
const (
	cols       = 80
	rows       = 25
	charWidth  = 7
	charHeight = 13

	screenWidth  = cols * charWidth
	screenHeight = rows * charHeight
)

var (
	colorBg     = color.RGBA{0x0F, 0x17, 0x2A, 0xFF}
	colorText   = color.RGBA{0xF8, 0xFA, 0xFC, 0xFF}
	colorCursor = color.RGBA{0x94, 0xA3, 0xB8, 0xFF}
)

// renderTerminal paints cells into dst, a screenWidth x screenHeight
// framebuffer, and the cursor when showCursor is set.
func renderTerminal(dst *image.RGBA, cells []rune, cursor int, showCursor bool) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(colorBg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(colorText),
		Face: basicfont.Face7x13,
	}
	for i, r := range cells {
		if r == 0 || r == ' ' {
			continue
		}
		d.Dot = cellDot(i)
		d.DrawString(string(r))
	}

	if showCursor && cursor < len(cells) {
		d.Src = image.NewUniform(colorCursor)
		d.Dot = cellDot(cursor)
		d.DrawString("_")
	}
}

// cellDot is the glyph baseline origin of cell index.
func cellDot(index int) fixed.Point26_6 {
	x, y := grid.GetGridCoords(index, cols)
	return fixed.P(x*charWidth, y*charHeight+basicfont.Face7x13.Ascent)
}
