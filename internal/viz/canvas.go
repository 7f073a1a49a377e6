package viz

import "strings"

// Braille Patterns: 2x4 dots per character cell
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille drawing surface where every character cell also
// carries a color class, so magnitude-quantized segments keep their
// palette index through to rendering. Color class -1 means unset.
type Canvas struct {
	Width, Height int
	Dots          [][]rune
	Colors        [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.Dots = make([][]rune, h)
	c.Colors = make([][]int, h)
	for i := range c.Dots {
		c.Dots[i] = make([]rune, w)
		c.Colors[i] = make([]int, w)
		for j := range c.Dots[i] {
			c.Dots[i][j] = 0x2800
			c.Colors[i][j] = -1
		}
	}
	return c
}

// Set turns on the sub-pixel at (x, y) with the given color class. The
// surface is (Width*2) x (Height*4) sub-pixels. When dots of different
// classes share a cell the higher class wins, biasing toward faster flow.
func (c *Canvas) Set(x, y, colorClass int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Dots[row][col] |= rune(pixelMap[y%4][x%2])
	if colorClass > c.Colors[row][col] {
		c.Colors[row][col] = colorClass
	}
}

// Clear resets all dots and color classes.
func (c *Canvas) Clear() {
	for i := range c.Dots {
		for j := range c.Dots[i] {
			c.Dots[i][j] = 0x2800
			c.Colors[i][j] = -1
		}
	}
}

// Line draws a segment in sub-pixel coordinates using Bresenham's
// algorithm, tagging every dot with the color class.
func (c *Canvas) Line(x0, y0, x1, y1, colorClass int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, colorClass)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Render walks each row and hands maximal same-color runs to paint,
// keeping the per-frame style churn low.
func (c *Canvas) Render(paint func(run string, colorClass int) string) string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Colors[row][col] == c.Colors[row][start] {
				continue
			}
			b.WriteString(paint(string(c.Dots[row][start:col]), c.Colors[row][start]))
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
