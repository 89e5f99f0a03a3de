package viz

import (
	"math"
	"strings"
)

// Braille cells hold a 2x4 dot grid:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in dots.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// DrawCircle outlines a circle. thick > 1 draws concentric rings inward.
func (c *Canvas) DrawCircle(cx, cy, r, thick int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	for k := 0; k < max(thick, 1) && r-k > 0; k++ {
		rr := float64(r - k)
		steps := int(2*math.Pi*rr) + 8
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / float64(steps)
			c.Set(cx+int(math.Round(rr*math.Cos(a))), cy+int(math.Round(rr*math.Sin(a))))
		}
	}
}

// DrawCrosshair marks the center of the canvas.
func (c *Canvas) DrawCrosshair(size int) {
	w, h := c.PixelSize()
	cx, cy := w/2, h/2
	c.DrawLine(cx-size, cy, cx-2, cy)
	c.DrawLine(cx+2, cy, cx+size, cy)
	c.DrawLine(cx, cy-size, cx, cy-2)
	c.DrawLine(cx, cy+2, cx, cy+size)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
