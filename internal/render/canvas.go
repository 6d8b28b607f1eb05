package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
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

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune

	colors [][]colorful.Color
	weight [][]float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		colors: make([][]colorful.Color, h),
		weight: make([][]float64, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.colors[i] = make([]colorful.Color, w)
		c.weight[i] = make([]float64, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight give the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col = x / 2
	row = y / 4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set sets a dot at (x, y) in sub-pixel coordinates without touching color.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Plot sets a dot and colors its cell. Within a cell the color of the
// heaviest plot wins.
func (c *Canvas) Plot(x, y int, col colorful.Color, weight float64) {
	row, cc, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][cc] |= rune(pixelMap[y%4][x%2])
	if weight >= c.weight[row][cc] {
		c.weight[row][cc] = weight
		c.colors[row][cc] = col
	}
}

func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.colors[i][j] = colorful.Color{}
			c.weight[i][j] = -1
		}
	}
}

// Color returns the color assigned to a cell and whether anything was plotted.
func (c *Canvas) Color(row, col int) (colorful.Color, bool) {
	if row < 0 || col < 0 || row >= c.Height || col >= c.Width {
		return colorful.Color{}, false
	}
	return c.colors[row][col], c.weight[row][col] >= 0
}

// String returns the uncolored dots.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the dots with each plotted cell colored.
func (c *Canvas) Render() string {
	var b strings.Builder
	styles := make(map[string]lipgloss.Style)

	for i, row := range c.Grid {
		for j, r := range row {
			if r == blank || c.weight[i][j] < 0 {
				b.WriteRune(r)
				continue
			}
			hex := c.colors[i][j].Clamped().Hex()
			st, ok := styles[hex]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
				styles[hex] = st
			}
			b.WriteString(st.Render(string(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
