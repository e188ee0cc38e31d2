// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chart

import (
	"image/color"
	"math"
	"strings"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Marks the Liberation faces have no glyph for. A cell starting with
// checkMark+" " or ending with " "+starMark gets the symbol drawn as a shape.
const (
	checkMark = "✓"
	starMark  = "⭐"
)

// Gold fills the star mark.
var Gold = hex("f1c40f")

// CellStyle is the look of one table cell. A zero Size uses the table's
// FontSize.
type CellStyle struct {
	Fill color.Color
	Text color.Color
	Bold bool
	Size vg.Length
}

// Table is a results table drawn straight onto the figure canvas. Row 0 is
// the header.
type Table struct {
	Title     string
	Rows      [][]string
	ColWidths []float64 // relative; nil means equal columns
	Style     func(row, col int) CellStyle
	FontSize  vg.Length
	TitleSize vg.Length
}

// HeaderStyle is the default dark header with white bold text.
var HeaderStyle = CellStyle{Fill: Navy, Text: color.White, Bold: true}

// StripedStyle colours the header and shades every even body row.
func StripedStyle(row, _ int) CellStyle {
	switch {
	case row == 0:
		return HeaderStyle
	case row%2 == 0:
		return CellStyle{Fill: Cloud, Text: Black}
	default:
		return CellStyle{Fill: color.White, Text: Black}
	}
}

const (
	defaultCellSize  = 13
	defaultTitleSize = 18
	rowScale         = 2.2 // row height in font sizes
)

var (
	tablePad    = vg.Points(12)
	tableBorder = draw.LineStyle{Color: Black, Width: vg.Points(0.5)}
)

// Draw fills dc with the title and the grid of cells.
func (t Table) Draw(dc draw.Canvas) {
	dc.FillPolygon(color.White, corners(dc.Rectangle))

	title, cells := t.layout(dc.Rectangle)
	if t.Title != "" {
		sty := tableText(t.titleSize(), Black, true)
		sty.XAlign, sty.YAlign = text.XCenter, text.YTop
		dc.FillText(sty, title, t.Title)
	}

	style := t.Style
	if style == nil {
		style = StripedStyle
	}
	for r, row := range cells {
		for c, rect := range row {
			st := style(r, c)
			if st.Fill != nil {
				dc.FillPolygon(st.Fill, corners(rect))
			}
			pts := corners(rect)
			dc.StrokeLines(tableBorder, append(pts, pts[0]))
			t.drawCell(dc, rect, t.Rows[r][c], st)
		}
	}
}

// layout returns the anchor of the title (top centre) and the rectangle of
// every cell. Rows shrink when the canvas is too short for rowScale.
func (t Table) layout(r vg.Rectangle) (vg.Point, [][]vg.Rectangle) {
	top := r.Max.Y - tablePad
	title := vg.Point{X: (r.Min.X + r.Max.X) / 2, Y: top}
	if t.Title != "" {
		sty := tableText(t.titleSize(), Black, true)
		top -= sty.Height(t.Title) + tablePad
	}

	cols := t.columns(r.Max.X - r.Min.X - 2*tablePad)
	var width vg.Length
	for _, w := range cols {
		width += w
	}
	left := r.Min.X + (r.Max.X-r.Min.X-width)/2

	rh := t.fontSize() * rowScale
	if n := vg.Length(len(t.Rows)); n > 0 && n*rh > top-r.Min.Y-tablePad {
		rh = (top - r.Min.Y - tablePad) / n
	}

	cells := make([][]vg.Rectangle, len(t.Rows))
	y := top
	for i, row := range t.Rows {
		x := left
		for c := range row {
			if c >= len(cols) {
				break
			}
			cells[i] = append(cells[i], vg.Rectangle{
				Min: vg.Point{X: x, Y: y - rh},
				Max: vg.Point{X: x + cols[c], Y: y},
			})
			x += cols[c]
		}
		y -= rh
	}
	return title, cells
}

// columns splits width among the columns following ColWidths.
func (t Table) columns(width vg.Length) []vg.Length {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	rel := t.ColWidths
	if len(rel) != n {
		rel = make([]float64, n)
		for i := range rel {
			rel[i] = 1
		}
	}
	var total float64
	for _, v := range rel {
		total += v
	}
	out := make([]vg.Length, n)
	for i, v := range rel {
		out[i] = width * vg.Length(v/total)
	}
	return out
}

// drawCell centres s in rect, drawing any check or star mark beside it.
func (t Table) drawCell(dc draw.Canvas, rect vg.Rectangle, s string, st CellStyle) {
	size := st.Size
	if size == 0 {
		size = t.fontSize()
	}
	fg := st.Text
	if fg == nil {
		fg = Black
	}
	sty := tableText(size, fg, st.Bold)
	sty.XAlign, sty.YAlign = text.XLeft, text.YCenter

	body, check, star := splitMarks(s)
	mark := size * 0.8
	gap := size * 0.3
	total := sty.Width(body)
	if check {
		total += mark + gap
	}
	if star {
		total += gap + mark
	}

	x := (rect.Min.X+rect.Max.X)/2 - total/2
	y := (rect.Min.Y + rect.Max.Y) / 2
	if check {
		drawCheck(dc, vg.Point{X: x, Y: y - mark/2}, mark, fg)
		x += mark + gap
	}
	dc.FillText(sty, vg.Point{X: x, Y: y}, body)
	if star {
		x += sty.Width(body) + gap
		drawStar(dc, vg.Point{X: x + mark/2, Y: y}, mark/2, Gold)
	}
}

// splitMarks strips a leading check mark and a trailing star from s.
func splitMarks(s string) (body string, check, star bool) {
	body = s
	if rest, ok := strings.CutPrefix(body, checkMark+" "); ok {
		body, check = rest, true
	}
	if rest, ok := strings.CutSuffix(body, " "+starMark); ok {
		body, star = rest, true
	}
	return body, check, star
}

// drawCheck strokes a tick inside the size×size square whose lower left
// corner is at.
func drawCheck(dc draw.Canvas, at vg.Point, size vg.Length, c color.Color) {
	sty := draw.LineStyle{Color: c, Width: size / 6}
	dc.StrokeLines(sty, []vg.Point{
		{X: at.X, Y: at.Y + size*0.5},
		{X: at.X + size*0.35, Y: at.Y + size*0.1},
		{X: at.X + size, Y: at.Y + size*0.9},
	})
}

// drawStar fills a five-pointed star of outer radius r centred on ctr.
func drawStar(dc draw.Canvas, ctr vg.Point, r vg.Length, c color.Color) {
	pts := make([]vg.Point, 10)
	for i := range pts {
		rad := r
		if i%2 == 1 {
			rad = r * 0.4
		}
		a := math.Pi/2 + float64(i)*math.Pi/5
		pts[i] = vg.Point{
			X: ctr.X + rad*vg.Length(math.Cos(a)),
			Y: ctr.Y + rad*vg.Length(math.Sin(a)),
		}
	}
	dc.FillPolygon(c, pts)
}

func (t Table) fontSize() vg.Length {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return vg.Points(defaultCellSize)
}

func (t Table) titleSize() vg.Length {
	if t.TitleSize > 0 {
		return t.TitleSize
	}
	return vg.Points(defaultTitleSize)
}

// tableText is the sans face used for cells and the table title.
func tableText(size vg.Length, c color.Color, bold bool) text.Style {
	f := plot.DefaultFont
	f.Variant = "Sans"
	f.Size = size
	if bold {
		f.Weight = xfont.WeightBold
	}
	return text.Style{Color: c, Font: f, Handler: plot.DefaultTextHandler}
}

func corners(r vg.Rectangle) []vg.Point {
	return []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}
