// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdiddy/hpl-deck/internal/pptx"
)

// Default text box insets, 0.1" horizontally and 0.05" vertically.
const (
	insetX pptx.EMU = 91440
	insetY pptx.EMU = 45720
)

// canvas draws on one slide. Errors from table and picture placement are
// sticky: the first one is kept and later drawing calls still run, so slide
// functions stay straight-line and the builder checks err once.
type canvas struct {
	slide  *pptx.Slide
	images string
	w, h   pptx.EMU
	err    error
}

func newCanvas(pres *pptx.Presentation, images string) (*canvas, error) {
	s, err := pres.AddSlide()
	if err != nil {
		return nil, fmt.Errorf("adding slide: %w", err)
	}
	w, h := pres.SlideSize()
	return &canvas{slide: s, images: images, w: w, h: h}, nil
}

func (c *canvas) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// style is the formatting of a single-run text box.
type style struct {
	Size   float64
	Bold   bool
	Italic bool
	Color  pptx.RGB
	Align  pptx.Align
	Font   string
}

func (st style) font() pptx.Font {
	color := st.Color
	name := st.Font
	if name == "" {
		name = FontBody
	}
	return pptx.Font{Name: name, Size: st.Size, Bold: st.Bold, Italic: st.Italic, Color: &color}
}

// line is one paragraph of a multi-line text box.
type line struct {
	Text  string
	Color pptx.RGB
	Bold  bool
}

// plain builds lines that share a colour and weight.
func plain(color pptx.RGB, texts ...string) []line {
	out := make([]line, len(texts))
	for i, t := range texts {
		out[i] = line{Text: t, Color: color}
	}
	return out
}

func (c *canvas) rect(r pptx.Rect, fill pptx.RGB) *pptx.Shape {
	return c.slide.AddShape(r, fill)
}

func (c *canvas) background(fill pptx.RGB) {
	c.rect(pptx.Rect{W: c.w, H: c.h}, fill)
}

func (c *canvas) creamBackground() {
	c.background(Cream)
}

// title draws the Georgia slide title and, when subtitle is set, the italic
// line under it.
func (c *canvas) title(title, subtitle string) {
	tf := c.slide.AddTextBox(pptx.In(0.60, 0.25, 8.5, 0.5)).TextFrame()
	tf.SetWordWrap(true)
	tf.SetMargins(0, 0, 0, 0)
	tf.First().AddRun(title, pptx.Font{Name: FontTitle, Size: 24, Bold: true, Color: &DeepTeal})

	if subtitle == "" {
		return
	}
	tf = c.slide.AddTextBox(pptx.In(0.60, 0.72, 8.5, 0.3)).TextFrame()
	tf.SetMargins(0, 0, 0, 0)
	tf.First().AddRun(subtitle, pptx.Font{Name: FontBody, Size: 12, Italic: true, Color: &SubtitleGray})
}

// text draws a wrapped single-run text box.
func (c *canvas) text(r pptx.Rect, text string, st style) *pptx.TextFrame {
	tf := c.slide.AddTextBox(r).TextFrame()
	tf.SetWordWrap(true)
	tf.SetMargins(insetX, insetY, insetX, insetY)
	p := tf.First()
	p.AddRun(text, st.font())
	if st.Align != "" {
		p.SetAlign(st.Align)
	} else {
		p.SetAlign(pptx.AlignLeft)
	}
	return tf
}

// multiline draws one paragraph per line, each with its own colour and weight.
func (c *canvas) multiline(r pptx.Rect, lines []line, size, spacing float64) *pptx.TextFrame {
	tf := c.slide.AddTextBox(r).TextFrame()
	tf.SetWordWrap(true)
	tf.SetMargins(insetX, insetY, insetX, insetY)
	for i, l := range lines {
		p := tf.First()
		if i > 0 {
			p = tf.AddParagraph()
		}
		if spacing > 0 {
			p.SetSpaceAfter(spacing)
		}
		color := l.Color
		p.AddRun(l.Text, pptx.Font{Name: FontBody, Size: size, Bold: l.Bold, Color: &color})
	}
	return tf
}

// card draws a white panel with a thin accent bar along its top edge.
func (c *canvas) card(r pptx.Rect, accent pptx.RGB) {
	c.rect(r, White)
	c.rect(pptx.Rect{X: r.X, Y: r.Y, W: r.W, H: pptx.Inches(0.05)}, accent)
}

// badge draws a 0.4" numbered square.
func (c *canvas) badge(x, y pptx.EMU, number int, fill pptx.RGB) {
	sh := c.rect(pptx.Rect{X: x, Y: y, W: pptx.Inches(0.40), H: pptx.Inches(0.40)}, fill)
	tf := sh.TextFrame()
	tf.SetAnchor(pptx.AnchorMiddle)
	tf.SetMargins(0, 0, 0, 0)
	p := tf.First()
	p.AddRun(fmt.Sprint(number), pptx.Font{Name: FontBody, Size: 14, Bold: true, Color: &White})
	p.SetAlign(pptx.AlignCenter)
}

// insight draws a full-width callout bar whose top edge is at top.
func (c *canvas) insight(top pptx.EMU, text string, bg, fg pptx.RGB) {
	c.rect(pptx.Rect{X: pptx.Inches(0.40), Y: top, W: pptx.Inches(9.20), H: pptx.Inches(0.55)}, bg)
	c.text(pptx.Rect{X: pptx.Inches(0.55), Y: top, W: pptx.Inches(9.00), H: pptx.Inches(0.55)},
		text, style{Size: 12, Bold: true, Color: fg})
}

// table draws data with a teal header row and zebra striping on even rows.
func (c *canvas) table(r pptx.Rect, data [][]string) {
	if len(data) == 0 {
		c.fail(errors.New("table without rows"))
		return
	}
	tbl, err := c.slide.AddTable(len(data), len(data[0]), r)
	if err != nil {
		c.fail(err)
		return
	}
	for ri, row := range data {
		for ci, val := range row {
			cell, err := tbl.Cell(ri, ci)
			if err != nil {
				c.fail(err)
				return
			}
			f := pptx.Font{Name: FontBody, Size: 10, Color: &NearBlack}
			if ri == 0 {
				f.Bold = true
				f.Color = &White
			}
			cell.SetText(val, f, pptx.AlignCenter)
			switch {
			case ri == 0:
				cell.SetFill(DeepTeal)
			case ri%2 == 0:
				cell.SetFill(ZebraGray)
			}
		}
	}
}

// picture embeds images/name when the file exists. A missing image is
// not an error.
func (c *canvas) picture(name string, left, top, width pptx.EMU) bool {
	path := filepath.Join(c.images, name)
	if _, err := os.Stat(path); err != nil {
		slog.Debug("image not found, skipping", "path", path)
		return false
	}
	if _, err := c.slide.AddPicture(path, left, top, width); err != nil {
		c.fail(fmt.Errorf("embedding %s: %w", name, err))
		return false
	}
	return true
}
