// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

const (
	tableURI = "http://schemas.openxmlformats.org/drawingml/2006/table"

	// mediumStyle2Accent1 is the built-in table style new tables get.
	mediumStyle2Accent1 = "{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"
)

// Table is a DrawingML table inside a graphic frame.
type Table struct {
	frame *etree.Element
	tbl   *etree.Element
}

// AddTable adds a rows × cols table filling r. Columns share the width and
// rows share the height evenly.
func (s *Slide) AddTable(rows, cols int, r Rect) (*Table, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("table needs at least one row and one column, got %dx%d", rows, cols)
	}

	id := s.nextShapeID()
	gf := s.mustSpTree().CreateElement("p:graphicFrame")

	nv := gf.CreateElement("p:nvGraphicFramePr")
	setAttrs(nv.CreateElement("p:cNvPr"), "id", strconv.Itoa(id), "name", fmt.Sprintf("Table %d", id-1))
	setAttrs(nv.CreateElement("p:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks"), "noGrp", "1")
	nv.CreateElement("p:nvPr")

	setXfrm(gf.CreateElement("p:xfrm"), r)

	data := setAttrs(gf.CreateElement("a:graphic").CreateElement("a:graphicData"), "uri", tableURI)
	tbl := data.CreateElement("a:tbl")
	tblPr := setAttrs(tbl.CreateElement("a:tblPr"), "firstRow", "1", "bandRow", "1")
	tblPr.CreateElement("a:tableStyleId").SetText(mediumStyle2Accent1)

	grid := tbl.CreateElement("a:tblGrid")
	for c := 0; c < cols; c++ {
		setAttrs(grid.CreateElement("a:gridCol"), "w", share(r.W, cols, c).attr())
	}
	for row := 0; row < rows; row++ {
		tr := setAttrs(tbl.CreateElement("a:tr"), "h", share(r.H, rows, row).attr())
		for c := 0; c < cols; c++ {
			tc := tr.CreateElement("a:tc")
			tc.AddChild(newTxBody("a:txBody"))
			tc.CreateElement("a:tcPr")
		}
	}

	return &Table{frame: gf, tbl: tbl}, nil
}

// share splits total into n integer parts, the last absorbing the remainder.
func share(total EMU, n, i int) EMU {
	part := total / EMU(n)
	if i == n-1 {
		return total - part*EMU(n-1)
	}
	return part
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return len(t.tbl.SelectElements("a:tr"))
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	return len(t.tbl.FindElements("a:tblGrid/a:gridCol"))
}

// Cell returns the cell at row r, column c.
func (t *Table) Cell(r, c int) (*Cell, error) {
	rows := t.tbl.SelectElements("a:tr")
	if r < 0 || r >= len(rows) {
		return nil, fmt.Errorf("row %d out of range", r)
	}
	cells := rows[r].SelectElements("a:tc")
	if c < 0 || c >= len(cells) {
		return nil, fmt.Errorf("column %d out of range", c)
	}
	return &Cell{el: cells[c]}, nil
}

// SetColumnWidth changes one column's width and grows or shrinks the frame
// to the new total.
func (t *Table) SetColumnWidth(c int, w EMU) error {
	cols := t.tbl.FindElements("a:tblGrid/a:gridCol")
	if c < 0 || c >= len(cols) {
		return fmt.Errorf("column %d out of range", c)
	}
	cols[c].CreateAttr("w", w.attr())

	var total EMU
	for _, col := range cols {
		total += attrEMU(col, "w")
	}
	if ext := t.frame.FindElement("p:xfrm/a:ext"); ext != nil {
		ext.CreateAttr("cx", total.attr())
	}
	return nil
}

// Cell is one table cell.
type Cell struct {
	el *etree.Element
}

// TextFrame returns the cell text body.
func (c *Cell) TextFrame() *TextFrame {
	body := c.el.SelectElement("a:txBody")
	if body == nil {
		body = newTxBody("a:txBody")
		c.el.InsertChildAt(0, body)
	}
	return &TextFrame{body: body}
}

// SetText replaces the cell content with a single formatted run.
func (c *Cell) SetText(text string, f Font, align Align) {
	tf := c.TextFrame()
	tf.SetText("")
	p := tf.First()
	p.SetAlign(align)
	if text != "" {
		p.AddRun(text, f)
	}
}

// SetFill gives the cell a solid background.
func (c *Cell) SetFill(color RGB) {
	tcPr := c.el.SelectElement("a:tcPr")
	if tcPr == nil {
		tcPr = c.el.CreateElement("a:tcPr")
	}
	setSolidFill(tcPr, color, "a:headers", "a:extLst")
}
