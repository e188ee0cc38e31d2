// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Align is a paragraph alignment.
type Align string

const (
	AlignLeft    Align = "l"
	AlignCenter  Align = "ctr"
	AlignRight   Align = "r"
	AlignJustify Align = "just"
)

// Anchor is the vertical placement of text inside its frame.
type Anchor string

const (
	AnchorTop    Anchor = "t"
	AnchorMiddle Anchor = "ctr"
	AnchorBottom Anchor = "b"
)

// Font describes run formatting. Zero fields inherit from the master.
type Font struct {
	Name   string
	Size   float64 // points
	Bold   bool
	Italic bool
	Color  *RGB
}

// pPr child order from the DrawingML schema, limited to what we write.
var pPrOrder = []string{"a:lnSpc", "a:spcBef", "a:spcAft"}

// TextFrame is a text body: shape text, table cell text or notes text.
type TextFrame struct {
	body *etree.Element
}

func newTxBody(tag string) *etree.Element {
	body := etree.NewElement(tag)
	body.CreateElement("a:bodyPr")
	body.CreateElement("a:lstStyle")
	body.CreateElement("a:p")
	return body
}

func (tf *TextFrame) bodyPr() *etree.Element {
	pr := tf.body.SelectElement("a:bodyPr")
	if pr == nil {
		pr = etree.NewElement("a:bodyPr")
		tf.body.InsertChildAt(0, pr)
	}
	return pr
}

// SetWordWrap turns line wrapping at the frame edge on or off.
func (tf *TextFrame) SetWordWrap(wrap bool) {
	if wrap {
		tf.bodyPr().CreateAttr("wrap", "square")
		return
	}
	tf.bodyPr().CreateAttr("wrap", "none")
}

// SetMargins sets the internal left, top, right and bottom insets.
func (tf *TextFrame) SetMargins(left, top, right, bottom EMU) {
	setAttrs(tf.bodyPr(), "lIns", left.attr(), "tIns", top.attr(), "rIns", right.attr(), "bIns", bottom.attr())
}

// SetAnchor sets the vertical anchor.
func (tf *TextFrame) SetAnchor(a Anchor) {
	tf.bodyPr().CreateAttr("anchor", string(a))
}

// Paragraphs returns the paragraphs of the frame. A frame always has at
// least one.
func (tf *TextFrame) Paragraphs() []*Paragraph {
	els := tf.body.SelectElements("a:p")
	if len(els) == 0 {
		els = append(els, tf.body.CreateElement("a:p"))
	}
	out := make([]*Paragraph, len(els))
	for i, el := range els {
		out[i] = &Paragraph{el: el}
	}
	return out
}

// First returns the first paragraph.
func (tf *TextFrame) First() *Paragraph {
	return tf.Paragraphs()[0]
}

// AddParagraph appends an empty paragraph.
func (tf *TextFrame) AddParagraph() *Paragraph {
	return &Paragraph{el: tf.body.CreateElement("a:p")}
}

// Text returns the paragraphs' text joined by newlines.
func (tf *TextFrame) Text() string {
	var lines []string
	for _, p := range tf.body.SelectElements("a:p") {
		lines = append(lines, paragraphText(p))
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the frame content with one unformatted paragraph per line.
func (tf *TextFrame) SetText(text string) {
	for _, p := range tf.body.SelectElements("a:p") {
		tf.body.RemoveChild(p)
	}
	for _, line := range strings.Split(text, "\n") {
		p := tf.AddParagraph()
		if line != "" {
			p.el.CreateElement("a:r").CreateElement("a:t").SetText(line)
		}
	}
}

// Paragraph is one a:p element.
type Paragraph struct {
	el *etree.Element
}

func (p *Paragraph) pPr() *etree.Element {
	pr := p.el.SelectElement("a:pPr")
	if pr == nil {
		pr = etree.NewElement("a:pPr")
		p.el.InsertChildAt(0, pr)
	}
	return pr
}

// SetAlign sets the horizontal alignment.
func (p *Paragraph) SetAlign(a Align) {
	p.pPr().CreateAttr("algn", string(a))
}

// SetSpaceAfter sets the spacing after the paragraph, in points.
func (p *Paragraph) SetSpaceAfter(pt float64) {
	p.setSpacing("a:spcAft", pt)
}

// SetSpaceBefore sets the spacing before the paragraph, in points.
func (p *Paragraph) SetSpaceBefore(pt float64) {
	p.setSpacing("a:spcBef", pt)
}

func (p *Paragraph) setSpacing(tag string, pt float64) {
	spc := orderedChild(p.pPr(), tag, pPrOrder)
	for _, c := range spc.ChildElements() {
		spc.RemoveChild(c)
	}
	setAttrs(spc.CreateElement("a:spcPts"), "val", strconv.Itoa(int(math.Round(pt*100))))
}

// AddRun appends text with the given formatting. Newlines in text become
// line breaks that keep the same formatting.
func (p *Paragraph) AddRun(text string, f Font) {
	end := p.el.SelectElement("a:endParaRPr")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			br := etree.NewElement("a:br")
			br.AddChild(runProps(f))
			insertRunChild(p.el, br, end)
		}
		r := etree.NewElement("a:r")
		r.AddChild(runProps(f))
		r.CreateElement("a:t").SetText(line)
		insertRunChild(p.el, r, end)
	}
}

// Text returns the paragraph text, line breaks as newlines.
func (p *Paragraph) Text() string {
	return paragraphText(p.el)
}

func insertRunChild(p, child, end *etree.Element) {
	if end != nil {
		p.InsertChildAt(end.Index(), child)
		return
	}
	p.AddChild(child)
}

func runProps(f Font) *etree.Element {
	rPr := etree.NewElement("a:rPr")
	rPr.CreateAttr("lang", "fr-FR")
	if f.Size > 0 {
		rPr.CreateAttr("sz", strconv.Itoa(int(math.Round(f.Size*100))))
	}
	if f.Bold {
		rPr.CreateAttr("b", "1")
	}
	if f.Italic {
		rPr.CreateAttr("i", "1")
	}
	rPr.CreateAttr("dirty", "0")
	if f.Color != nil {
		setAttrs(rPr.CreateElement("a:solidFill").CreateElement("a:srgbClr"), "val", f.Color.String())
	}
	if f.Name != "" {
		setAttrs(rPr.CreateElement("a:latin"), "typeface", f.Name)
		setAttrs(rPr.CreateElement("a:cs"), "typeface", f.Name)
	}
	return rPr
}

func paragraphText(p *etree.Element) string {
	var b strings.Builder
	for _, c := range p.ChildElements() {
		switch c.Tag {
		case "r", "fld":
			if t := c.SelectElement("a:t"); t != nil {
				b.WriteString(t.Text())
			}
		case "br":
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// orderedChild returns the child of parent with the given tag, creating it
// at the position order prescribes among the siblings already present.
func orderedChild(parent *etree.Element, tag string, order []string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	el := etree.NewElement(tag)
	pos := -1
	for i, t := range order {
		if t == tag {
			pos = i
		}
	}
	insertBefore(parent, el, order[pos+1:]...)
	return el
}
