// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const blankSlideXML = xmlDeclaration + `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`

// Slide is one slide part of a presentation.
type Slide struct {
	pres *Presentation
	part string
	doc  *etree.Document
}

// Part returns the slide's part name, e.g. "ppt/slides/slide3.xml".
func (s *Slide) Part() string {
	return s.part
}

func (s *Slide) spTree() (*etree.Element, error) {
	tree := s.doc.Root().FindElement("p:cSld/p:spTree")
	if tree == nil {
		return nil, fmt.Errorf("%s has no shape tree", s.part)
	}
	return tree, nil
}

// mustSpTree is spTree for slides created by AddSlide, which always have one.
func (s *Slide) mustSpTree() *etree.Element {
	tree, err := s.spTree()
	if err != nil {
		panic(err)
	}
	return tree
}

// nextShapeID returns one more than the largest shape id on the slide.
func (s *Slide) nextShapeID() int {
	highest := 0
	for _, el := range s.doc.Root().FindElements(".//p:cNvPr") {
		if id, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && id > highest {
			highest = id
		}
	}
	return highest + 1
}

// Shape is a drawing element on a slide.
type Shape struct {
	el *etree.Element
}

// ID returns the shape id.
func (sh *Shape) ID() int {
	id, _ := strconv.Atoi(sh.el.FindElement(".//p:cNvPr").SelectAttrValue("id", "0"))
	return id
}

// Name returns the shape name.
func (sh *Shape) Name() string {
	return sh.el.FindElement(".//p:cNvPr").SelectAttrValue("name", "")
}

// TextFrame returns the shape's text body, creating an empty one when the
// shape has none.
func (sh *Shape) TextFrame() *TextFrame {
	body := sh.el.SelectElement("p:txBody")
	if body == nil {
		body = newTxBody("p:txBody")
		sh.el.AddChild(body)
	}
	return &TextFrame{body: body}
}

// AddShape adds a rectangle with a solid fill and no outline. Text added
// through its TextFrame is centred.
func (s *Slide) AddShape(r Rect, fill RGB) *Shape {
	id := s.nextShapeID()
	sp := s.mustSpTree().CreateElement("p:sp")

	nv := sp.CreateElement("p:nvSpPr")
	setAttrs(nv.CreateElement("p:cNvPr"), "id", strconv.Itoa(id), "name", fmt.Sprintf("Rectangle %d", id-1))
	nv.CreateElement("p:cNvSpPr")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	setXfrm(spPr.CreateElement("a:xfrm"), r)
	setAttrs(spPr.CreateElement("a:prstGeom"), "prst", "rect").CreateElement("a:avLst")
	setSolidFill(spPr, fill, fillSuccessors...)
	spPr.CreateElement("a:ln").CreateElement("a:noFill")

	body := newTxBody("p:txBody")
	setAttrs(body.SelectElement("a:bodyPr"), "rtlCol", "0", "anchor", "ctr")
	setAttrs(body.SelectElement("a:p").CreateElement("a:pPr"), "algn", "ctr")
	sp.AddChild(body)

	return &Shape{el: sp}
}

// AddTextBox adds a transparent text box. Word wrap is off until set.
func (s *Slide) AddTextBox(r Rect) *Shape {
	id := s.nextShapeID()
	sp := s.mustSpTree().CreateElement("p:sp")

	nv := sp.CreateElement("p:nvSpPr")
	setAttrs(nv.CreateElement("p:cNvPr"), "id", strconv.Itoa(id), "name", fmt.Sprintf("TextBox %d", id-1))
	setAttrs(nv.CreateElement("p:cNvSpPr"), "txBox", "1")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	setXfrm(spPr.CreateElement("a:xfrm"), r)
	setAttrs(spPr.CreateElement("a:prstGeom"), "prst", "rect").CreateElement("a:avLst")
	spPr.CreateElement("a:noFill")

	body := newTxBody("p:txBody")
	bodyPr := setAttrs(body.SelectElement("a:bodyPr"), "wrap", "none", "rtlCol", "0")
	bodyPr.CreateElement("a:spAutoFit")
	sp.AddChild(body)

	return &Shape{el: sp}
}

// Shapes returns the top-level drawing elements of the slide.
func (s *Slide) Shapes() []*Shape {
	tree, err := s.spTree()
	if err != nil {
		return nil
	}
	var out []*Shape
	for _, el := range tree.ChildElements() {
		if el.Tag == "nvGrpSpPr" || el.Tag == "grpSpPr" || el.Tag == "extLst" {
			continue
		}
		out = append(out, &Shape{el: el})
	}
	return out
}

// Texts returns the text of every paragraph on the slide, shapes and
// table cells included, in document order. Empty paragraphs are skipped.
func (s *Slide) Texts() []string {
	var out []string
	for _, p := range s.doc.Root().FindElements(".//a:p") {
		if t := paragraphText(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Text returns Texts joined by newlines.
func (s *Slide) Text() string {
	return strings.Join(s.Texts(), "\n")
}

func setXfrm(xfrm *etree.Element, r Rect) {
	setAttrs(xfrm.CreateElement("a:off"), "x", r.X.attr(), "y", r.Y.attr())
	setAttrs(xfrm.CreateElement("a:ext"), "cx", r.W.attr(), "cy", r.H.attr())
}

// fillSuccessors lists the shape property children that follow the fill.
var fillSuccessors = []string{"a:ln", "a:effectLst", "a:effectDag", "a:scene3d", "a:sp3d", "a:extLst"}

// setSolidFill replaces any fill on props with a solid colour, inserted
// ahead of the first element named in before.
func setSolidFill(props *etree.Element, c RGB, before ...string) {
	for _, tag := range []string{"a:noFill", "a:solidFill", "a:gradFill", "a:blipFill", "a:pattFill", "a:grpFill"} {
		if old := props.SelectElement(tag); old != nil {
			props.RemoveChild(old)
		}
	}
	fill := etree.NewElement("a:solidFill")
	setAttrs(fill.CreateElement("a:srgbClr"), "val", c.String())
	insertBefore(props, fill, before...)
}

// setAttrs sets key/value attribute pairs on el and returns it.
func setAttrs(el *etree.Element, kv ...string) *etree.Element {
	for i := 0; i+1 < len(kv); i += 2 {
		el.CreateAttr(kv[i], kv[i+1])
	}
	return el
}
