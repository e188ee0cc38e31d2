// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pptx reads, builds and writes PresentationML slide decks: a
// minimal blank template, slides with rectangles, text boxes, tables and
// pictures, speaker notes, and copying slides between presentations.
package pptx

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/beevik/etree"
)

//go:embed template/*
var templateFS embed.FS

// templateParts maps package part names to embedded template files.
var templateParts = map[string]string{
	contentTypesPart:                               "content_types.xml",
	"_rels/.rels":                                  "root.rels",
	"ppt/presentation.xml":                         "presentation.xml",
	"ppt/_rels/presentation.xml.rels":              "presentation.xml.rels",
	"ppt/slideMasters/slideMaster1.xml":            "slideMaster1.xml",
	"ppt/slideMasters/_rels/slideMaster1.xml.rels": "slideMaster1.xml.rels",
	"ppt/slideLayouts/slideLayout1.xml":            "slideLayout1.xml",
	"ppt/slideLayouts/_rels/slideLayout1.xml.rels": "slideLayout1.xml.rels",
	"ppt/notesMasters/notesMaster1.xml":            "notesMaster1.xml",
	"ppt/notesMasters/_rels/notesMaster1.xml.rels": "notesMaster1.xml.rels",
	"ppt/theme/theme1.xml":                         "theme.xml",
	"ppt/theme/theme2.xml":                         "theme.xml",
	"ppt/presProps.xml":                            "presProps.xml",
	"ppt/viewProps.xml":                            "viewProps.xml",
	"ppt/tableStyles.xml":                          "tableStyles.xml",
	"docProps/core.xml":                            "core.xml",
	"docProps/app.xml":                             "app.xml",
}

// firstSlideID is the lowest id PowerPoint accepts in p:sldIdLst.
const firstSlideID = 256

// Presentation is an open slide deck.
type Presentation struct {
	pkg  *Package
	part string
	doc  *etree.Document

	// imported maps, per source package, source part names to the part
	// names they were copied to in this presentation.
	imported map[*Package]map[string]string

	// media maps image content hashes to their part names.
	media map[string]string
}

// New returns a blank presentation with a single blank layout.
func New() (*Presentation, error) {
	pkg := newPackage()
	for name, file := range templateParts {
		data, err := templateFS.ReadFile(path.Join("template", file))
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", file, err)
		}
		if err := pkg.load(name, data); err != nil {
			return nil, err
		}
	}
	return newPresentation(pkg)
}

// Open reads a .pptx file.
func Open(filename string) (*Presentation, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	p, err := OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	return p, nil
}

// OpenReader reads a presentation from a zip container.
func OpenReader(r io.ReaderAt, size int64) (*Presentation, error) {
	pkg, err := openPackage(r, size)
	if err != nil {
		return nil, err
	}
	return newPresentation(pkg)
}

func newPresentation(pkg *Package) (*Presentation, error) {
	docs := pkg.Rels("").ByType(RelOfficeDocument)
	if len(docs) == 0 {
		return nil, fmt.Errorf("package has no main document relationship")
	}
	part := resolveTarget("", docs[0].Target)

	doc, err := pkg.XML(part)
	if err != nil {
		return nil, err
	}
	if doc.Root() == nil || doc.Root().Tag != "presentation" {
		return nil, fmt.Errorf("%s is not a presentation part", part)
	}

	return &Presentation{
		pkg:      pkg,
		part:     part,
		doc:      doc,
		imported: make(map[*Package]map[string]string),
	}, nil
}

// Package exposes the underlying part container.
func (p *Presentation) Package() *Package {
	return p.pkg
}

// Save writes the presentation to filename.
func (p *Presentation) Save(filename string) error {
	return p.pkg.Save(filename)
}

// Write serialises the presentation as a zip container.
func (p *Presentation) Write(w io.Writer) error {
	return p.pkg.Write(w)
}

// SlideSize returns the slide width and height.
func (p *Presentation) SlideSize() (EMU, EMU) {
	sz := p.doc.Root().SelectElement("p:sldSz")
	if sz == nil {
		return 0, 0
	}
	return attrEMU(sz, "cx"), attrEMU(sz, "cy")
}

// SetSlideSize changes the slide width and height.
func (p *Presentation) SetSlideSize(cx, cy EMU) {
	root := p.doc.Root()
	sz := root.SelectElement("p:sldSz")
	if sz == nil {
		sz = etree.NewElement("p:sldSz")
		insertBefore(root, sz, "p:notesSz", "p:smartTags", "p:embeddedFontLst", "p:custShowLst",
			"p:photoAlbum", "p:custDataLst", "p:kinsoku", "p:defaultTextStyle", "p:modifyVerifier", "p:extLst")
	}
	sz.CreateAttr("cx", cx.attr())
	sz.CreateAttr("cy", cy.attr())
	sz.RemoveAttr("type")
}

// SlideCount returns the number of slides.
func (p *Presentation) SlideCount() int {
	lst := p.doc.Root().SelectElement("p:sldIdLst")
	if lst == nil {
		return 0
	}
	return len(lst.SelectElements("p:sldId"))
}

// Slides returns the slides in presentation order.
func (p *Presentation) Slides() ([]*Slide, error) {
	lst := p.doc.Root().SelectElement("p:sldIdLst")
	if lst == nil {
		return nil, nil
	}
	rels := p.pkg.Rels(p.part)

	var slides []*Slide
	for _, id := range lst.SelectElements("p:sldId") {
		rid := id.SelectAttrValue("r:id", "")
		rel, ok := rels.ByID(rid)
		if !ok {
			return nil, fmt.Errorf("slide relationship %s not found", rid)
		}
		s, err := p.loadSlide(resolveTarget(p.part, rel.Target))
		if err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, nil
}

// Slide returns the slide at index i.
func (p *Presentation) Slide(i int) (*Slide, error) {
	slides, err := p.Slides()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", i, len(slides)-1)
	}
	return slides[i], nil
}

func (p *Presentation) loadSlide(part string) (*Slide, error) {
	doc, err := p.pkg.XML(part)
	if err != nil {
		return nil, err
	}
	return &Slide{pres: p, part: part, doc: doc}, nil
}

// AddSlide appends a slide that uses the blank layout.
func (p *Presentation) AddSlide() (*Slide, error) {
	layout, err := p.blankLayout()
	if err != nil {
		return nil, err
	}

	part := p.pkg.NextPartName("ppt/slides/slide%d.xml")
	doc := etree.NewDocument()
	if err := doc.ReadFromString(blankSlideXML); err != nil {
		return nil, fmt.Errorf("building slide: %w", err)
	}
	p.pkg.SetXML(part, doc, CTSlide)
	p.pkg.Rels(part).Add(RelSlideLayout, relativeTarget(part, layout), false)

	rid := p.pkg.Rels(p.part).Add(RelSlide, relativeTarget(p.part, part), false)
	lst := p.sldIdLst()
	sldID := lst.CreateElement("p:sldId")
	sldID.CreateAttr("id", strconv.Itoa(p.nextSlideID(lst)))
	sldID.CreateAttr("r:id", rid)

	return &Slide{pres: p, part: part, doc: doc}, nil
}

func (p *Presentation) sldIdLst() *etree.Element {
	root := p.doc.Root()
	if lst := root.SelectElement("p:sldIdLst"); lst != nil {
		return lst
	}
	lst := etree.NewElement("p:sldIdLst")
	insertBefore(root, lst, "p:sldSz", "p:notesSz")
	return lst
}

func (p *Presentation) nextSlideID(lst *etree.Element) int {
	next := firstSlideID
	for _, el := range lst.SelectElements("p:sldId") {
		if v, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && v >= next {
			next = v + 1
		}
	}
	return next
}

// blankLayout finds the layout new slides are based on: the one typed
// "blank", else the one named "Blank", else the seventh, else the last.
func (p *Presentation) blankLayout() (string, error) {
	masters := p.pkg.Rels(p.part).ByType(RelSlideMaster)
	if len(masters) == 0 {
		return "", fmt.Errorf("presentation has no slide master")
	}
	master := resolveTarget(p.part, masters[0].Target)

	var layouts []string
	for _, rel := range p.pkg.Rels(master).ByType(RelSlideLayout) {
		layouts = append(layouts, resolveTarget(master, rel.Target))
	}
	if len(layouts) == 0 {
		return "", fmt.Errorf("slide master %s has no layouts", master)
	}

	var named string
	for _, l := range layouts {
		doc, err := p.pkg.XML(l)
		if err != nil {
			return "", err
		}
		root := doc.Root()
		if root.SelectAttrValue("type", "") == "blank" {
			return l, nil
		}
		if cSld := root.SelectElement("p:cSld"); cSld != nil && cSld.SelectAttrValue("name", "") == "Blank" && named == "" {
			named = l
		}
	}
	if named != "" {
		return named, nil
	}
	if len(layouts) > 6 {
		return layouts[6], nil
	}
	return layouts[len(layouts)-1], nil
}

// notesMaster returns the notes master part, adding the template one when
// the presentation has none.
func (p *Presentation) notesMaster() (string, error) {
	rels := p.pkg.Rels(p.part)
	if nm := rels.ByType(RelNotesMaster); len(nm) > 0 {
		return resolveTarget(p.part, nm[0].Target), nil
	}

	part := p.pkg.NextPartName("ppt/notesMasters/notesMaster%d.xml")
	data, err := templateFS.ReadFile("template/notesMaster1.xml")
	if err != nil {
		return "", err
	}
	p.pkg.SetPart(part, data, CTNotesMaster)

	theme := p.pkg.NextPartName("ppt/theme/theme%d.xml")
	themeData, err := templateFS.ReadFile("template/theme.xml")
	if err != nil {
		return "", err
	}
	p.pkg.SetPart(theme, themeData, CTTheme)
	p.pkg.Rels(part).Add(RelTheme, relativeTarget(part, theme), false)

	rid := rels.Add(RelNotesMaster, relativeTarget(p.part, part), false)
	root := p.doc.Root()
	lst := root.SelectElement("p:notesMasterIdLst")
	if lst == nil {
		lst = etree.NewElement("p:notesMasterIdLst")
		insertBefore(root, lst, "p:handoutMasterIdLst", "p:sldIdLst", "p:sldSz", "p:notesSz")
	}
	lst.CreateElement("p:notesMasterId").CreateAttr("r:id", rid)
	return part, nil
}

// insertBefore inserts child into parent ahead of the first existing child
// whose tag is listed in before, or appends it.
func insertBefore(parent, child *etree.Element, before ...string) {
	for _, tag := range before {
		if sib := parent.SelectElement(tag); sib != nil {
			parent.InsertChildAt(sib.Index(), child)
			return
		}
	}
	parent.AddChild(child)
}

func attrEMU(el *etree.Element, key string) EMU {
	v, _ := strconv.ParseInt(el.SelectAttrValue(key, "0"), 10, 64)
	return EMU(v)
}
