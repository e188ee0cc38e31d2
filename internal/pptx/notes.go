// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"fmt"

	"github.com/beevik/etree"
)

const notesSlideXML = xmlDeclaration + `<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image Placeholder 1"/>` +
	`<p:cNvSpPr><a:spLocks noGrp="1" noRot="1" noChangeAspect="1"/></p:cNvSpPr><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="1143000" y="685800"/><a:ext cx="4572000" cy="3429000"/></a:xfrm></p:spPr></p:sp>` +
	`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Notes Placeholder 2"/>` +
	`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr>` +
	`<p:spPr><a:xfrm><a:off x="685800" y="4343400"/><a:ext cx="5486400" cy="4114800"/></a:xfrm></p:spPr>` +
	`<p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody></p:sp>` +
	`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`

// HasNotes reports whether the slide has a notes slide.
func (s *Slide) HasNotes() bool {
	return len(s.pres.pkg.Rels(s.part).ByType(RelNotesSlide)) > 0
}

// Notes returns the speaker notes text, or "" when the slide has none.
func (s *Slide) Notes() (string, error) {
	notes := s.pres.pkg.Rels(s.part).ByType(RelNotesSlide)
	if len(notes) == 0 {
		return "", nil
	}
	doc, err := s.pres.pkg.XML(resolveTarget(s.part, notes[0].Target))
	if err != nil {
		return "", err
	}
	body := notesBody(doc)
	if body == nil {
		return "", nil
	}
	return (&TextFrame{body: body}).Text(), nil
}

// SetNotes replaces the speaker notes text, creating the notes slide and
// the presentation's notes master when needed.
func (s *Slide) SetNotes(text string) error {
	doc, err := s.notesSlide()
	if err != nil {
		return err
	}
	body := notesBody(doc)
	if body == nil {
		return fmt.Errorf("notes slide of %s has no body placeholder", s.part)
	}
	(&TextFrame{body: body}).SetText(text)
	return nil
}

func (s *Slide) notesSlide() (*etree.Document, error) {
	pkg := s.pres.pkg
	if notes := pkg.Rels(s.part).ByType(RelNotesSlide); len(notes) > 0 {
		return pkg.XML(resolveTarget(s.part, notes[0].Target))
	}

	master, err := s.pres.notesMaster()
	if err != nil {
		return nil, err
	}

	part := pkg.NextPartName("ppt/notesSlides/notesSlide%d.xml")
	doc := etree.NewDocument()
	if err := doc.ReadFromString(notesSlideXML); err != nil {
		return nil, fmt.Errorf("building notes slide: %w", err)
	}
	pkg.SetXML(part, doc, CTNotesSlide)
	pkg.Rels(part).Add(RelNotesMaster, relativeTarget(part, master), false)
	pkg.Rels(part).Add(RelSlide, relativeTarget(part, s.part), false)
	pkg.Rels(s.part).Add(RelNotesSlide, relativeTarget(s.part, part), false)
	return doc, nil
}

// notesBody finds the txBody of the body placeholder on a notes slide.
func notesBody(doc *etree.Document) *etree.Element {
	for _, sp := range doc.Root().FindElements("p:cSld/p:spTree/p:sp") {
		ph := sp.FindElement("p:nvSpPr/p:nvPr/p:ph")
		if ph == nil || ph.SelectAttrValue("type", "") != "body" {
			continue
		}
		body := sp.SelectElement("p:txBody")
		if body == nil {
			body = newTxBody("p:txBody")
			sp.AddChild(body)
		}
		return body
	}
	return nil
}
