// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/beevik/etree"
)

const (
	officeRelNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	mcNamespace        = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// relAttrs are the relationship-reference attributes rewritten in copied
// shapes.
var relAttrs = map[string]bool{
	"embed": true, "link": true, "id": true,
	"pict": true, "dm": true, "lo": true, "qs": true, "cs": true,
}

// structuralRel reports relationship types that tie a slide to its host
// presentation rather than to its content. They are never carried over.
// Besides layout, notes and theme this covers masters and slide-to-slide
// links: the copy is rebound to the destination's own master, and a
// slide target in the source deck would import that whole slide as a
// dangling part.
func structuralRel(relType string) bool {
	for _, suffix := range []string{"/slideLayout", "/notesSlide", "/theme", "/slideMaster", "/notesMaster", "/slide"} {
		if strings.HasSuffix(relType, suffix) {
			return true
		}
	}
	return false
}

// CopySlide appends a copy of src, which may belong to another
// presentation, on the blank layout. Images, charts and other related
// parts are imported once per source presentation. Speaker notes text is
// copied when present; a failure there does not fail the copy.
func (p *Presentation) CopySlide(src *Slide) (*Slide, error) {
	srcTree, err := src.spTree()
	if err != nil {
		return nil, err
	}

	dst, err := p.AddSlide()
	if err != nil {
		return nil, err
	}

	ridMap, err := p.copyRels(src, dst)
	if err != nil {
		return nil, fmt.Errorf("copying relationships of %s: %w", src.part, err)
	}

	dstTree := dst.mustSpTree()
	for _, child := range dstTree.ChildElements() {
		if !isTreeWrapper(child) {
			dstTree.RemoveChild(child)
		}
	}

	prefixes := relPrefixes(src.doc.Root())
	for _, child := range srcTree.ChildElements() {
		if isTreeWrapper(child) {
			continue
		}
		cp := child.Copy()
		remapRelIDs(cp, prefixes, ridMap)
		dstTree.AddChild(cp)
	}
	mergeNamespaces(dst.doc.Root(), src.doc.Root())

	if src.HasNotes() {
		if err := copyNotes(src, dst); err != nil {
			slog.Debug("speaker notes not copied", "slide", src.part, "error", err)
		}
	}

	return dst, nil
}

func copyNotes(src, dst *Slide) error {
	text, err := src.Notes()
	if err != nil {
		return err
	}
	return dst.SetNotes(text)
}

func isTreeWrapper(el *etree.Element) bool {
	return el.Tag == "nvGrpSpPr" || el.Tag == "grpSpPr"
}

// copyRels relates dst to everything src refers to, except the structural
// relationships, and returns the old-to-new id mapping.
func (p *Presentation) copyRels(src, dst *Slide) (map[string]string, error) {
	srcPkg := src.pres.pkg
	dstRels := p.pkg.Rels(dst.part)

	ridMap := make(map[string]string)
	for _, rel := range srcPkg.Rels(src.part).Items {
		if structuralRel(rel.Type) {
			continue
		}
		if rel.External() {
			ridMap[rel.ID] = dstRels.Add(rel.Type, rel.Target, true)
			continue
		}
		part, err := p.importPart(srcPkg, resolveTarget(src.part, rel.Target))
		if err != nil {
			return nil, err
		}
		ridMap[rel.ID] = dst.relate(rel.Type, part)
	}
	return ridMap, nil
}

// importPart copies a part and everything it relates to from srcPkg, once
// per source package, and returns its name in this presentation.
func (p *Presentation) importPart(srcPkg *Package, name string) (string, error) {
	done := p.imported[srcPkg]
	if done == nil {
		done = make(map[string]string)
		p.imported[srcPkg] = done
	}
	if dest, ok := done[name]; ok {
		return dest, nil
	}

	data, err := srcPkg.Part(name)
	if err != nil {
		return "", err
	}
	ct := srcPkg.ContentType(name)

	if strings.HasPrefix(ct, "image/") {
		sum := sha256.Sum256(data)
		key := hex.EncodeToString(sum[:])
		if existing, ok := p.media[key]; ok {
			done[name] = existing
			return existing, nil
		}
		dest := p.freePartName(name)
		p.pkg.SetPart(dest, data, ct)
		if p.media == nil {
			p.media = make(map[string]string)
		}
		p.media[key] = dest
		done[name] = dest
		return dest, nil
	}

	dest := p.freePartName(name)
	p.pkg.SetPart(dest, data, ct)
	done[name] = dest

	// Relationship ids are kept so the copied part's XML stays valid as is.
	destRels := p.pkg.Rels(dest)
	for _, rel := range srcPkg.Rels(name).Items {
		if rel.External() {
			destRels.Items = append(destRels.Items, rel)
			continue
		}
		if structuralRel(rel.Type) {
			continue
		}
		target, err := p.importPart(srcPkg, resolveTarget(name, rel.Target))
		if err != nil {
			return "", err
		}
		destRels.Items = append(destRels.Items, Relationship{
			ID:     rel.ID,
			Type:   rel.Type,
			Target: relativeTarget(dest, target),
		})
	}
	return dest, nil
}

// freePartName returns name when it is unused here, otherwise the first
// free name with the same stem and extension: "ppt/media/image1.png"
// becomes "ppt/media/image2.png".
func (p *Presentation) freePartName(name string) string {
	if !p.pkg.Has(name) {
		return name
	}
	dir, file := path.Split(name)
	ext := path.Ext(file)
	stem := strings.TrimRight(strings.TrimSuffix(file, ext), "0123456789")
	return p.pkg.NextPartName(dir + strings.ReplaceAll(stem, "%", "%%") + "%d" + ext)
}

// relPrefixes returns the prefixes bound to the relationships namespace on
// root. "r" is always included.
func relPrefixes(root *etree.Element) map[string]bool {
	prefixes := map[string]bool{"r": true}
	for _, a := range root.Attr {
		if a.Space == "xmlns" && a.Value == officeRelNamespace {
			prefixes[a.Key] = true
		}
	}
	return prefixes
}

// remapRelIDs rewrites every relationship reference in the subtree through
// ridMap in a single pass. References with no mapping are cleared: the ids
// were minted by the source slide's .rels, so left as they are they would
// resolve to whatever unrelated part holds that id in the destination.
func remapRelIDs(el *etree.Element, prefixes map[string]bool, ridMap map[string]string) {
	for i, a := range el.Attr {
		if !prefixes[a.Space] || !relAttrs[a.Key] || a.Value == "" {
			continue
		}
		el.Attr[i].Value = ridMap[a.Value]
	}
	for _, child := range el.ChildElements() {
		remapRelIDs(child, prefixes, ridMap)
	}
}

// mergeNamespaces declares on dst every namespace prefix src declares that
// dst lacks, and extends dst's mc:Ignorable with src's ignorable prefixes.
func mergeNamespaces(dst, src *etree.Element) {
	declared := make(map[string]bool)
	for _, a := range dst.Attr {
		if a.Space == "xmlns" {
			declared[a.Key] = true
		}
	}
	for _, a := range src.Attr {
		if a.Space == "xmlns" && !declared[a.Key] {
			dst.CreateAttr("xmlns:"+a.Key, a.Value)
			declared[a.Key] = true
		}
	}

	mcPrefix := ""
	for _, a := range src.Attr {
		if a.Space == "xmlns" && a.Value == mcNamespace {
			mcPrefix = a.Key
		}
	}
	if mcPrefix == "" {
		return
	}
	srcIgnorable := src.SelectAttrValue(mcPrefix+":Ignorable", "")
	if srcIgnorable == "" {
		return
	}

	key := mcPrefix + ":Ignorable"
	have := strings.Fields(dst.SelectAttrValue(key, ""))
	seen := make(map[string]bool, len(have))
	for _, h := range have {
		seen[h] = true
	}
	for _, ns := range strings.Fields(srcIgnorable) {
		if !seen[ns] {
			have = append(have, ns)
			seen[ns] = true
		}
	}
	dst.CreateAttr(key, strings.Join(have, " "))
}
