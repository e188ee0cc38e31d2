// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// AddPicture places the image at filename with its top-left corner at
// (left, top). The height follows from width and the image aspect ratio.
func (s *Slide) AddPicture(filename string, left, top, width EMU) (*Shape, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	if cfg.Width == 0 {
		return nil, fmt.Errorf("%s has zero width", filename)
	}
	height := EMU(int64(width) * int64(cfg.Height) / int64(cfg.Width))

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	ct, ok := imageContentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q", ext)
	}

	media := s.pres.addMedia(data, ext, ct)
	rid := s.relate(RelImage, media)

	id := s.nextShapeID()
	pic := s.mustSpTree().CreateElement("p:pic")

	nv := pic.CreateElement("p:nvPicPr")
	setAttrs(nv.CreateElement("p:cNvPr"), "id", strconv.Itoa(id),
		"name", fmt.Sprintf("Picture %d", id-1), "descr", filepath.Base(filename))
	setAttrs(nv.CreateElement("p:cNvPicPr").CreateElement("a:picLocks"), "noChangeAspect", "1")
	nv.CreateElement("p:nvPr")

	blipFill := pic.CreateElement("p:blipFill")
	setAttrs(blipFill.CreateElement("a:blip"), "r:embed", rid)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("p:spPr")
	setXfrm(spPr.CreateElement("a:xfrm"), Rect{X: left, Y: top, W: width, H: height})
	setAttrs(spPr.CreateElement("a:prstGeom"), "prst", "rect").CreateElement("a:avLst")

	return &Shape{el: pic}, nil
}

// addMedia stores image bytes once per presentation and returns the part name.
func (p *Presentation) addMedia(data []byte, ext, contentType string) string {
	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if p.media == nil {
		p.media = make(map[string]string)
	}
	if part, ok := p.media[key]; ok {
		return part
	}
	part := p.pkg.NextPartName("ppt/media/image%d." + ext)
	p.pkg.SetPart(part, data, contentType)
	p.media[key] = part
	return part
}

// relate returns the id of the slide's relationship to part, adding one
// when none exists.
func (s *Slide) relate(relType, part string) string {
	rels := s.pres.pkg.Rels(s.part)
	target := relativeTarget(s.part, part)
	for _, r := range rels.ByType(relType) {
		if !r.External() && resolveTarget(s.part, r.Target) == part {
			return r.ID
		}
	}
	return rels.Add(relType, target, false)
}
