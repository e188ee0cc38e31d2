// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"encoding/xml"
	"path"
	"strings"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Content types of the parts this package creates.
const (
	ctBase = "application/vnd.openxmlformats-officedocument.presentationml."

	CTSlide       = ctBase + "slide+xml"
	CTNotesSlide  = ctBase + "notesSlide+xml"
	CTNotesMaster = ctBase + "notesMaster+xml"
	CTTheme       = "application/vnd.openxmlformats-officedocument.theme+xml"
)

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypes struct {
	XMLName   xml.Name     `xml:"Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

func (ct *contentTypes) lookup(name string) string {
	for _, o := range ct.Overrides {
		if strings.TrimPrefix(o.PartName, "/") == name {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(path.Ext(name), ".")
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// register records contentType for name, using an extension default when
// one already matches and an override otherwise.
func (ct *contentTypes) register(name, contentType string) {
	if contentType == "" || ct.lookup(name) == contentType {
		return
	}
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if strings.HasPrefix(contentType, "image/") && !ct.hasDefault(ext) {
		ct.Defaults = append(ct.Defaults, ctDefault{Extension: ext, ContentType: contentType})
		return
	}

	partName := "/" + name
	for i, o := range ct.Overrides {
		if o.PartName == partName {
			ct.Overrides[i].ContentType = contentType
			return
		}
	}
	ct.Overrides = append(ct.Overrides, ctOverride{PartName: partName, ContentType: contentType})
}

func (ct *contentTypes) hasDefault(ext string) bool {
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return true
		}
	}
	return false
}

func (ct *contentTypes) marshal() ([]byte, error) {
	out := struct {
		XMLName   xml.Name     `xml:"Types"`
		Xmlns     string       `xml:"xmlns,attr"`
		Defaults  []ctDefault  `xml:"Default"`
		Overrides []ctOverride `xml:"Override"`
	}{
		Xmlns:     "http://schemas.openxmlformats.org/package/2006/content-types",
		Defaults:  ct.Defaults,
		Overrides: ct.Overrides,
	}
	data, err := xml.Marshal(out)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlDeclaration), data...), nil
}
