// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Relationship type URIs.
const (
	relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"

	RelOfficeDocument = relBase + "officeDocument"
	RelSlide          = relBase + "slide"
	RelSlideLayout    = relBase + "slideLayout"
	RelSlideMaster    = relBase + "slideMaster"
	RelNotesSlide     = relBase + "notesSlide"
	RelNotesMaster    = relBase + "notesMaster"
	RelTheme          = relBase + "theme"
	RelImage          = relBase + "image"
	RelHyperlink      = relBase + "hyperlink"
)

const relsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// External reports whether the target lives outside the package.
func (r Relationship) External() bool {
	return r.TargetMode == "External"
}

// Relationships is the parsed content of a .rels part.
type Relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Items   []Relationship `xml:"Relationship"`
}

func parseRelationships(data []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, err
	}
	return &rels, nil
}

func (rs *Relationships) marshal() ([]byte, error) {
	out := struct {
		XMLName xml.Name       `xml:"Relationships"`
		Xmlns   string         `xml:"xmlns,attr"`
		Items   []Relationship `xml:"Relationship"`
	}{Xmlns: relsNamespace, Items: rs.Items}

	data, err := xml.Marshal(out)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlDeclaration), data...), nil
}

// ByID returns the relationship with the given id.
func (rs *Relationships) ByID(id string) (Relationship, bool) {
	for _, r := range rs.Items {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// ByType returns every relationship of the given type, in document order.
func (rs *Relationships) ByType(relType string) []Relationship {
	var out []Relationship
	for _, r := range rs.Items {
		if r.Type == relType {
			out = append(out, r)
		}
	}
	return out
}

// Add appends a relationship and returns its id. Ids are "rIdN" with the
// lowest unused N.
func (rs *Relationships) Add(relType, target string, external bool) string {
	used := make(map[int]bool, len(rs.Items))
	for _, r := range rs.Items {
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil {
			used[n] = true
		}
	}
	n := 1
	for used[n] {
		n++
	}

	rel := Relationship{
		ID:     fmt.Sprintf("rId%d", n),
		Type:   relType,
		Target: target,
	}
	if external {
		rel.TargetMode = "External"
	}
	rs.Items = append(rs.Items, rel)
	return rel.ID
}

// Remove deletes the relationship with the given id.
func (rs *Relationships) Remove(id string) {
	for i, r := range rs.Items {
		if r.ID == id {
			rs.Items = append(rs.Items[:i], rs.Items[i+1:]...)
			return
		}
	}
}

// resolveTarget turns a relationship target into an absolute part name.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// relativeTarget is the inverse of resolveTarget: the target string that a
// relationship from source must carry to reach part.
func relativeTarget(source, part string) string {
	from := strings.Split(path.Dir(source), "/")
	if path.Dir(source) == "." {
		from = nil
	}
	to := strings.Split(part, "/")

	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}

	var b strings.Builder
	for range from[i:] {
		b.WriteString("../")
	}
	b.WriteString(strings.Join(to[i:], "/"))
	return b.String()
}
