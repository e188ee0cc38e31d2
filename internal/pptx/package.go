// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

const contentTypesPart = "[Content_Types].xml"

// Package is an in-memory Open Packaging Conventions container. Part names
// are stored without the leading slash ("ppt/slides/slide1.xml").
// Relationship parts and XML parts that have been accessed through XML are
// kept parsed and serialised again on write.
type Package struct {
	parts map[string][]byte
	docs  map[string]*etree.Document
	rels  map[string]*Relationships
	types *contentTypes
}

func newPackage() *Package {
	return &Package{
		parts: make(map[string][]byte),
		docs:  make(map[string]*etree.Document),
		rels:  make(map[string]*Relationships),
		types: &contentTypes{},
	}
}

// openPackage reads every zip entry into memory.
func openPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading zip container: %w", err)
	}

	pkg := newPackage()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		if err := pkg.load(strings.TrimPrefix(f.Name, "/"), data); err != nil {
			return nil, err
		}
	}

	if len(pkg.types.Defaults) == 0 && len(pkg.types.Overrides) == 0 {
		return nil, fmt.Errorf("not an OPC package: %s missing", contentTypesPart)
	}
	return pkg, nil
}

// load stores one raw container entry, parsing the content types and
// relationship parts.
func (p *Package) load(name string, data []byte) error {
	switch {
	case name == contentTypesPart:
		if err := xml.Unmarshal(data, p.types); err != nil {
			return fmt.Errorf("parsing %s: %w", contentTypesPart, err)
		}
	case strings.HasSuffix(name, ".rels"):
		rels, err := parseRelationships(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		p.rels[relsSource(name)] = rels
	default:
		p.parts[name] = data
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return data, nil
}

// Has reports whether the part exists.
func (p *Package) Has(name string) bool {
	if _, ok := p.docs[name]; ok {
		return true
	}
	_, ok := p.parts[name]
	return ok
}

// Part returns the raw bytes of a part, serialising a parsed XML part first.
func (p *Package) Part(name string) ([]byte, error) {
	if doc, ok := p.docs[name]; ok {
		data, err := doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("serialising %s: %w", name, err)
		}
		return data, nil
	}
	data, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}
	return data, nil
}

// SetPart stores raw bytes under name and registers its content type.
func (p *Package) SetPart(name string, data []byte, contentType string) {
	delete(p.docs, name)
	p.parts[name] = data
	p.types.register(name, contentType)
}

// XML returns the parsed document for an XML part. Changes made to the
// document are written back when the package is saved.
func (p *Package) XML(name string) (*etree.Document, error) {
	if doc, ok := p.docs[name]; ok {
		return doc, nil
	}
	data, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not found", name)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	p.docs[name] = doc
	return doc, nil
}

// SetXML stores a parsed document as a part and registers its content type.
func (p *Package) SetXML(name string, doc *etree.Document, contentType string) {
	delete(p.parts, name)
	p.docs[name] = doc
	p.types.register(name, contentType)
}

// ContentType returns the registered content type of a part.
func (p *Package) ContentType(name string) string {
	return p.types.lookup(name)
}

// Rels returns the relationships whose source is the given part. The
// package root is the empty string. A missing rels part yields an empty,
// attached collection.
func (p *Package) Rels(source string) *Relationships {
	rels, ok := p.rels[source]
	if !ok {
		rels = &Relationships{}
		p.rels[source] = rels
	}
	return rels
}

// NextPartName returns the first name produced by pattern (which holds one
// %d verb) that is not yet used, counting from 1.
func (p *Package) NextPartName(pattern string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf(pattern, i)
		if !p.Has(name) {
			return name
		}
	}
}

// PartNames returns every non-relationship part name, sorted.
func (p *Package) PartNames() []string {
	seen := make(map[string]bool, len(p.parts)+len(p.docs))
	for name := range p.parts {
		seen[name] = true
	}
	for name := range p.docs {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Write serialises the package as a zip container.
func (p *Package) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	ct, err := p.types.marshal()
	if err != nil {
		return err
	}
	if err := writeZipEntry(zw, contentTypesPart, ct); err != nil {
		return err
	}

	sources := make([]string, 0, len(p.rels))
	for src, rels := range p.rels {
		if len(rels.Items) > 0 {
			sources = append(sources, src)
		}
	}
	sort.Strings(sources)
	for _, src := range sources {
		data, err := p.rels[src].marshal()
		if err != nil {
			return fmt.Errorf("serialising rels of %q: %w", src, err)
		}
		if err := writeZipEntry(zw, relsPartName(src), data); err != nil {
			return err
		}
	}

	for _, name := range p.PartNames() {
		data, err := p.Part(name)
		if err != nil {
			return err
		}
		if err := writeZipEntry(zw, name, data); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip container: %w", err)
	}
	return nil
}

// Save writes the package to path, replacing any existing file.
func (p *Package) Save(filename string) error {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating zip entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing zip entry %s: %w", name, err)
	}
	return nil
}

// relsPartName maps a source part to its relationships part:
// "ppt/slides/slide1.xml" -> "ppt/slides/_rels/slide1.xml.rels".
func relsPartName(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	return path.Join(path.Dir(source), "_rels", path.Base(source)+".rels")
}

// relsSource is the inverse of relsPartName.
func relsSource(relsPart string) string {
	dir, file := path.Split(relsPart)
	dir = strings.TrimSuffix(strings.TrimSuffix(dir, "/"), "_rels")
	base := strings.TrimSuffix(file, ".rels")
	if base == "" {
		return ""
	}
	return strings.TrimPrefix(dir+base, "/")
}
