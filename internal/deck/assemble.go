// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/hpl-deck/internal/pptx"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

// FinalFile is the default file name of the assembled deck.
const FinalFile = "HPL_Final.pptx"

// AssembleResult reports what Assemble wrote.
type AssembleResult struct {
	Path  string
	Total int
	Added int
	Part1 int
	Part2 int
}

type planPart struct {
	title  string
	accent pptx.RGB
	top    float64
	items  []string
}

var planParts = []planPart{
	{
		title:  "Partie 1 — Analyse du code source (Mini HPL)",
		accent: Teal,
		top:    1.05,
		items: []string{
			"Élimination de Gauss et pivotage partiel",
			"Exemple pas à pas (tournage à la main)",
			"Communications MPI : recherche du pivot, échange de lignes",
			"Broadcast, mise à jour, back-substitution parallèle",
			"Calcul du résidu et validation",
		},
	},
	{
		title:  "Partie 2 — Exécution et résultats GPU",
		accent: Terracotta,
		top:    3.20,
		items: []string{
			"Plateforme d'exécution et étapes du benchmark",
			"Résultats A100 (Ampere) et H100 (Hopper)",
			"Anomalie multi-GPU à N = 20 000",
			"Comparaison architecturale et synthèse de l'efficacité",
			"Conclusion et enseignements",
		},
	},
}

// Assemble merges the code-analysis deck (cfg.Part1) and the GPU-results
// deck (cfg.Part2) behind a new title slide and plan slide. Source slides
// are copied unmodified. The output takes the slide size of part 2.
func Assemble(cfg types.AssembleConfig, w io.Writer) (AssembleResult, error) {
	part1, err := pptx.Open(cfg.Part1)
	if err != nil {
		return AssembleResult{}, fmt.Errorf("opening part 1: %w", err)
	}
	part2, err := pptx.Open(cfg.Part2)
	if err != nil {
		return AssembleResult{}, fmt.Errorf("opening part 2: %w", err)
	}

	dst, err := pptx.New()
	if err != nil {
		return AssembleResult{}, err
	}
	dst.SetSlideSize(part2.SlideSize())

	c, err := newCanvas(dst, "")
	if err != nil {
		return AssembleResult{}, err
	}
	titleSlide(c, "Analyse du code source et résultats sur GPU\nA100 (Ampere) vs H100 (Hopper)",
		"BENMALK Achraf  —  KARIMI Karim")

	if c, err = newCanvas(dst, ""); err != nil {
		return AssembleResult{}, err
	}
	planSlide(c)

	res := AssembleResult{Added: dst.SlideCount()}
	if res.Part1, err = copyAll(dst, part1, "Part 1", cfg.Part1, w); err != nil {
		return res, err
	}
	if res.Part2, err = copyAll(dst, part2, "Part 2", cfg.Part2, w); err != nil {
		return res, err
	}

	res.Total = dst.SlideCount()
	if want := res.Added + res.Part1 + res.Part2; res.Total != want {
		return res, fmt.Errorf("assembled %d slides, want %d", res.Total, want)
	}

	res.Path = cfg.Output
	if res.Path == "" {
		res.Path = filepath.Join(filepath.Dir(cfg.Part2), FinalFile)
	}
	if err := save(dst, res.Path); err != nil {
		return res, err
	}

	fmt.Fprintf(w, "\nAssembled presentation saved to: %s\n", res.Path)
	fmt.Fprintf(w, "Total slides: %d\n", res.Total)
	fmt.Fprintln(w, "  - 1 Title slide (new)")
	fmt.Fprintln(w, "  - 1 Plan slide (new)")
	fmt.Fprintf(w, "  - %d Part 1 slides (%s)\n", res.Part1, filepath.Base(cfg.Part1))
	fmt.Fprintf(w, "  - %d Part 2 slides (%s)\n", res.Part2, filepath.Base(cfg.Part2))
	return res, nil
}

func copyAll(dst, src *pptx.Presentation, label, path string, w io.Writer) (int, error) {
	slides, err := src.Slides()
	if err != nil {
		return 0, fmt.Errorf("reading %s slides: %w", label, err)
	}
	fmt.Fprintf(w, "Copying %s (%s)...\n", label, filepath.Base(path))
	for i, s := range slides {
		fmt.Fprintf(w, "  Slide %d/%d\n", i+1, len(slides))
		if _, err := dst.CopySlide(s); err != nil {
			return i, fmt.Errorf("copying %s slide %d: %w", label, i+1, err)
		}
	}
	return len(slides), nil
}

func planSlide(c *canvas) {
	c.creamBackground()
	c.title("Plan de la présentation", "")

	for i, part := range planParts {
		top := part.top
		c.card(pptx.In(0.50, top, 9.00, 1.90), part.accent)
		c.badge(pptx.Inches(0.70), pptx.Inches(top+0.20), i+1, part.accent)

		tf := c.slide.AddTextBox(pptx.In(1.30, top+0.15, 7.5, 0.40)).TextFrame()
		tf.First().AddRun(part.title, pptx.Font{Name: FontTitle, Size: 14, Bold: true, Color: &part.accent})

		items := make([]string, len(part.items))
		for j, it := range part.items {
			items[j] = "  •  " + it
		}
		c.multiline(pptx.In(1.30, top+0.60, 8.0, 1.2), plain(DetailGray, items...), 11, 2)
	}
}
