// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/hpl-deck/internal/pptx"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

// LaptopFile is the file name of the laptop results deck.
const LaptopFile = "HPL_Presentation_Resultats.pptx"

// Line markers understood by contentSlide.
const (
	markBold   = "[BOLD]"
	markGreen  = "[GREEN]"
	markOrange = "[ORANGE]"
)

// contentSlide is one titled slide of the laptop deck. Image, when set,
// names a chart shown on the right half if it exists.
type contentSlide struct {
	Title string
	Lines []string
	Image string
}

// laptopSlides are slides 9 to 14 of the talk.
var laptopSlides = []contentSlide{
	{
		Title: "Configuration Expérimentale",
		Lines: []string{
			"[BOLD]Plateforme de Test",
			"• Machine : ASUS Zephyrus G14 (2020)",
			"• CPU : AMD Ryzen 9 4900HS (8 coeurs / 16 threads)",
			"• RAM : 32 Go",
			"• OS : Ubuntu 22.04 via WSL2",
			"",
			"[BOLD]Logiciels",
			"• HPL version 2.3",
			"• OpenMPI (communication inter-processus)",
			"• OpenBLAS (bibliotheque BLAS)",
			"",
			"[BOLD]Parametres HPL",
			"• NB = 128 et 192 (tailles de bloc testees)",
			"• P x Q = 2 x 4 (grille de 8 processus)",
		},
	},
	{
		Title: "Resultats des Experiences",
		Lines: []string{
			"[BOLD]Tableau des Resultats",
			"",
			"• N=10 000, NB=192 : 15.7 GFLOPS (42s) - VALIDE",
			"• N=20 000, NB=192 : 41.0 GFLOPS (2min 10s) - VALIDE",
			"• N=30 000, NB=192 : 38.2 GFLOPS (7min 51s) - VALIDE",
			"[GREEN]• N=30 000, NB=128 : 44.2 GFLOPS (6min 48s) - MEILLEUR!",
			"",
			"[BOLD]Observations Cles",
			"[GREEN]Tous les tests VALIDES (PASSED)",
			"• GFLOPS augmente avec N (meilleur ratio calcul/comm.)",
			"[ORANGE]Baisse a N=30K/NB=192 due au thermal throttling",
			"[GREEN]Tuning NB: +15.6% avec NB=128 vs NB=192",
		},
		Image: "graphique4_tableau.png",
	},
	{
		Title: "Evolution de la Performance",
		Lines: []string{
			"[BOLD]Tendance Observee",
			"",
			"• N=10K : 15.7 GFLOPS (reference)",
			"• N=20K : 41.0 GFLOPS (+161%)",
			"[ORANGE]• N=30K, NB=192 : 38.2 GFLOPS (throttling)",
			"[GREEN]• N=30K, NB=128 : 44.2 GFLOPS (optimise)",
			"",
			"[BOLD]Explication",
			"• Plus N est grand, meilleur ratio calcul/comm.",
			"• Le tuning de NB recupere +15.6% de perf.",
			"• Thermal throttling apres ~5min de calcul",
		},
		Image: "graphique3_evolution.png",
	},
	{
		Title: "Analyse de l'Efficacite",
		Lines: []string{
			"[BOLD]Calcul de l'Efficacite",
			"• Efficacite = GFLOPS obtenus / GFLOPS theoriques x 100%",
			"• Pic theorique Ryzen 9: ~400 GFLOPS (estimation)",
			"[GREEN]Meilleur resultat: 44.2 GFLOPS = Efficacite ~11%",
			"",
			"[BOLD]Pourquoi seulement 11% ?",
			"[ORANGE]• WSL2: overhead de virtualisation",
			"[ORANGE]• OpenBLAS: moins optimise qu'Intel MKL",
			"[ORANGE]• Laptop: limites thermiques vs serveur HPC",
			"",
			"[BOLD]Reference",
			"• Sur cluster HPC reel: 70-85% d'efficacite attendue",
		},
		Image: "graphique5_efficacite.png",
	},
	{
		Title: "Observations et Limites",
		Lines: []string{
			"[BOLD]Ce Qui Fonctionne",
			"[GREEN]• Performance scale avec N jusqu'aux limites thermiques",
			"[GREEN]• Tous les tests passent la validation numerique",
			"[GREEN]• Resultats reproductibles et coherents",
			"[GREEN]• Le tuning NB ameliore significativement les perfs",
			"",
			"[BOLD]Limites de Notre Setup",
			"[ORANGE]• WSL2: couche de virtualisation = overhead",
			"[ORANGE]• Laptop: refroidissement limite = throttling",
			"[ORANGE]• OpenBLAS: pas optimise pour AMD Ryzen",
			"",
			"[BOLD]Pour Ameliorer",
			"• Cluster HPC dedie avec refroidissement adapte",
			"• Intel MKL ou AMD BLIS (bibliotheques optimisees)",
		},
	},
	{
		Title: "Conclusion",
		Lines: []string{
			"[BOLD]Ce Qu'on Retient",
			"",
			"[GREEN]HPL mesure les GFLOPS via resolution de Ax = b",
			"[GREEN]Algorithme: Decomposition LU avec pivotage partiel",
			"[GREEN]Parallelisation: Distribution 2D block-cyclic",
			"[GREEN]Nos resultats: Valides, coherents avec la theorie",
			"",
			"[BOLD]Meilleur Resultat",
			"[GREEN]44.2 GFLOPS avec N=30 000 et NB=128",
			"",
			"[BOLD]Tendance Cle",
			"• GFLOPS augmente avec N (meilleur ratio calcul/comm.)",
			"• Le tuning des parametres est important (+15.6%)",
		},
	},
}

// Laptop builds the 16:9 laptop results deck: the content slides followed
// by a closing questions slide. Charts come from cfg.ImagesDir.
func Laptop(cfg types.DeckConfig, w io.Writer) (string, error) {
	pres, err := pptx.New()
	if err != nil {
		return "", err
	}
	pres.SetSlideSize(laptopW, laptopH)

	for _, cs := range laptopSlides {
		c, err := newCanvas(pres, cfg.ImagesDir)
		if err != nil {
			return "", err
		}
		drawContentSlide(c, cs)
		if c.err != nil {
			return "", fmt.Errorf("slide %q: %w", cs.Title, c.err)
		}
	}

	c, err := newCanvas(pres, cfg.ImagesDir)
	if err != nil {
		return "", err
	}
	drawClosingSlide(c, "Merci !", "Questions ?")

	out := filepath.Join(cfg.OutDir, LaptopFile)
	if err := save(pres, out); err != nil {
		return "", err
	}
	fmt.Fprintf(w, "Presentation creee: %s\n", out)
	return out, nil
}

func drawClosingSlide(c *canvas, title, subtitle string) {
	c.background(DarkBlue)

	tf := c.slide.AddTextBox(pptx.In(0.5, 2.5, 12.333, 1.5)).TextFrame()
	p := tf.First()
	p.AddRun(title, pptx.Font{Size: 44, Bold: true, Color: &White})
	p.SetAlign(pptx.AlignCenter)

	if subtitle == "" {
		return
	}
	tf = c.slide.AddTextBox(pptx.In(0.5, 4.2, 12.333, 1)).TextFrame()
	p = tf.First()
	p.AddRun(subtitle, pptx.Font{Size: 24, Color: &LightGray})
	p.SetAlign(pptx.AlignCenter)
}

func drawContentSlide(c *canvas, cs contentSlide) {
	c.rect(pptx.Rect{W: c.w, H: pptx.Inches(1.2)}, DarkBlue)

	tf := c.slide.AddTextBox(pptx.In(0.5, 0.3, 12.333, 0.8)).TextFrame()
	tf.First().AddRun(cs.Title, pptx.Font{Size: 32, Bold: true, Color: &White})

	body := pptx.In(0.5, 1.5, 12.333, 5.5)
	if cs.Image != "" && c.picture(cs.Image, pptx.Inches(6.8), pptx.Inches(1.5), pptx.Inches(6)) {
		body.W = pptx.Inches(6)
	}

	tf = c.slide.AddTextBox(body).TextFrame()
	tf.SetWordWrap(true)
	for i, l := range cs.Lines {
		p := tf.First()
		if i > 0 {
			p = tf.AddParagraph()
		}
		text, font := parseLine(l)
		font.Size = 18
		if text != "" {
			p.AddRun(text, font)
		}
		p.SetSpaceAfter(6)
	}
}

// parseLine strips a leading colour or weight marker and returns the text
// with the formatting the marker selects.
func parseLine(l string) (string, pptx.Font) {
	switch {
	case strings.HasPrefix(l, markBold):
		return strings.TrimPrefix(l, markBold), pptx.Font{Bold: true}
	case strings.HasPrefix(l, markGreen):
		return strings.TrimPrefix(l, markGreen), pptx.Font{Bold: true, Color: &Green}
	case strings.HasPrefix(l, markOrange):
		return strings.TrimPrefix(l, markOrange), pptx.Font{Color: &Orange}
	default:
		return l, pptx.Font{}
	}
}
