// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/hpl-deck/internal/benchdata"
	"github.com/pdiddy/hpl-deck/internal/chart"
	"github.com/pdiddy/hpl-deck/internal/pptx"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

// ResultsFile is the file name of the GPU results deck.
const ResultsFile = "HPL_Resultats_Analyse.pptx"

const (
	deviceA100 = "A100"
	deviceH100 = "H100"
)

// gpuPair is what the results slides compare.
type gpuPair struct {
	cfg        benchdata.GPUConfig
	a100, h100 benchdata.GPU
}

type slideFunc func(c *canvas, g gpuPair)

// Results builds the nine-slide GPU results deck (execution, results and
// analysis) into cfg.OutDir and returns the written path. Charts and step
// screenshots are taken from cfg.ImagesDir when present.
func Results(cfg types.DeckConfig, ds *benchdata.Dataset, w io.Writer) (string, error) {
	a100, err := ds.Device(deviceA100)
	if err != nil {
		return "", err
	}
	h100, err := ds.Device(deviceH100)
	if err != nil {
		return "", err
	}
	g := gpuPair{cfg: ds.GPU.Config, a100: a100, h100: h100}

	pres, err := pptx.New()
	if err != nil {
		return "", err
	}
	pres.SetSlideSize(wideW, wideH)

	slides := []slideFunc{
		resultsTitleSlide,
		platformSlide,
		stepsSlide,
		func(c *canvas, g gpuPair) {
			gpuResultsSlide(c, g, g.a100, Terracotta, func(d float64) string {
				return "plus lents (" + benchdata.Percent(d, 1) + ")"
			})
		},
		func(c *canvas, g gpuPair) {
			gpuResultsSlide(c, g, g.h100, DangerRed, func(d float64) string {
				return benchdata.Percent(-d, 1) + " PLUS LENTS !"
			})
		},
		anomalySlide,
		comparisonSlide,
		efficiencySlide,
		conclusionSlide,
	}
	for i, draw := range slides {
		c, err := newCanvas(pres, cfg.ImagesDir)
		if err != nil {
			return "", err
		}
		draw(c, g)
		if c.err != nil {
			return "", fmt.Errorf("slide %d: %w", i+1, c.err)
		}
	}

	out := filepath.Join(cfg.OutDir, ResultsFile)
	if err := save(pres, out); err != nil {
		return "", err
	}
	fmt.Fprintf(w, "Presentation saved to: %s\n", out)
	return out, nil
}

func save(pres *pptx.Presentation, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := pres.Save(path); err != nil {
		return fmt.Errorf("saving deck: %w", err)
	}
	return nil
}

// titleSlide is the deep-teal cover shared by the results and assembled decks.
func titleSlide(c *canvas, subtitle, authors string) {
	c.background(DeepTeal)
	c.rect(pptx.In(0.60, 0.90, 0.06, 1.80), Gold)

	c.text(pptx.In(0.90, 0.80, 8.0, 1.0), "HPL Benchmark\nImplémentation et résultats GPU",
		style{Size: 30, Bold: true, Color: White, Font: FontTitle})
	c.text(pptx.In(0.90, 2.0, 8.0, 0.8), subtitle, style{Size: 16, Color: TitleSubtitle})

	c.rect(pptx.Rect{Y: pptx.Inches(3.90), W: c.w, H: pptx.Inches(0.03)}, Gold)

	c.text(pptx.In(0.90, 4.05, 8.0, 0.3), authors, style{Size: 14, Bold: true, Color: Gold})
	c.text(pptx.In(0.90, 4.35, 8.0, 0.3), "Projet MPNA — Méthodes et Programmation Numérique Avancée — 2026",
		style{Size: 11, Color: TitleMeta})
}

func resultsTitleSlide(c *canvas, _ gpuPair) {
	titleSlide(c, "Analyse comparative A100 (Ampere) vs H100 (Hopper)\nPartie 2 : Exécution, Résultats, Analyse",
		"BENMALK Achraf")
}

func platformSlide(c *canvas, g gpuPair) {
	c.creamBackground()
	c.title("Plateforme d'exécution", "Cluster HPC avec GPUs NVIDIA — Conteneur HPC-Benchmarks 23.10")

	c.card(pptx.In(0.40, 1.20, 4.20, 2.80), Teal)
	c.text(pptx.In(0.50, 1.35, 4.0, 0.35), "Environnement", style{Size: 13, Bold: true, Color: Teal})
	c.multiline(pptx.In(0.50, 1.75, 4.0, 2.0), plain(DetailGray,
		"Conteneur NVIDIA HPC-Benchmarks 23.10",
		"Déploiement via Singularity",
		"Bibliothèques : cuBLAS + NCCL",
		"Ordonnanceur : Slurm",
		"Tensor Cores FP64 pour DGEMM",
	), 11, 4)

	c.card(pptx.In(4.80, 1.20, 5.00, 2.80), Gold)
	c.text(pptx.In(4.90, 1.35, 4.8, 0.35), "GPUs testés", style{Size: 13, Bold: true, Color: Gold})
	c.table(pptx.In(4.90, 1.80, 4.80, 2.0), [][]string{
		{"", deviceLabel(g.a100), deviceLabel(g.h100)},
		{"Partition", g.a100.Partition, g.h100.Partition},
		{"Mémoire", g.a100.Memory, g.h100.Memory},
		{"Cœurs CUDA", benchdata.Thousands(int64(g.a100.CUDACores)), benchdata.Thousands(int64(g.h100.CUDACores))},
		{"Peak FP64", tflops(g.a100.PeakTFLOPS) + " TFLOPS", tflops(g.h100.PeakTFLOPS) + " TFLOPS"},
	})

	c.insight(pptx.Inches(4.25), fmt.Sprintf(
		"Configuration HPL : NB = %d (blocs larges pour GPU)  |  P × Q = %s  |  BCAST = %d",
		g.cfg.NB, g.cfg.Grid, g.cfg.BCAST), LightTealBG, DeepTeal)
}

func stepsSlide(c *canvas, _ gpuPair) {
	c.creamBackground()
	c.title("Étapes d'exécution sur GPU", "Du fichier de configuration au lancement du benchmark")

	steps := []struct {
		title, desc string
		color       pptx.RGB
		x, y        float64
	}{
		{"HPL.dat", "Création du fichier de configuration\n(N, NB, P×Q, BCAST)", Teal, 0.40, 1.15},
		{"Singularity", "Lancement du conteneur NVIDIA\navec bind du répertoire de travail", Teal, 5.10, 1.15},
		{"Slurm", "Allocation GPU via salloc\n(--gres=gpu:1 ou gpu:2)", Teal, 0.40, 3.10},
		{"Exécution", "mpirun -np <X> ./hpl.sh\n--dat /mnt/HPL.dat", Terracotta, 5.10, 3.10},
	}
	for i, s := range steps {
		c.card(pptx.In(s.x, s.y, 4.50, 1.70), s.color)
		c.badge(pptx.Inches(s.x+0.15), pptx.Inches(s.y+0.20), i+1, s.color)
		c.text(pptx.In(s.x+0.65, s.y+0.15, 1.8, 0.35), s.title, style{Size: 13, Bold: true, Color: s.color})
		c.text(pptx.In(s.x+0.65, s.y+0.50, 1.8, 1.0), s.desc, style{Size: 10, Color: DetailGray})
		c.picture(fmt.Sprintf("Step%d.png", i+1), pptx.Inches(s.x+2.6), pptx.Inches(s.y+0.15), pptx.Inches(1.75))
	}
}

// gpuResultsSlide shows one device's runs, its chart and two metric cards.
// anomaly phrases the two-GPU degradation at the smallest problem size.
func gpuResultsSlide(c *canvas, g gpuPair, gpu benchdata.GPU, alert pptx.RGB, anomaly func(float64) string) {
	c.creamBackground()
	c.title("Résultats : GPU "+deviceLabel(gpu),
		fmt.Sprintf("Peak théorique : %s TFLOPS  |  Configuration : NB=%d, P×Q=%s",
			tflops(gpu.PeakTFLOPS), g.cfg.NB, strings.ReplaceAll(g.cfg.Grid, " ", "")))

	data := [][]string{{"N", "1 GPU", "2 GPUs", "Speedup"}}
	for _, r := range gpu.Runs {
		data = append(data, []string{
			benchdata.Thousands(int64(r.N)),
			benchdata.Thousands(int64(r.OneGPU)),
			benchdata.Thousands(int64(r.TwoGPU)),
			benchdata.Factor(r.Speedup()),
		})
	}
	c.table(pptx.In(0.40, 1.10, 4.00, 2.5), data)
	c.picture(chart.DeviceFile(gpu.Name), pptx.Inches(4.60), pptx.Inches(1.10), pptx.Inches(5.20))

	best := gpu.Best()
	c.card(pptx.In(0.40, 3.85, 4.30, 0.80), Teal)
	c.text(pptx.In(0.50, 3.95, 4.1, 0.60), fmt.Sprintf(
		"Efficacité : %s / %s = %s\nSpeedup 2 GPUs : %s → eff. parallèle %s",
		benchdata.Thousands(int64(best.OneGPU)), benchdata.Thousands(int64(gpu.PeakGFLOPS)),
		benchdata.Percent(gpu.Efficiency(), 1),
		benchdata.Factor(best.Speedup()), benchdata.Percent(best.ParallelEfficiency(), 0),
	), style{Size: 11, Bold: true, Color: Teal})

	small := smallest(gpu)
	c.card(pptx.In(4.90, 3.85, 4.90, 0.80), alert)
	c.text(pptx.In(5.00, 3.95, 4.7, 0.60), fmt.Sprintf(
		"Anomalie N=%s : 2 GPUs %s\nTous les tests : résidu PASSED",
		benchdata.CompactN(small.N), anomaly(small.Degradation()),
	), style{Size: 11, Bold: true, Color: alert})
}

func anomalySlide(c *canvas, g gpuPair) {
	a, h := smallest(g.a100), smallest(g.h100)

	c.creamBackground()
	c.title("Anomalie : 2 GPUs plus lents qu'un seul",
		fmt.Sprintf("Dégradation de performance observée à N = %s", benchdata.Thousands(int64(a.N))))

	c.table(pptx.In(0.40, 1.10, 4.20, 1.0), [][]string{
		{"GPU", "1 GPU", "2 GPUs", "Dégradation"},
		{g.a100.Name, benchdata.Thousands(int64(a.OneGPU)), benchdata.Thousands(int64(a.TwoGPU)), benchdata.Percent(a.Degradation(), 1)},
		{g.h100.Name, benchdata.Thousands(int64(h.OneGPU)), benchdata.Thousands(int64(h.TwoGPU)), benchdata.Percent(h.Degradation(), 1)},
	})

	explanations := []struct {
		text  string
		color pptx.RGB
	}{
		{"Problème trop petit — chaque GPU reçoit une portion insuffisante", Teal},
		{"Coût de communication inter-GPU > gain de calcul", Teal},
		{fmt.Sprintf("Plus prononcé sur %s : %s vs %s cœurs", g.h100.Name,
			benchdata.Thousands(int64(g.h100.CUDACores)), benchdata.Thousands(int64(g.a100.CUDACores))), Teal},
		{"Seuil de rentabilité : entre N = 20K et 40K", Terracotta},
	}
	for i, e := range explanations {
		y := 2.30 + float64(i)*0.55
		c.badge(pptx.Inches(0.50), pptx.Inches(y), i+1, e.color)
		c.text(pptx.In(1.00, y, 3.5, 0.45), e.text, style{Size: 11, Color: NearBlack})
	}

	c.card(pptx.In(4.80, 1.10, 5.00, 3.30), Gold)
	c.text(pptx.In(4.90, 1.25, 4.8, 0.30), "Pourquoi ?", style{Size: 13, Bold: true, Color: Gold})
	c.multiline(pptx.In(4.90, 1.65, 4.8, 2.6), []line{
		{"Le calcul croît en O(N³)", DeepTeal, true},
		{"Volume de travail augmente cubiquement avec N", DetailGray, false},
		{"", DetailGray, false},
		{"La communication croît en O(N²)", Terracotta, true},
		{"Échanges inter-GPU augmentent quadratiquement", DetailGray, false},
		{"", DetailGray, false},
		{"Pour les grands N, le calcul domine", DeepTeal, true},
		{"Les GPUs passent plus de temps à calculer qu'à communiquer", DetailGray, false},
		{"", DetailGray, false},
		{"Pour les petits N, la communication domine", Terracotta, true},
		{"Le surcoût de synchronisation dépasse le bénéfice du parallélisme", DetailGray, false},
	}, 10, 2)
}

func comparisonSlide(c *canvas, g gpuPair) {
	c.creamBackground()
	c.title("Comparaison architecturale : A100 vs H100",
		"Facteur d'accélération en fonction de la taille du problème")

	c.picture(chart.ComparisonFile, pptx.Inches(0.30), pptx.Inches(1.05), pptx.Inches(4.80))

	data := [][]string{{"N", g.a100.Name, g.h100.Name, "Ratio"}}
	for _, a := range g.a100.Runs {
		h, ok := g.h100.RunAt(a.N)
		if !ok {
			continue
		}
		data = append(data, []string{
			benchdata.CompactN(a.N),
			benchdata.Thousands(int64(a.OneGPU)),
			benchdata.Thousands(int64(h.OneGPU)),
			benchdata.Factor(h.OneGPU / a.OneGPU),
		})
	}
	c.table(pptx.In(5.30, 1.05, 4.50, 2.5), data)

	theoretical := g.h100.PeakTFLOPS / g.a100.PeakTFLOPS
	measured := g.h100.Best().OneGPU / g.a100.Best().OneGPU
	c.card(pptx.In(5.30, 3.70, 4.50, 1.20), Teal)
	c.multiline(pptx.In(5.40, 3.80, 4.3, 1.0), []line{
		{fmt.Sprintf("Ratio théorique : %s / %s = %s", tflops(g.h100.PeakTFLOPS), tflops(g.a100.PeakTFLOPS),
			benchdata.Factor(theoretical)), Teal, true},
		{fmt.Sprintf("Ratio mesuré (N=%s) : %s", benchdata.CompactN(g.a100.Best().N), benchdata.Factor(measured)), DeepTeal, true},
		{fmt.Sprintf("Écart ~%s — dû à la différence d'efficacité", benchdata.Percent(1-measured/theoretical, 0)), DetailGray, false},
		{fmt.Sprintf("%s : %s  vs  %s : %s", g.h100.Name, benchdata.Percent(g.h100.Efficiency(), 1),
			g.a100.Name, benchdata.Percent(g.a100.Efficiency(), 1)), DetailGray, false},
	}, 11, 3)
}

func efficiencySlide(c *canvas, g gpuPair) {
	c.creamBackground()
	c.title("Synthèse de l'efficacité", "Efficacité = GFLOPS mesurés / Pic théorique × 100%")

	row := func(gpu benchdata.GPU, gpus int) []string {
		best := gpu.Best()
		if gpus == 1 {
			return []string{
				gpu.Name + " (1 GPU)",
				benchdata.Decimal(gpu.PeakTFLOPS, 1),
				benchdata.Thousands(int64(best.OneGPU)),
				benchdata.Percent(gpu.Efficiency(), 1),
				"—",
			}
		}
		return []string{
			gpu.Name + " (2 GPUs)",
			benchdata.Decimal(2*gpu.PeakTFLOPS, 1),
			benchdata.Thousands(int64(best.TwoGPU)),
			benchdata.Percent(gpu.TwoGPUEfficiency(), 1),
			benchdata.Percent(best.ParallelEfficiency(), 0),
		}
	}
	c.table(pptx.In(0.40, 1.05, 9.20, 2.2), [][]string{
		{"Configuration", "Peak (TFLOPS)", "Meilleur (GFLOPS)", "Efficacité", "Eff. parallèle"},
		row(g.a100, 1),
		row(g.h100, 1),
		row(g.a100, 2),
		row(g.h100, 2),
	})

	c.card(pptx.In(0.40, 3.50, 4.40, 1.10), Teal)
	c.multiline(pptx.In(0.50, 3.60, 4.2, 0.90), []line{
		{"HPL est compute-bound", Teal, true},
		{"Le calcul (DGEMM) domine le temps d'exécution.", DetailGray, false},
		{"L'A100 est plus facile à saturer → meilleure efficacité.", DetailGray, false},
	}, 10, 2)

	c.card(pptx.In(5.00, 3.50, 4.80, 1.10), Terracotta)
	c.multiline(pptx.In(5.10, 3.60, 4.6, 0.90), []line{
		{"Plus de puissance = plus difficile à exploiter", Terracotta, true},
		{fmt.Sprintf("L'efficacité diminue de %s (A100 1 GPU)", benchdata.Percent(g.a100.Efficiency(), 1)), DetailGray, false},
		{fmt.Sprintf("à %s (H100 2 GPUs).", benchdata.Percent(g.h100.TwoGPUEfficiency(), 1)), DetailGray, false},
	}, 10, 2)
}

func conclusionSlide(c *canvas, g gpuPair) {
	c.creamBackground()
	c.title("Conclusion et enseignements", "5 résultats clés de notre analyse HPL sur GPU")

	lo := math.Min(g.a100.Efficiency(), g.h100.Efficiency()) * 100
	hi := math.Max(g.a100.Efficiency(), g.h100.Efficiency()) * 100
	measured := g.h100.Best().OneGPU / g.a100.Best().OneGPU
	theoretical := g.h100.PeakTFLOPS / g.a100.PeakTFLOPS

	conclusions := []struct {
		title, desc string
		color       pptx.RGB
	}{
		{"HPL est compute-bound",
			fmt.Sprintf("Efficacités de %.0f à %.0f%% — le calcul domine", math.Round(lo), math.Round(hi)), Teal},
		{"La taille du problème est déterminante", "O(N³) calcul vs O(N²) communication", Teal},
		{"Le multi-GPU a un seuil de rentabilité", "N entre 20K et 40K — en dessous, contre-productif", Teal},
		{fmt.Sprintf("Le H100 offre ≈%s l'A100", benchdata.Decimal(measured, 1)+"x"),
			fmt.Sprintf("Ratio mesuré %s vs théorique %s", benchdata.Factor(measured), benchdata.Factor(theoretical)), Terracotta},
		{"L'efficacité diminue avec la puissance",
			fmt.Sprintf("%s (A100) vs %s (H100) en parallèle",
				benchdata.Percent(g.a100.Best().ParallelEfficiency(), 0),
				benchdata.Percent(g.h100.Best().ParallelEfficiency(), 0)), Terracotta},
	}
	for i, k := range conclusions {
		y := 1.05 + float64(i)*0.75
		c.card(pptx.In(0.40, y, 9.20, 0.65), k.color)
		c.badge(pptx.Inches(0.55), pptx.Inches(y+0.12), i+1, k.color)
		c.text(pptx.In(1.10, y+0.05, 4.0, 0.30), k.title, style{Size: 12, Bold: true, Color: k.color})
		c.text(pptx.In(1.10, y+0.33, 8.3, 0.25), k.desc, style{Size: 10, Color: DetailGray})
	}

	c.insight(pptx.Inches(4.95),
		"Puissance brute, passage à l'échelle et dimensionnement du problème sont étroitement liés.",
		LightTealBG, DeepTeal)
}

// deviceLabel is "A100 (Ampere)".
func deviceLabel(g benchdata.GPU) string {
	return fmt.Sprintf("%s (%s)", g.Name, g.Arch)
}

// tflops prints whole values without decimals: "54", "19,5".
func tflops(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return benchdata.Decimal(v, 1)
}

// smallest returns the run at the smallest problem size.
func smallest(g benchdata.GPU) benchdata.GPURun {
	var out benchdata.GPURun
	for i, r := range g.Runs {
		if i == 0 || r.N < out.N {
			out = r
		}
	}
	return out
}
