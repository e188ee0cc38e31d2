// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import "github.com/pdiddy/hpl-deck/internal/pptx"

// Palette of the results and assembled decks.
var (
	DeepTeal      = pptx.MustHex("0D4F4F")
	Cream         = pptx.MustHex("FAF8F0")
	Gold          = pptx.MustHex("D4A843")
	Teal          = pptx.MustHex("0E7C7B")
	Terracotta    = pptx.MustHex("E07A5F")
	DangerRed     = pptx.MustHex("C0392B")
	White         = pptx.MustHex("FFFFFF")
	NearBlack     = pptx.MustHex("1A1A2E")
	DetailGray    = pptx.MustHex("4A4A5A")
	SubtitleGray  = pptx.MustHex("8A8A9A")
	LightTealBG   = pptx.MustHex("E0F2F1")
	LightOrangeBG = pptx.MustHex("FFF3E0")
	ZebraGray     = pptx.MustHex("F7F7F7")
	TitleSubtitle = pptx.MustHex("B0D4D4")
	TitleMeta     = pptx.MustHex("7FB8B8")
)

// Palette of the laptop deck.
var (
	DarkBlue  = pptx.RGB{R: 44, G: 62, B: 80}
	Green     = pptx.RGB{R: 39, G: 174, B: 96}
	Orange    = pptx.RGB{R: 230, G: 126, B: 34}
	LightGray = pptx.RGB{R: 236, G: 240, B: 241}
)

const (
	FontTitle = "Georgia"
	FontBody  = "Calibri"
)

// Slide sizes.
var (
	wideW, wideH     = pptx.Inches(10), pptx.Inches(5.625)
	laptopW, laptopH = pptx.Inches(13.333), pptx.Inches(7.5)
)
