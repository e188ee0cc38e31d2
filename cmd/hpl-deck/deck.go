// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/hpl-deck/internal/deck"
	"github.com/pdiddy/hpl-deck/pkg/types"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Build and assemble the slide decks",
	Long: `Deck builds the PowerPoint decks from the benchmark tables and the
rendered charts. Run "hpl-deck charts" first so the images exist; missing
images are left out of the slides.`,
}

// --- results subcommand ---

var deckResultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Build the nine-slide GPU results deck (HPL_Resultats_Analyse.pptx)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset()
		if err != nil {
			return err
		}
		path, err := deck.Results(deckConfig(), ds, os.Stdout)
		if err != nil {
			return err
		}
		record(cmd.Context(), cmd, types.ArtifactDeck, []string{path}, os.Stderr)
		return nil
	},
}

// --- laptop subcommand ---

var deckLaptopCmd = &cobra.Command{
	Use:   "laptop",
	Short: "Build the laptop results deck (HPL_Presentation_Resultats.pptx)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := deck.Laptop(deckConfig(), os.Stdout)
		if err != nil {
			return err
		}
		record(cmd.Context(), cmd, types.ArtifactDeck, []string{path}, os.Stderr)
		return nil
	},
}

// --- assemble subcommand ---

var deckAssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Merge part 1 and part 2 into HPL_Final.pptx",
	Long: `Assemble creates a deck sized like part 2 with a title slide and a
plan slide, then copies every slide of part 1 followed by every slide of
part 2, with their images and speaker notes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.AssembleConfig{
			Part1:  viper.GetString("assemble.part1"),
			Part2:  viper.GetString("assemble.part2"),
			Output: viper.GetString("assemble.output"),
		}
		res, err := deck.Assemble(cfg, os.Stdout)
		if err != nil {
			return err
		}
		record(cmd.Context(), cmd, types.ArtifactDeck, []string{res.Path}, os.Stderr)
		return nil
	},
}

func deckConfig() types.DeckConfig {
	return types.DeckConfig{
		ImagesDir: viper.GetString("deck.images_dir"),
		OutDir:    viper.GetString("deck.out_dir"),
	}
}

func init() {
	pf := deckCmd.PersistentFlags()
	pf.String("images-dir", defaultImagesDir, "directory holding charts and Step1-4.png screenshots")
	pf.String("out-dir", "output", "directory for generated decks")
	bindFlag("deck.images_dir", pf.Lookup("images-dir"))
	bindFlag("deck.out_dir", pf.Lookup("out-dir"))

	af := deckAssembleCmd.Flags()
	af.String("part1", "HPL2.pptx", "code analysis deck copied first")
	af.String("part2", "HPL.pptx", "GPU results deck copied second")
	af.String("output", "", fmt.Sprintf("assembled deck (default: %s next to part 2)", deck.FinalFile))
	bindFlag("assemble.part1", af.Lookup("part1"))
	bindFlag("assemble.part2", af.Lookup("part2"))
	bindFlag("assemble.output", af.Lookup("output"))

	deckCmd.AddCommand(deckResultsCmd)
	deckCmd.AddCommand(deckLaptopCmd)
	deckCmd.AddCommand(deckAssembleCmd)

	rootCmd.AddCommand(deckCmd)
}
