/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phytobsa/phytobsa/bsa"
	"github.com/phytobsa/phytobsa/utils"
	"github.com/spf13/cobra"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze -V <variant table with chrom, pos, ref, alt, mu:wt_GTpred and read-depth columns> [args]",
	Short: "Runs the BSA statistical pipeline on a variant table",
	Long: `analyze computes delta-SNP ratios and G-statistics from the bulk read
depths, smooths them per chromosome, derives empirical cutoffs by
bootstrap randomization and flags likely candidate loci. Run it either
on a single table (-V) or on a config file with one Line entry per
analysis (-c).`,
	Run: func(cmd *cobra.Command, args []string) {
		tablePath, tErr := cmd.Flags().GetString("table")
		if tErr != nil {
			log.Fatalf("Error getting table flag: %v", tErr)
		}

		name, nErr := cmd.Flags().GetString("name")
		if nErr != nil {
			log.Fatalf("Error getting name flag: %v", nErr)
		}

		outputDir, oErr := cmd.Flags().GetString("out")
		if oErr != nil {
			log.Fatalf("Error getting out flag: %v", oErr)
		}

		segregation, sErr := cmd.Flags().GetString("segregation")
		if sErr != nil {
			log.Fatalf("Error getting segregation flag: %v", sErr)
		}

		span, spErr := cmd.Flags().GetFloat64("span")
		if spErr != nil {
			log.Fatalf("Error getting span flag: %v", spErr)
		}

		edgeBound, eErr := cmd.Flags().GetInt("edge_bound")
		if eErr != nil {
			log.Fatalf("Error getting edge_bound flag: %v", eErr)
		}

		shuffleIterations, shErr := cmd.Flags().GetInt("shuffle_iterations")
		if shErr != nil {
			log.Fatalf("Error getting shuffle_iterations flag: %v", shErr)
		}

		workers, wErr := cmd.Flags().GetInt("workers")
		if wErr != nil {
			log.Fatalf("Error getting workers flag: %v", wErr)
		}

		seed, sdErr := cmd.Flags().GetUint64("seed")
		if sdErr != nil {
			log.Fatalf("Error getting seed flag: %v", sdErr)
		}

		filterIndels, fiErr := cmd.Flags().GetBool("filter_indels")
		if fiErr != nil {
			log.Fatalf("Error getting filter_indels flag: %v", fiErr)
		}

		filterEms, feErr := cmd.Flags().GetBool("filter_ems")
		if feErr != nil {
			log.Fatalf("Error getting filter_ems flag: %v", feErr)
		}

		snpMask, smErr := cmd.Flags().GetString("snpmask")
		if smErr != nil {
			log.Fatalf("Error getting snpmask flag: %v", smErr)
		}

		if span <= 0 || span > 1 {
			log.Fatalf("span must be in (0,1], got %v", span)
		}
		if edgeBound <= 0 {
			log.Fatalf("edge_bound must be positive, got %d", edgeBound)
		}
		if shuffleIterations <= 0 {
			log.Fatalf("shuffle_iterations must be positive, got %d", shuffleIterations)
		}

		opts := bsa.Options{
			Span:              span,
			EdgeBound:         edgeBound,
			ShuffleIterations: shuffleIterations,
			Workers:           workers,
			Seed:              seed,
			ReferencePath:     refFile,
			OutputDir:         outputDir,
		}

		var lines []bsa.LineConfig

		if cfgFile != "" {
			fmt.Println("Reading config file ...")
			cfg, cfgErr := utils.ReadConfig(cfgFile)
			if cfgErr != nil {
				log.Fatalf("Error reading config: %v", cfgErr)
			}

			if cfg.Span > 0 {
				opts.Span = cfg.Span
			}
			if cfg.EdgeBound > 0 {
				opts.EdgeBound = cfg.EdgeBound
			}
			if cfg.ShuffleIterations > 0 {
				opts.ShuffleIterations = cfg.ShuffleIterations
			}
			if cfg.Workers > 0 {
				opts.Workers = cfg.Workers
			}
			if cfg.Seed != 0 {
				opts.Seed = cfg.Seed
			}
			if cfg.Reference != "" {
				opts.ReferencePath = cfg.Reference
			}
			if cfg.OutputDir != "" {
				opts.OutputDir = cfg.OutputDir
			}

			for _, entry := range cfg.Lines {
				if len(entry) < 3 {
					log.Fatalf("Line entry is wrongly formated %v\nSupply lines in this format: Line: <name> <table path> <segregation R|D>", entry)
				}
				lines = append(lines, bsa.LineConfig{
					Name:            entry[0],
					TablePath:       entry[1],
					SegregationType: entry[2],
					FilterIndels:    cfg.FilterIndels,
					FilterEMS:       cfg.FilterEMS,
					SnpMaskPath:     cfg.SnpMask,
				})
			}
		} else {
			if tablePath == "" {
				log.Fatal("Provide a variant table (-V) or a config file (-c)")
			}
			lines = append(lines, bsa.LineConfig{
				Name:            name,
				TablePath:       tablePath,
				SegregationType: segregation,
				FilterIndels:    filterIndels,
				FilterEMS:       filterEms,
				SnpMaskPath:     snpMask,
			})
		}

		if len(lines) == 0 {
			log.Fatal("No analysis lines configured")
		}

		if mkErr := os.MkdirAll(opts.OutputDir, 0755); mkErr != nil {
			log.Fatalf("Failed to create output directory %s: %v", opts.OutputDir, mkErr)
		}

		logFilePath := filepath.Join(opts.OutputDir, "phytobsa.log")
		logFile, lfErr := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if lfErr != nil {
			log.Fatalf("Failed to open log file: %v", lfErr)
		}
		defer logFile.Close()

		jsonHandler := slog.NewJSONHandler(logFile, nil)
		jlog := slog.New(jsonHandler)
		jlog.Info("BSA", "PROGRAM", "INITIALISE", "LINES", len(lines), "STATUS", "STARTED")
		slog.Info("BSA", "PROGRAM", "INITIALISE", "LINES", len(lines), "STATUS", "STARTED")

		fmt.Printf("Analysing %d line(s) ...\n\n", len(lines))
		if runErr := bsa.Run(lines, opts, jlog); runErr != nil {
			log.Fatalf("Analysis failed: %v", runErr)
		}
		fmt.Println("Analysis complete")
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// ------------------------------------------------ INPUT ------------------------------------------------------- //
	analyzeCmd.Flags().StringP("table", "V", "", "Path to variant table (tab separated)")
	analyzeCmd.Flags().StringP("name", "n", "line", "Analysis line name, used for output file prefixes")
	analyzeCmd.Flags().StringP("out", "o", ".", "Output directory")

	// -------------------------------------------- BASIC PARAMS ---------------------------------------------------- //
	analyzeCmd.Flags().StringP("segregation", "s", "R", "Segregation pattern: R (recessive) or D (dominant)")
	analyzeCmd.Flags().Float64P("span", "p", 0.3, "LOESS bandwidth fraction in (0,1]")
	analyzeCmd.Flags().IntP("edge_bound", "e", 15, "Rows mirrored at each chromosome end before smoothing")
	analyzeCmd.Flags().IntP("shuffle_iterations", "i", 1000, "Bootstrap trials for empirical cutoffs")
	analyzeCmd.Flags().Int("workers", 0, "Parallel bootstrap workers (0 = all cores)")
	analyzeCmd.Flags().Uint64("seed", 0, "Random seed (0 = seed from clock)")

	// ----------------------------------------------- FILTERS ------------------------------------------------------ //
	analyzeCmd.Flags().Bool("filter_indels", false, "Drop insertion/deletion records before analysis")
	analyzeCmd.Flags().Bool("filter_ems", false, "Keep only EMS-type transitions")
	analyzeCmd.Flags().String("snpmask", "", "Path to background SNP table to mask")
}
