/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "phytobsa",
	Short: "Bulk segregant analysis of pooled sequencing data",
	Long: `phytobsa localizes trait-linked loci from pooled sequencing of
phenotype-divergent bulks:
1.	Delta-SNP ratio and G-statistic per polymorphic site
2.	Per-chromosome LOESS smoothing with edge-bias correction
3.	Empirical significance cutoffs by bootstrap randomization
4.	Candidate labeling, export and plotting
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cfgFile string
var refFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file ")
	rootCmd.PersistentFlags().StringVarP(&refFile, "reference", "r", "", "path to reference genome fasta file ")
}
