package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/cosmic/internal/export"
	"github.com/papapumpkin/cosmic/internal/ui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Generate and print the catalog",
	Long: `Generate the catalog for the configured count and seed and print it as a
table, or export it as json, csv, toml or yaml. The same count and seed always
produce the same catalog.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().String("format", "table", "output format: table, json, csv, toml, yaml")
	catalogCmd.Flags().StringP("out", "o", "", "write to this file instead of stdout")
	catalogCmd.Flags().Bool("conflicts", false, "only records whose measurements disagree")
	catalogCmd.Flags().Bool("from-store", false, "read the saved snapshot instead of generating")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	onlyConflicts, _ := cmd.Flags().GetBool("conflicts")
	fromStore, _ := cmd.Flags().GetBool("from-store")

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()
	if fromStore {
		if err := s.restore(cmd.Context()); err != nil {
			return err
		}
	}

	records := s.records
	if onlyConflicts {
		records = s.workspace().Conflicts()
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	if format == "table" {
		ui.NewTo(w).CatalogTable(records)
	} else {
		f, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		if err := export.Write(w, f, records); err != nil {
			return err
		}
	}

	if outPath != "" || format == "table" {
		ui.New().Generated(len(s.records), s.cfg.Catalog.Seed, len(s.workspace().Conflicts()))
	}
	return nil
}
