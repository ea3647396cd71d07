package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/jstrace/internal/config"
	"github.com/ludo-technologies/jstrace/service"
	"github.com/spf13/cobra"
)

var (
	portableInput       string
	portableTranslation string
	portableOutput      string
	portableConfigPath  string
	portableNoProgress  bool
)

func portableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portable",
		Short: "Parse a project and export it as a portable document",
		Long: `Parse a project and serialize the used-by graph with its overlays
into a single portable JSON document.

Examples:
  # Analyze ./web and write web.json
  jstrace portable -i ./web -t ./web/translation.json -o web.json`,
		RunE: runPortable,
	}

	cmd.Flags().StringVarP(&portableInput, "input", "i", "",
		"Project root to analyze")
	cmd.Flags().StringVarP(&portableTranslation, "translation", "t", "",
		"Translation file path (JSON, or YAML by extension)")
	cmd.Flags().StringVarP(&portableOutput, "output", "o", "",
		"Output document path")
	cmd.Flags().StringVar(&portableConfigPath, "config", "",
		"Config file path (default: .jstrace.toml in the working directory)")
	cmd.Flags().BoolVar(&portableNoProgress, "no-progress", false,
		"Disable the progress bar")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("translation")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runPortable(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(portableConfigPath)
	if err != nil {
		return err
	}

	progress := service.NewProgressManager(!portableNoProgress)
	defer progress.Close()

	svc := service.NewPortableService(cfg, progress)
	warnings, err := svc.Export(cmd.Context(), portableInput, portableTranslation, portableOutput)
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	if err != nil {
		return fmt.Errorf("parse and export project to portable: %w", err)
	}
	return nil
}
