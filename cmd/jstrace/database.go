package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/jstrace/internal/config"
	"github.com/ludo-technologies/jstrace/service"
	"github.com/spf13/cobra"
)

var (
	databaseInput       string
	databaseTranslation string
	databaseOutput      string
	databaseConfigPath  string
	databaseNoProgress  bool
)

func databaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "database",
		Short: "Parse a project and export it into a SQLite database",
		Long: `Parse a project and project the symbol graph, translations and
routes into a normalized SQLite database.

Examples:
  # Analyze ./web and write web.db
  jstrace database -i ./web -t ./web/translation.json -o web.db`,
		RunE: runDatabase,
	}

	cmd.Flags().StringVarP(&databaseInput, "input", "i", "",
		"Project root to analyze")
	cmd.Flags().StringVarP(&databaseTranslation, "translation", "t", "",
		"Translation file path (JSON, or YAML by extension)")
	cmd.Flags().StringVarP(&databaseOutput, "output", "o", "",
		"Output database path")
	cmd.Flags().StringVar(&databaseConfigPath, "config", "",
		"Config file path (default: .jstrace.toml in the working directory)")
	cmd.Flags().BoolVar(&databaseNoProgress, "no-progress", false,
		"Disable the progress bar")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("translation")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runDatabase(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(databaseConfigPath)
	if err != nil {
		return err
	}

	progress := service.NewProgressManager(!databaseNoProgress)
	defer progress.Close()

	svc := service.NewDatabaseService(cfg, progress)
	warnings, err := svc.Export(cmd.Context(), databaseInput, databaseTranslation, databaseOutput)
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	if err != nil {
		return fmt.Errorf("parse and export project to database: %w", err)
	}
	return nil
}
