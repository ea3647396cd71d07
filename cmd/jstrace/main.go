package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/jstrace/internal/version"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jstrace",
		Short: "jstrace - symbol-level dependency tracing for JavaScript/TypeScript",
		Long: `jstrace parses a module-based JavaScript/TypeScript project into a
symbol-level dependency graph, attaches translation-key and route
overlays, and exports the result as a portable document or a SQLite
database for impact analysis.`,
		Version: version.GetVersion(),
	}

	// Add subcommands
	rootCmd.AddCommand(portableCmd())
	rootCmd.AddCommand(databaseCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("jstrace version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
