package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/jstrace/internal/config"
	"github.com/ludo-technologies/jstrace/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a jstrace configuration file",
		Long: `Generate a documented jstrace configuration file with sensible
defaults.

By default, creates .jstrace.toml in the current directory. Use
--interactive for a guided setup wizard.

Examples:
  # Create .jstrace.toml in current directory
  jstrace init

  # Custom output path
  jstrace init --config custom.toml

  # Overwrite existing file
  jstrace init --force

  # Interactive setup wizard
  jstrace init --interactive
  jstrace init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	defaults := config.DefaultConfig()
	translatorNames := defaults.I18n.TranslatorNames
	route := defaults.Routes

	if interactive {
		var err error
		translatorNames, route, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	// Check if file exists
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	// Check if parent directory exists
	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content := config.GetConfigTemplate(translatorNames, route)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'jstrace portable -i . -t translation.json -o out.json' to analyze your project.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) ([]string, config.RouteConfig, string, error) {
	defaults := config.DefaultConfig()

	fmt.Println()
	fmt.Println("jstrace Configuration Setup")
	fmt.Println("===========================")
	fmt.Println()

	// Translator identifiers
	translatorPrompt := promptui.Prompt{
		Label:   "Translator identifiers (comma separated)",
		Default: strings.Join(defaults.I18n.TranslatorNames, ", "),
	}
	translatorInput, err := translatorPrompt.Run()
	if err != nil {
		return nil, config.RouteConfig{}, "", fmt.Errorf("translator input cancelled: %w", err)
	}
	var translatorNames []string
	for _, name := range strings.Split(translatorInput, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			translatorNames = append(translatorNames, trimmed)
		}
	}
	if len(translatorNames) == 0 {
		translatorNames = defaults.I18n.TranslatorNames
	}

	fmt.Println()

	// Route declaration pattern
	routePatterns := []struct {
		Label string
		Value config.RouteConfig
	}{
		{"<Route path=\"…\" component={X}/> (react-router)", defaults.Routes},
		{"<Route path=\"…\" element={X}/> (react-router v6)", config.RouteConfig{
			ElementName: "Route", PathAttr: "path", TargetAttr: "element"}},
		{"Custom", config.RouteConfig{}},
	}

	routeTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }}",
		Inactive: "   {{ .Label | white }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	routePrompt := promptui.Select{
		Label:     "How are routes declared?",
		Items:     routePatterns,
		Templates: routeTemplates,
	}

	routeIdx, _, err := routePrompt.Run()
	if err != nil {
		return nil, config.RouteConfig{}, "", fmt.Errorf("route selection cancelled: %w", err)
	}
	route := routePatterns[routeIdx].Value

	if route.ElementName == "" {
		route, err = promptCustomRoute(defaults.Routes)
		if err != nil {
			return nil, config.RouteConfig{}, "", err
		}
	}

	fmt.Println()

	// Output path prompt
	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return nil, config.RouteConfig{}, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return translatorNames, route, outputPath, nil
}

func promptCustomRoute(defaults config.RouteConfig) (config.RouteConfig, error) {
	route := config.RouteConfig{}

	prompts := []struct {
		label    string
		fallback string
		target   *string
	}{
		{"Route element name", defaults.ElementName, &route.ElementName},
		{"Path attribute", defaults.PathAttr, &route.PathAttr},
		{"Target attribute", defaults.TargetAttr, &route.TargetAttr},
	}
	for _, p := range prompts {
		prompt := promptui.Prompt{Label: p.label, Default: p.fallback}
		value, err := prompt.Run()
		if err != nil {
			return route, fmt.Errorf("%s input cancelled: %w", strings.ToLower(p.label), err)
		}
		if value == "" {
			value = p.fallback
		}
		*p.target = value
	}
	return route, nil
}
