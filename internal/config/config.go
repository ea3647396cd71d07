package config

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/jstrace/internal/constants"
	"github.com/spf13/viper"
)

// Config represents the main configuration structure
type Config struct {
	// I18n holds translation usage collection configuration
	I18n I18nConfig `json:"i18n" mapstructure:"i18n" yaml:"i18n"`

	// Routes holds route declaration matching configuration
	Routes RouteConfig `json:"routes" mapstructure:"routes" yaml:"routes"`

	// Analysis holds general analysis configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`
}

// I18nConfig holds configuration for the i18n usage collector
type I18nConfig struct {
	// TranslatorNames are identifiers whose calls are treated as
	// translation usage when the first argument is a string literal
	TranslatorNames []string `json:"translatorNames" mapstructure:"translator_names" yaml:"translator_names"`
}

// RouteConfig describes the structural pattern identifying route bindings
type RouteConfig struct {
	// ElementName is the JSX element name, e.g. "Route"
	ElementName string `json:"elementName" mapstructure:"element_name" yaml:"element_name"`

	// PathAttr is the attribute carrying the route path literal
	PathAttr string `json:"pathAttr" mapstructure:"path_attr" yaml:"path_attr"`

	// TargetAttr is the attribute referencing the rendered symbol
	TargetAttr string `json:"targetAttr" mapstructure:"target_attr" yaml:"target_attr"`
}

// AnalysisConfig holds configuration shared by discovery and parsing
type AnalysisConfig struct {
	// Extensions is the recognized source extension set
	Extensions []string `json:"extensions" mapstructure:"extensions" yaml:"extensions"`

	// ExcludeDirs are directory names skipped during discovery
	ExcludeDirs []string `json:"excludeDirs" mapstructure:"exclude_dirs" yaml:"exclude_dirs"`

	// StrictParse makes a module parse error fatal for the whole run
	// instead of only for the offending module
	StrictParse bool `json:"strictParse" mapstructure:"strict_parse" yaml:"strict_parse"`

	// Concurrency bounds the scheduler pre-scan workers (0 = NumCPU)
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		I18n: I18nConfig{
			TranslatorNames: []string{"t", "translate"},
		},
		Routes: RouteConfig{
			ElementName: "Route",
			PathAttr:    "path",
			TargetAttr:  "component",
		},
		Analysis: AnalysisConfig{
			Extensions:  append([]string(nil), constants.DefaultExtensions...),
			ExcludeDirs: append([]string(nil), constants.DefaultExcludeDirs...),
		},
	}
}

// LoadConfig loads configuration from the given path, falling back to
// the defaults when path is empty and no .jstrace.toml exists in the
// working directory. Environment variables prefixed with JSTRACE
// override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.AutomaticEnv()

	if path == "" {
		// A missing default config file is not an error
		if _, err := os.Stat(constants.ConfigFileName); err == nil {
			path = constants.ConfigFileName
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("i18n.translator_names", defaults.I18n.TranslatorNames)
	v.SetDefault("routes.element_name", defaults.Routes.ElementName)
	v.SetDefault("routes.path_attr", defaults.Routes.PathAttr)
	v.SetDefault("routes.target_attr", defaults.Routes.TargetAttr)
	v.SetDefault("analysis.extensions", defaults.Analysis.Extensions)
	v.SetDefault("analysis.exclude_dirs", defaults.Analysis.ExcludeDirs)
	v.SetDefault("analysis.strict_parse", defaults.Analysis.StrictParse)
	v.SetDefault("analysis.concurrency", defaults.Analysis.Concurrency)
}
