package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.I18n.TranslatorNames) != 2 {
		t.Errorf("Expected 2 default translator names, got %v", cfg.I18n.TranslatorNames)
	}
	if cfg.Routes.ElementName != "Route" || cfg.Routes.PathAttr != "path" || cfg.Routes.TargetAttr != "component" {
		t.Errorf("Unexpected default route pattern: %+v", cfg.Routes)
	}
	if len(cfg.Analysis.Extensions) == 0 {
		t.Error("Expected default extensions")
	}
	if cfg.Analysis.StrictParse {
		t.Error("Expected strict_parse off by default")
	}
}

func TestLoadConfigMissingDefaultFileUsesDefaults(t *testing.T) {
	cwd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Routes.ElementName != "Route" {
		t.Errorf("Expected defaults, got %+v", cfg.Routes)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[i18n]
translator_names = ["tr"]

[routes]
element_name = "Screen"
path_attr = "url"
target_attr = "render"

[analysis]
strict_parse = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Write config failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.I18n.TranslatorNames) != 1 || cfg.I18n.TranslatorNames[0] != "tr" {
		t.Errorf("Unexpected translators: %v", cfg.I18n.TranslatorNames)
	}
	if cfg.Routes.ElementName != "Screen" || cfg.Routes.PathAttr != "url" || cfg.Routes.TargetAttr != "render" {
		t.Errorf("Unexpected routes: %+v", cfg.Routes)
	}
	if !cfg.Analysis.StrictParse {
		t.Error("Expected strict_parse on")
	}
	// Unset sections keep their defaults
	if len(cfg.Analysis.Extensions) == 0 {
		t.Error("Expected default extensions to survive")
	}
}

func TestLoadConfigMissingExplicitFileFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Expected missing explicit config to fail")
	}
}

func TestConfigTemplateRoundTrips(t *testing.T) {
	defaults := DefaultConfig()
	content := GetConfigTemplate(defaults.I18n.TranslatorNames, defaults.Routes)

	for _, want := range []string{"[i18n]", "[routes]", "[analysis]", `element_name = "Route"`} {
		if !strings.Contains(content, want) {
			t.Errorf("Template missing %q", want)
		}
	}

	path := filepath.Join(t.TempDir(), ".jstrace.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Generated template must load: %v", err)
	}
	if cfg.Routes.ElementName != defaults.Routes.ElementName {
		t.Errorf("Template does not round-trip: %+v", cfg.Routes)
	}
}
