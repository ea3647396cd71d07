package portable

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/constants"
)

func samplePortable() *Portable {
	g := domain.NewGraph()
	g.AddEdge(
		domain.SymbolRef{Module: "a.js", Variant: domain.SymbolNamedExport, Name: "x"},
		domain.SymbolRef{Module: "b.js", Variant: domain.SymbolLocalVariable, Name: "x"},
	)
	g.AddNode("c.js", domain.SymbolID{Variant: domain.SymbolDefaultExport})

	i18n := map[string]domain.I18nUsage{
		"a.js": {"Home": {"home.title": {}}},
	}
	routes := map[string][]domain.Route{
		"a.js": {{Path: "/home", DependOn: []string{"Home"}}},
	}
	return New("/project", domain.TranslationTable{"home.title": "Home"}, i18n, routes, g)
}

func TestPortableRoundTrip(t *testing.T) {
	original := samplePortable()

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.ProjectRoot != "/project" {
		t.Errorf("Unexpected project root: %q", decoded.ProjectRoot)
	}
	if decoded.Translations["home.title"] != "Home" {
		t.Errorf("Unexpected translations: %v", decoded.Translations)
	}
	if keys := decoded.I18nToSymbol["a.js"]["Home"]; len(keys) != 1 || keys[0] != "home.title" {
		t.Errorf("Unexpected i18n overlay: %v", decoded.I18nToSymbol)
	}
	if routes := decoded.SymbolToRoutes["a.js"]; len(routes) != 1 || routes[0].Path != "/home" {
		t.Errorf("Unexpected route overlay: %v", decoded.SymbolToRoutes)
	}

	g := decoded.UsedByGraph.ToGraph()
	src := domain.SymbolRef{Module: "a.js", Variant: domain.SymbolNamedExport, Name: "x"}
	dst := domain.SymbolRef{Module: "b.js", Variant: domain.SymbolLocalVariable, Name: "x"}
	edges := g.Edges(src)
	if len(edges) != 1 || edges[0] != dst {
		t.Errorf("Unexpected edges after round trip: %+v", edges)
	}
	if !g.HasNode(domain.SymbolRef{Module: "c.js", Variant: domain.SymbolDefaultExport}) {
		t.Error("Isolated node lost in round trip")
	}
}

func TestPortableEncodingIsDeterministic(t *testing.T) {
	first, err := samplePortable().Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := samplePortable().Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(first) != string(second) {
		t.Error("Equal inputs must encode byte-identically")
	}
}

func TestPortableTagsVariants(t *testing.T) {
	data, err := samplePortable().Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	for _, field := range []string{"project_root", "translations", "i18n_to_symbol", "symbol_to_routes", "used_by_graph"} {
		if _, ok := doc[field]; !ok {
			t.Errorf("Missing top-level field %q", field)
		}
	}

	text := string(data)
	for _, tag := range []string{`"named_export"`, `"local_variable"`, `"default_export"`} {
		if !strings.Contains(text, tag) {
			t.Errorf("Expected variant tag %s in output", tag)
		}
	}
}

func TestPortableFlagsAnonymousDefault(t *testing.T) {
	g := domain.NewGraph()
	g.AddNode("a.js", domain.SymbolID{
		Variant: domain.SymbolLocalVariable,
		Name:    constants.AnonymousDefaultExportName,
	})

	doc := NewGraphDoc(g)
	symbols := doc.Modules["a.js"]
	if len(symbols) != 1 || !symbols[0].Anonymous {
		t.Errorf("Expected the reserved local to be flagged, got %+v", symbols)
	}
}
