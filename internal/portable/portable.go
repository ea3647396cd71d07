// Package portable encodes the analysis aggregate into a single
// self-describing JSON document and decodes it back, so downstream
// impact tooling can consume a run without the database.
package portable

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/constants"
)

// Portable is the exported document. SymbolVariant tags survive the
// round trip as their string forms; the document carries no FromKind or
// ModuleExport values.
type Portable struct {
	ProjectRoot    string                         `json:"project_root"`
	Translations   domain.TranslationTable        `json:"translations"`
	I18nToSymbol   map[string]map[string][]string `json:"i18n_to_symbol"`
	SymbolToRoutes map[string][]domain.Route      `json:"symbol_to_routes"`
	UsedByGraph    *GraphDoc                      `json:"used_by_graph"`
}

// GraphDoc is the structural encoding of a symbol graph.
type GraphDoc struct {
	Modules map[string][]SymbolDoc `json:"modules"`
}

// SymbolDoc is one graph node with its outgoing edges.
type SymbolDoc struct {
	Variant domain.SymbolVariant `json:"variant"`
	Name    string               `json:"name"`

	// Anonymous flags the reserved anonymous-default local
	Anonymous bool `json:"anonymous,omitempty"`

	UsedBy []domain.SymbolRef `json:"used_by,omitempty"`
}

// New assembles a Portable from the run's aggregates.
func New(
	projectRoot string,
	translations domain.TranslationTable,
	i18nToSymbol map[string]domain.I18nUsage,
	symbolToRoutes map[string][]domain.Route,
	usedByGraph *domain.Graph,
) *Portable {
	return &Portable{
		ProjectRoot:    projectRoot,
		Translations:   translations,
		I18nToSymbol:   flattenI18n(i18nToSymbol),
		SymbolToRoutes: symbolToRoutes,
		UsedByGraph:    NewGraphDoc(usedByGraph),
	}
}

// Encode serializes the document.
func (p *Portable) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode portable document: %w", err)
	}
	return data, nil
}

// Decode parses a document produced by Encode.
func Decode(data []byte) (*Portable, error) {
	var p Portable
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode portable document: %w", err)
	}
	return &p, nil
}

// NewGraphDoc converts a graph into its document form, sorted so equal
// graphs encode byte-identically.
func NewGraphDoc(g *domain.Graph) *GraphDoc {
	doc := &GraphDoc{Modules: make(map[string][]SymbolDoc, len(g.Modules))}
	for module, symbols := range g.Modules {
		docs := make([]SymbolDoc, 0, len(symbols))
		for id := range symbols {
			docs = append(docs, SymbolDoc{
				Variant:   id.Variant,
				Name:      id.Name,
				Anonymous: id.Name == constants.AnonymousDefaultExportName,
				UsedBy:    g.Edges(id.Ref(module)),
			})
		}
		sort.Slice(docs, func(i, j int) bool {
			if docs[i].Variant != docs[j].Variant {
				return docs[i].Variant < docs[j].Variant
			}
			return docs[i].Name < docs[j].Name
		})
		doc.Modules[module] = docs
	}
	return doc
}

// ToGraph reconstructs the in-memory graph.
func (d *GraphDoc) ToGraph() *domain.Graph {
	g := domain.NewGraph()
	for module, symbols := range d.Modules {
		for _, symbol := range symbols {
			id := domain.SymbolID{Variant: symbol.Variant, Name: symbol.Name}
			g.AddNode(module, id)
			for _, target := range symbol.UsedBy {
				g.AddEdge(id.Ref(module), target)
			}
		}
	}
	return g
}

func flattenI18n(table map[string]domain.I18nUsage) map[string]map[string][]string {
	flat := make(map[string]map[string][]string, len(table))
	for module, usage := range table {
		symbols := make(map[string][]string, len(usage))
		for symbol, keys := range usage {
			sorted := make([]string, 0, len(keys))
			for key := range keys {
				sorted = append(sorted, key)
			}
			sort.Strings(sorted)
			symbols[symbol] = sorted
		}
		flat[module] = symbols
	}
	return flat
}
