package analyzer

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/constants"
	"github.com/ludo-technologies/jstrace/internal/resolver"
)

// DependOnGraph accumulates per-module SymbolDependency records into
// the project-wide depend-on graph. Records must arrive in scheduler
// order so namespace and star-re-export expansion can read the target
// module's named exports.
type DependOnGraph struct {
	graph *domain.Graph
	res   *resolver.Resolver
}

// NewDependOnGraph creates an empty graph builder.
func NewDependOnGraph(res *resolver.Resolver) *DependOnGraph {
	return &DependOnGraph{
		graph: domain.NewGraph(),
		res:   res,
	}
}

// Graph exposes the accumulated graph.
func (g *DependOnGraph) Graph() *domain.Graph {
	return g.graph
}

// AddSymbolDependency folds one module record into the graph. Entry
// points run in fixed order: local variables, named exports, default
// export, star re-exports. Unresolvable specifiers contribute nothing.
func (g *DependOnGraph) AddSymbolDependency(sd *domain.SymbolDependency) error {
	g.addDeclaredNodes(sd)

	if err := g.handleLocalVariableTable(sd); err != nil {
		return err
	}
	if err := g.handleNamedExportTable(sd); err != nil {
		return err
	}
	if err := g.handleDefaultExport(sd); err != nil {
		return err
	}
	return g.handleReExportStarFrom(sd)
}

// addDeclaredNodes materializes every declared symbol of the module so
// symbols without edges still appear as nodes.
func (g *DependOnGraph) addDeclaredNodes(sd *domain.SymbolDependency) {
	module := sd.CanonicalPath
	for name := range sd.LocalVariableTable {
		g.graph.AddNode(module, domain.SymbolID{Variant: domain.SymbolLocalVariable, Name: name})
	}
	for name := range sd.NamedExportTable {
		g.graph.AddNode(module, domain.SymbolID{Variant: domain.SymbolNamedExport, Name: name})
	}
	if sd.DefaultExport != nil {
		g.graph.AddNode(module, domain.SymbolID{Variant: domain.SymbolDefaultExport})
	}
	if !g.graph.HasModule(module) {
		g.graph.Modules[module] = make(map[domain.SymbolID]map[domain.SymbolRef]struct{})
	}
}

func (g *DependOnGraph) handleLocalVariableTable(sd *domain.SymbolDependency) error {
	module := sd.CanonicalPath
	for _, name := range sortedKeys(sd.LocalVariableTable) {
		variable := sd.LocalVariableTable[name]
		current := domain.SymbolRef{Module: module, Variant: domain.SymbolLocalVariable, Name: name}

		// Entries in DependOn are guaranteed to be locals of the same
		// module
		for _, dependOn := range variable.DependOn {
			g.graph.AddEdge(current, domain.SymbolRef{
				Module:  module,
				Variant: domain.SymbolLocalVariable,
				Name:    dependOn,
			})
		}

		if variable.ImportFrom != nil {
			g.addForeignEdges(current, module, *variable.ImportFrom)
		}
	}
	return nil
}

func (g *DependOnGraph) handleNamedExportTable(sd *domain.SymbolDependency) error {
	module := sd.CanonicalPath
	for _, exported := range sortedExportKeys(sd.NamedExportTable) {
		export := sd.NamedExportTable[exported]
		current := domain.SymbolRef{Module: module, Variant: domain.SymbolNamedExport, Name: exported}

		switch export.Kind {
		case domain.ExportLocal:
			g.graph.AddEdge(current, domain.SymbolRef{
				Module:  module,
				Variant: domain.SymbolLocalVariable,
				Name:    export.Name,
			})
		case domain.ExportReExport:
			g.addForeignEdges(current, module, *export.From)
		}
	}
	return nil
}

func (g *DependOnGraph) handleDefaultExport(sd *domain.SymbolDependency) error {
	if sd.DefaultExport == nil {
		return nil
	}
	module := sd.CanonicalPath
	current := domain.SymbolRef{Module: module, Variant: domain.SymbolDefaultExport}

	switch sd.DefaultExport.Kind {
	case domain.ExportLocal:
		g.graph.AddEdge(current, domain.SymbolRef{
			Module:  module,
			Variant: domain.SymbolLocalVariable,
			Name:    sd.DefaultExport.Name,
		})
	case domain.ExportReExport:
		from := *sd.DefaultExport.From
		if from.Kind == domain.FromNamespace {
			// The extractor rejects this combination; reaching it means
			// the record was built by hand
			return domain.NewDomainError(domain.ErrExtractor,
				fmt.Sprintf("default export of %s sourced from a namespace", module), nil)
		}
		g.addForeignEdges(current, module, from)
	}
	return nil
}

func (g *DependOnGraph) handleReExportStarFrom(sd *domain.SymbolDependency) error {
	module := sd.CanonicalPath
	for _, specifier := range sd.ReExportStarFrom {
		from, err := g.res.Resolve(module, specifier)
		if err != nil {
			continue
		}
		// The target module was released before this one, so its named
		// exports are complete. Mirror each one onto this module.
		for _, name := range g.graph.NamedExportNames(from) {
			if name == constants.AnonymousDefaultExportName {
				continue
			}
			current := domain.SymbolRef{Module: module, Variant: domain.SymbolNamedExport, Name: name}
			g.graph.AddEdge(current, domain.SymbolRef{
				Module:  from,
				Variant: domain.SymbolNamedExport,
				Name:    name,
			})
		}
	}
	return nil
}

// addForeignEdges resolves the source module and links current to the
// symbols it pulls in. Resolution failure drops the reference entirely.
func (g *DependOnGraph) addForeignEdges(current domain.SymbolRef, module string, from domain.FromOtherModule) {
	resolved, err := g.res.Resolve(module, from.From)
	if err != nil {
		return
	}

	switch from.Kind {
	case domain.FromNamed:
		g.graph.AddEdge(current, domain.SymbolRef{
			Module:  resolved,
			Variant: domain.SymbolNamedExport,
			Name:    from.Name,
		})
	case domain.FromDefault:
		g.graph.AddEdge(current, domain.SymbolRef{
			Module:  resolved,
			Variant: domain.SymbolDefaultExport,
		})
	case domain.FromNamespace:
		// The target was released before this module; expand its named
		// exports, keeping the anonymous default from leaking through
		// the namespace channel
		for _, name := range g.graph.NamedExportNames(resolved) {
			if name == constants.AnonymousDefaultExportName {
				continue
			}
			g.graph.AddEdge(current, domain.SymbolRef{
				Module:  resolved,
				Variant: domain.SymbolNamedExport,
				Name:    name,
			})
		}
	}
}

func sortedKeys(m map[string]*domain.ModuleScopedVariable) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedExportKeys(m map[string]domain.ModuleExport) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
