package domain

import "sort"

// SymbolID identifies a symbol within one module.
type SymbolID struct {
	Variant SymbolVariant `json:"variant"`
	Name    string        `json:"name"`
}

// SymbolRef identifies a symbol across the whole project.
type SymbolRef struct {
	Module  string        `json:"module"`
	Variant SymbolVariant `json:"variant"`
	Name    string        `json:"name"`
}

// ID returns the module-local part of the reference.
func (r SymbolRef) ID() SymbolID {
	return SymbolID{Variant: r.Variant, Name: r.Name}
}

// Ref combines a module path with a symbol ID.
func (id SymbolID) Ref(module string) SymbolRef {
	return SymbolRef{Module: module, Variant: id.Variant, Name: id.Name}
}

// Graph is a symbol-level dependency graph: module → symbol → edge
// targets. Nodes are created lazily on first reference and never
// deleted; edge sets are deduplicated. Cycles are permitted.
type Graph struct {
	Modules map[string]map[SymbolID]map[SymbolRef]struct{}
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{Modules: make(map[string]map[SymbolID]map[SymbolRef]struct{})}
}

// AddNode ensures the node exists, with no edges added.
func (g *Graph) AddNode(module string, id SymbolID) {
	symbols, ok := g.Modules[module]
	if !ok {
		symbols = make(map[SymbolID]map[SymbolRef]struct{})
		g.Modules[module] = symbols
	}
	if _, ok := symbols[id]; !ok {
		symbols[id] = make(map[SymbolRef]struct{})
	}
}

// AddEdge records src → dst, creating both endpoints if absent.
func (g *Graph) AddEdge(src, dst SymbolRef) {
	g.AddNode(src.Module, src.ID())
	g.AddNode(dst.Module, dst.ID())
	g.Modules[src.Module][src.ID()][dst] = struct{}{}
}

// HasModule reports whether the module has an entry in the graph; the
// entry may hold no nodes.
func (g *Graph) HasModule(module string) bool {
	_, ok := g.Modules[module]
	return ok
}

// HasNode reports whether the referenced symbol exists as a node.
func (g *Graph) HasNode(ref SymbolRef) bool {
	symbols, ok := g.Modules[ref.Module]
	if !ok {
		return false
	}
	_, ok = symbols[ref.ID()]
	return ok
}

// NamedExportNames returns the sorted names of the module's NamedExport
// nodes as currently known.
func (g *Graph) NamedExportNames(module string) []string {
	var names []string
	for id := range g.Modules[module] {
		if id.Variant == SymbolNamedExport {
			names = append(names, id.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Edges returns the sorted edge targets of a node.
func (g *Graph) Edges(src SymbolRef) []SymbolRef {
	symbols, ok := g.Modules[src.Module]
	if !ok {
		return nil
	}
	targets, ok := symbols[src.ID()]
	if !ok {
		return nil
	}
	refs := make([]SymbolRef, 0, len(targets))
	for dst := range targets {
		refs = append(refs, dst)
	}
	sortRefs(refs)
	return refs
}

// Nodes returns every node of the graph in sorted order.
func (g *Graph) Nodes() []SymbolRef {
	var refs []SymbolRef
	for module, symbols := range g.Modules {
		for id := range symbols {
			refs = append(refs, id.Ref(module))
		}
	}
	sortRefs(refs)
	return refs
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	count := 0
	for _, symbols := range g.Modules {
		count += len(symbols)
	}
	return count
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, symbols := range g.Modules {
		for _, targets := range symbols {
			count += len(targets)
		}
	}
	return count
}

// Transpose returns a new graph with every edge reversed and the full
// node set preserved, including isolated nodes.
func (g *Graph) Transpose() *Graph {
	t := NewGraph()
	for module, symbols := range g.Modules {
		for id, targets := range symbols {
			src := id.Ref(module)
			t.AddNode(module, id)
			for dst := range targets {
				t.AddEdge(dst, src)
			}
		}
	}
	return t
}

func sortRefs(refs []SymbolRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Module != refs[j].Module {
			return refs[i].Module < refs[j].Module
		}
		if refs[i].Variant != refs[j].Variant {
			return refs[i].Variant < refs[j].Variant
		}
		return refs[i].Name < refs[j].Name
	})
}
