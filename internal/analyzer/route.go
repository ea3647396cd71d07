package analyzer

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/config"
	"github.com/ludo-technologies/jstrace/internal/parser"
)

// CollectRouteDependency scans a module for route declarations matching
// the configured pattern (by default <Route path="…" component={X}/>)
// and returns one Route per declaration. Every symbol referenced as a
// route target must be a local of the module; anything else is fatal
// for the module.
func CollectRouteDependency(ast *parser.Node, sd *domain.SymbolDependency, cfg config.RouteConfig) ([]domain.Route, error) {
	var routes []domain.Route
	var walkErr error

	ast.Walk(func(n *parser.Node) bool {
		if walkErr != nil {
			return false
		}
		if n.Type != parser.NodeJSXElement || n.Name != cfg.ElementName {
			return true
		}

		var path string
		var target *parser.Node
		for _, attr := range n.Specifiers {
			if attr.Type != parser.NodeJSXAttribute {
				continue
			}
			switch attr.Name {
			case cfg.PathAttr:
				path = attr.Init.StringValue()
			case cfg.TargetAttr:
				target = attr.Init
			}
		}
		if path == "" {
			return true
		}

		dependOn, err := routeTargets(target, sd)
		if err != nil {
			walkErr = err
			return false
		}
		routes = append(routes, domain.Route{Path: path, DependOn: dependOn})
		return true
	})

	if walkErr != nil {
		return nil, walkErr
	}
	return routes, nil
}

// routeTargets collects the local symbol names referenced by a route
// target expression.
func routeTargets(target *parser.Node, sd *domain.SymbolDependency) ([]string, error) {
	if target == nil {
		return nil, nil
	}

	referenced := make(map[string]struct{})
	collectTargetRefs(target, referenced)

	names := make([]string, 0, len(referenced))
	for name := range referenced {
		if _, ok := sd.LocalVariableTable[name]; !ok {
			return nil, domain.NewDomainError(domain.ErrUnknownSymbolForOverlay,
				fmt.Sprintf("route target %q is not a local symbol of %s", name, sd.CanonicalPath), nil)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// collectTargetRefs gathers identifiers with the same discipline as the
// extractor: dot-access properties and object keys do not count.
func collectTargetRefs(n *parser.Node, found map[string]struct{}) {
	if n == nil {
		return
	}
	switch n.Type {
	case parser.NodeIdentifier:
		found[n.Name] = struct{}{}
		return
	case parser.NodeMemberExpression:
		collectTargetRefs(n.Object, found)
		return
	case parser.NodePair:
		if len(n.Children) > 0 {
			collectTargetRefs(n.Children[len(n.Children)-1], found)
		}
		return
	case parser.NodeJSXElement:
		found[n.Name] = struct{}{}
	}
	for _, child := range n.Children {
		collectTargetRefs(child, found)
	}
	for _, arg := range n.Arguments {
		collectTargetRefs(arg, found)
	}
	for _, spec := range n.Specifiers {
		collectTargetRefs(spec, found)
	}
	collectTargetRefs(n.Callee, found)
	collectTargetRefs(n.Init, found)
}

// SymbolToRoutes accumulates per-module route declarations over the
// whole run.
type SymbolToRoutes struct {
	// Table maps canonical path → route declarations of that module
	Table map[string][]domain.Route
}

// NewSymbolToRoutes creates an empty accumulator.
func NewSymbolToRoutes() *SymbolToRoutes {
	return &SymbolToRoutes{Table: make(map[string][]domain.Route)}
}

// CollectRouteDependency records the routes of one module.
func (s *SymbolToRoutes) CollectRouteDependency(ast *parser.Node, sd *domain.SymbolDependency, cfg config.RouteConfig) error {
	routes, err := CollectRouteDependency(ast, sd, cfg)
	if err != nil {
		return err
	}
	if len(routes) > 0 {
		s.Table[sd.CanonicalPath] = routes
	}
	return nil
}
