package analyzer

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/constants"
	"github.com/ludo-technologies/jstrace/internal/parser"
)

// declaredGroup is one top-level declaration: the names it binds and
// the subtree whose references feed their depend_on sets. Destructured
// bindings share one group.
type declaredGroup struct {
	names []string
	init  *parser.Node
}

// CollectSymbolDependency transforms one module AST into its
// SymbolDependency record. Only module-level declarations matter; the
// walk never descends below top-level statements except to collect
// initializer references.
func CollectSymbolDependency(ast *parser.Node, canonicalPath string) (*domain.SymbolDependency, error) {
	sd := domain.NewSymbolDependency(canonicalPath)
	var groups []declaredGroup

	addLocal := func(name string) error {
		if _, exists := sd.LocalVariableTable[name]; exists {
			return domain.NewDomainError(domain.ErrExtractor,
				fmt.Sprintf("duplicate local binding %q in %s", name, canonicalPath), nil)
		}
		sd.LocalVariableTable[name] = &domain.ModuleScopedVariable{}
		return nil
	}

	addNamedExport := func(name string, export domain.ModuleExport) error {
		if _, exists := sd.NamedExportTable[name]; exists {
			return domain.NewDomainError(domain.ErrExtractor,
				fmt.Sprintf("duplicate named export %q in %s", name, canonicalPath), nil)
		}
		sd.NamedExportTable[name] = export
		return nil
	}

	setDefault := func(export domain.ModuleExport) error {
		if export.Kind == domain.ExportReExport && export.From.Kind == domain.FromNamespace {
			return domain.NewDomainError(domain.ErrExtractor,
				fmt.Sprintf("default export of %s cannot be sourced from a namespace", canonicalPath), nil)
		}
		if sd.DefaultExport != nil {
			return domain.NewDomainError(domain.ErrExtractor,
				fmt.Sprintf("duplicate default export in %s", canonicalPath), nil)
		}
		e := export
		sd.DefaultExport = &e
		return nil
	}

	for _, stmt := range ast.Body {
		switch stmt.Type {
		case parser.NodeImportDeclaration:
			if err := collectImport(stmt, sd, addLocal); err != nil {
				return nil, err
			}

		case parser.NodeFunction, parser.NodeGeneratorFunction, parser.NodeClass,
			parser.NodeInterfaceDeclaration, parser.NodeTypeAlias, parser.NodeEnumDeclaration,
			parser.NodeVariableDeclaration:
			for _, group := range declaredNames(stmt) {
				for _, name := range group.names {
					if err := addLocal(name); err != nil {
						return nil, err
					}
				}
				groups = append(groups, group)
			}

		case parser.NodeExportNamedDeclaration:
			if stmt.Declaration != nil {
				for _, group := range declaredNames(stmt.Declaration) {
					for _, name := range group.names {
						if err := addLocal(name); err != nil {
							return nil, err
						}
						if err := addNamedExport(name, domain.LocalExport(name)); err != nil {
							return nil, err
						}
					}
					groups = append(groups, group)
				}
				continue
			}
			for _, spec := range stmt.Specifiers {
				if spec.Type != parser.NodeExportSpecifier || spec.Local == nil {
					continue
				}
				localName := spec.Local.Name
				exported := spec.Name
				if stmt.Source != nil {
					from := domain.FromOtherModule{
						From: stmt.Source.StringValue(),
						Kind: domain.FromNamed,
						Name: localName,
					}
					if localName == "default" {
						from.Kind = domain.FromDefault
						from.Name = ""
					}
					if exported == "default" {
						if err := setDefault(domain.ReExportFrom(from)); err != nil {
							return nil, err
						}
						continue
					}
					if err := addNamedExport(exported, domain.ReExportFrom(from)); err != nil {
						return nil, err
					}
					continue
				}
				if exported == "default" {
					if err := setDefault(domain.LocalExport(localName)); err != nil {
						return nil, err
					}
					continue
				}
				if err := addNamedExport(exported, domain.LocalExport(localName)); err != nil {
					return nil, err
				}
			}

		case parser.NodeExportDefaultDeclaration:
			decl := stmt.Declaration
			if decl == nil {
				return nil, domain.NewDomainError(domain.ErrExtractor,
					fmt.Sprintf("ill-formed default export in %s", canonicalPath), nil)
			}
			switch {
			case decl.Type == parser.NodeIdentifier:
				// export default foo
				if err := setDefault(domain.LocalExport(decl.Name)); err != nil {
					return nil, err
				}
			case decl.Name != "":
				// export default function foo() {} / class Foo {}
				if err := addLocal(decl.Name); err != nil {
					return nil, err
				}
				groups = append(groups, declaredGroup{names: []string{decl.Name}, init: decl})
				if err := setDefault(domain.LocalExport(decl.Name)); err != nil {
					return nil, err
				}
			default:
				// export default <expr>: synthesize the reserved local
				name := constants.AnonymousDefaultExportName
				if err := addLocal(name); err != nil {
					return nil, err
				}
				groups = append(groups, declaredGroup{names: []string{name}, init: decl})
				if err := setDefault(domain.LocalExport(name)); err != nil {
					return nil, err
				}
			}

		case parser.NodeExportAllDeclaration:
			if stmt.Source == nil {
				continue
			}
			source := stmt.Source.StringValue()
			if stmt.Name != "" {
				// export * as ns from 'module'
				export := domain.ReExportFrom(domain.FromOtherModule{
					From: source,
					Kind: domain.FromNamespace,
				})
				if err := addNamedExport(stmt.Name, export); err != nil {
					return nil, err
				}
				continue
			}
			sd.ReExportStarFrom = append(sd.ReExportStarFrom, source)
		}
	}

	// Second pass: resolve initializer references against the complete
	// local table so forward references are honored
	for _, group := range groups {
		deps := moduleScopedRefs(group.init, sd.LocalVariableTable)
		if len(deps) == 0 {
			continue
		}
		for _, name := range group.names {
			sd.LocalVariableTable[name].DependOn = deps
		}
	}

	return sd, nil
}

// collectImport records the locals bound by one import statement.
// Side-effect imports bind nothing.
func collectImport(stmt *parser.Node, sd *domain.SymbolDependency, addLocal func(string) error) error {
	if stmt.Source == nil {
		return nil
	}
	source := stmt.Source.StringValue()

	for _, spec := range stmt.Specifiers {
		var from domain.FromOtherModule
		switch spec.Type {
		case parser.NodeImportDefaultSpecifier:
			from = domain.FromOtherModule{From: source, Kind: domain.FromDefault}
		case parser.NodeImportNamespaceSpecifier:
			from = domain.FromOtherModule{From: source, Kind: domain.FromNamespace}
		case parser.NodeImportSpecifier:
			imported := spec.Name
			if spec.Imported != nil {
				imported = spec.Imported.Name
			}
			from = domain.FromOtherModule{From: source, Kind: domain.FromNamed, Name: imported}
		default:
			continue
		}
		if spec.Name == "" {
			continue
		}
		if err := addLocal(spec.Name); err != nil {
			return err
		}
		f := from
		sd.LocalVariableTable[spec.Name].ImportFrom = &f
	}
	return nil
}

// declaredNames enumerates the binding groups of one top-level
// declaration node.
func declaredNames(decl *parser.Node) []declaredGroup {
	switch decl.Type {
	case parser.NodeFunction, parser.NodeGeneratorFunction, parser.NodeClass,
		parser.NodeInterfaceDeclaration, parser.NodeTypeAlias, parser.NodeEnumDeclaration:
		if decl.Name == "" {
			return nil
		}
		return []declaredGroup{{names: []string{decl.Name}, init: decl}}

	case parser.NodeVariableDeclaration:
		var groups []declaredGroup
		for _, declarator := range decl.Declarations {
			var names []string
			if declarator.Name != "" {
				names = []string{declarator.Name}
			} else {
				names = patternNames(declarator.Left)
			}
			if len(names) == 0 {
				continue
			}
			groups = append(groups, declaredGroup{names: names, init: declarator.Init})
		}
		return groups
	}
	return nil
}

// patternNames extracts the bound names of a destructuring pattern.
func patternNames(pattern *parser.Node) []string {
	if pattern == nil {
		return nil
	}
	switch pattern.Type {
	case parser.NodeIdentifier, parser.NodeShorthandPatternKey:
		return []string{pattern.Name}

	case parser.NodePairPattern:
		// { key: binding } - only the value side binds
		if len(pattern.Children) == 0 {
			return nil
		}
		return patternNames(pattern.Children[len(pattern.Children)-1])

	case parser.NodeAssignmentPattern, parser.NodeObjectAssignPattern:
		// { binding = default } - only the left side binds
		if len(pattern.Children) == 0 {
			return nil
		}
		return patternNames(pattern.Children[0])

	case parser.NodeObjectPattern, parser.NodeArrayPattern, parser.NodeRestPattern:
		var names []string
		for _, child := range pattern.Children {
			names = append(names, patternNames(child)...)
		}
		return names
	}
	return nil
}

// moduleScopedRefs collects the identifiers inside node that name
// module-scoped symbols of the same module, sorted and deduplicated.
// Dot-access properties and object-literal keys are not references.
func moduleScopedRefs(node *parser.Node, locals map[string]*domain.ModuleScopedVariable) []string {
	if node == nil {
		return nil
	}
	found := make(map[string]struct{})
	collectRefs(node, locals, found)
	if len(found) == 0 {
		return nil
	}
	refs := make([]string, 0, len(found))
	for name := range found {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs
}

func collectRefs(n *parser.Node, locals map[string]*domain.ModuleScopedVariable, found map[string]struct{}) {
	if n == nil {
		return
	}

	switch n.Type {
	case parser.NodeIdentifier:
		if _, ok := locals[n.Name]; ok {
			found[n.Name] = struct{}{}
		}
		return

	case parser.NodeMemberExpression:
		// a.b references a, never b
		collectRefs(n.Object, locals, found)
		return

	case parser.NodePair, parser.NodePairPattern:
		// { key: value } - the key is not a reference
		if len(n.Children) > 0 {
			collectRefs(n.Children[len(n.Children)-1], locals, found)
		}
		return

	case parser.NodeShorthandPatternKey:
		// destructuring binding, not a reference
		return

	case parser.NodeJSXElement:
		// <Home/> references the component binding
		if _, ok := locals[n.Name]; ok {
			found[n.Name] = struct{}{}
		}
	}

	for _, child := range n.Children {
		collectRefs(child, locals, found)
	}
	for _, stmt := range n.Body {
		collectRefs(stmt, locals, found)
	}
	for _, arg := range n.Arguments {
		collectRefs(arg, locals, found)
	}
	for _, decl := range n.Declarations {
		collectRefs(decl, locals, found)
	}
	for _, spec := range n.Specifiers {
		collectRefs(spec, locals, found)
	}
	collectRefs(n.Callee, locals, found)
	collectRefs(n.Object, locals, found)
	collectRefs(n.Property, locals, found)
	collectRefs(n.Left, locals, found)
	collectRefs(n.Init, locals, found)
	collectRefs(n.Declaration, locals, found)
}
