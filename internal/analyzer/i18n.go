package analyzer

import (
	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/constants"
	"github.com/ludo-technologies/jstrace/internal/parser"
)

// CollectI18nUsage attaches translation-key usage to the local symbol
// whose top-level declaration encloses each call site. A key is a
// string-literal first argument of a call to one of translatorNames.
// Calls at module top level, outside any declaration, are dropped.
func CollectI18nUsage(ast *parser.Node, translatorNames []string) (domain.I18nUsage, error) {
	translators := make(map[string]struct{}, len(translatorNames))
	for _, name := range translatorNames {
		translators[name] = struct{}{}
	}

	usage := make(domain.I18nUsage)
	for _, stmt := range ast.Body {
		for _, group := range enclosingGroups(stmt) {
			keys := translationKeys(group.init, translators)
			for _, key := range keys {
				for _, name := range group.names {
					usage.AddKey(name, key)
				}
			}
		}
	}
	return usage, nil
}

// enclosingGroups lists the symbol-owning subtrees of one top-level
// statement: plain declarations, exported declarations, and default
// exports (named or anonymous).
func enclosingGroups(stmt *parser.Node) []declaredGroup {
	switch stmt.Type {
	case parser.NodeExportNamedDeclaration:
		if stmt.Declaration != nil {
			return declaredNames(stmt.Declaration)
		}
		return nil

	case parser.NodeExportDefaultDeclaration:
		decl := stmt.Declaration
		if decl == nil || decl.Type == parser.NodeIdentifier {
			return nil
		}
		name := decl.Name
		if name == "" {
			name = constants.AnonymousDefaultExportName
		}
		return []declaredGroup{{names: []string{name}, init: decl}}
	}
	return declaredNames(stmt)
}

// translationKeys collects the keys used inside one declaration subtree.
func translationKeys(node *parser.Node, translators map[string]struct{}) []string {
	if node == nil {
		return nil
	}
	var keys []string
	node.Walk(func(n *parser.Node) bool {
		if n.Type != parser.NodeCallExpression || n.Callee == nil {
			return true
		}
		if n.Callee.Type != parser.NodeIdentifier {
			return true
		}
		if _, ok := translators[n.Callee.Name]; !ok {
			return true
		}
		if len(n.Arguments) == 0 || !n.Arguments[0].IsStringLiteral() {
			return true
		}
		keys = append(keys, n.Arguments[0].StringValue())
		return true
	})
	return keys
}

// I18nToSymbol accumulates per-module i18n usage over the whole run.
type I18nToSymbol struct {
	// Table maps canonical path → local symbol name → translation keys
	Table map[string]domain.I18nUsage
}

// NewI18nToSymbol creates an empty accumulator.
func NewI18nToSymbol() *I18nToSymbol {
	return &I18nToSymbol{Table: make(map[string]domain.I18nUsage)}
}

// CollectI18nUsage records the usage of one module.
func (i *I18nToSymbol) CollectI18nUsage(canonicalPath string, ast *parser.Node, translatorNames []string) error {
	usage, err := CollectI18nUsage(ast, translatorNames)
	if err != nil {
		return err
	}
	if len(usage) > 0 {
		i.Table[canonicalPath] = usage
	}
	return nil
}
