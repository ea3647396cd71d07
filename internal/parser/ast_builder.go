package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds our internal AST from tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildProgram(tsNode)
	case "function_declaration", "function":
		return b.buildFunction(tsNode, NodeFunction)
	case "generator_function_declaration", "generator_function":
		return b.buildFunction(tsNode, NodeGeneratorFunction)
	case "function_expression":
		return b.buildFunction(tsNode, NodeFunctionExpression)
	case "arrow_function":
		return b.buildFunction(tsNode, NodeArrowFunction)
	case "method_definition":
		return b.buildFunction(tsNode, NodeMethodDefinition)
	case "class_declaration":
		return b.buildClass(tsNode, NodeClass)
	case "class":
		return b.buildClass(tsNode, NodeClassExpression)
	case "variable_declaration", "lexical_declaration":
		return b.buildVariableDeclaration(tsNode)
	case "variable_declarator":
		return b.buildVariableDeclarator(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "call_expression":
		return b.buildCallExpression(tsNode)
	case "member_expression":
		return b.buildMemberExpression(tsNode)
	case "identifier", "property_identifier", "shorthand_property_identifier", "type_identifier":
		return b.buildIdentifier(tsNode)
	case "shorthand_property_identifier_pattern":
		node := NewNode(NodeShorthandPatternKey)
		node.Location = b.getLocation(tsNode)
		node.Name = tsNode.Content(b.source)
		return node
	case "string", "number", "true", "false", "null":
		return b.buildLiteral(tsNode)
	case "import_statement":
		return b.buildImportStatement(tsNode)
	case "export_statement":
		return b.buildExportStatement(tsNode)
	case "statement_block":
		return b.buildBlockStatement(tsNode)
	case "jsx_element":
		return b.buildJSXElement(tsNode)
	case "jsx_self_closing_element":
		return b.buildJSXTag(tsNode)
	case "jsx_expression":
		return b.buildJSXExpression(tsNode)
	case "jsx_attribute":
		return b.buildJSXAttribute(tsNode)
	case "interface_declaration":
		return b.buildNamedDeclaration(tsNode, NodeInterfaceDeclaration)
	case "type_alias_declaration":
		return b.buildTypeAlias(tsNode)
	case "enum_declaration":
		return b.buildNamedDeclaration(tsNode, NodeEnumDeclaration)
	default:
		// Unknown nodes keep their tree-sitter type and children so
		// walks still descend through them
		return b.buildGenericNode(tsNode)
	}
}

// buildProgram builds a program node
func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	node := NewNode(NodeProgram)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) {
			childNode := b.buildNode(child)
			if childNode != nil {
				childNode.Parent = node
				node.Body = append(node.Body, childNode)
			}
		}
	}

	return node
}

// buildFunction builds any function-shaped node
func (b *ASTBuilder) buildFunction(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		bodyAST := b.buildNode(bodyNode)
		if bodyAST != nil {
			if bodyAST.Type == NodeBlockStatement {
				node.Body = bodyAST.Body
			} else {
				// Arrow function expression body
				node.Body = []*Node{bodyAST}
			}
		}
	}

	return node
}

// buildClass builds a class declaration or expression node
func (b *ASTBuilder) buildClass(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		for i := 0; i < int(bodyNode.ChildCount()); i++ {
			child := bodyNode.Child(i)
			if child != nil && !b.isTrivia(child) && child.Type() != "{" && child.Type() != "}" {
				childAST := b.buildNode(child)
				if childAST != nil {
					node.Body = append(node.Body, childAST)
				}
			}
		}
	}

	return node
}

// buildVariableDeclaration builds a variable declaration node
func (b *ASTBuilder) buildVariableDeclaration(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclaration)
	node.Location = b.getLocation(tsNode)

	if tsNode.Type() == "lexical_declaration" {
		if tsNode.ChildCount() > 0 {
			firstChild := tsNode.Child(0)
			if firstChild != nil {
				kind := firstChild.Content(b.source)
				if kind == "let" || kind == "const" {
					node.Kind = kind
				}
			}
		}
	} else {
		node.Kind = "var"
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "variable_declarator" {
			declNode := b.buildNode(child)
			if declNode != nil {
				node.Declarations = append(node.Declarations, declNode)
			}
		}
	}

	return node
}

// buildVariableDeclarator builds one declarator. Simple bindings carry
// the name directly; destructuring patterns land in Left.
func (b *ASTBuilder) buildVariableDeclarator(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariableDeclarator)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		if nameNode.Type() == "identifier" {
			node.Name = nameNode.Content(b.source)
		} else {
			node.Left = b.buildNode(nameNode)
		}
	}

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Init = b.buildNode(valueNode)
	}

	return node
}

// buildExpressionStatement unwraps the inner expression
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != ";" {
			return b.buildNode(child)
		}
	}

	node := NewNode(NodeExpressionStatement)
	node.Location = b.getLocation(tsNode)
	return node
}

// buildCallExpression builds a call expression node
func (b *ASTBuilder) buildCallExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeCallExpression)
	node.Location = b.getLocation(tsNode)

	if funcNode := b.getChildByFieldName(tsNode, "function"); funcNode != nil {
		node.Callee = b.buildNode(funcNode)
	}

	if argsNode := b.getChildByFieldName(tsNode, "arguments"); argsNode != nil {
		for i := 0; i < int(argsNode.ChildCount()); i++ {
			child := argsNode.Child(i)
			if child != nil && !b.isTrivia(child) && child.Type() != "(" && child.Type() != ")" && child.Type() != "," {
				argNode := b.buildNode(child)
				if argNode != nil {
					node.Arguments = append(node.Arguments, argNode)
				}
			}
		}
	}

	return node
}

// buildMemberExpression builds a member expression node
func (b *ASTBuilder) buildMemberExpression(tsNode *sitter.Node) *Node {
	node := NewNode(NodeMemberExpression)
	node.Location = b.getLocation(tsNode)

	if objNode := b.getChildByFieldName(tsNode, "object"); objNode != nil {
		node.Object = b.buildNode(objNode)
	}

	if propNode := b.getChildByFieldName(tsNode, "property"); propNode != nil {
		node.Property = b.buildNode(propNode)
	}

	return node
}

// buildIdentifier builds an identifier node
func (b *ASTBuilder) buildIdentifier(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIdentifier)
	node.Location = b.getLocation(tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

// buildLiteral builds a literal node
func (b *ASTBuilder) buildLiteral(tsNode *sitter.Node) *Node {
	node := NewNode(NodeLiteral)
	node.Location = b.getLocation(tsNode)
	node.Raw = tsNode.Content(b.source)

	switch tsNode.Type() {
	case "string":
		node.Type = NodeStringLiteral
	case "number":
		node.Type = NodeNumberLiteral
	case "true", "false":
		node.Type = NodeBooleanLiteral
	case "null":
		node.Type = NodeNullLiteral
	}

	return node
}

// buildImportStatement builds an import statement node
func (b *ASTBuilder) buildImportStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeImportDeclaration)
	node.Location = b.getLocation(tsNode)

	if sourceNode := b.getChildByFieldName(tsNode, "source"); sourceNode != nil {
		node.Source = b.buildNode(sourceNode)
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "import_clause":
			b.extractImportClause(child, node)

		case "namespace_import":
			node.Specifiers = append(node.Specifiers, b.buildNamespaceImport(child))

		case "named_imports":
			b.extractNamedImports(child, node)
		}
	}

	return node
}

// extractImportClause extracts specifiers from an import_clause node
func (b *ASTBuilder) extractImportClause(clauseNode *sitter.Node, node *Node) {
	for i := 0; i < int(clauseNode.ChildCount()); i++ {
		child := clauseNode.Child(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "identifier":
			// Default import: import React from 'react'
			specNode := NewNode(NodeImportDefaultSpecifier)
			specNode.Location = b.getLocation(child)
			specNode.Name = child.Content(b.source)
			node.Specifiers = append(node.Specifiers, specNode)

		case "namespace_import":
			node.Specifiers = append(node.Specifiers, b.buildNamespaceImport(child))

		case "named_imports":
			b.extractNamedImports(child, node)
		}
	}
}

// buildNamespaceImport handles: import * as name from 'module'
func (b *ASTBuilder) buildNamespaceImport(tsNode *sitter.Node) *Node {
	specNode := NewNode(NodeImportNamespaceSpecifier)
	specNode.Location = b.getLocation(tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.Type() == "identifier" {
			specNode.Name = child.Content(b.source)
		}
	}
	return specNode
}

// extractNamedImports handles: import { a, b as c } from 'module'
func (b *ASTBuilder) extractNamedImports(tsNode *sitter.Node, node *Node) {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		importSpec := tsNode.Child(i)
		if importSpec != nil && importSpec.Type() == "import_specifier" {
			specNode := b.buildImportSpecifier(importSpec)
			if specNode != nil {
				node.Specifiers = append(node.Specifiers, specNode)
			}
		}
	}
}

// buildImportSpecifier builds an import specifier node
func (b *ASTBuilder) buildImportSpecifier(tsNode *sitter.Node) *Node {
	specNode := NewNode(NodeImportSpecifier)
	specNode.Location = b.getLocation(tsNode)

	// An import specifier can have: name or name as alias
	var identifiers []*sitter.Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && (child.Type() == "identifier" || child.Type() == "string") {
			identifiers = append(identifiers, child)
		}
	}

	if len(identifiers) == 1 {
		// import { foo } - same name for imported and local
		specNode.Name = identifiers[0].Content(b.source)
		specNode.Imported = NewNode(NodeIdentifier)
		specNode.Imported.Name = specNode.Name
	} else if len(identifiers) == 2 {
		// import { foo as bar } - first is imported, second is local
		specNode.Imported = NewNode(NodeIdentifier)
		specNode.Imported.Name = identifiers[0].Content(b.source)
		specNode.Name = identifiers[1].Content(b.source)
	}

	return specNode
}

// buildExportStatement builds an export statement node
func (b *ASTBuilder) buildExportStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeExportNamedDeclaration)
	node.Location = b.getLocation(tsNode)

	hasDefault := false
	hasWildcard := false

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "default":
			hasDefault = true
		case "*":
			hasWildcard = true
		case "namespace_export":
			// export * as ns from 'module'
			hasWildcard = true
			for j := 0; j < int(child.ChildCount()); j++ {
				grandchild := child.Child(j)
				if grandchild != nil && (grandchild.Type() == "identifier" || grandchild.Type() == "string") {
					node.Name = grandchild.Content(b.source)
				}
			}
		case "export_clause":
			b.extractExportClause(child, node)
		}
	}

	if hasDefault {
		node.Type = NodeExportDefaultDeclaration
	} else if hasWildcard {
		node.Type = NodeExportAllDeclaration
	}

	if declNode := b.getChildByFieldName(tsNode, "declaration"); declNode != nil {
		node.Declaration = b.buildNode(declNode)
	}

	// export default <expr>
	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Declaration = b.buildNode(valueNode)
	}

	if sourceNode := b.getChildByFieldName(tsNode, "source"); sourceNode != nil {
		node.Source = b.buildNode(sourceNode)
	}

	return node
}

// extractExportClause extracts specifiers from an export_clause node
func (b *ASTBuilder) extractExportClause(clauseNode *sitter.Node, node *Node) {
	for i := 0; i < int(clauseNode.ChildCount()); i++ {
		child := clauseNode.Child(i)
		if child == nil || child.Type() != "export_specifier" {
			continue
		}

		specNode := NewNode(NodeExportSpecifier)
		specNode.Location = b.getLocation(child)

		// The `default` keyword is a legal export name on either side
		// (export { default as x } from, export { x as default })
		var names []string
		for j := 0; j < int(child.ChildCount()); j++ {
			grandchild := child.Child(j)
			if grandchild == nil {
				continue
			}
			switch grandchild.Type() {
			case "identifier", "default":
				names = append(names, grandchild.Content(b.source))
			}
		}

		if len(names) == 1 {
			// export { foo } - same name
			specNode.Name = names[0]
			specNode.Local = NewNode(NodeIdentifier)
			specNode.Local.Name = names[0]
		} else if len(names) == 2 {
			// export { foo as bar } - first is local, second is exported
			specNode.Local = NewNode(NodeIdentifier)
			specNode.Local.Name = names[0]
			specNode.Name = names[1]
		}

		node.Specifiers = append(node.Specifiers, specNode)
	}
}

// buildBlockStatement builds a block statement node
func (b *ASTBuilder) buildBlockStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeBlockStatement)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "{" && child.Type() != "}" {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.Body = append(node.Body, childNode)
			}
		}
	}

	return node
}

// buildJSXElement builds a <X ...>...</X> element
func (b *ASTBuilder) buildJSXElement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeJSXElement)
	node.Location = b.getLocation(tsNode)

	if openTag := b.getChildByFieldName(tsNode, "open_tag"); openTag != nil {
		b.fillJSXTag(openTag, node)
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}
		switch child.Type() {
		case "jsx_opening_element", "jsx_closing_element":
			continue
		}
		childNode := b.buildNode(child)
		if childNode != nil {
			node.AddChild(childNode)
		}
	}

	return node
}

// buildJSXTag builds a self-closing element <X .../>
func (b *ASTBuilder) buildJSXTag(tsNode *sitter.Node) *Node {
	node := NewNode(NodeJSXElement)
	node.Location = b.getLocation(tsNode)
	b.fillJSXTag(tsNode, node)
	return node
}

// fillJSXTag extracts the element name and attributes from an opening
// or self-closing tag
func (b *ASTBuilder) fillJSXTag(tagNode *sitter.Node, node *Node) {
	if nameNode := b.getChildByFieldName(tagNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	for i := 0; i < int(tagNode.ChildCount()); i++ {
		child := tagNode.Child(i)
		if child != nil && child.Type() == "jsx_attribute" {
			attrNode := b.buildJSXAttribute(child)
			if attrNode != nil {
				node.Specifiers = append(node.Specifiers, attrNode)
			}
		}
	}
}

// buildJSXAttribute builds name=value; the value lands in Init
func (b *ASTBuilder) buildJSXAttribute(tsNode *sitter.Node) *Node {
	node := NewNode(NodeJSXAttribute)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "property_identifier", "identifier":
			node.Name = child.Content(b.source)
		case "=":
			continue
		default:
			node.Init = b.buildNode(child)
		}
	}

	return node
}

// buildJSXExpression unwraps { expr } inside JSX
func (b *ASTBuilder) buildJSXExpression(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) && child.Type() != "{" && child.Type() != "}" {
			return b.buildNode(child)
		}
	}
	return nil
}

// buildNamedDeclaration handles TypeScript interface/enum declarations
func (b *ASTBuilder) buildNamedDeclaration(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		bodyAST := b.buildNode(bodyNode)
		if bodyAST != nil {
			node.AddChild(bodyAST)
		}
	}

	return node
}

// buildTypeAlias handles: type X = ...
func (b *ASTBuilder) buildTypeAlias(tsNode *sitter.Node) *Node {
	node := NewNode(NodeTypeAlias)
	node.Location = b.getLocation(tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if valueNode := b.getChildByFieldName(tsNode, "value"); valueNode != nil {
		node.Init = b.buildNode(valueNode)
	}

	return node
}

// buildGenericNode builds a generic node for unknown types
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	node := NewNode(NodeType(tsNode.Type()))
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) {
			childNode := b.buildNode(child)
			if childNode != nil {
				node.AddChild(childNode)
			}
		}
	}

	return node
}

// Helper methods

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// isTrivia checks if a node is trivia (whitespace, comments, etc.)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" ||
		nodeType == "line_comment" ||
		nodeType == "block_comment" ||
		nodeType == ""
}
