package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// JavaScript/TypeScript AST node types
const (
	// Program and structure
	NodeProgram NodeType = "Program"

	// Declarations
	NodeFunction           NodeType = "FunctionDeclaration"
	NodeFunctionExpression NodeType = "FunctionExpression"
	NodeArrowFunction      NodeType = "ArrowFunctionExpression"
	NodeGeneratorFunction  NodeType = "GeneratorFunctionDeclaration"
	NodeMethodDefinition   NodeType = "MethodDefinition"
	NodeClass              NodeType = "ClassDeclaration"
	NodeClassExpression    NodeType = "ClassExpression"

	// Variable declarations
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeVariableDeclarator  NodeType = "VariableDeclarator"
	NodeIdentifier          NodeType = "Identifier"

	// Expressions
	NodeCallExpression   NodeType = "CallExpression"
	NodeMemberExpression NodeType = "MemberExpression"

	// Literals
	NodeLiteral        NodeType = "Literal"
	NodeStringLiteral  NodeType = "StringLiteral"
	NodeNumberLiteral  NodeType = "NumberLiteral"
	NodeBooleanLiteral NodeType = "BooleanLiteral"
	NodeNullLiteral    NodeType = "NullLiteral"

	// Module system (ESM)
	NodeImportDeclaration        NodeType = "ImportDeclaration"
	NodeImportSpecifier          NodeType = "ImportSpecifier"
	NodeImportDefaultSpecifier   NodeType = "ImportDefaultSpecifier"
	NodeImportNamespaceSpecifier NodeType = "ImportNamespaceSpecifier"
	NodeExportNamedDeclaration   NodeType = "ExportNamedDeclaration"
	NodeExportDefaultDeclaration NodeType = "ExportDefaultDeclaration"
	NodeExportAllDeclaration     NodeType = "ExportAllDeclaration"
	NodeExportSpecifier          NodeType = "ExportSpecifier"

	// JSX
	NodeJSXElement   NodeType = "JSXElement"
	NodeJSXAttribute NodeType = "JSXAttribute"

	// Other statements
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeBlockStatement      NodeType = "BlockStatement"

	// TypeScript-specific declarations kept distinct so the extractor
	// can treat them as module-scoped bindings
	NodeInterfaceDeclaration NodeType = "InterfaceDeclaration"
	NodeTypeAlias            NodeType = "TypeAliasDeclaration"
	NodeEnumDeclaration      NodeType = "EnumDeclaration"
)

// Destructuring and object-literal node types passed through with their
// tree-sitter names; matched by the extractor's pattern walk.
const (
	NodeObjectPattern       NodeType = "object_pattern"
	NodeArrayPattern        NodeType = "array_pattern"
	NodePairPattern         NodeType = "pair_pattern"
	NodeRestPattern         NodeType = "rest_pattern"
	NodeAssignmentPattern   NodeType = "assignment_pattern"
	NodeObjectAssignPattern NodeType = "object_assignment_pattern"
	NodePair                NodeType = "pair"
	NodeShorthandPatternKey NodeType = "shorthand_property_identifier_pattern"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Name holds function/class/variable/attribute/element names
	Name string

	// Body holds function/program/block bodies
	Body []*Node

	// Expression fields
	Arguments []*Node // Call arguments
	Callee    *Node   // Function being called
	Object    *Node   // Object in member expression
	Property  *Node   // Property in member expression

	// Variable declaration fields
	Kind         string  // var, let, const
	Declarations []*Node // Variable declarators
	Left         *Node   // Destructuring pattern of a declarator
	Init         *Node   // Declarator initializer / attribute value

	// Import/Export fields
	Source      *Node   // Import/re-export source
	Specifiers  []*Node // Import/export specifiers, JSX attributes
	Declaration *Node   // Export declaration
	Imported    *Node   // Imported name
	Local       *Node   // Local binding

	// Raw literal text, quotes included for strings
	Raw string
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first and calls the visitor function for
// each node. If the visitor returns false, traversal of that branch is
// stopped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
	for _, stmt := range n.Body {
		stmt.Walk(visitor)
	}
	for _, arg := range n.Arguments {
		arg.Walk(visitor)
	}
	for _, decl := range n.Declarations {
		decl.Walk(visitor)
	}
	for _, spec := range n.Specifiers {
		spec.Walk(visitor)
	}

	if n.Callee != nil {
		n.Callee.Walk(visitor)
	}
	if n.Object != nil {
		n.Object.Walk(visitor)
	}
	if n.Property != nil {
		n.Property.Walk(visitor)
	}
	if n.Left != nil {
		n.Left.Walk(visitor)
	}
	if n.Init != nil {
		n.Init.Walk(visitor)
	}
	if n.Source != nil {
		n.Source.Walk(visitor)
	}
	if n.Declaration != nil {
		n.Declaration.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction returns true if the node is a function
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeFunction, NodeArrowFunction, NodeGeneratorFunction,
		NodeFunctionExpression, NodeMethodDefinition:
		return true
	}
	return false
}

// IsStringLiteral returns true for string literal nodes
func (n *Node) IsStringLiteral() bool {
	return n.Type == NodeStringLiteral
}

// StringValue returns the literal content of a string node with the
// surrounding quotes removed, or "" for non-string nodes.
func (n *Node) StringValue() string {
	if n == nil || n.Type != NodeStringLiteral {
		return ""
	}
	raw := n.Raw
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') ||
			(first == '\'' && last == '\'') ||
			(first == '`' && last == '`') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
