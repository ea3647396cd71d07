package domain

// SymbolVariant classifies a module-scoped symbol.
type SymbolVariant string

const (
	// SymbolLocalVariable is a module-level binding (const/let/var/function/class)
	SymbolLocalVariable SymbolVariant = "local_variable"

	// SymbolNamedExport is an export visible under a name
	SymbolNamedExport SymbolVariant = "named_export"

	// SymbolDefaultExport is the module's default export; its name is always empty
	SymbolDefaultExport SymbolVariant = "default_export"
)

// FromKind describes how a symbol is sourced from another module.
type FromKind string

const (
	// FromNamed represents { name } imports and re-exports
	FromNamed FromKind = "named"

	// FromDefault represents default imports and re-exports
	FromDefault FromKind = "default"

	// FromNamespace represents * as ns imports and re-exports
	FromNamespace FromKind = "namespace"
)

// FromOtherModule records the foreign source of a symbol.
type FromOtherModule struct {
	// From is the import specifier as written in the source
	From string `json:"from"`

	// Kind is the import form
	Kind FromKind `json:"kind"`

	// Name is the original exported name; set only for FromNamed
	Name string `json:"name,omitempty"`
}

// ExportKind tags a ModuleExport.
type ExportKind string

const (
	// ExportLocal means the export refers to a local symbol of the same module
	ExportLocal ExportKind = "local"

	// ExportReExport means the export is sourced from another module
	ExportReExport ExportKind = "re_export"
)

// ModuleExport describes where an exported symbol comes from.
// Exactly one of Name (ExportLocal) or From (ExportReExport) is meaningful.
type ModuleExport struct {
	Kind ExportKind       `json:"kind"`
	Name string           `json:"name,omitempty"`
	From *FromOtherModule `json:"from,omitempty"`
}

// LocalExport builds a ModuleExport that points at a local symbol.
func LocalExport(name string) ModuleExport {
	return ModuleExport{Kind: ExportLocal, Name: name}
}

// ReExportFrom builds a ModuleExport sourced from another module.
func ReExportFrom(from FromOtherModule) ModuleExport {
	f := from
	return ModuleExport{Kind: ExportReExport, From: &f}
}

// ModuleScopedVariable is one entry of a module's local variable table.
type ModuleScopedVariable struct {
	// DependOn lists local names of the same module referenced by this
	// symbol's initializer. Every entry is a key of the module's
	// LocalVariableTable.
	DependOn []string `json:"depend_on,omitempty"`

	// ImportFrom is set when the symbol originates from an import
	ImportFrom *FromOtherModule `json:"import_from,omitempty"`
}

// SymbolDependency is the per-module record produced by the extractor.
// It is immutable once produced.
type SymbolDependency struct {
	// CanonicalPath is the project-root-relative module path
	CanonicalPath string `json:"canonical_path"`

	// LocalVariableTable maps local names to their origin and dependencies
	LocalVariableTable map[string]*ModuleScopedVariable `json:"local_variable_table"`

	// NamedExportTable maps exported names to their source
	NamedExportTable map[string]ModuleExport `json:"named_export_table"`

	// DefaultExport is set if the module has a default export
	DefaultExport *ModuleExport `json:"default_export,omitempty"`

	// ReExportStarFrom lists `export * from` specifiers in source order
	ReExportStarFrom []string `json:"re_export_star_from,omitempty"`
}

// NewSymbolDependency creates an empty record for a module.
func NewSymbolDependency(canonicalPath string) *SymbolDependency {
	return &SymbolDependency{
		CanonicalPath:      canonicalPath,
		LocalVariableTable: make(map[string]*ModuleScopedVariable),
		NamedExportTable:   make(map[string]ModuleExport),
	}
}
