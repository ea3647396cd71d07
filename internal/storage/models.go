package storage

import (
	"database/sql"
	"fmt"

	"github.com/ludo-technologies/jstrace/domain"
)

// Project is one analyzed project.
type Project struct {
	ID       int64
	RootPath string
	Name     string
}

// CreateProject inserts a project row.
func CreateProject(conn *sql.DB, rootPath, name string) (*Project, error) {
	result, err := conn.Exec(
		`INSERT INTO project (root_path, name) VALUES (?, ?)`, rootPath, name)
	if err != nil {
		return nil, fmt.Errorf("create project %s: %w", name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Project{ID: id, RootPath: rootPath, Name: name}, nil
}

// GetOrCreateModule upserts a module by canonical path.
func (p *Project) GetOrCreateModule(conn *sql.DB, canonicalPath string) (*Module, error) {
	if _, err := conn.Exec(
		`INSERT INTO module (project_id, canonical_path) VALUES (?, ?)
		 ON CONFLICT(project_id, canonical_path) DO NOTHING`,
		p.ID, canonicalPath); err != nil {
		return nil, fmt.Errorf("create module %s: %w", canonicalPath, err)
	}
	return p.GetModule(conn, canonicalPath)
}

// GetModule fetches a module by canonical path.
func (p *Project) GetModule(conn *sql.DB, canonicalPath string) (*Module, error) {
	module := &Module{ProjectID: p.ID, CanonicalPath: canonicalPath}
	err := conn.QueryRow(
		`SELECT id FROM module WHERE project_id = ? AND canonical_path = ?`,
		p.ID, canonicalPath).Scan(&module.ID)
	if err != nil {
		return nil, fmt.Errorf("get module %s: %w", canonicalPath, err)
	}
	return module, nil
}

// AddTranslation upserts one translation entry.
func (p *Project) AddTranslation(conn *sql.DB, key, value string) error {
	_, err := conn.Exec(
		`INSERT INTO translation (project_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(project_id, key) DO UPDATE SET value = excluded.value`,
		p.ID, key, value)
	if err != nil {
		return fmt.Errorf("add translation %s: %w", key, err)
	}
	return nil
}

// GetTranslation fetches a translation by key.
func (p *Project) GetTranslation(conn *sql.DB, key string) (*Translation, error) {
	translation := &Translation{ProjectID: p.ID, Key: key}
	err := conn.QueryRow(
		`SELECT id, value FROM translation WHERE project_id = ? AND key = ?`,
		p.ID, key).Scan(&translation.ID, &translation.Value)
	if err != nil {
		return nil, fmt.Errorf("get translation %s: %w", key, err)
	}
	return translation, nil
}

// AddRoute upserts a route by path.
func (p *Project) AddRoute(conn *sql.DB, path string) (*Route, error) {
	if _, err := conn.Exec(
		`INSERT INTO route (project_id, path) VALUES (?, ?)
		 ON CONFLICT(project_id, path) DO NOTHING`,
		p.ID, path); err != nil {
		return nil, fmt.Errorf("add route %s: %w", path, err)
	}
	route := &Route{ProjectID: p.ID, Path: path}
	err := conn.QueryRow(
		`SELECT id FROM route WHERE project_id = ? AND path = ?`,
		p.ID, path).Scan(&route.ID)
	if err != nil {
		return nil, fmt.Errorf("get route %s: %w", path, err)
	}
	return route, nil
}

// Module is one source module of a project.
type Module struct {
	ID            int64
	ProjectID     int64
	CanonicalPath string
}

// GetOrCreateSymbol upserts a symbol of this module.
func (m *Module) GetOrCreateSymbol(conn *sql.DB, variant domain.SymbolVariant, name string) (*Symbol, error) {
	if _, err := conn.Exec(
		`INSERT INTO symbol (module_id, variant, name) VALUES (?, ?, ?)
		 ON CONFLICT(module_id, variant, name) DO NOTHING`,
		m.ID, string(variant), name); err != nil {
		return nil, fmt.Errorf("create symbol %s/%s in %s: %w", variant, name, m.CanonicalPath, err)
	}
	return m.GetSymbol(conn, variant, name)
}

// GetSymbol fetches a symbol of this module; missing symbols are an
// error.
func (m *Module) GetSymbol(conn *sql.DB, variant domain.SymbolVariant, name string) (*Symbol, error) {
	symbol := &Symbol{ModuleID: m.ID, Variant: variant, Name: name}
	err := conn.QueryRow(
		`SELECT id FROM symbol WHERE module_id = ? AND variant = ? AND name = ?`,
		m.ID, string(variant), name).Scan(&symbol.ID)
	if err != nil {
		return nil, fmt.Errorf("get symbol %s/%s in %s: %w", variant, name, m.CanonicalPath, err)
	}
	return symbol, nil
}

// NamedExportSymbols lists the module's named exports sorted by name.
func (m *Module) NamedExportSymbols(conn *sql.DB) ([]*Symbol, error) {
	rows, err := conn.Query(
		`SELECT id, name FROM symbol WHERE module_id = ? AND variant = ? ORDER BY name`,
		m.ID, string(domain.SymbolNamedExport))
	if err != nil {
		return nil, fmt.Errorf("named exports of %s: %w", m.CanonicalPath, err)
	}
	defer rows.Close()

	var symbols []*Symbol
	for rows.Next() {
		symbol := &Symbol{ModuleID: m.ID, Variant: domain.SymbolNamedExport}
		if err := rows.Scan(&symbol.ID, &symbol.Name); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// Symbol is one module-scoped symbol.
type Symbol struct {
	ID       int64
	ModuleID int64
	Variant  domain.SymbolVariant
	Name     string
}

// CreateSymbolDependency records src → dst once per ordered pair.
func CreateSymbolDependency(conn *sql.DB, src, dst *Symbol) error {
	_, err := conn.Exec(
		`INSERT INTO symbol_dependency (src_symbol_id, dst_symbol_id) VALUES (?, ?)
		 ON CONFLICT(src_symbol_id, dst_symbol_id) DO NOTHING`,
		src.ID, dst.ID)
	if err != nil {
		return fmt.Errorf("create symbol dependency %d -> %d: %w", src.ID, dst.ID, err)
	}
	return nil
}

// Translation is one entry of the project's translation table.
type Translation struct {
	ID        int64
	ProjectID int64
	Key       string
	Value     string
}

// CreateTranslationUsage links a translation to a symbol.
func CreateTranslationUsage(conn *sql.DB, translation *Translation, symbol *Symbol) error {
	_, err := conn.Exec(
		`INSERT INTO translation_usage (translation_id, symbol_id) VALUES (?, ?)
		 ON CONFLICT(translation_id, symbol_id) DO NOTHING`,
		translation.ID, symbol.ID)
	if err != nil {
		return fmt.Errorf("create translation usage %s: %w", translation.Key, err)
	}
	return nil
}

// Route is one registered route path.
type Route struct {
	ID        int64
	ProjectID int64
	Path      string
}

// CreateRouteUsage links a route to a symbol.
func CreateRouteUsage(conn *sql.DB, route *Route, symbol *Symbol) error {
	_, err := conn.Exec(
		`INSERT INTO route_usage (route_id, symbol_id) VALUES (?, ?)
		 ON CONFLICT(route_id, symbol_id) DO NOTHING`,
		route.ID, symbol.ID)
	if err != nil {
		return fmt.Errorf("create route usage %s: %w", route.Path, err)
	}
	return nil
}
