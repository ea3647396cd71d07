package storage

import (
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/jstrace/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.CreateTables(); err != nil {
		t.Fatalf("CreateTables failed: %v", err)
	}
	return db
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.CreateTables(); err != nil {
		t.Fatalf("Second CreateTables failed: %v", err)
	}
}

func TestModuleUpsert(t *testing.T) {
	db := openTestDB(t)
	project, err := CreateProject(db.Conn(), "/project", "default_project")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	first, err := project.GetOrCreateModule(db.Conn(), "src/a.js")
	if err != nil {
		t.Fatalf("GetOrCreateModule failed: %v", err)
	}
	second, err := project.GetOrCreateModule(db.Conn(), "src/a.js")
	if err != nil {
		t.Fatalf("Second GetOrCreateModule failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Upsert created duplicate modules: %d vs %d", first.ID, second.ID)
	}
}

func TestSymbolUpsert(t *testing.T) {
	db := openTestDB(t)
	project, _ := CreateProject(db.Conn(), "/project", "default_project")
	module, _ := project.GetOrCreateModule(db.Conn(), "a.js")

	first, err := module.GetOrCreateSymbol(db.Conn(), domain.SymbolNamedExport, "x")
	if err != nil {
		t.Fatalf("GetOrCreateSymbol failed: %v", err)
	}
	second, err := module.GetOrCreateSymbol(db.Conn(), domain.SymbolNamedExport, "x")
	if err != nil {
		t.Fatalf("Second GetOrCreateSymbol failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Upsert created duplicate symbols: %d vs %d", first.ID, second.ID)
	}

	// Same name under a different variant is a different symbol
	local, err := module.GetOrCreateSymbol(db.Conn(), domain.SymbolLocalVariable, "x")
	if err != nil {
		t.Fatalf("GetOrCreateSymbol failed: %v", err)
	}
	if local.ID == first.ID {
		t.Error("Variants must not collide")
	}
}

func TestGetSymbolMissingIsError(t *testing.T) {
	db := openTestDB(t)
	project, _ := CreateProject(db.Conn(), "/project", "default_project")
	module, _ := project.GetOrCreateModule(db.Conn(), "a.js")

	if _, err := module.GetSymbol(db.Conn(), domain.SymbolLocalVariable, "ghost"); err == nil {
		t.Error("Expected missing symbol to be an error")
	}
}

func TestSymbolDependencyUniquePair(t *testing.T) {
	db := openTestDB(t)
	project, _ := CreateProject(db.Conn(), "/project", "default_project")
	module, _ := project.GetOrCreateModule(db.Conn(), "a.js")
	src, _ := module.GetOrCreateSymbol(db.Conn(), domain.SymbolNamedExport, "x")
	dst, _ := module.GetOrCreateSymbol(db.Conn(), domain.SymbolLocalVariable, "x")

	if err := CreateSymbolDependency(db.Conn(), src, dst); err != nil {
		t.Fatalf("CreateSymbolDependency failed: %v", err)
	}
	if err := CreateSymbolDependency(db.Conn(), src, dst); err != nil {
		t.Fatalf("Duplicate edge should be a no-op, got: %v", err)
	}

	var count int
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM symbol_dependency`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 edge row, got %d", count)
	}
}

func TestNamedExportSymbols(t *testing.T) {
	db := openTestDB(t)
	project, _ := CreateProject(db.Conn(), "/project", "default_project")
	module, _ := project.GetOrCreateModule(db.Conn(), "a.js")

	for _, name := range []string{"b", "a"} {
		if _, err := module.GetOrCreateSymbol(db.Conn(), domain.SymbolNamedExport, name); err != nil {
			t.Fatalf("GetOrCreateSymbol failed: %v", err)
		}
	}
	if _, err := module.GetOrCreateSymbol(db.Conn(), domain.SymbolLocalVariable, "c"); err != nil {
		t.Fatalf("GetOrCreateSymbol failed: %v", err)
	}

	symbols, err := module.NamedExportSymbols(db.Conn())
	if err != nil {
		t.Fatalf("NamedExportSymbols failed: %v", err)
	}
	if len(symbols) != 2 || symbols[0].Name != "a" || symbols[1].Name != "b" {
		t.Errorf("Expected sorted [a b], got %+v", symbols)
	}
}

func TestTranslationLookup(t *testing.T) {
	db := openTestDB(t)
	project, _ := CreateProject(db.Conn(), "/project", "default_project")

	if err := project.AddTranslation(db.Conn(), "home.title", "Home"); err != nil {
		t.Fatalf("AddTranslation failed: %v", err)
	}
	// Re-adding updates the value
	if err := project.AddTranslation(db.Conn(), "home.title", "Start"); err != nil {
		t.Fatalf("Second AddTranslation failed: %v", err)
	}

	translation, err := project.GetTranslation(db.Conn(), "home.title")
	if err != nil {
		t.Fatalf("GetTranslation failed: %v", err)
	}
	if translation.Value != "Start" {
		t.Errorf("Expected updated value, got %q", translation.Value)
	}

	if _, err := project.GetTranslation(db.Conn(), "missing.key"); err == nil {
		t.Error("Expected missing key to be an error")
	}
}

func TestRouteUpsertAndUsage(t *testing.T) {
	db := openTestDB(t)
	project, _ := CreateProject(db.Conn(), "/project", "default_project")
	module, _ := project.GetOrCreateModule(db.Conn(), "a.js")
	symbol, _ := module.GetOrCreateSymbol(db.Conn(), domain.SymbolLocalVariable, "Home")

	first, err := project.AddRoute(db.Conn(), "/home")
	if err != nil {
		t.Fatalf("AddRoute failed: %v", err)
	}
	second, err := project.AddRoute(db.Conn(), "/home")
	if err != nil {
		t.Fatalf("Second AddRoute failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Route upsert created duplicates: %d vs %d", first.ID, second.ID)
	}

	if err := CreateRouteUsage(db.Conn(), first, symbol); err != nil {
		t.Fatalf("CreateRouteUsage failed: %v", err)
	}
	if err := CreateRouteUsage(db.Conn(), first, symbol); err != nil {
		t.Fatalf("Duplicate route usage should be a no-op, got: %v", err)
	}

	var count int
	if err := db.Conn().QueryRow(`SELECT COUNT(*) FROM route_usage`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 route usage row, got %d", count)
	}
}
