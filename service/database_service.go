package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/config"
	"github.com/ludo-technologies/jstrace/internal/constants"
	"github.com/ludo-technologies/jstrace/internal/resolver"
	"github.com/ludo-technologies/jstrace/internal/storage"
)

// DatabaseService parses a project and projects the result into the
// relational schema.
type DatabaseService struct {
	parse *ParseService
}

// NewDatabaseService creates a database export service.
func NewDatabaseService(cfg *config.Config, progress ProgressManager) *DatabaseService {
	return &DatabaseService{parse: NewParseService(cfg, progress)}
}

// Export analyzes inputRoot and writes the relational projection to the
// SQLite database at outputPath. It returns the non-fatal warnings of
// the run.
func (s *DatabaseService) Export(ctx context.Context, inputRoot, translationPath, outputPath string) ([]string, error) {
	translations, err := LoadTranslations(translationPath)
	if err != nil {
		return nil, err
	}

	result, err := s.parse.Parse(ctx, inputRoot)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(outputPath)
	if err != nil {
		return result.Warnings, err
	}
	defer db.Close()

	if err := db.CreateTables(); err != nil {
		return result.Warnings, err
	}

	// The project name can become configurable with cross-project
	// tracing
	project, err := storage.CreateProject(db.Conn(), result.Resolver.Root(), constants.DefaultProjectName)
	if err != nil {
		return result.Warnings, err
	}

	keys := make([]string, 0, len(translations))
	for key := range translations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := project.AddTranslation(db.Conn(), key, translations[key]); err != nil {
			return result.Warnings, err
		}
	}

	writer := &projectWriter{conn: db.Conn(), project: project, res: result.Resolver}

	// Records replay in release order, so namespace and star-re-export
	// expansion reads complete named-export sets
	for _, sd := range result.Records {
		module, err := writer.addModule(sd)
		if err != nil {
			return result.Warnings, fmt.Errorf("add module %s to project: %w", sd.CanonicalPath, err)
		}
		if err := writer.addI18nUsage(module, result.I18n.Table[sd.CanonicalPath]); err != nil {
			return result.Warnings, fmt.Errorf("add i18n usage of module %s: %w", sd.CanonicalPath, err)
		}
		if err := writer.addRouteUsage(module, result.Routes.Table[sd.CanonicalPath]); err != nil {
			return result.Warnings, fmt.Errorf("add route usage of module %s: %w", sd.CanonicalPath, err)
		}
	}

	return result.Warnings, nil
}

// projectWriter projects per-module records into the schema with the
// same four fixed-order entry points as the in-memory graph builder.
type projectWriter struct {
	conn    *sql.DB
	project *storage.Project
	res     *resolver.Resolver
}

func (w *projectWriter) addModule(sd *domain.SymbolDependency) (*storage.Module, error) {
	module, err := w.project.GetOrCreateModule(w.conn, sd.CanonicalPath)
	if err != nil {
		return nil, err
	}

	if err := w.handleLocalVariableTable(module, sd); err != nil {
		return nil, err
	}
	if err := w.handleNamedExportTable(module, sd); err != nil {
		return nil, err
	}
	if err := w.handleDefaultExport(module, sd); err != nil {
		return nil, err
	}
	if err := w.handleReExportStarFrom(module, sd); err != nil {
		return nil, err
	}

	return module, nil
}

func (w *projectWriter) handleLocalVariableTable(module *storage.Module, sd *domain.SymbolDependency) error {
	for _, name := range sortedLocalNames(sd) {
		variable := sd.LocalVariableTable[name]
		current, err := module.GetOrCreateSymbol(w.conn, domain.SymbolLocalVariable, name)
		if err != nil {
			return err
		}

		// Entries in DependOn are guaranteed to be locals of the same
		// module
		for _, dependOn := range variable.DependOn {
			dependOnSymbol, err := module.GetOrCreateSymbol(w.conn, domain.SymbolLocalVariable, dependOn)
			if err != nil {
				return err
			}
			if err := storage.CreateSymbolDependency(w.conn, current, dependOnSymbol); err != nil {
				return err
			}
		}

		if variable.ImportFrom != nil {
			if err := w.linkForeign(current, sd.CanonicalPath, *variable.ImportFrom); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *projectWriter) handleNamedExportTable(module *storage.Module, sd *domain.SymbolDependency) error {
	for _, exported := range sortedExportNames(sd) {
		export := sd.NamedExportTable[exported]
		current, err := module.GetOrCreateSymbol(w.conn, domain.SymbolNamedExport, exported)
		if err != nil {
			return err
		}

		switch export.Kind {
		case domain.ExportLocal:
			dependOnSymbol, err := module.GetOrCreateSymbol(w.conn, domain.SymbolLocalVariable, export.Name)
			if err != nil {
				return err
			}
			if err := storage.CreateSymbolDependency(w.conn, current, dependOnSymbol); err != nil {
				return err
			}
		case domain.ExportReExport:
			if err := w.linkForeign(current, sd.CanonicalPath, *export.From); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *projectWriter) handleDefaultExport(module *storage.Module, sd *domain.SymbolDependency) error {
	if sd.DefaultExport == nil {
		return nil
	}
	current, err := module.GetOrCreateSymbol(w.conn, domain.SymbolDefaultExport, "")
	if err != nil {
		return err
	}

	switch sd.DefaultExport.Kind {
	case domain.ExportLocal:
		dependOnSymbol, err := module.GetOrCreateSymbol(w.conn, domain.SymbolLocalVariable, sd.DefaultExport.Name)
		if err != nil {
			return err
		}
		return storage.CreateSymbolDependency(w.conn, current, dependOnSymbol)
	case domain.ExportReExport:
		from := *sd.DefaultExport.From
		if from.Kind == domain.FromNamespace {
			return domain.NewDomainError(domain.ErrExtractor,
				fmt.Sprintf("default export of %s sourced from a namespace", sd.CanonicalPath), nil)
		}
		return w.linkForeign(current, sd.CanonicalPath, from)
	}
	return nil
}

func (w *projectWriter) handleReExportStarFrom(module *storage.Module, sd *domain.SymbolDependency) error {
	for _, specifier := range sd.ReExportStarFrom {
		from, err := w.res.Resolve(sd.CanonicalPath, specifier)
		if err != nil {
			continue
		}
		// The target module was released before this one
		fromModule, err := w.project.GetModule(w.conn, from)
		if err != nil {
			return err
		}
		symbols, err := fromModule.NamedExportSymbols(w.conn)
		if err != nil {
			return err
		}
		for _, dependOnSymbol := range symbols {
			if dependOnSymbol.Name == constants.AnonymousDefaultExportName {
				continue
			}
			current, err := module.GetOrCreateSymbol(w.conn, domain.SymbolNamedExport, dependOnSymbol.Name)
			if err != nil {
				return err
			}
			if err := storage.CreateSymbolDependency(w.conn, current, dependOnSymbol); err != nil {
				return err
			}
		}
	}
	return nil
}

// linkForeign resolves the source module and records the dependency.
// Unresolvable specifiers drop silently; creating symbols for modules
// that are not yet parsed is fine.
func (w *projectWriter) linkForeign(current *storage.Symbol, currentPath string, from domain.FromOtherModule) error {
	resolved, err := w.res.Resolve(currentPath, from.From)
	if err != nil {
		return nil
	}
	fromModule, err := w.project.GetOrCreateModule(w.conn, resolved)
	if err != nil {
		return err
	}

	switch from.Kind {
	case domain.FromNamed:
		dependOnSymbol, err := fromModule.GetOrCreateSymbol(w.conn, domain.SymbolNamedExport, from.Name)
		if err != nil {
			return err
		}
		return storage.CreateSymbolDependency(w.conn, current, dependOnSymbol)
	case domain.FromDefault:
		dependOnSymbol, err := fromModule.GetOrCreateSymbol(w.conn, domain.SymbolDefaultExport, "")
		if err != nil {
			return err
		}
		return storage.CreateSymbolDependency(w.conn, current, dependOnSymbol)
	case domain.FromNamespace:
		// The target was released before the importer, so its named
		// exports are complete; the anonymous default never crosses the
		// namespace channel
		symbols, err := fromModule.NamedExportSymbols(w.conn)
		if err != nil {
			return err
		}
		for _, dependOnSymbol := range symbols {
			if dependOnSymbol.Name == constants.AnonymousDefaultExportName {
				continue
			}
			if err := storage.CreateSymbolDependency(w.conn, current, dependOnSymbol); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *projectWriter) addI18nUsage(module *storage.Module, usage domain.I18nUsage) error {
	symbolNames := make([]string, 0, len(usage))
	for name := range usage {
		symbolNames = append(symbolNames, name)
	}
	sort.Strings(symbolNames)

	for _, symbolName := range symbolNames {
		symbol, err := module.GetSymbol(w.conn, domain.SymbolLocalVariable, symbolName)
		if err != nil {
			return domain.NewDomainError(domain.ErrUnknownSymbolForOverlay,
				fmt.Sprintf("i18n keys recorded for %q, but %s declares no such symbol",
					symbolName, module.CanonicalPath), err)
		}

		keys := make([]string, 0, len(usage[symbolName]))
		for key := range usage[symbolName] {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			translation, err := w.project.GetTranslation(w.conn, key)
			if err != nil {
				// The translation dictionary is curated separately and
				// may lag behind the source
				continue
			}
			if err := storage.CreateTranslationUsage(w.conn, translation, symbol); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *projectWriter) addRouteUsage(module *storage.Module, routes []domain.Route) error {
	for _, route := range routes {
		created, err := w.project.AddRoute(w.conn, route.Path)
		if err != nil {
			return fmt.Errorf("create route %s for project: %w", route.Path, err)
		}
		for _, symbolName := range route.DependOn {
			symbol, err := module.GetSymbol(w.conn, domain.SymbolLocalVariable, symbolName)
			if err != nil {
				return domain.NewDomainError(domain.ErrUnknownSymbolForOverlay,
					fmt.Sprintf("route %s targets %q, but %s declares no such symbol",
						route.Path, symbolName, module.CanonicalPath), err)
			}
			if err := storage.CreateRouteUsage(w.conn, created, symbol); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedLocalNames(sd *domain.SymbolDependency) []string {
	names := make([]string, 0, len(sd.LocalVariableTable))
	for name := range sd.LocalVariableTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedExportNames(sd *domain.SymbolDependency) []string {
	names := make([]string, 0, len(sd.NamedExportTable))
	for name := range sd.NamedExportTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
