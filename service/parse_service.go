package service

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/analyzer"
	"github.com/ludo-technologies/jstrace/internal/config"
	"github.com/ludo-technologies/jstrace/internal/parser"
	"github.com/ludo-technologies/jstrace/internal/resolver"
	"github.com/ludo-technologies/jstrace/internal/scheduler"
)

// ParseService drives the symbol-resolution pipeline: scheduler →
// per-module extraction + overlays → depend-on graph → used-by graph.
type ParseService struct {
	cfg      *config.Config
	progress ProgressManager
}

// NewParseService creates a parse service.
func NewParseService(cfg *config.Config, progress ProgressManager) *ParseService {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	return &ParseService{cfg: cfg, progress: progress}
}

// ParseResult is the quiescent output of one full pipeline run.
type ParseResult struct {
	// Resolver is anchored at the analyzed project root
	Resolver *resolver.Resolver

	// Records holds the per-module records in release order
	Records []*domain.SymbolDependency

	// DependOn is the accumulated depend-on graph
	DependOn *analyzer.DependOnGraph

	// UsedBy is its transpose
	UsedBy *domain.Graph

	// I18n and Routes are the two overlays
	I18n   *analyzer.I18nToSymbol
	Routes *analyzer.SymbolToRoutes

	// Warnings collects non-fatal notices (skipped modules, broken
	// cycles)
	Warnings []string
}

// Parse analyzes the project under inputRoot. Cancellation is honored
// between modules.
func (s *ParseService) Parse(ctx context.Context, inputRoot string) (*ParseResult, error) {
	res, err := resolver.New(inputRoot, s.cfg.Analysis.Extensions)
	if err != nil {
		return nil, err
	}

	sched, err := scheduler.New(res, s.cfg.Analysis.Extensions, s.cfg.Analysis.ExcludeDirs, s.cfg.Analysis.Concurrency)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Resolver: res,
		DependOn: analyzer.NewDependOnGraph(res),
		I18n:     analyzer.NewI18nToSymbol(),
		Routes:   analyzer.NewSymbolToRoutes(),
	}

	task := s.progress.StartTask("Parsing modules", sched.TotalRemaining())
	defer task.Complete()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path, ok := sched.Next()
		if !ok {
			break
		}

		if err := s.parseOne(res, path, result); err != nil {
			if domain.CodeOf(err) == domain.ErrParse && !s.cfg.Analysis.StrictParse {
				// The module contributes nothing; the pipeline continues
				result.Warnings = append(result.Warnings, err.Error())
				sched.MarkParsed(path)
				task.Increment(1)
				continue
			}
			return nil, err
		}

		sched.MarkParsed(path)
		task.Increment(1)
	}

	result.Warnings = append(result.Warnings, sched.Warnings()...)
	result.UsedBy = analyzer.UsedByGraphFrom(result.DependOn)
	return result, nil
}

// parseOne runs the extractor and both overlay collectors on a single
// released candidate and folds the record into the graph.
func (s *ParseService) parseOne(res *resolver.Resolver, path string, result *ParseResult) error {
	source, err := os.ReadFile(res.Abs(path))
	if err != nil {
		return domain.NewDomainError(domain.ErrIO, fmt.Sprintf("read module %s", path), err)
	}

	ast, err := parser.ParseForLanguage(path, source)
	if err != nil {
		return domain.NewDomainError(domain.ErrParse, fmt.Sprintf("parse module %s", path), err)
	}

	sd, err := analyzer.CollectSymbolDependency(ast, path)
	if err != nil {
		return fmt.Errorf("collect symbol dependency for module %s: %w", path, err)
	}

	if err := result.I18n.CollectI18nUsage(path, ast, s.cfg.I18n.TranslatorNames); err != nil {
		return fmt.Errorf("collect i18n usage for module %s: %w", path, err)
	}

	if err := result.Routes.CollectRouteDependency(ast, sd, s.cfg.Routes); err != nil {
		return fmt.Errorf("collect route usage for module %s: %w", path, err)
	}

	if err := result.DependOn.AddSymbolDependency(sd); err != nil {
		return fmt.Errorf("add symbol dependency of module %s: %w", path, err)
	}

	result.Records = append(result.Records, sd)
	return nil
}
