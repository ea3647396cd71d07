package service

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/config"
	"github.com/ludo-technologies/jstrace/internal/portable"
)

// PortableService parses a project and writes the portable document.
type PortableService struct {
	parse *ParseService
}

// NewPortableService creates a portable export service.
func NewPortableService(cfg *config.Config, progress ProgressManager) *PortableService {
	return &PortableService{parse: NewParseService(cfg, progress)}
}

// Export analyzes inputRoot and writes the portable document to
// outputPath. It returns the non-fatal warnings of the run.
func (s *PortableService) Export(ctx context.Context, inputRoot, translationPath, outputPath string) ([]string, error) {
	translations, err := LoadTranslations(translationPath)
	if err != nil {
		return nil, err
	}

	result, err := s.parse.Parse(ctx, inputRoot)
	if err != nil {
		return nil, err
	}

	doc := portable.New(
		result.Resolver.Root(),
		translations,
		result.I18n.Table,
		result.Routes.Table,
		result.UsedBy,
	)
	data, err := doc.Encode()
	if err != nil {
		return result.Warnings, err
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return result.Warnings, domain.NewDomainError(domain.ErrIO,
			fmt.Sprintf("write portable document %s", outputPath), err)
	}
	return result.Warnings, nil
}
