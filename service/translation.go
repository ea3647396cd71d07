package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/jstrace/domain"
)

// LoadTranslations reads a flat key → value translation table. JSON is
// the primary format; .yaml/.yml files are accepted by extension.
func LoadTranslations(path string) (domain.TranslationTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrIO, fmt.Sprintf("read translation file %s", path), err)
	}

	table := make(domain.TranslationTable)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse translation file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse translation file %s: %w", path, err)
		}
	}
	return table, nil
}
