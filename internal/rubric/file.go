package rubric

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ArticleScorer/internal/domain"
)

// File is the on-disk shape of an exported rubric. JSON documents parse too.
type File struct {
	Version  string                  `yaml:"version"`
	Criteria []domain.CriterionInput `yaml:"criteria"`
}

// LoadFile reads a rubric document for batch import.
func LoadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read rubric file %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML or JSON rubric document.
func Parse(raw []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse rubric file: %w", err)
	}
	if len(f.Criteria) == 0 {
		return File{}, fmt.Errorf("rubric file has no criteria")
	}
	return f, nil
}

// Export renders criteria as a YAML rubric document.
func Export(criteria []domain.Criterion) ([]byte, error) {
	f := File{Version: Version, Criteria: make([]domain.CriterionInput, 0, len(criteria))}
	for _, c := range criteria {
		f.Criteria = append(f.Criteria, ToInput(c))
	}
	out, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal rubric: %w", err)
	}
	return out, nil
}
