package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"zoneh-archiver/internal/scraper"
)

// LoadSelectors загружает селекторы из YAML. Незаданные ключи остаются по умолчанию.
func LoadSelectors(filePath string) (*scraper.Selectors, error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open selectors file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close selectors file: %v\n", closeErr)
		}
	}()

	selectors := scraper.DefaultSelectors()
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&selectors); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	if err := validateSelectors(&selectors); err != nil {
		return nil, err
	}

	return &selectors, nil
}

// ApplySelectorsFile заменяет c.Selectors содержимым SelectorsFile.
// Относительный путь считается от baseDir.
func (c *Config) ApplySelectorsFile(baseDir string) error {
	filePath := c.SelectorsFile
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(baseDir, filePath)
	}

	selectors, err := LoadSelectors(filePath)
	if err != nil {
		return err
	}
	c.Selectors = *selectors
	return nil
}

func validateSelectors(s *scraper.Selectors) error {
	if s.ListContainer == "" {
		return fmt.Errorf("selectors.list_container is required")
	}
	if s.RowSelector == "" {
		return fmt.Errorf("selectors.row_selector is required")
	}
	if s.AnchorSelector == "" {
		return fmt.Errorf("selectors.anchor_selector is required")
	}
	if s.MirrorLabel == "" {
		return fmt.Errorf("selectors.mirror_label is required")
	}
	if s.ContentSelector == "" {
		return fmt.Errorf("selectors.content_selector is required")
	}
	if s.ChallengeMarker == "" {
		return fmt.Errorf("selectors.challenge_marker is required")
	}
	return nil
}
