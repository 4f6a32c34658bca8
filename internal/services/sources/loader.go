package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/nuntius/internal/common"
	"github.com/ternarybob/nuntius/internal/models"
	"gopkg.in/yaml.v3"
)

// Loader resolves the set of source definitions for an ingestion run: the
// inline [ingest] config source plus any .toml/.yaml files dropped into the
// sources directory. Files are optional; the inline source alone is a valid
// setup.
type Loader struct {
	config *common.IngestConfig
	logger arbor.ILogger
}

// NewLoader creates a source definition loader
func NewLoader(config *common.IngestConfig, logger arbor.ILogger) *Loader {
	return &Loader{
		config: config,
		logger: logger,
	}
}

// Load returns all normalized source definitions, inline config first then
// directory files in lexical order. Duplicate names are rejected so articles
// always attribute to exactly one definition.
func (l *Loader) Load() ([]*models.SourceDefinition, error) {
	var definitions []*models.SourceDefinition

	if inline := l.inlineDefinition(); inline != nil {
		if err := inline.Normalize(); err != nil {
			return nil, fmt.Errorf("invalid inline source: %w", err)
		}
		definitions = append(definitions, inline)
	}

	fromDir, err := l.loadDirectory()
	if err != nil {
		return nil, err
	}
	definitions = append(definitions, fromDir...)

	if len(definitions) == 0 {
		return nil, fmt.Errorf("no source definitions configured (set [ingest] fields or add files to %s)", l.config.SourcesDir)
	}

	seen := make(map[string]string, len(definitions))
	for _, def := range definitions {
		key := strings.ToLower(def.Name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate source name %q (%s)", def.Name, prev)
		}
		seen[key] = def.ListingURL
	}

	l.logger.Info().
		Int("source_count", len(definitions)).
		Msg("Source definitions loaded")

	return definitions, nil
}

// inlineDefinition builds a definition from the [ingest] config block.
// Returns nil when the block doesn't describe a source.
func (l *Loader) inlineDefinition() *models.SourceDefinition {
	if l.config.ListingURL == "" {
		return nil
	}
	return &models.SourceDefinition{
		Name:            l.config.Source,
		ListingURL:      l.config.ListingURL,
		BaseURL:         l.config.BaseURL,
		LinkSelector:    l.config.LinkSelector,
		ContentSelector: l.config.ContentSelector,
	}
}

func (l *Loader) loadDirectory() ([]*models.SourceDefinition, error) {
	if l.config.SourcesDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(l.config.SourcesDir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Debug().
				Str("dir", l.config.SourcesDir).
				Msg("Sources directory does not exist, skipping")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sources directory %s: %w", l.config.SourcesDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".toml", ".yaml", ".yml":
			files = append(files, filepath.Join(l.config.SourcesDir, entry.Name()))
		}
	}
	sort.Strings(files)

	var definitions []*models.SourceDefinition
	for _, path := range files {
		def, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, def)

		l.logger.Debug().
			Str("file", path).
			Str("source", def.Name).
			Msg("Loaded source definition")
	}

	return definitions, nil
}

func (l *Loader) loadFile(path string) (*models.SourceDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	var def models.SourceDefinition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse TOML source file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse YAML source file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported source file format: %s", path)
	}

	if err := def.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid source file %s: %w", path, err)
	}

	return &def, nil
}
