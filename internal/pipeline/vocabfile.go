package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// VocabOverride is an optional operator-supplied vocabulary extension,
// loaded once at process start. It only ever adds entries: the built-in
// tables stay immutable.
type VocabOverride struct {
	// Exclusions are extra ban keywords fed to IsExcluded.
	Exclusions []string `yaml:"exclusions"`
	// Brands are extra known brands merged into the split vocabulary.
	Brands []string `yaml:"brands"`
	// HypeBrands are extra brands granted the hype bonus by the scorer.
	HypeBrands []string `yaml:"hype_brands"`
}

// LoadVocabOverride reads a YAML vocabulary override file. An empty path
// returns an empty override.
func LoadVocabOverride(path string) (*VocabOverride, error) {
	if path == "" {
		return &VocabOverride{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read vocab file %s", path)
	}

	var v VocabOverride
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse vocab file %s", path)
	}

	zap.L().Info("pipeline: loaded vocabulary override",
		zap.String("path", path),
		zap.Int("exclusions", len(v.Exclusions)),
		zap.Int("brands", len(v.Brands)),
		zap.Int("hype_brands", len(v.HypeBrands)),
	)
	return &v, nil
}
