package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caimi124/tiku-engine/internal/config"
	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/domain/ranking"
)

func writeWeightsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestWeightsProviderDefaults(t *testing.T) {
	provider, err := config.NewWeightsProvider("", nil)
	require.NoError(t, err)

	weights := provider.Current()
	defaults := ranking.NewDefaultWeights()

	assert.Equal(t, defaults.ChapterWeight(9), weights.ChapterWeight(9))
	assert.Equal(t,
		defaults.PointTypeWeight(domain.PointTypeMechanism),
		weights.PointTypeWeight(domain.PointTypeMechanism))
}

func TestWeightsProviderFromFile(t *testing.T) {
	path := writeWeightsFile(t, `
chapters:
  9: 4
  21: 5
point_types:
  dosage: 3
`)

	provider, err := config.NewWeightsProvider(path, nil)
	require.NoError(t, err)

	weights := provider.Current()

	assert.Equal(t, 4, weights.ChapterWeight(9), "file overrides default")
	assert.Equal(t, 5, weights.ChapterWeight(21), "file extends table")
	assert.Equal(t, 3, weights.PointTypeWeight(domain.PointTypeDosage))
	// Untouched entries keep their defaults.
	assert.Equal(t, 2, weights.ChapterWeight(13))
	assert.Equal(t, 5, weights.PointTypeWeight(domain.PointTypeMechanism))
}

func TestWeightsProviderRejectsUnknownPointType(t *testing.T) {
	path := writeWeightsFile(t, `
point_types:
  pharmacokinetics: 5
`)

	_, err := config.NewWeightsProvider(path, nil)
	assert.Error(t, err)
}

func TestWeightsProviderMissingFile(t *testing.T) {
	_, err := config.NewWeightsProvider(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
