package config

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/caimi124/tiku-engine/internal/domain"
	"github.com/caimi124/tiku-engine/internal/domain/ranking"
)

// weightsFile is the on-disk shape of the weight tables.
type weightsFile struct {
	Chapters   map[int]int    `mapstructure:"chapters"`
	PointTypes map[string]int `mapstructure:"point_types"`
}

// WeightsProvider serves the current chapter/point-type weight tables and
// hot-reloads them when the backing file changes, so weights can be retuned
// without redeploying the engine. When no file is configured it serves the
// built-in defaults.
type WeightsProvider struct {
	current atomic.Pointer[ranking.Weights]
	logger  *slog.Logger
}

// NewWeightsProvider creates a provider for the given weights file path.
// An empty path yields a provider that always serves the default tables.
func NewWeightsProvider(path string, logger *slog.Logger) (*WeightsProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	p := &WeightsProvider{
		logger: logger.With(slog.String("component", "weights_provider")),
	}
	p.current.Store(ranking.NewDefaultWeights())

	if path == "" {
		return p, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}
	if err := p.reload(v); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := p.reload(v); err != nil {
			// Keep serving the previous tables on a bad edit.
			p.logger.Error("failed to reload weight tables",
				slog.String("file", e.Name),
				slog.String("error", err.Error()))
			return
		}
		p.logger.Info("weight tables reloaded", slog.String("file", e.Name))
	})
	v.WatchConfig()

	return p, nil
}

// Current returns the weight tables in effect. The returned value is
// immutable; a reload swaps in a fresh instance.
func (p *WeightsProvider) Current() *ranking.Weights {
	return p.current.Load()
}

// reload parses the viper state into fresh tables and swaps them in.
func (p *WeightsProvider) reload(v *viper.Viper) error {
	var file weightsFile
	if err := v.Unmarshal(&file); err != nil {
		return fmt.Errorf("failed to unmarshal weights file: %w", err)
	}

	weights := ranking.NewDefaultWeights()
	for chapter, weight := range file.Chapters {
		weights.Chapter[chapter] = weight
	}
	for name, weight := range file.PointTypes {
		pointType := domain.PointType(name)
		if !pointType.IsValid() {
			return fmt.Errorf("unknown point type %q in weights file", name)
		}
		weights.PointType[pointType] = weight
	}

	p.current.Store(weights)
	return nil
}
