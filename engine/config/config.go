// package config loads the adaptive-quality configuration from an optional
// YAML file with hardcoded defaults for every value. All hysteresis
// constants, threshold multipliers, and tier parameter bundles are tunable
// here rather than baked into the algorithms.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// TierParams is the configurable rendering-parameter bundle for one tier.
type TierParams struct {
	ShadowMapResolution int     `mapstructure:"shadowMapResolution"`
	ParticleMultiplier  float32 `mapstructure:"particleMultiplier"`
	DrawDistance        float32 `mapstructure:"drawDistance"`
	MSAA                bool    `mapstructure:"msaa"`
	PostProcessing      bool    `mapstructure:"postProcessing"`
}

// LODConfig holds the distance-based LOD tuning values.
type LODConfig struct {
	// HysteresisFactor is the dead-band width around each threshold.
	HysteresisFactor float32 `mapstructure:"hysteresisFactor"`

	// TierMultipliers scales LOD thresholds per quality tier, keyed by tier
	// name.
	TierMultipliers map[string]float32 `mapstructure:"tierMultipliers"`
}

// CullConfig holds the visibility-culler tuning values.
type CullConfig struct {
	// Workers is the worker-pool size for parallel culling; 0 runs serially.
	Workers int `mapstructure:"workers"`

	// BatchSize is the number of objects per pool task.
	BatchSize int `mapstructure:"batchSize"`
}

// Config is the complete adaptive-quality configuration.
type Config struct {
	// TargetFPS is the frame rate the tier state machine steers toward.
	TargetFPS int `mapstructure:"targetFps"`

	// ToleranceFPS is the hysteresis band half-width around TargetFPS.
	ToleranceFPS int `mapstructure:"toleranceFps"`

	// SampleWindow is the frame-timer rolling window capacity.
	SampleWindow int `mapstructure:"sampleWindow"`

	// AggregateInterval is how many frames elapse between FPS aggregates.
	AggregateInterval int `mapstructure:"aggregateInterval"`

	// SettingsPath is the location of the persisted user settings database.
	SettingsPath string `mapstructure:"settingsPath"`

	LOD  LODConfig  `mapstructure:"lod"`
	Cull CullConfig `mapstructure:"cull"`

	// Tiers maps tier names to parameter bundles.
	Tiers map[string]TierParams `mapstructure:"tiers"`
}

// configName is the base name of the config file searched in the config
// directory (neoncity.yaml).
const configName = "neoncity"

// Load reads configuration from the given directory, falling back to the
// built-in defaults for any value (or the whole file) that is absent.
//
// Parameters:
//   - configDir: the directory to search for neoncity.yaml
//
// Returns:
//   - Config: the merged configuration
//   - error: error if a present config file cannot be read or parsed
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		// No file present: defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults with no file applied
func Default() Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults cannot fail to decode into their own struct.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("targetFps", 60)
	v.SetDefault("toleranceFps", 5)
	v.SetDefault("sampleWindow", 90)
	v.SetDefault("aggregateInterval", 30)
	v.SetDefault("settingsPath", "~/.neoncity/settings.db")

	v.SetDefault("lod.hysteresisFactor", 0.12)
	v.SetDefault("lod.tierMultipliers", map[string]float32{
		"low":    0.8,
		"medium": 1.0,
		"high":   1.2,
	})

	v.SetDefault("cull.workers", 0)
	v.SetDefault("cull.batchSize", 128)

	v.SetDefault("tiers.low", map[string]any{
		"shadowMapResolution": 512,
		"particleMultiplier":  0.3,
		"drawDistance":        150,
		"msaa":                false,
		"postProcessing":      false,
	})
	v.SetDefault("tiers.medium", map[string]any{
		"shadowMapResolution": 1024,
		"particleMultiplier":  0.6,
		"drawDistance":        300,
		"msaa":                false,
		"postProcessing":      true,
	})
	v.SetDefault("tiers.high", map[string]any{
		"shadowMapResolution": 2048,
		"particleMultiplier":  1.0,
		"drawDistance":        500,
		"msaa":                true,
		"postProcessing":      true,
	})
}
