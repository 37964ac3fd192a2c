package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	WorkDir     string `yaml:"work_dir"`
	Concurrency int    `yaml:"concurrency"`

	// Segment selection settings
	Selection SelectionConfig `yaml:"selection"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Export settings
	Export ExportConfig `yaml:"export"`

	// Catalog settings
	Catalog CatalogConfig `yaml:"catalog"`
}

// SelectionConfig holds the segment selection knobs
type SelectionConfig struct {
	MinSegment     float64 `yaml:"min_segment"`
	MaxSegment     float64 `yaml:"max_segment"`
	MinConfidence  float64 `yaml:"min_confidence"`
	BlurThreshold  float64 `yaml:"blur_threshold"`
	DarkThreshold  float64 `yaml:"dark_threshold"`
	SampleInterval float64 `yaml:"sample_interval"`
}

type FFmpegConfig struct {
	BinaryPath     string  `yaml:"binary_path"`
	Threads        int     `yaml:"threads"`
	Preset         string  `yaml:"preset"`
	CRF            int     `yaml:"crf"`
	ReportCRF      int     `yaml:"report_crf"`
	ReportWidth    int     `yaml:"report_width"`
	TargetFPS      int     `yaml:"target_fps"`
	SceneThreshold float64 `yaml:"scene_threshold"`
}

type ExportConfig struct {
	SkipExisting bool `yaml:"skip_existing"`
	BurnTimecode bool `yaml:"burn_timecode"`
}

type CatalogConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		WorkDir:     ".",
		Concurrency: 4,
		Selection: SelectionConfig{
			MinSegment:     5.0,
			MaxSegment:     25.0,
			MinConfidence:  0.3,
			BlurThreshold:  80.0,
			DarkThreshold:  40.0,
			SampleInterval: 1.0,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath:     "ffmpeg",
			Threads:        0,
			Preset:         "veryfast",
			CRF:            18,
			ReportCRF:      22,
			ReportWidth:    1920,
			TargetFPS:      30,
			SceneThreshold: 0.3,
		},
		Export: ExportConfig{
			SkipExisting: true,
			BurnTimecode: true,
		},
		Catalog: CatalogConfig{
			Path:    filepath.Join(os.Getenv("HOME"), ".skyforge", "catalog.db"),
			Enabled: true,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./skyforge.yaml",
		"./skyforge.yml",
		filepath.Join(os.Getenv("HOME"), ".skyforge", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
