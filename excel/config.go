package excel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ProcessType selects a shipping-document layout and its column mapping.
type ProcessType string

const (
	SeaRailWithImage ProcessType = "sea-rail-with-image"
	SeaRailNoImage   ProcessType = "sea-rail-no-image"
	AirFreight       ProcessType = "air-freight"
)

// ProcessConfig holds the per-layout transform parameters. Columns are
// 1-based as the user sees them in Excel.
type ProcessConfig struct {
	ProcessType  ProcessType `json:"process_type"`
	WeightColumn int         `json:"weight_column"`
	BoxColumn    int         `json:"box_column"`
	CopyImages   bool        `json:"copy_images"`
}

// DefaultConfig returns the built-in column mapping for a process type.
func DefaultConfig(t ProcessType) (ProcessConfig, error) {
	switch t {
	case SeaRailWithImage:
		return ProcessConfig{ProcessType: t, WeightColumn: 13, BoxColumn: 11, CopyImages: true}, nil
	case SeaRailNoImage:
		return ProcessConfig{ProcessType: t, WeightColumn: 13, BoxColumn: 11, CopyImages: false}, nil
	case AirFreight:
		return ProcessConfig{ProcessType: t, WeightColumn: 15, BoxColumn: 13, CopyImages: true}, nil
	}
	return ProcessConfig{}, fmt.Errorf("%w: unknown process type %q", ErrValidation, t)
}

// Validate checks the column mapping. The weight column needs a quantity
// column to its immediate left, so it must be at least 2.
func (c ProcessConfig) Validate() error {
	if c.WeightColumn < 2 {
		return fmt.Errorf("%w: weight column must be 2 or greater, got %d", ErrValidation, c.WeightColumn)
	}
	if c.BoxColumn < 1 {
		return fmt.Errorf("%w: box column must be 1 or greater, got %d", ErrValidation, c.BoxColumn)
	}
	if c.BoxColumn == c.WeightColumn {
		return fmt.Errorf("%w: box column and weight column must differ, both are %d", ErrValidation, c.BoxColumn)
	}
	return nil
}

const configFileName = "excel_configs.json"

// ConfigStore persists per-type configs as a JSON file in the user config
// directory.
type ConfigStore struct {
	Dir string
}

// NewConfigStore locates the store under the OS user config directory.
func NewConfigStore() (*ConfigStore, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("%w: locate user config dir: %v", ErrFile, err)
	}
	return &ConfigStore{Dir: filepath.Join(base, "liao-tools")}, nil
}

func defaultConfigs() map[ProcessType]ProcessConfig {
	configs := make(map[ProcessType]ProcessConfig)
	for _, t := range []ProcessType{SeaRailWithImage, SeaRailNoImage, AirFreight} {
		cfg, _ := DefaultConfig(t)
		configs[t] = cfg
	}
	return configs
}

// LoadAll reads every stored config, falling back to the built-in defaults
// when the store file does not exist yet.
func (s *ConfigStore) LoadAll() (map[ProcessType]ProcessConfig, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, configFileName))
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfigs(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read config store: %v", ErrFile, err)
	}
	var configs map[ProcessType]ProcessConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("%w: decode config store: %v", ErrParse, err)
	}
	return configs, nil
}

// SaveAll writes the full config map, creating the store directory on first
// use.
func (s *ConfigStore) SaveAll(configs map[ProcessType]ProcessConfig) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: create config dir: %v", ErrFile, err)
	}
	data, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode config store: %v", ErrWrite, err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, configFileName), data, 0o644); err != nil {
		return fmt.Errorf("%w: write config store: %v", ErrFile, err)
	}
	return nil
}

// Load returns the stored config for one process type, or its default when
// nothing is stored.
func (s *ConfigStore) Load(t ProcessType) (ProcessConfig, error) {
	configs, err := s.LoadAll()
	if err != nil {
		return ProcessConfig{}, err
	}
	if cfg, ok := configs[t]; ok {
		return cfg, nil
	}
	return DefaultConfig(t)
}

// Save stores the config for its process type, preserving the others.
func (s *ConfigStore) Save(cfg ProcessConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	configs, err := s.LoadAll()
	if err != nil {
		return err
	}
	configs[cfg.ProcessType] = cfg
	return s.SaveAll(configs)
}
