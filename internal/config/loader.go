package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSim loads the simulation configuration.
// Search order: customPath -> ~/.pixelwar/configs/pixelwar.yaml -> ./configs/pixelwar.yaml -> embedded default.
// Files are layered over the embedded defaults, so a file only needs the keys it changes.
func LoadSim(customPath string) (SimConfig, error) {
	cfg := embeddedDefaults()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{"configs/pixelwar.yaml"}
	if userCfgPath := userConfigPath("pixelwar.yaml"); userCfgPath != "" {
		candidates = append([]string{userCfgPath}, candidates...)
	}

	// Unreadable or broken optional files fall through to the next candidate
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		layered := embeddedDefaults()
		if err := yaml.Unmarshal(data, &layered); err != nil {
			continue
		}
		if layered.Validate() == nil {
			return layered, nil
		}
	}

	return cfg, nil
}

// embeddedDefaults parses the embedded YAML, falling back to DefaultSimConfig.
func embeddedDefaults() SimConfig {
	var cfg SimConfig
	if err := yaml.Unmarshal(defaultSimYAML, &cfg); err != nil {
		return DefaultSimConfig()
	}
	return cfg
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pixelwar", "configs", filename)
}

// WriteYAML writes the configuration to a YAML file.
func (c SimConfig) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
