package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SettingsFile struct {
	Settings map[string]string `yaml:"settings"`
}

// LoadSettingsFile reads a yaml document of the form
//
//	settings:
//	  store_name: SUCRE STORE
//	  whatsapp_number: "22670000000"
func LoadSettingsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var f SettingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if len(f.Settings) == 0 {
		return nil, fmt.Errorf("settings file %s has no settings", path)
	}
	return f.Settings, nil
}
