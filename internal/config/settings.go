package config

import (
	"github.com/watchfire-io/salesboard/internal/models"
)

// LoadSettings loads the global settings from ~/.salesboard/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	if settings.Seed.Count <= 0 {
		settings.Seed.Count = models.DefaultSeedCount
	}
	return settings, nil
}

// SaveSettings saves the global settings to ~/.salesboard/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}
