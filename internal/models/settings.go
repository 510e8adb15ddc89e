package models

// SeedConfig controls synthetic task generation.
type SeedConfig struct {
	Count      int   `yaml:"count"`
	RandomSeed int64 `yaml:"random_seed"` // 0 = seed from the clock
	OnError    bool  `yaml:"on_error"`    // also generate when the source fails to load
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
	Theme    string `yaml:"theme"` // "system" | "light" | "dark"
}

// TelemetryConfig holds opt-in usage analytics settings.
type TelemetryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key,omitempty"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	DistinctID string `yaml:"distinct_id,omitempty"`
}

// Settings represents global application settings.
// This corresponds to ~/.salesboard/settings.yaml.
type Settings struct {
	Version   int             `yaml:"version"`
	Source    string          `yaml:"source"` // URL or file path; empty = feed or generated
	Seed      SeedConfig      `yaml:"seed"`
	Display   DisplayConfig   `yaml:"display"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DefaultSeedCount is the number of tasks generated when no source has data.
const DefaultSeedCount = 50

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Seed: SeedConfig{
			Count: DefaultSeedCount,
		},
		Display: DisplayConfig{
			Currency: "$",
			Theme:    "system",
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
		},
	}
}
