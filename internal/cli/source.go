package cli

import (
	"fmt"

	"github.com/watchfire-io/salesboard/internal/config"
	"github.com/watchfire-io/salesboard/internal/loader"
	"github.com/watchfire-io/salesboard/internal/models"
)

// pickSource returns the first non-empty of the flag, the configured
// source and the running feed's URL.
func pickSource(flag, configured, feedURL string) string {
	switch {
	case flag != "":
		return flag
	case configured != "":
		return configured
	default:
		return feedURL
	}
}

// resolveSource decides where the bootstrap records come from. An empty
// result means no source; the loader then falls back to generated records.
func resolveSource(settings *models.Settings) string {
	var feedURL string
	if sourceFlag == "" && settings.Source == "" {
		if running, info, err := config.IsFeedRunning(); err == nil && running && info != nil {
			feedURL = info.TasksURL()
		}
	}
	return pickSource(sourceFlag, settings.Source, feedURL)
}

// newLoader builds the bootstrap loader for a source, with generated
// records standing in when the source is empty (or fails, if configured).
func newLoader(source string, settings *models.Settings) loader.Loader {
	l := loader.Resolve(source)
	if settings.Seed.OnError {
		l = loader.WithSeedOnError(l, settings.Seed.Count, settings.Seed.RandomSeed)
	}
	return loader.WithSeedFallback(l, settings.Seed.Count, settings.Seed.RandomSeed)
}

func loadSettings() (*models.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}
