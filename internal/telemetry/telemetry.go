// Package telemetry reports opt-in, anonymous usage events.
package telemetry

import (
	"log"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/watchfire-io/salesboard/internal/buildinfo"
	"github.com/watchfire-io/salesboard/internal/models"
)

// Event names.
const (
	EventTaskAdded    = "task_added"
	EventTaskUpdated  = "task_updated"
	EventTaskDeleted  = "task_deleted"
	EventTaskRestored = "task_restored"
)

// Tracker records usage events.
type Tracker interface {
	Track(event string, props map[string]any)
	Close() error
}

// New returns a PostHog-backed tracker when telemetry is enabled and an API
// key is configured, and a no-op tracker otherwise.
func New(settings models.TelemetryConfig) Tracker {
	if !settings.Enabled || settings.APIKey == "" {
		return Nop{}
	}

	cfg := posthog.Config{}
	if settings.Endpoint != "" {
		cfg.Endpoint = settings.Endpoint
	}
	client, err := posthog.NewWithConfig(settings.APIKey, cfg)
	if err != nil {
		log.Printf("[telemetry] disabled: %v", err)
		return Nop{}
	}

	id := settings.DistinctID
	if id == "" {
		id = uuid.NewString()
	}
	return &posthogTracker{client: client, distinctID: id}
}

// Nop discards every event.
type Nop struct{}

// Track does nothing.
func (Nop) Track(string, map[string]any) {}

// Close does nothing.
func (Nop) Close() error { return nil }

type posthogTracker struct {
	client     posthog.Client
	distinctID string
}

func (t *posthogTracker) Track(event string, props map[string]any) {
	p := posthog.NewProperties().Set("version", buildinfo.Version)
	for k, v := range props {
		p.Set(k, v)
	}
	if err := t.client.Enqueue(posthog.Capture{
		DistinctId: t.distinctID,
		Event:      event,
		Properties: p,
	}); err != nil {
		log.Printf("[telemetry] enqueue %s: %v", event, err)
	}
}

func (t *posthogTracker) Close() error {
	return t.client.Close()
}
