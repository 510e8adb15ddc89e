package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/watchfire-io/salesboard/internal/models"
)

func TestNewDisabledIsNop(t *testing.T) {
	tests := []struct {
		name     string
		settings models.TelemetryConfig
	}{
		{"disabled", models.TelemetryConfig{Enabled: false, APIKey: "phc_test"}},
		{"no key", models.TelemetryConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.settings)
			if _, ok := tr.(Nop); !ok {
				t.Errorf("New = %T, want Nop", tr)
			}
			tr.Track(EventTaskAdded, nil)
			if err := tr.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		})
	}
}

func TestPosthogTrackerSendsEvents(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":1}`))
	}))
	defer srv.Close()

	tr := New(models.TelemetryConfig{
		Enabled:    true,
		APIKey:     "phc_test",
		Endpoint:   srv.URL,
		DistinctID: "board-1",
	})
	if _, ok := tr.(Nop); ok {
		t.Fatal("expected a live tracker")
	}

	tr.Track(EventTaskDeleted, map[string]any{"status": "Done"})
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	found := false
	for _, p := range paths {
		if strings.HasPrefix(p, "/batch") {
			found = true
		}
	}
	if !found {
		t.Errorf("no batch request reached the endpoint, got %v", paths)
	}
}
