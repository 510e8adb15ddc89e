package loader

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/watchfire-io/salesboard/internal/models"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"", "empty"},
		{"   ", "empty"},
		{"http://localhost:8080/tasks.json", "http"},
		{"https://example.com/tasks.json", "http"},
		{"./tasks.yaml", "file"},
		{"/tmp/tasks.toml", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			var got string
			switch Resolve(tt.source).(type) {
			case *HTTPLoader:
				got = "http"
			case *FileLoader:
				got = "file"
			case Func:
				got = "empty"
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.source, got, tt.want)
			}
		})
	}
}

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tasks.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"a","title":"A","revenue":100,"timeTaken":2,"priority":"High","status":"Todo","createdAt":"2024-01-01T00:00:00Z"}]`))
		case "/broken.json":
			_, _ = w.Write([]byte(`{"not":"an array"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tasks, err := NewHTTPLoader(srv.URL + "/tasks.json").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "A" || tasks[0].Priority != models.PriorityHigh {
		t.Errorf("Load = %+v", tasks)
	}

	_, err = NewHTTPLoader(srv.URL + "/missing.json").Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("404 error = %v, want message with status", err)
	}

	if _, err := NewHTTPLoader(srv.URL + "/broken.json").Load(context.Background()); err == nil {
		t.Error("expected decode error for non-array body")
	}
}

func TestHTTPLoaderSizeLimit(t *testing.T) {
	body := `[{"id":"a","title":"A","revenue":100,"timeTaken":2,"priority":"High","status":"Todo"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	l := NewHTTPLoader(srv.URL)
	l.MaxBytes = int64(len(body)) - 1
	if _, err := l.Load(context.Background()); !errors.Is(err, ErrResponseTooLarge) {
		t.Errorf("oversized body error = %v, want ErrResponseTooLarge", err)
	}

	l.MaxBytes = int64(len(body))
	tasks, err := l.Load(context.Background())
	if err != nil || len(tasks) != 1 {
		t.Errorf("body at the limit: %d tasks, err %v", len(tasks), err)
	}
}

func TestHTTPLoaderHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := NewHTTPLoader(srv.URL).Load(ctx); err == nil {
		t.Error("expected error when context expires")
	}
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	data := `- id: a
  title: Renewal
  revenue: 900
  timeTaken: 3
  priority: Medium
  status: Done
  createdAt: 2024-02-01T10:00:00Z
  completedAt: 2024-02-03T10:00:00Z
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	tasks, err := (&FileLoader{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tasks) != 1 || tasks[0].CompletedAt == nil {
		t.Errorf("Load = %+v", tasks)
	}

	if _, err := (&FileLoader{Path: filepath.Join(t.TempDir(), "nope.json")}).Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGenerateSalesTasks(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tasks := GenerateSalesTasksAt(250, rand.New(rand.NewSource(42)), now)
	if len(tasks) != 250 {
		t.Fatalf("len = %d, want 250", len(tasks))
	}

	ids := map[string]bool{}
	titles := map[string]bool{}
	for _, task := range tasks {
		if ids[task.ID] {
			t.Errorf("duplicate id %s", task.ID)
		}
		ids[task.ID] = true
		if titles[strings.ToLower(task.Title)] {
			t.Errorf("duplicate title %q", task.Title)
		}
		titles[strings.ToLower(task.Title)] = true

		if task.Revenue < 500 || task.Revenue > 15000 {
			t.Errorf("%s: revenue %v out of range", task.Title, task.Revenue)
		}
		if task.TimeTaken < 1 || task.TimeTaken > 40 {
			t.Errorf("%s: timeTaken %v out of range", task.Title, task.TimeTaken)
		}
		if !task.Priority.Valid() || !task.Status.Valid() {
			t.Errorf("%s: invalid priority/status %q/%q", task.Title, task.Priority, task.Status)
		}
		if task.CreatedAt.After(now) || task.CreatedAt.Before(now.Add(-seedWindow-time.Minute)) {
			t.Errorf("%s: createdAt %v outside window", task.Title, task.CreatedAt)
		}
		if task.IsDone() != (task.CompletedAt != nil) {
			t.Errorf("%s: completedAt %v inconsistent with status %s", task.Title, task.CompletedAt, task.Status)
		}
		if task.CompletedAt != nil && task.CompletedAt.Before(task.CreatedAt) {
			t.Errorf("%s: completed before created", task.Title)
		}
	}
}

func TestGenerateSalesTasksDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := GenerateSalesTasksAt(20, rand.New(rand.NewSource(7)), now)
	b := GenerateSalesTasksAt(20, rand.New(rand.NewSource(7)), now)
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Title != b[i].Title || a[i].Revenue != b[i].Revenue {
			t.Fatalf("record %d differs between runs with the same seed", i)
		}
	}
	if GenerateSalesTasksAt(0, rand.New(rand.NewSource(7)), now) != nil {
		t.Error("n=0 should return nil")
	}
}

func TestWithSeedFallback(t *testing.T) {
	ctx := context.Background()

	tasks, err := WithSeedFallback(Empty, 5, 1).Load(ctx)
	if err != nil || len(tasks) != 5 {
		t.Errorf("empty source: got %d tasks, err %v; want 5 seeded", len(tasks), err)
	}

	one := Func(func(context.Context) ([]models.Task, error) {
		return []models.Task{{ID: "x", Title: "X"}}, nil
	})
	tasks, _ = WithSeedFallback(one, 5, 1).Load(ctx)
	if len(tasks) != 1 || tasks[0].ID != "x" {
		t.Errorf("non-empty source replaced by seed: %+v", tasks)
	}

	boom := errors.New("boom")
	failing := Func(func(context.Context) ([]models.Task, error) { return nil, boom })
	if _, err := WithSeedFallback(failing, 5, 1).Load(ctx); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v passed through", err, boom)
	}

	tasks, err = WithSeedOnError(failing, 3, 1).Load(ctx)
	if err != nil || len(tasks) != 3 {
		t.Errorf("WithSeedOnError: got %d tasks, err %v; want 3 seeded", len(tasks), err)
	}
}
