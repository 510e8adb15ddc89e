package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}
	return Event{}
}

func TestWatchFileChangeAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWithDebounce(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	if err := w.WatchFile(path); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}

	if err := os.WriteFile(path, []byte(`[{"id":"a"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	ev := waitEvent(t, w)
	if ev.Type != EventSourceChanged || filepath.Base(ev.Path) != "tasks.json" {
		t.Errorf("event = %+v, want change of tasks.json", ev)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, w); ev.Type != EventSourceRemoved {
		t.Errorf("event = %v, want %v", ev.Type, EventSourceRemoved)
	}
}

func TestIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")

	w, err := NewWithDebounce(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	if err := w.WatchFile(path); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event for sibling file: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")

	w, err := NewWithDebounce(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	if err := w.WatchFile(path); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("- id: a\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	waitEvent(t, w)
	select {
	case ev := <-w.Events():
		t.Errorf("burst produced a second event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestEventTypeString(t *testing.T) {
	if EventSourceChanged.String() != "changed" || EventSourceRemoved.String() != "removed" {
		t.Error("unexpected EventType strings")
	}
}

func TestUnwatchFileStopsEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")

	w, err := NewWithDebounce(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	if err := w.WatchFile(path); err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	w.UnwatchFile(path)

	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-w.Events():
		t.Errorf("unexpected event after unwatch: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	// Watching again re-adds the directory.
	if err := w.WatchFile(path); err != nil {
		t.Fatalf("WatchFile again: %v", err)
	}
	if err := os.WriteFile(path, []byte(`[{"id":"b"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, w); ev.Type != EventSourceChanged {
		t.Errorf("event = %v, want %v", ev.Type, EventSourceChanged)
	}
}
