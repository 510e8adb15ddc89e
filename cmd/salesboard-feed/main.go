// Package main is the entry point for the salesboard-feed server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/watchfire-io/salesboard/internal/config"
	"github.com/watchfire-io/salesboard/internal/feed"
	"github.com/watchfire-io/salesboard/internal/loader"
	"github.com/watchfire-io/salesboard/internal/models"
	"github.com/watchfire-io/salesboard/internal/watcher"
)

func main() {
	host := flag.String("host", "localhost", "Host to bind")
	port := flag.Int("port", 0, "Port to listen on (0 for dynamic allocation)")
	source := flag.String("source", "", "Task record file to serve (.json, .yaml or .toml)")
	count := flag.Int("count", models.DefaultSeedCount, "Number of generated tasks when no source is given")
	seed := flag.Int64("random-seed", 0, "Seed for generated tasks (0 uses the clock)")
	flag.Parse()

	log.SetPrefix("[salesboard-feed] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	running, info, err := config.IsFeedRunning()
	if err != nil {
		log.Fatalf("Failed to check feed status: %v", err)
	}
	if running {
		log.Fatalf("Feed already running on port %d (PID %d)", info.Port, info.PID)
	}

	srv := feed.New(initialTasks(*source, *count, *seed), *source)
	if err := srv.Listen(*host, *port); err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	feedInfo := models.NewFeedInfo(*host, srv.Port(), os.Getpid(), *source)
	if err := config.SaveFeedInfo(feedInfo); err != nil {
		log.Fatalf("Failed to write feed info: %v", err)
	}

	log.Printf("Feed started at %s (PID %d, %d records)", feedInfo.TasksURL(), os.Getpid(), len(srv.Tasks()))

	stopWatch := watchSource(srv, *source)
	defer stopWatch()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	srv.Stop()

	if err := config.RemoveFeedInfo(); err != nil {
		log.Printf("Failed to remove feed info: %v", err)
	}

	fmt.Println("Feed stopped")
}

// initialTasks reads the source file, or generates a fixed seed set once so
// every request sees the same records.
func initialTasks(source string, count int, seed int64) []models.Task {
	if source == "" {
		return loader.GenerateSalesTasks(count, loader.NewRand(seed))
	}
	tasks, err := config.LoadTaskRecords(source)
	if err != nil {
		log.Fatalf("Failed to read source: %v", err)
	}
	return tasks
}

// watchSource reloads the served records whenever the source file changes.
func watchSource(srv *feed.Server, source string) func() {
	if source == "" {
		return func() {}
	}

	w, err := watcher.New()
	if err != nil {
		log.Printf("Failed to start watcher, serving static records: %v", err)
		return func() {}
	}
	if err := w.WatchFile(source); err != nil {
		log.Printf("Failed to watch source, serving static records: %v", err)
		w.Stop()
		return func() {}
	}

	go func() {
		for ev := range w.Events() {
			switch ev.Type {
			case watcher.EventSourceChanged:
				if err := srv.Reload(); err != nil {
					log.Printf("Reload failed, keeping previous records: %v", err)
				}
			case watcher.EventSourceRemoved:
				log.Printf("Source %s removed, keeping previous records", ev.Path)
			}
		}
	}()
	return w.Stop
}
