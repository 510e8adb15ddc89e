package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/watchfire-io/salesboard/internal/config"
	"github.com/watchfire-io/salesboard/internal/models"
)

const feedBinary = "salesboard-feed"

// startFeed starts the feed server in the background with the given
// arguments and waits for it to register itself.
func startFeed(args []string) (*models.FeedInfo, error) {
	feedPath, err := findFeedBinary()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(feedPath, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start feed server: %w", err)
	}

	// Wait for the feed to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, info, err := config.IsFeedRunning()
		if err == nil && running {
			return info, nil
		}
	}

	return nil, fmt.Errorf("feed server failed to start within timeout")
}

// findFeedBinary locates the salesboard-feed binary.
func findFeedBinary() (string, error) {
	// Try PATH first
	if path, err := exec.LookPath(feedBinary); err == nil {
		return path, nil
	}

	// Try next to the current executable
	if execPath, err := os.Executable(); err == nil {
		feedPath := filepath.Join(filepath.Dir(execPath), feedBinary)
		if _, err := os.Stat(feedPath); err == nil {
			return feedPath, nil
		}
	}

	// Try build directory
	if _, err := os.Stat("./build/" + feedBinary); err == nil {
		return "./build/" + feedBinary, nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", feedBinary)
}

// feedStartArgs translates CLI options into salesboard-feed flags.
func feedStartArgs(host string, port int, source string, count int, randomSeed int64) []string {
	args := []string{"--host", host, "--port", strconv.Itoa(port)}
	if source != "" {
		args = append(args, "--source", source)
	}
	if count > 0 {
		args = append(args, "--count", strconv.Itoa(count))
	}
	if randomSeed != 0 {
		args = append(args, "--random-seed", strconv.FormatInt(randomSeed, 10))
	}
	return args
}

// FeedHealth is the body of the feed server's /health endpoint.
type FeedHealth struct {
	Status    string `json:"status"`
	Records   int    `json:"records"`
	Source    string `json:"source"`
	StartedAt string `json:"started_at"`
}

// fetchFeedHealth queries a running feed server.
func fetchFeedHealth(ctx context.Context, info *models.FeedInfo) (*FeedHealth, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := "http://" + net.JoinHostPort(info.Host, strconv.Itoa(info.Port)) + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check returned %s", resp.Status)
	}
	var h FeedHealth
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("invalid health response: %w", err)
	}
	return &h, nil
}
