package config

import (
	"os"
	"syscall"

	"github.com/watchfire-io/salesboard/internal/models"
)

// LoadFeedInfo loads the feed server info from ~/.salesboard/feed.yaml.
// Returns nil if the file doesn't exist.
func LoadFeedInfo() (*models.FeedInfo, error) {
	path, err := GlobalFeedFile()
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.FeedInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveFeedInfo saves the feed server info to ~/.salesboard/feed.yaml.
func SaveFeedInfo(info *models.FeedInfo) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}

	path, err := GlobalFeedFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveFeedInfo removes the feed.yaml file.
func RemoveFeedInfo() error {
	path, err := GlobalFeedFile()
	if err != nil {
		return err
	}

	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// IsFeedRunning checks if the feed server process is still running.
// Returns true if feed.yaml exists and the PID is alive.
func IsFeedRunning() (bool, *models.FeedInfo, error) {
	info, err := LoadFeedInfo()
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}

	process, err := os.FindProcess(info.PID)
	if err != nil {
		return false, info, nil
	}

	// Signal 0 only probes for existence
	if err := process.Signal(syscall.Signal(0)); err != nil {
		_ = RemoveFeedInfo()
		return false, info, nil
	}

	return true, info, nil
}
