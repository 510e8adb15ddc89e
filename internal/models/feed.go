package models

import (
	"net"
	"strconv"
	"time"
)

// FeedInfo describes a running feed server.
// This corresponds to ~/.salesboard/feed.yaml.
type FeedInfo struct {
	Version   int       `yaml:"version"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	PID       int       `yaml:"pid"`
	Source    string    `yaml:"source,omitempty"` // empty when serving generated records
	StartedAt time.Time `yaml:"started_at"`
}

// NewFeedInfo creates feed info with current values.
func NewFeedInfo(host string, port, pid int, source string) *FeedInfo {
	return &FeedInfo{
		Version:   1,
		Host:      host,
		Port:      port,
		PID:       pid,
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
}

// TasksURL returns the URL the feed serves task records on.
func (f *FeedInfo) TasksURL() string {
	return "http://" + net.JoinHostPort(f.Host, strconv.Itoa(f.Port)) + "/tasks.json"
}
