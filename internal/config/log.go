package config

import (
	"fmt"
	"os"
)

// maxLogSize is the size past which the log file is truncated on open.
const maxLogSize = 5 << 20

// OpenLogFile opens the global log file for appending, creating the logs
// directory as needed. A file larger than maxLogSize starts over.
func OpenLogFile() (*os.File, error) {
	if err := EnsureGlobalLogsDir(); err != nil {
		return nil, err
	}
	path, err := GlobalLogFile()
	if err != nil {
		return nil, err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
