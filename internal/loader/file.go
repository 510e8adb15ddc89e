package loader

import (
	"context"

	"github.com/watchfire-io/salesboard/internal/config"
	"github.com/watchfire-io/salesboard/internal/models"
)

// FileLoader reads task records from a .json, .yaml/.yml or .toml file.
type FileLoader struct {
	Path string
}

// Load reads the file once.
func (l *FileLoader) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return config.LoadTaskRecords(l.Path)
}
