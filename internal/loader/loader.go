// Package loader supplies the bootstrap task collection for a store.
package loader

import (
	"context"
	"strings"

	"github.com/watchfire-io/salesboard/internal/models"
)

// Loader fetches task records. Implementations must honor ctx cancellation
// where they block.
type Loader interface {
	Load(ctx context.Context) ([]models.Task, error)
}

// Func adapts a plain function to Loader.
type Func func(ctx context.Context) ([]models.Task, error)

// Load calls f.
func (f Func) Load(ctx context.Context) ([]models.Task, error) {
	return f(ctx)
}

// Empty returns no records, which makes a seed fallback kick in.
var Empty Loader = Func(func(context.Context) ([]models.Task, error) {
	return nil, nil
})

// Resolve picks a loader for a source string: http(s) URLs are fetched,
// anything else is read as a record file. An empty source yields Empty.
func Resolve(source string) Loader {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return Empty
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return NewHTTPLoader(source)
	default:
		return &FileLoader{Path: source}
	}
}
