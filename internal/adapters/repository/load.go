package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Load picks a loader by file extension: .db and .sqlite are read as SQLite,
// .yaml and .yml as YAML.
func Load(ctx context.Context, path string, opts ...Option) (*Tables, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path, opts...)
	case ".yaml", ".yml":
		return LoadYAML(path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}
