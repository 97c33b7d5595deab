// Package output writes generated pages to their destination.
package output

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	builderr "github.com/thecodebarbarian/barbarian/internal/errors"
)

// Writer stores a payload under a slash-separated path, replacing any
// existing file. Implementations must allow concurrent writes to distinct
// paths.
type Writer interface {
	Write(ctx context.Context, name string, data []byte) error
}

// Dir writes files below a root directory on the local disk.
type Dir string

// Write creates any missing parent directories of name and writes data to it.
func (d Dir) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !fs.ValidPath(name) || name == "." {
		return builderr.Write(name, fmt.Errorf("invalid path"))
	}
	full := filepath.Join(string(d), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return builderr.Write(name, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return builderr.Write(name, err)
	}
	return nil
}
