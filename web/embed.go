package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed dist
var content embed.FS

// DistFS returns the bundled client application.
func DistFS() (fs.FS, error) {
	sub, err := fs.Sub(content, "dist")
	if err != nil {
		return nil, fmt.Errorf("creating dist sub-filesystem: %w", err)
	}
	return sub, nil
}
