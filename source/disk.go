package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Disk reads the images below a root directory.
type Disk struct {
	Root string
}

// NewDisk creates a disk source rooted at root.
func NewDisk(root string) *Disk {
	return &Disk{Root: root}
}

// Fetch reads the file named by the identifier.
func (ds *Disk) Fetch(ctx context.Context, identifier string) ([]byte, error) {
	filename, ok := ds.path(identifier)
	if !ok {
		debug("Refusing %#v outside of %#v", identifier, ds.Root)
		return nil, notFound(identifier, nil)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(filename)
	if err != nil {
		debug("Cannot open file %#v: %v", filename, err)
		return nil, err
	}

	return body, nil
}

// path resolves the identifier, which must stay within the root.
func (ds *Disk) path(identifier string) (string, bool) {
	root := filepath.Clean(ds.Root)
	filename := filepath.Join(root, filepath.FromSlash(identifier))

	rel, err := filepath.Rel(root, filename)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filename, true
}
