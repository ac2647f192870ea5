// Package archive builds worksheet-archive access on top of "archive/zip":
// a Walk abstraction plus a Resolver that hands embedded files (images,
// animation frames) to the cell tree by name.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains the path to the archive
// passed to Walk. The file argument is the zip.File structure for a file in
// the archive which satisfies the match condition. If an error is returned,
// processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks all the files in the archive which satisfy the match condition,
// calling walkFn for each item. Entries with path traversal components
// ("..") or absolute paths abort the walk to prevent Zip Slip attacks.
func Walk(archive, pattern string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, pattern) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resolver resolves embedded file names inside one worksheet archive. It
// owns the open archive handle; Close releases it.
type Resolver struct {
	path string
	r    *zip.ReadCloser
}

// Open opens a worksheet archive for embedded-file resolution.
func Open(path string) (*Resolver, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open archive %q: %w", path, err)
	}
	return &Resolver{path: path, r: r}, nil
}

// Path returns the archive location the resolver reads from.
func (a *Resolver) Path() string { return a.path }

// Close releases the archive handle.
func (a *Resolver) Close() error { return a.r.Close() }

// ReadFile returns the content of the named embedded file.
func (a *Resolver) ReadFile(name string) ([]byte, error) {
	if !isSafePath(name) {
		return nil, fmt.Errorf("entry %q: unsafe path", name)
	}
	for _, f := range a.r.File {
		if f.FileHeader.Name != name || f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("entry %q not found in %q", name, a.path)
}

// Has reports whether the archive contains the named file.
func (a *Resolver) Has(name string) bool {
	for _, f := range a.r.File {
		if f.FileHeader.Name == name && !f.FileInfo().IsDir() {
			return true
		}
	}
	return false
}

// List returns the names of all files in the archive in natural order, so
// frame sequences like img2.png/img10.png come out numerically.
func (a *Resolver) List() []string {
	var names []string
	for _, f := range a.r.File {
		if !f.FileInfo().IsDir() {
			names = append(names, f.FileHeader.Name)
		}
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
