// Package source discovers the vector icons an atlas is built from.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/iconatlas/pkg/errors"
)

// Ext is the file extension of icon sources, matched case-insensitively.
const Ext = ".svg"

// Source is one vector icon on disk.
type Source struct {
	// Name is the file name without extension. It becomes the icon's key in
	// the atlas metadata.
	Name string

	// Path is the path to the SVG file.
	Path string
}

// Discover lists the SVG files directly inside dir, sorted by file name so
// that the packing order is reproducible across machines. Subdirectories are
// not searched. A missing directory is an error; a directory without SVG
// files yields an empty list.
func Discover(dir string) ([]Source, error) {
	if err := CheckDir(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", dir)
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if err := errors.ValidateIconName(name); err != nil {
			return nil, fmt.Errorf("source %s: %w", e.Name(), err)
		}
		sources = append(sources, Source{Name: name, Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })

	if err := checkUnique(sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// CheckDir verifies that dir names an existing directory.
func CheckDir(dir string) error {
	if err := errors.ValidatePath(dir); err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeFileNotFound, "directory %q not found", dir)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "%q is not a directory", dir)
	}
	return nil
}

// checkUnique rejects sources whose names collide, e.g. "home.svg" and "home.SVG".
func checkUnique(sources []Source) error {
	seen := make(map[string]string, len(sources))
	for _, s := range sources {
		if prev, ok := seen[s.Name]; ok {
			return errors.New(errors.ErrCodeDuplicateName, "icon %q defined by both %s and %s", s.Name, prev, s.Path)
		}
		seen[s.Name] = s.Path
	}
	return nil
}
