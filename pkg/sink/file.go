package sink

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/matzehuels/iconatlas/pkg/atlas"
)

// Written reports the sizes of the files written by [WriteAtlasFiles].
type Written struct {
	SheetBytes    int
	MetadataBytes int
}

// WriteAtlasFiles writes the sheet to sheetPath, choosing the format from the
// extension, and the metadata JSON to metaPath.
//
// Both files are encoded and staged next to their targets before either
// target is replaced, so a failure while encoding or staging leaves any
// previous atlas.png/atlas.json pair untouched.
func WriteAtlasFiles(sheetPath string, img *image.NRGBA, metaPath string, m atlas.Metadata) (Written, error) {
	var sheet bytes.Buffer
	if err := EncodeSheet(&sheet, img, WithFormat(FormatFromPath(sheetPath))); err != nil {
		return Written{}, fmt.Errorf("encode sheet: %w", err)
	}
	meta, err := MarshalMetadata(m)
	if err != nil {
		return Written{}, fmt.Errorf("encode metadata: %w", err)
	}

	sheetFile, err := stage(sheetPath, sheet.Bytes())
	if err != nil {
		return Written{}, err
	}
	defer sheetFile.discard()
	metaFile, err := stage(metaPath, meta)
	if err != nil {
		return Written{}, err
	}
	defer metaFile.discard()

	if err := sheetFile.commit(); err != nil {
		return Written{}, err
	}
	if err := metaFile.commit(); err != nil {
		return Written{}, err
	}
	return Written{SheetBytes: sheet.Len(), MetadataBytes: len(meta)}, nil
}

// staged is a fully written temp file waiting to replace path.
type staged struct {
	tmp  string
	path string
}

// stage writes data to a temp file in path's directory.
func stage(path string, data []byte) (*staged, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".iconatlas-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	s := &staged{tmp: tmp.Name(), path: path}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.discard()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		s.discard()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(s.tmp, 0644); err != nil {
		s.discard()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return s, nil
}

// commit renames the temp file over path.
func (s *staged) commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.tmp = ""
	return nil
}

// discard removes the temp file unless it was committed.
func (s *staged) discard() {
	if s.tmp != "" {
		_ = os.Remove(s.tmp)
	}
}
