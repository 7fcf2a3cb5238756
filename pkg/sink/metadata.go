package sink

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/iconatlas/pkg/atlas"
)

// metadataIndent is the indentation used for metadata files.
const metadataIndent = "    "

// MarshalMetadata encodes m as indented JSON followed by a newline.
// Icon names come out sorted.
func MarshalMetadata(m atlas.Metadata) ([]byte, error) {
	if m.Icons == nil {
		m.Icons = map[string]atlas.Rect{}
	}
	data, err := json.MarshalIndent(m, "", metadataIndent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteMetadata writes m to w as indented JSON.
func WriteMetadata(w io.Writer, m atlas.Metadata) error {
	data, err := MarshalMetadata(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadMetadata decodes metadata previously written by [WriteMetadata].
func ReadMetadata(r io.Reader) (atlas.Metadata, error) {
	var m atlas.Metadata
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return atlas.Metadata{}, err
	}
	if m.Icons == nil {
		m.Icons = map[string]atlas.Rect{}
	}
	return m, nil
}
