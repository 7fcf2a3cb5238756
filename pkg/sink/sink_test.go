package sink

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/matzehuels/iconatlas/pkg/atlas"
	"github.com/matzehuels/iconatlas/pkg/errors"
)

func testSheet(opaque bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			a := uint8(255)
			if !opaque {
				a = uint8(x * 30)
			}
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 32), G: uint8(y * 32), B: 7, A: a})
		}
	}
	return img
}

func decode(t *testing.T, data []byte) *image.NRGBA {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return imaging.Clone(img)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"atlas.png", FormatPNG},
		{"out/atlas.PNG", FormatPNG},
		{"atlas.bmp", FormatBMP},
		{"atlas.tif", FormatTIFF},
		{"atlas.TIFF", FormatTIFF},
		{"atlas", FormatPNG},
		{"atlas.webp", FormatPNG},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEncodeSheet(t *testing.T) {
	tests := []struct {
		format string
		opaque bool
	}{
		{FormatPNG, false},
		{FormatTIFF, false},
		{FormatBMP, true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			src := testSheet(tt.opaque)
			var buf bytes.Buffer
			if err := EncodeSheet(&buf, src, WithFormat(tt.format)); err != nil {
				t.Fatalf("EncodeSheet() error: %v", err)
			}
			got := decode(t, buf.Bytes())
			if !bytes.Equal(got.Pix, src.Pix) {
				t.Errorf("%s round trip changed pixels", tt.format)
			}
		})
	}
}

func TestEncodeSheetInvalidFormat(t *testing.T) {
	err := EncodeSheet(&bytes.Buffer{}, testSheet(true), WithFormat("gif"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("EncodeSheet() = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestMarshalMetadata(t *testing.T) {
	m := atlas.Metadata{
		AtlasWidth:  128,
		AtlasHeight: 128,
		Icons: map[string]atlas.Rect{
			"zoom": {X: 44, Y: 54, Width: 10, Height: 10},
			"home": {X: 2, Y: 2, Width: 20, Height: 50},
		},
	}
	data, err := MarshalMetadata(m)
	if err != nil {
		t.Fatalf("MarshalMetadata() error: %v", err)
	}

	want := `{
    "atlas_width": 128,
    "atlas_height": 128,
    "icons": {
        "home": {
            "x": 2,
            "y": 2,
            "width": 20,
            "height": 50
        },
        "zoom": {
            "x": 44,
            "y": 54,
            "width": 10,
            "height": 10
        }
    }
}
`
	if string(data) != want {
		t.Errorf("MarshalMetadata() =\n%s\nwant\n%s", data, want)
	}

	back, err := ReadMetadata(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadMetadata() error: %v", err)
	}
	if back.AtlasWidth != 128 || back.Icons["zoom"] != m.Icons["zoom"] {
		t.Errorf("ReadMetadata() = %+v", back)
	}
}

func TestMarshalMetadataEmpty(t *testing.T) {
	data, err := MarshalMetadata(atlas.Metadata{AtlasWidth: 1, AtlasHeight: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"icons": {}`) {
		t.Errorf("empty metadata should have an empty icons object, got %s", data)
	}
}

func TestReadMetadataInvalid(t *testing.T) {
	if _, err := ReadMetadata(strings.NewReader("{not json")); err == nil {
		t.Error("ReadMetadata() should fail on malformed JSON")
	}
}

func TestWriteAtlasFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sheetPath := filepath.Join(dir, "atlas.png")
	jsonPath := filepath.Join(dir, "atlas.json")

	n, err := WriteAtlasFiles(sheetPath, testSheet(false), jsonPath, atlas.Metadata{AtlasWidth: 8, AtlasHeight: 8})
	if err != nil {
		t.Fatalf("WriteAtlasFiles() error: %v", err)
	}
	for path, size := range map[string]int{sheetPath: n.SheetBytes, jsonPath: n.MetadataBytes} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if int(info.Size()) != size {
			t.Errorf("%s: reported %d bytes, file has %d", filepath.Base(path), size, info.Size())
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output dir has %d entries, want 2 (no temp files left)", len(entries))
	}
}

func TestWriteAtlasFilesKeepsPreviousPairOnFailure(t *testing.T) {
	dir := t.TempDir()
	sheetPath := filepath.Join(dir, "atlas.png")
	if err := os.WriteFile(sheetPath, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}
	// A regular file where the metadata directory should be.
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := WriteAtlasFiles(sheetPath, testSheet(false), filepath.Join(blocker, "atlas.json"), atlas.Metadata{})
	if err == nil {
		t.Fatal("WriteAtlasFiles() should fail when the metadata dir cannot be created")
	}

	data, err := os.ReadFile(sheetPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "previous" {
		t.Error("sheet was replaced although the metadata could not be written")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("dir has %d entries, want 2 (staged sheet removed)", len(entries))
	}
}
