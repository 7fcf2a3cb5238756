package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iconatlas/pkg/atlas"
	"github.com/matzehuels/iconatlas/pkg/cache"
	"github.com/matzehuels/iconatlas/pkg/errors"
	"github.com/matzehuels/iconatlas/pkg/observability"
	"github.com/matzehuels/iconatlas/pkg/sink"
	"github.com/matzehuels/iconatlas/pkg/source"
)

// sizedRasterizer returns opaque images with per-icon sizes and fails for
// icons without one.
type sizedRasterizer struct {
	sizes map[string][2]int
	mu    sync.Mutex
	calls int
}

func (s *sizedRasterizer) Rasterize(_ context.Context, src source.Source) (*image.NRGBA, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	wh, ok := s.sizes[src.Name]
	if !ok {
		return nil, fmt.Errorf("msdfgen failed on %s", src.Name)
	}
	img := image.NewNRGBA(image.Rect(0, 0, wh[0], wh[1]))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img, nil
}

func writeIcons(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n+".svg"), []byte("<svg id=\""+n+"\"/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testRunner(r *sizedRasterizer) *Runner {
	runner := NewRunner(nil, nil, log.New(io.Discard))
	runner.Rasterizer = r
	return runner
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{InputDir: "icons"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.OutputAtlas != DefaultOutputAtlas || opts.OutputJSON != DefaultOutputJSON {
		t.Errorf("outputs = %q, %q", opts.OutputAtlas, opts.OutputJSON)
	}
	if opts.Size != DefaultSize || opts.Mode != DefaultMode || opts.Format != DefaultFormat {
		t.Errorf("raster defaults = %d %q %q", opts.Size, opts.Mode, opts.Format)
	}
	if opts.Padding != 0 {
		t.Errorf("Padding = %d, want 0 (used as given)", opts.Padding)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeInvalidInput},
		{"negative padding", Options{InputDir: "x", Padding: -2}, errors.ErrCodeInvalidPadding},
		{"bad mode", Options{InputDir: "x", Mode: "raster"}, errors.ErrCodeInvalidInput},
		{"bad format", Options{InputDir: "x", Format: "gif"}, errors.ErrCodeInvalidFormat},
		{"bad output path", Options{InputDir: "x", OutputJSON: "a\x00b"}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRasterKeyOpts(t *testing.T) {
	opts := Options{InputDir: "x", Mode: "mtsdf", Size: 32, Range: 4}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	got := opts.RasterKeyOpts("msdfgen 1.12")
	want := cache.RasterKeyOpts{Mode: "mtsdf", Size: 32, Range: 4, Tool: "msdfgen 1.12"}
	if got != want {
		t.Errorf("RasterKeyOpts() = %+v, want %+v", got, want)
	}
}

func TestExecute(t *testing.T) {
	dir := writeIcons(t, "img1", "img2", "img3")
	out := t.TempDir()
	r := &sizedRasterizer{sizes: map[string][2]int{
		"img1": {40, 30},
		"img2": {20, 50},
		"img3": {10, 10},
	}}

	res, err := testRunner(r).Execute(context.Background(), Options{
		InputDir:    dir,
		OutputAtlas: filepath.Join(out, "atlas.png"),
		OutputJSON:  filepath.Join(out, "atlas.json"),
		Padding:     2,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Empty {
		t.Error("Empty should be false")
	}
	if res.Stats.Sources != 3 || res.Stats.Rasterized != 3 || res.Stats.Failed != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.SheetSize != 128 {
		t.Errorf("sheet size = %d, want 128", res.Stats.SheetSize)
	}

	want := map[string]atlas.Rect{
		"img2": {X: 2, Y: 2, Width: 20, Height: 50},
		"img1": {X: 2, Y: 54, Width: 40, Height: 30},
		"img3": {X: 44, Y: 54, Width: 10, Height: 10},
	}
	for name, rect := range want {
		if got := res.Metadata.Icons[name]; got != rect {
			t.Errorf("icon %s = %+v, want %+v", name, got, rect)
		}
	}

	if len(res.Files) != 2 {
		t.Fatalf("files = %v, want 2", res.Files)
	}
	f, err := os.Open(filepath.Join(out, "atlas.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	meta, err := sink.ReadMetadata(f)
	if err != nil {
		t.Fatalf("ReadMetadata() error: %v", err)
	}
	if meta.AtlasWidth != 128 || meta.AtlasHeight != 128 || len(meta.Icons) != 3 {
		t.Errorf("written metadata = %+v", meta)
	}
}

func TestExecuteToleratesFailures(t *testing.T) {
	dir := writeIcons(t, "good", "broken")
	out := t.TempDir()
	r := &sizedRasterizer{sizes: map[string][2]int{"good": {16, 16}}}

	res, err := testRunner(r).Execute(context.Background(), Options{
		InputDir:    dir,
		OutputAtlas: filepath.Join(out, "atlas.png"),
		OutputJSON:  filepath.Join(out, "atlas.json"),
		Padding:     1,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Source.Name != "broken" {
		t.Errorf("failures = %+v", res.Failures)
	}
	if _, ok := res.Metadata.Lookup("broken"); ok {
		t.Error("failed icon should not appear in metadata")
	}
	if _, ok := res.Metadata.Lookup("good"); !ok {
		t.Error("good icon missing from metadata")
	}
}

func TestExecuteEmptyDirectory(t *testing.T) {
	out := t.TempDir()
	r := &sizedRasterizer{}

	res, err := testRunner(r).Execute(context.Background(), Options{
		InputDir:    t.TempDir(),
		OutputAtlas: filepath.Join(out, "atlas.png"),
		OutputJSON:  filepath.Join(out, "atlas.json"),
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !res.Empty {
		t.Error("Empty should be true")
	}
	if r.calls != 0 {
		t.Errorf("rasterizer called %d times", r.calls)
	}
	assertNoOutputs(t, out)
}

func TestExecuteNothingProduced(t *testing.T) {
	dir := writeIcons(t, "a", "b")
	out := t.TempDir()

	_, err := testRunner(&sizedRasterizer{}).Execute(context.Background(), Options{
		InputDir:    dir,
		OutputAtlas: filepath.Join(out, "atlas.png"),
		OutputJSON:  filepath.Join(out, "atlas.json"),
	})
	if !errors.Is(err, errors.ErrCodeNoImagesProduced) {
		t.Fatalf("Execute() = %v, want %s", err, errors.ErrCodeNoImagesProduced)
	}
	assertNoOutputs(t, out)
}

func TestExecuteMissingDirectory(t *testing.T) {
	_, err := testRunner(&sizedRasterizer{}).Execute(context.Background(), Options{
		InputDir: filepath.Join(t.TempDir(), "missing"),
	})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Execute() = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestExecuteMissingRasterizer(t *testing.T) {
	runner := NewRunner(nil, nil, log.New(io.Discard))
	_, err := runner.Execute(context.Background(), Options{
		InputDir:    writeIcons(t, "a"),
		MsdfgenPath: filepath.Join(t.TempDir(), "no-such-msdfgen"),
	})
	if !errors.Is(err, errors.ErrCodeRasterizerNotFound) {
		t.Errorf("Execute() = %v, want %s", err, errors.ErrCodeRasterizerNotFound)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	dir := writeIcons(t, "a", "b")
	out := t.TempDir()
	r := &sizedRasterizer{sizes: map[string][2]int{"a": {8, 8}, "b": {8, 4}}}

	runner := NewRunner(fc, nil, log.New(io.Discard))
	runner.Rasterizer = r
	opts := Options{
		InputDir:    dir,
		OutputAtlas: filepath.Join(out, "atlas.png"),
		OutputJSON:  filepath.Join(out, "atlas.json"),
	}

	for i := 0; i < 2; i++ {
		if _, err := runner.Execute(context.Background(), opts); err != nil {
			t.Fatalf("Execute() run %d error: %v", i, err)
		}
	}
	if r.calls != 2 {
		t.Errorf("rasterizer calls = %d, want 2 (second run served from cache)", r.calls)
	}
}

func TestExecuteMetadataFailureKeepsSheet(t *testing.T) {
	out := t.TempDir()
	blocker := filepath.Join(out, "blocked")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	r := &sizedRasterizer{sizes: map[string][2]int{"a": {4, 4}}}

	_, err := testRunner(r).Execute(context.Background(), Options{
		InputDir:    writeIcons(t, "a"),
		OutputAtlas: filepath.Join(out, "a.png"),
		OutputJSON:  filepath.Join(blocker, "a.json"),
	})
	if err == nil {
		t.Fatal("Execute() should fail when the metadata cannot be written")
	}
	if _, err := os.Stat(filepath.Join(out, "a.png")); !os.IsNotExist(err) {
		t.Errorf("sheet should not be written without its metadata, stat err = %v", err)
	}
}

func TestExecuteDottedIconNames(t *testing.T) {
	out := t.TempDir()
	r := &sizedRasterizer{sizes: map[string][2]int{
		"home":        {8, 8},
		"search":      {8, 8},
		"arrow..left": {8, 8},
	}}

	res, err := testRunner(r).Execute(context.Background(), Options{
		InputDir:    writeIcons(t, "home", "search", "arrow..left"),
		OutputAtlas: filepath.Join(out, "atlas.png"),
		OutputJSON:  filepath.Join(out, "atlas.json"),
		Padding:     2,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if _, ok := res.Metadata.Lookup("arrow..left"); !ok || len(res.Metadata.Icons) != 3 {
		t.Errorf("icons = %v, want home, search and arrow..left", res.Metadata.Icons)
	}
}

type stageHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	stages []string
}

func (h *stageHooks) add(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, s)
}

func (h *stageHooks) OnDiscover(context.Context, string, int) { h.add("discover") }
func (h *stageHooks) OnPackStart(context.Context, int)        { h.add("pack") }
func (h *stageHooks) OnWrite(_ context.Context, path string, _ int, _ error) {
	h.add("write " + filepath.Ext(path))
}
func (h *stageHooks) OnPackComplete(context.Context, int, time.Duration, error) {}

func TestExecuteHooks(t *testing.T) {
	hooks := &stageHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	out := t.TempDir()
	r := &sizedRasterizer{sizes: map[string][2]int{"a": {4, 4}}}
	_, err := testRunner(r).Execute(context.Background(), Options{
		InputDir:    writeIcons(t, "a"),
		OutputAtlas: filepath.Join(out, "atlas.png"),
		OutputJSON:  filepath.Join(out, "atlas.json"),
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{"discover", "pack", "write .png", "write .json"}
	if fmt.Sprint(hooks.stages) != fmt.Sprint(want) {
		t.Errorf("stages = %v, want %v", hooks.stages, want)
	}
}

func assertNoOutputs(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir should be empty, has %d entries", len(entries))
	}
}
