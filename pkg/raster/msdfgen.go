package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/iconatlas/pkg/errors"
	"github.com/matzehuels/iconatlas/pkg/source"
)

// Msdfgen rasterizes SVG icons by running the msdfgen command line tool.
// Each icon is written to a per-run work directory and decoded from there;
// Close removes the directory.
type Msdfgen struct {
	path    string
	opts    Options
	workDir string
}

// NewMsdfgen prepares a rasterizer using the executable at path. The work
// directory is created below os.TempDir with a unique name, so concurrent runs
// never share intermediate files.
func NewMsdfgen(path string, opts Options) (*Msdfgen, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	workDir := filepath.Join(os.TempDir(), "iconatlas-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &Msdfgen{path: path, opts: opts, workDir: workDir}, nil
}

// Path returns the msdfgen executable in use.
func (m *Msdfgen) Path() string { return m.path }

// WorkDir returns the directory holding intermediate rasters.
func (m *Msdfgen) WorkDir() string { return m.workDir }

// Rasterize runs msdfgen on one SVG and decodes the resulting image.
func (m *Msdfgen) Rasterize(ctx context.Context, src source.Source) (*image.NRGBA, error) {
	out := filepath.Join(m.workDir, src.Name+"."+m.opts.Format)

	cmd := exec.CommandContext(ctx, m.path, m.args(src.Path, out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		return nil, errors.Wrap(errors.ErrCodeRasterizeFailed, err, "msdfgen failed on %s: %s", filepath.Base(src.Path), msg)
	}
	defer os.Remove(out)

	img, err := DecodeFile(out)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRasterizeFailed, err, "read msdfgen output for %s", filepath.Base(src.Path))
	}
	return img, nil
}

// args builds the msdfgen command line:
//
//	<mode> -svg <in> -o <out> -size <n> <n> -autoframe [-pxrange <r>] [-format <f>]
//
// -autoframe centers the shape within the requested box.
func (m *Msdfgen) args(in, out string) []string {
	size := strconv.Itoa(m.opts.Size)
	args := []string{m.opts.Mode, "-svg", in, "-o", out, "-size", size, size, "-autoframe"}
	if m.opts.Range > 0 {
		args = append(args, "-pxrange", strconv.FormatFloat(m.opts.Range, 'g', -1, 64))
	}
	if m.opts.Format != FormatPNG {
		args = append(args, "-format", m.opts.Format)
	}
	return args
}

// Version returns the first line msdfgen prints for -version, or "" when the
// tool does not report one.
func (m *Msdfgen) Version(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, m.path, "-version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return line
}

// Close removes the work directory and any intermediate files left in it.
func (m *Msdfgen) Close() error {
	return os.RemoveAll(m.workDir)
}

var _ Rasterizer = (*Msdfgen)(nil)
