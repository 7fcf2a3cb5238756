package raster

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/matzehuels/iconatlas/pkg/errors"
)

// msdfgenName is the executable name searched for on $PATH.
const msdfgenName = "msdfgen"

// FindMsdfgen locates the msdfgen executable.
//
// Lookup order:
//  1. explicit, when non-empty (a path, or a name resolved through $PATH)
//  2. build/msdfgen next to the running executable (build/msdfgen.exe on Windows)
//  3. msdfgen on $PATH
//
// An explicit path that cannot be resolved is an error rather than a reason
// to fall back, so a typo never silently picks a different binary.
func FindMsdfgen(explicit string) (string, error) {
	exeDir := ""
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	return findMsdfgen(explicit, exeDir, exec.LookPath)
}

func findMsdfgen(explicit, exeDir string, lookPath func(string) (string, error)) (string, error) {
	if explicit != "" {
		path, err := lookPath(explicit)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeRasterizerNotFound, err, "msdfgen not found at %q", explicit)
		}
		return path, nil
	}

	if exeDir != "" {
		local := filepath.Join(exeDir, "build", msdfgenName)
		if runtime.GOOS == "windows" {
			local += ".exe"
		}
		if info, err := os.Stat(local); err == nil && !info.IsDir() {
			return local, nil
		}
	}

	if path, err := lookPath(msdfgenName); err == nil {
		return path, nil
	}

	return "", errors.New(errors.ErrCodeRasterizerNotFound,
		"could not find 'msdfgen' executable; try specifying --msdfgen-path")
}
