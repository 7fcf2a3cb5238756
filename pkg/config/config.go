// Package config loads iconatlas settings from a TOML file.
//
// A config file keeps per-project settings next to the icons they apply to:
//
//	# icons/iconatlas.toml
//	size = 48
//	padding = 4
//	mode = "mtsdf"
//	range = 6.0
//	output_atlas = "assets/icons.png"
//	output_json = "assets/icons.json"
//	cache_url = "redis://localhost:6379/0"
//
// Keys mirror the build command's flags. Precedence, highest first: flags set
// on the command line, the config file, built-in defaults. Only keys present
// in the file take part in the merge, so an explicit zero (padding = 0) is
// honored.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/iconatlas/pkg/errors"
)

// FileName is the config file looked up in the input directory.
const FileName = "iconatlas.toml"

// Config keys.
const (
	KeySize        = "size"
	KeyPadding     = "padding"
	KeyMode        = "mode"
	KeyRange       = "range"
	KeyFormat      = "format"
	KeyMsdfgenPath = "msdfgen_path"
	KeyOutputAtlas = "output_atlas"
	KeyOutputJSON  = "output_json"
	KeyCacheURL    = "cache_url"
)

// Keys lists every supported key.
var Keys = []string{
	KeySize, KeyPadding, KeyMode, KeyRange, KeyFormat,
	KeyMsdfgenPath, KeyOutputAtlas, KeyOutputJSON, KeyCacheURL,
}

// Config holds build settings.
type Config struct {
	Size        int     `toml:"size"`
	Padding     int     `toml:"padding"`
	Mode        string  `toml:"mode"`
	Range       float64 `toml:"range"`
	Format      string  `toml:"format"`
	MsdfgenPath string  `toml:"msdfgen_path"`
	OutputAtlas string  `toml:"output_atlas"`
	OutputJSON  string  `toml:"output_json"`
	CacheURL    string  `toml:"cache_url"`

	// Path is the file the config was loaded from, if any.
	Path string `toml:"-"`

	defined map[string]bool
}

// FlagName returns the command line flag for a config key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Load reads the config file at path. Unknown keys are rejected so that a
// misspelled setting is not silently ignored. Relative output paths in the
// file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "config file %q not found", path)
	}
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	cfg.Path = path
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes a TOML document.
func Parse(doc string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(doc, &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	cfg.defined = make(map[string]bool, len(Keys))
	for _, k := range Keys {
		if md.IsDefined(k) {
			cfg.defined[k] = true
		}
	}
	return &cfg, nil
}

// Find returns the config file in dir, if one exists.
func Find(dir string) (string, bool) {
	path := filepath.Join(dir, FileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// IsDefined reports whether key was set in the file.
func (c *Config) IsDefined(key string) bool {
	return c != nil && c.defined[key]
}

// ApplyTo copies every key defined in c onto dst unless overridden reports
// that the key was set explicitly on the command line.
func (c *Config) ApplyTo(dst *Config, overridden func(key string) bool) {
	if c == nil {
		return
	}
	use := func(key string) bool {
		return c.IsDefined(key) && (overridden == nil || !overridden(key))
	}
	if use(KeySize) {
		dst.Size = c.Size
	}
	if use(KeyPadding) {
		dst.Padding = c.Padding
	}
	if use(KeyMode) {
		dst.Mode = c.Mode
	}
	if use(KeyRange) {
		dst.Range = c.Range
	}
	if use(KeyFormat) {
		dst.Format = c.Format
	}
	if use(KeyMsdfgenPath) {
		dst.MsdfgenPath = c.MsdfgenPath
	}
	if use(KeyOutputAtlas) {
		dst.OutputAtlas = c.OutputAtlas
	}
	if use(KeyOutputJSON) {
		dst.OutputJSON = c.OutputJSON
	}
	if use(KeyCacheURL) {
		dst.CacheURL = c.CacheURL
	}
}

// resolvePaths makes relative file paths relative to dir.
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.OutputAtlas, &c.OutputJSON} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	if c.MsdfgenPath != "" && !filepath.IsAbs(c.MsdfgenPath) && strings.ContainsRune(c.MsdfgenPath, filepath.Separator) {
		c.MsdfgenPath = filepath.Join(dir, c.MsdfgenPath)
	}
}
