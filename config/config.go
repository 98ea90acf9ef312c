// Package config loads playbook settings from YAML or INI files.
package config

import (
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/playbook/logx"
)

const DefaultConfigFile = "~/.playbook/config.yaml"
const DefaultProfile = "default"

// Bounds are the limits the UI enforces on generation requests.
type Bounds struct {
	MinSamples int `yaml:"min_samples" json:"minSamples"`
	MaxSamples int `yaml:"max_samples" json:"maxSamples"`
	MinColumns int `yaml:"min_columns" json:"minColumns"`
	MaxColumns int `yaml:"max_columns" json:"maxColumns"`
}

// Render holds image output settings.
type Render struct {
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
	Format string `yaml:"format" json:"format"` // "png" or "svg"
}

// Config is the full settings tree.
type Config struct {
	Samples       int    `yaml:"samples" json:"samples"`
	Columns       int    `yaml:"columns" json:"columns"`
	Seed          int64  `yaml:"seed" json:"seed"` // 0 = time-seeded
	Bounds        Bounds `yaml:"bounds" json:"bounds"`
	HistogramBins int    `yaml:"histogram_bins" json:"histogramBins"` // 0 = Sturges
	CategoryLimit int    `yaml:"category_limit" json:"categoryLimit"`
	Render        Render `yaml:"render" json:"render"`
	LogLevel      string `yaml:"log_level" json:"logLevel"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Samples: 200,
		Columns: 4,
		Bounds: Bounds{
			MinSamples: 50,
			MaxSamples: 500,
			MinColumns: 2,
			MaxColumns: 6,
		},
		CategoryLimit: 20,
		Render: Render{
			Width:  800,
			Height: 500,
			Format: "png",
		},
		LogLevel: "info",
	}
}

// Validate checks the settings against their bounds.
func (c Config) Validate() error {
	b := c.Bounds
	if b.MinSamples < 1 || b.MaxSamples < b.MinSamples {
		return errors.Errorf("bad sample bounds [%d, %d]", b.MinSamples, b.MaxSamples)
	}
	if b.MinColumns < 1 || b.MaxColumns < b.MinColumns {
		return errors.Errorf("bad column bounds [%d, %d]", b.MinColumns, b.MaxColumns)
	}
	if err := c.CheckRequest(c.Samples, c.Columns); err != nil {
		return err
	}
	if c.HistogramBins < 0 {
		return errors.Errorf("histogram_bins must be >= 0, got %d", c.HistogramBins)
	}
	if c.CategoryLimit < 1 {
		return errors.Errorf("category_limit must be >= 1, got %d", c.CategoryLimit)
	}
	if c.Render.Width < 1 || c.Render.Height < 1 {
		return errors.Errorf("bad render size %dx%d", c.Render.Width, c.Render.Height)
	}
	switch strings.ToLower(c.Render.Format) {
	case "png", "svg":
	default:
		return errors.Errorf("unknown render format '%s'", c.Render.Format)
	}
	if _, ok := logx.ParseLevel(c.LogLevel); !ok {
		return errors.Errorf("unknown log level '%s'", c.LogLevel)
	}
	return nil
}

// CheckRequest reports whether a generation request is inside the bounds.
func (c Config) CheckRequest(samples, columns int) error {
	b := c.Bounds
	if samples < b.MinSamples || samples > b.MaxSamples {
		return errors.Errorf("samples must be between %d and %d, got %d", b.MinSamples, b.MaxSamples, samples)
	}
	if columns < b.MinColumns || columns > b.MaxColumns {
		return errors.Errorf("columns must be between %d and %d, got %d", b.MinColumns, b.MaxColumns, columns)
	}
	return nil
}

// Expand the given file path if it start with a ~/
func expandUser(fname string) (string, error) {
	if strings.HasPrefix(fname, "~/") {
		usr, err := user.Current()
		if err != nil {
			return "", err
		}
		return path.Join(usr.HomeDir, fname[2:]), nil
	}
	return fname, nil
}

// Load reads settings from fname on top of the defaults. A missing file at
// the default location is not an error. ".ini" and ".cfg" files are read
// from the named profile section; anything else is parsed as YAML.
func Load(fname, profile string) (Config, error) {
	cfg := Default()
	if fname == "" {
		return cfg, nil
	}

	expanded, err := expandUser(fname)
	if err != nil {
		return cfg, errors.Wrapf(err, "error expanding config path")
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) && fname == DefaultConfigFile {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "error reading config")
	}

	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".ini", ".cfg":
		err = LoadINI(data, profile, &cfg)
	default:
		err = LoadYAML(data, &cfg)
	}
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", fname)
	}
	logx.Debugf("⚙️  Playbook: loaded config %s", expanded)
	return cfg, nil
}

// LoadYAML overlays YAML settings onto cfg. Keys that are absent keep
// their current values.
func LoadYAML(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "error parsing config")
	}
	return nil
}

// LoadINI overlays the named profile section onto cfg.
func LoadINI(data []byte, profile string, cfg *Config) error {
	if profile == "" {
		profile = DefaultProfile
	}
	info, err := ini.Load(data)
	if err != nil {
		return errors.Wrapf(err, "error loading config")
	}
	if !info.HasSection(profile) {
		return errors.Errorf("config profile '%s' not found", profile)
	}
	stanza := info.Section(profile)

	ints := []struct {
		key string
		dst *int
	}{
		{"samples", &cfg.Samples},
		{"columns", &cfg.Columns},
		{"min_samples", &cfg.Bounds.MinSamples},
		{"max_samples", &cfg.Bounds.MaxSamples},
		{"min_columns", &cfg.Bounds.MinColumns},
		{"max_columns", &cfg.Bounds.MaxColumns},
		{"histogram_bins", &cfg.HistogramBins},
		{"category_limit", &cfg.CategoryLimit},
		{"render_width", &cfg.Render.Width},
		{"render_height", &cfg.Render.Height},
	}
	for _, f := range ints {
		if !stanza.HasKey(f.key) {
			continue
		}
		v, err := stanza.Key(f.key).Int()
		if err != nil {
			return errors.Wrapf(err, "config key '%s'", f.key)
		}
		*f.dst = v
	}

	if stanza.HasKey("seed") {
		v, err := stanza.Key("seed").Int64()
		if err != nil {
			return errors.Wrapf(err, "config key 'seed'")
		}
		cfg.Seed = v
	}
	if v := stanza.Key("render_format").String(); v != "" {
		cfg.Render.Format = v
	}
	if v := stanza.Key("log_level").String(); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
