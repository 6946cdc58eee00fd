// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a rendering run. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// Report is the path of the cell report.
	Report string `yaml:"report"`

	OutDir string  `yaml:"out_dir"`
	Format string  `yaml:"format"`
	Margin float64 `yaml:"margin"`

	// Width and Height are the frame size in inches.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPI    int     `yaml:"dpi"`

	// LineWidth is the boundary line width in points.
	LineWidth float64 `yaml:"line_width"`

	Reference ReferenceConfig   `yaml:"reference"`
	Palette   map[string]string `yaml:"palette"`
	Basemap   BasemapConfig     `yaml:"basemap"`
	Export    ExportConfig      `yaml:"export"`
	Animation AnimationConfig   `yaml:"animation"`
}

// ReferenceConfig holds the reference polygon as (latitude, longitude)
// vertices.
type ReferenceConfig struct {
	Units    string       `yaml:"units"`
	Vertices [][2]float64 `yaml:"vertices"`
}

// BasemapConfig holds the tile source settings.
type BasemapConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"`
	Retina     bool   `yaml:"retina"`
	Zoom       int    `yaml:"zoom"`
	MaxTiles   int    `yaml:"max_tiles"`
	UserAgent  string `yaml:"user_agent"`
	TimeoutSec int    `yaml:"timeout_sec"`

	// Cache is the path of an SQLite tile cache. Tiles are not
	// cached if it is empty.
	Cache string `yaml:"cache"`
}

// ExportConfig holds the found cell shapefile settings. Nothing is
// exported if Path is empty.
type ExportConfig struct {
	Path      string  `yaml:"path"`
	Tolerance float64 `yaml:"tolerance"`
}

// AnimationConfig holds the video settings. No video is made if Path is
// empty.
type AnimationConfig struct {
	Path string `yaml:"path"`
	FPS  int    `yaml:"fps"`
}

// DefaultConfig returns the settings that render ../build/report.csv
// into out/ over CartoDB Positron tiles.
func DefaultConfig() Config {
	palette := make(map[string]string)
	for k, v := range DefaultPalette() {
		palette[string(k)] = v
	}
	return Config{
		Report:    "../build/report.csv",
		OutDir:    "out",
		Format:    "png",
		Margin:    DefaultMargin,
		Width:     6.4,
		Height:    4.8,
		DPI:       100,
		LineWidth: 1.5,
		Reference: ReferenceConfig{
			Units:    Radians,
			Vertices: append([][2]float64(nil), DefaultReference...),
		},
		Palette: palette,
		Basemap: BasemapConfig{
			Enabled:    true,
			URL:        DefaultTileURL,
			MaxTiles:   64,
			UserAgent:  "hexframes/1.0",
			TimeoutSec: 30,
		},
		Export: ExportConfig{
			Tolerance: 1e-9,
		},
		Animation: AnimationConfig{
			FPS: 4,
		},
	}
}

// LoadConfig returns DefaultConfig overlaid with the YAML file at path,
// if path is not empty, and then with HEXFRAMES_* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		// The default vertices are only kept together with their units.
		def := cfg.Reference
		cfg.Reference = ReferenceConfig{}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("hexframes: parsing %s: %w", path, err)
		}
		if len(cfg.Reference.Vertices) == 0 {
			if u := cfg.Reference.Units; u != "" && u != def.Units {
				return Config{}, fmt.Errorf("hexframes: %s: reference units %q given without vertices", path, u)
			}
			cfg.Reference = def
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"HEXFRAMES_REPORT":     &c.Report,
		"HEXFRAMES_OUT_DIR":    &c.OutDir,
		"HEXFRAMES_FORMAT":     &c.Format,
		"HEXFRAMES_TILE_URL":   &c.Basemap.URL,
		"HEXFRAMES_TILE_CACHE": &c.Basemap.Cache,
		"HEXFRAMES_EXPORT":     &c.Export.Path,
		"HEXFRAMES_ANIMATION":  &c.Animation.Path,
	}
	for k, p := range strs {
		if v, ok := os.LookupEnv(k); ok {
			*p = strings.TrimSpace(v)
		}
	}
	if v, ok := os.LookupEnv("HEXFRAMES_BASEMAP"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("hexframes: HEXFRAMES_BASEMAP: %w", err)
		}
		c.Basemap.Enabled = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Report == "":
		return errors.New("hexframes: report path is empty")
	case c.Margin < 0:
		return fmt.Errorf("hexframes: negative margin %v", c.Margin)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("hexframes: invalid frame size %vx%v", c.Width, c.Height)
	case c.DPI <= 0:
		return fmt.Errorf("hexframes: invalid dpi %d", c.DPI)
	case c.Animation.Path != "" && c.Animation.FPS <= 0:
		return fmt.Errorf("hexframes: invalid animation fps %d", c.Animation.FPS)
	case len(c.Reference.Vertices) < 3:
		return fmt.Errorf("hexframes: reference polygon needs at least 3 vertices, got %d", len(c.Reference.Vertices))
	case c.Reference.Units != "" && c.Reference.Units != Radians && c.Reference.Units != Degrees:
		return fmt.Errorf("hexframes: unknown reference units %q", c.Reference.Units)
	case c.Basemap.Enabled && c.Basemap.URL == "":
		return errors.New("hexframes: basemap enabled without a tile url")
	}
	return checkFormat(c.Format)
}

// NewRenderer builds a renderer from c. The returned close function
// releases the tile cache, if one is used, and must be called when
// rendering is done.
func (c Config) NewRenderer(ctx context.Context, log *slog.Logger) (r *Renderer, closeFn func() error, err error) {
	closeFn = func() error { return nil }
	ref, err := NewReference(c.Reference.Vertices, c.Reference.Units)
	if err != nil {
		return nil, closeFn, err
	}
	r = NewRenderer(ref)
	r.Margin = c.Margin
	r.OutDir = c.OutDir
	r.Format = c.Format
	r.Width = vg.Length(c.Width) * vg.Inch
	r.Height = vg.Length(c.Height) * vg.Inch
	r.DPI = c.DPI
	r.LineWidth = vg.Points(c.LineWidth)
	r.Log = log
	r.Palette = DefaultPalette()
	for k, v := range c.Palette {
		r.Palette[Category(k)] = v
	}
	if !c.Basemap.Enabled {
		return r, closeFn, nil
	}

	tiles := NewHTTPTiles(c.Basemap.URL)
	tiles.Retina = c.Basemap.Retina
	tiles.UserAgent = c.Basemap.UserAgent
	tiles.Client.Timeout = time.Duration(c.Basemap.TimeoutSec) * time.Second
	var src TileSource = tiles
	if c.Basemap.Cache != "" {
		cache, err := OpenTileCache(c.Basemap.Cache)
		if err != nil {
			return nil, closeFn, fmt.Errorf("hexframes: opening tile cache: %w", err)
		}
		closeFn = cache.Close
		if err := cache.SetMetadata(ctx, "source", c.Basemap.URL); err != nil {
			cache.Close()
			return nil, func() error { return nil }, err
		}
		src = &CachedTiles{Source: tiles, Cache: cache}
	}
	bm, err := NewBasemap(src)
	if err != nil {
		closeFn()
		return nil, func() error { return nil }, err
	}
	bm.Zoom = c.Basemap.Zoom
	if c.Basemap.MaxTiles > 0 {
		bm.MaxTiles = c.Basemap.MaxTiles
	}
	bm.Log = log
	r.Basemap = bm
	return r, closeFn, nil
}
