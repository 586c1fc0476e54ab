package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ridgemap/ridgemap/pkg/errors"
	"github.com/ridgemap/ridgemap/pkg/pipeline"
)

// Config holds user defaults loaded from the TOML config file. Every field is
// optional; zero values defer to pipeline defaults, and explicit command-line
// flags always win.
//
// Example config (~/.config/ridgemap/config.toml):
//
//	projection = "web-mercator"
//	viewpoint  = "south"
//	rows       = 80
//	source     = "hgt:/data/srtm"
//
//	[style]
//	background = "#fdf6e3"
//	line_color = "#073642"
//	line_width = 1.5
type Config struct {
	Projection    string  `toml:"projection"`
	Viewpoint     string  `toml:"viewpoint"`
	Rows          int     `toml:"rows"`
	Cols          int     `toml:"cols"`
	VerticalRatio float64 `toml:"vertical_ratio"`
	WaterMeters   float64 `toml:"water_meters"`
	LakeSmooth    float64 `toml:"lake_smooth"`
	Source        string  `toml:"source"`

	Style struct {
		Width      int     `toml:"width"`
		Height     int     `toml:"height"`
		Background string  `toml:"background"`
		LineColor  string  `toml:"line_color"`
		LineWidth  float64 `toml:"line_width"`
	} `toml:"style"`
}

// loadConfig reads the config file at path, or the default location when path
// is empty. A missing default file is not an error; a missing explicit file is.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return Config{}, nil
		}
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
	}
	return cfg, nil
}

// apply copies config values into options for every field the caller left at
// its zero value.
func (cfg Config) apply(opts *pipeline.Options) {
	if opts.Projection == "" {
		opts.Projection = cfg.Projection
	}
	if opts.Viewpoint == "" {
		opts.Viewpoint = cfg.Viewpoint
	}
	if opts.Rows == 0 {
		opts.Rows = cfg.Rows
	}
	if opts.Cols == 0 {
		opts.Cols = cfg.Cols
	}
	if opts.VerticalRatio == 0 {
		opts.VerticalRatio = cfg.VerticalRatio
	}
	if opts.WaterMeters == 0 {
		opts.WaterMeters = cfg.WaterMeters
	}
	if opts.LakeSmooth == 0 {
		opts.LakeSmooth = cfg.LakeSmooth
	}
	if opts.Source == "" {
		opts.Source = cfg.Source
	}
	if opts.Width == 0 {
		opts.Width = cfg.Style.Width
	}
	if opts.Height == 0 {
		opts.Height = cfg.Style.Height
	}
	if opts.Background == "" {
		opts.Background = cfg.Style.Background
	}
	if opts.LineColor == "" {
		opts.LineColor = cfg.Style.LineColor
	}
	if opts.LineWidth == 0 {
		opts.LineWidth = cfg.Style.LineWidth
	}
}
