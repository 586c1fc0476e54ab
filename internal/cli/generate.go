package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ridgemap/ridgemap/pkg/pipeline"
)

// generateCommand creates the generate command, the main entry point for
// rendering a ridge-line SVG from a bounding box.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		bbox       string
		output     string
		configFile string
		watch      bool
		settings   cacheSettings
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate --bbox lng1,lat1,lng2,lat2",
		Short: "Render a ridge-line SVG for a bounding box",
		Long: `Render a ridge-line SVG for a geographic bounding box.

The bounding box is given as two corners, lng1,lat1,lng2,lat2. The first
corner is the one nearest a south-facing viewer; use --viewpoint to look at
the terrain from another cardinal direction.

Elevation comes from the AWS terrain tile service by default; use
--source hgt:<dir> for a local directory of SRTM .hgt tiles. Sampled grids
and downloaded tiles are cached locally for faster subsequent runs.

Examples:

  # Mont Blanc massif, seen from the south
  ridgemap generate --bbox 6.7,45.7,7.1,46.0 -o montblanc.svg

  # Same terrain from the east, with lakes flattened out
  ridgemap generate --bbox 6.7,45.7,7.1,46.0 --viewpoint east --lake-smooth 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bbox == "" {
				return fmt.Errorf("--bbox is required")
			}
			var err error
			opts.Lng1, opts.Lat1, opts.Lng2, opts.Lat2, err = parseBBox(bbox)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			cfg.apply(&opts)

			return c.runGenerate(cmd, opts, output, watch, settings)
		},
	}

	// Common flags
	cmd.Flags().StringVar(&bbox, "bbox", "", "bounding box as lng1,lat1,lng2,lat2 (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "skyline.svg", "output file, or - for stdout")
	cmd.Flags().StringVar(&configFile, "config", "", "config file (default ~/.config/ridgemap/config.toml)")
	cmd.Flags().BoolVar(&watch, "watch", false, "show a live sampling progress bar")
	settings.registerCacheFlags(cmd)

	// Sampling flags
	cmd.Flags().StringVar(&opts.Projection, "projection", "", "working projection: web-mercator (default), mercator, equirectangular, or a proj4 string")
	cmd.Flags().IntVar(&opts.Rows, "rows", 0, "ridge lines front to back (default 60)")
	cmd.Flags().IntVar(&opts.Cols, "cols", 0, "samples per ridge line (default 120)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "elevation source: terrarium (default), hgt:<dir>, zero")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "resample even if a cached grid exists")

	// Geometry flags
	cmd.Flags().StringVar(&opts.Viewpoint, "viewpoint", "", "viewing direction: south (default), west, north, east")
	cmd.Flags().Float64Var(&opts.VerticalRatio, "ratio", 0, "vertical exaggeration (default 40)")
	cmd.Flags().Float64Var(&opts.WaterMeters, "water", 0, "submerge terrain below this elevation in meters")
	cmd.Flags().Float64Var(&opts.LakeSmooth, "lake-smooth", 0, "cut ridge stretches flatter than this many meters")

	// Style flags
	cmd.Flags().IntVar(&opts.Width, "width", 0, "output width in pixels (default 800)")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "output height in pixels (default 600)")
	cmd.Flags().StringVar(&opts.Background, "background", "", `background fill (default "#ffffff", "none" for transparent)`)
	cmd.Flags().StringVar(&opts.LineColor, "line-color", "", `stroke color (default "#1a1a1a")`)
	cmd.Flags().Float64Var(&opts.LineWidth, "line-width", 0, "stroke width in pixels (default 1.2)")

	return cmd
}

// runGenerate executes the pipeline and writes the SVG.
func (c *CLI) runGenerate(cmd *cobra.Command, opts pipeline.Options, output string, watch bool, settings cacheSettings) error {
	runner, err := c.newRunner(cmd, settings)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx := cmd.Context()
	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	var result *pipeline.Result
	if watch {
		result, err = runSamplingTUI(ctx, runner, opts)
	} else {
		spinner := newSpinnerWithContext(ctx, "Sampling terrain...")
		spinner.Start()
		result, err = runner.Execute(ctx, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Sampled %dx%d grid", result.Stats.Rows, result.Stats.Cols))

	if output == "-" {
		if _, err := os.Stdout.Write(result.SVG); err != nil {
			return err
		}
		return nil
	}

	if err := os.WriteFile(output, result.SVG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	if result.Stats.StrokeCount == 0 {
		printWarning("Every row came out empty; try a smaller --water or a larger bounding box")
	} else {
		printSuccess("Rendered %d strokes", result.Stats.StrokeCount)
	}
	printFile(output)
	printStats(result.Stats, result.CacheInfo.GridHit)
	printNextStep("Open it", "open "+output)
	return nil
}
