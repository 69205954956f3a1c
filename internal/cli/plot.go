package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/pipeline"
)

// plotCommand renders the chart and reach schematic to files.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		types   []string
		formats []string
		output  string
		width   int
		height  int
		title   string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the D50 chart and reach schematic",
		Long: `Render the stored sections.

The chart plots both D50 estimates and their average as stepped lines against
distance along the reach. The schematic draws the sections in order with their
reach lengths. Files are written as <output>-<type>.<format>.`,
		Example: `  revetment plot
  revetment plot -t chart,schematic -f svg,png -o out/reach
  revetment plot -f json --title "River Wey"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("type") {
				types = cfg.Plot.Types
			}
			if !flags.Changed("format") {
				formats = cfg.Plot.Formats
			}
			if !flags.Changed("width") {
				width = cfg.Plot.Width
			}
			if !flags.Changed("height") {
				height = cfg.Plot.Height
			}
			if !flags.Changed("title") {
				title = cfg.Plot.Title
			}
			if err := errors.ValidatePath(output); err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			opts := pipeline.Options{
				Types:   types,
				Formats: formats,
				Width:   width,
				Height:  height,
				Title:   title,
				Refresh: refresh,
				Logger:  logger,
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			seq, err := c.loadSequence(ctx)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			out := cmd.OutOrStdout()
			prog := newProgress(logger)
			spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering...")
			spin.Start()
			result, err := runner.Execute(ctx, seq.Sections(), opts)
			spin.Stop()
			if err != nil {
				return err
			}

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
				}
			}

			names := make([]string, 0, len(result.Artifacts))
			for name := range result.Artifacts {
				names = append(names, name)
			}
			sort.Strings(names)

			printSuccess(out, "Rendered %d sections", result.Stats.Sections)
			for _, name := range names {
				path := plotPath(output, name)
				if err := os.WriteFile(path, result.Artifacts[name], 0o644); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
				}
				printFile(out, path)
			}
			printStats(out, result.Stats.Sections, len(names), result.CacheInfo.AllHit())
			prog.done("plot complete", "hits", result.CacheInfo.Hits, "misses", result.CacheInfo.Misses)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&types, "type", "t", nil, "visualization types: chart, schematic")
	flags.StringSliceVarP(&formats, "format", "f", nil, "output formats: svg, png, json")
	flags.StringVarP(&output, "output", "o", "reach", "output path prefix")
	flags.IntVar(&width, "width", 0, "chart width in pixels")
	flags.IntVar(&height, "height", 0, "chart height in pixels")
	flags.StringVar(&title, "title", "", "chart title (empty draws none)")
	flags.BoolVar(&noCache, "no-cache", false, "disable the plot cache")
	flags.BoolVar(&refresh, "refresh", false, "re-render and overwrite cached plots")
	return cmd
}

// plotPath turns an artifact name such as "chart.svg" into "<prefix>-chart.svg".
func plotPath(prefix, artifact string) string {
	return fmt.Sprintf("%s-%s", prefix, artifact)
}
