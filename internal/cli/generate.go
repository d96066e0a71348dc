package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/liquidglass/pkg/pipeline"
)

// generateOpts holds the non-configuration flags of the generate command.
type generateOpts struct {
	formats  string
	output   string
	filterID string
	pngScale float64
	preview  bool
	noCache  bool
	refresh  bool

	status io.Writer // spinner and result line
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		cfg  configFlags
		opts generateOpts
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a displacement map and its filter chain",
		Long: `Generate the displacement texture for a glass element.

The configuration starts from a preset, is overridden by the --config file
and finally by individual flags such as --width or --scale.

Formats:
  svg      displacement texture (default)
  datauri  texture encoded for an feImage href
  json     texture, data URI, geometry and filter attributes
  filter   SVG filter chain using the texture (--preview adds a backdrop)
  chain    diagram of the filter chain (SVG)
  dot      diagram of the filter chain (Graphviz source)
  png, pdf rasterised texture or preview (requires rsvg-convert)

With a single format, --output names the file; "-" writes to stdout.
With several formats, --output is a base path and each format gets its
own extension. Without --output, files are named after the preset.`,
		Example: `  liquidglass generate --preset pill -f svg,filter
  liquidglass gen --width 400 --blend screen -f datauri -o -
  liquidglass gen -c glass.toml -f png --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := cfg.resolveOptions(cmd)
			if err != nil {
				return err
			}
			popts.Formats = parseFormats(opts.formats)
			popts.FilterID = opts.filterID
			popts.PNGScale = opts.pngScale
			popts.Preview = opts.preview
			popts.Refresh = opts.refresh
			opts.status = cmd.ErrOrStderr()
			return c.runGenerate(cmd.Context(), popts, opts)
		},
	}

	addConfigFlags(cmd, &cfg)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: "+strings.Join(pipeline.Formats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (multiple) or "-" for stdout`)
	cmd.Flags().StringVar(&opts.filterID, "filter-id", pipeline.DefaultFilterID, "id of the generated filter element")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", pipeline.DefaultPNGScale, "resolution multiplier for png output")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "draw a sample backdrop through the filter (filter, png, pdf)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even if cached")

	return cmd
}

// runGenerate executes the pipeline and writes its artifacts.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, g generateOpts) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if g.output == "-" && len(opts.Formats) > 1 {
		return fmt.Errorf("cannot write %d formats to stdout", len(opts.Formats))
	}

	runner, err := c.newRunner(g.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	status := g.status
	if status == nil {
		status = os.Stderr
	}
	spin := startSpinner(ctx, status, fmt.Sprintf("Generating %s...", opts.Label()))

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.fail("Generation failed")
		return err
	}

	if g.output == "-" {
		spin.halt()
		return writeStdout(result.Artifacts[opts.Formats[0]])
	}

	paths := outputPaths(opts.Formats, g.output, result.Label)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			spin.fail("Writing output failed")
			return fmt.Errorf("write %s: %w", format, err)
		}
	}
	spin.succeed(fmt.Sprintf("Generated %s", result.Label))

	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.SVGBytes, result.Stats.DataURIBytes, result.CacheInfo.GenerateHit)
	return nil
}

// outputPaths assigns a file to each format.
func outputPaths(formats []string, output, label string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, label)
	for _, f := range formats {
		paths[f] = base + pipeline.Extensions[f]
	}
	return paths
}

// basePath derives the base output path. Without an output it is derived
// from the label; a known extension on output is stripped.
func basePath(output, label string) string {
	if output == "" {
		return strings.NewReplacer("+", "-", " ", "-").Replace(label)
	}
	longest := ""
	for _, ext := range pipeline.Extensions {
		if strings.HasSuffix(output, ext) && len(ext) > len(longest) && len(output) > len(ext) {
			longest = ext
		}
	}
	if longest != "" {
		return strings.TrimSuffix(output, longest)
	}
	if ext := filepath.Ext(output); ext != "" {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeStdout(data []byte) error {
	_, err := os.Stdout.Write(data)
	return err
}
