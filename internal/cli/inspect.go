package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/glass/inspect"
	"github.com/matzehuels/liquidglass/pkg/pipeline"
)

// inspectCommand checks the structure of a displacement texture.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		cfg    configFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file|-]",
		Short: "Check the structure of a displacement texture",
		Long: `Inspect reads a displacement texture, either as SVG markup or as a data URI,
and reports its viewBox, gradients and layers.

When a preset, config file or override flag is given, the texture is also
compared against the geometry that configuration resolves to.

The command fails if the texture does not have the expected layer layout.`,
		Example: `  liquidglass gen -f svg -o - | liquidglass inspect -
  liquidglass inspect dock.txt --preset dock`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			var expected *glass.CalculatedGeometry
			if cfg.changed(cmd) {
				opts, err := cfg.resolveOptions(cmd)
				if err != nil {
					return err
				}
				resolved, err := pipeline.NewRunner(nil, nil, c.Logger).Resolve(opts)
				if err != nil {
					return err
				}
				g := glass.ResolveGeometry(resolved.Geometry())
				expected = &g
			}
			return c.runInspect(cmd.Context(), input, expected, asJSON)
		},
	}

	addConfigFlags(cmd, &cfg)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, expected *glass.CalculatedGeometry, asJSON bool) error {
	logger := loggerFromContext(ctx)

	svg, err := readTexture(input)
	if err != nil {
		return err
	}
	logger.Debug("read texture", "input", input, "bytes", len(svg))

	report, err := inspect.Texture(svg)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	if err := report.Check(); err != nil {
		return err
	}
	if expected != nil && !report.Matches(*expected) {
		return errors.New(errors.ErrCodeInvalidInput,
			"texture does not match configuration: want %s×%s border %s",
			fnum(expected.Width), fnum(expected.Height), fnum(expected.CalculatedBorder))
	}
	if !asJSON {
		printSuccess("Texture is well-formed")
	}
	return nil
}

// readTexture reads SVG markup or a data URI from a file or stdin.
func readTexture(input string) (string, error) {
	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", input, err)
	}

	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "data:") {
		return glass.DecodeDataURI(text)
	}
	return text, nil
}

func printReport(r inspect.Report) {
	printKeyValue("viewBox", r.ViewBox)
	printKeyValue("gradients", strings.Join(r.Gradients, ", "))
	printKeyValue("layers", strconv.Itoa(len(r.Rects)))
	if r.Inset != nil {
		printKeyValue("border", fnum(r.Border()))
		printKeyValue("inset", fnum(r.Inset.Width)+"×"+fnum(r.Inset.Height))
		printKeyValue("fill", r.Inset.Fill)
	}
	if r.Blend != "" {
		printKeyValue("blend", r.Blend)
	}
	printKeyValue("blur", fnum(r.Blur))
	for _, issue := range r.Issues {
		printWarning("%s", issue)
	}
}

func fnum(v float64) string {
	return glass.FormatNumber(v)
}
