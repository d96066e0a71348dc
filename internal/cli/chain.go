package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/liquidglass/pkg/pipeline"
)

// chainCommand draws the filter chain of a configuration.
func (c *CLI) chainCommand() *cobra.Command {
	var (
		cfg    configFlags
		dot    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Draw the filter chain as a graph",
		Long: `Chain draws the SVG filter primitives the displacement map feeds, labelled
with the values the configuration produces: the texture, one displacement
and colour matrix per colour plane, the blends that recombine them and the
final blur.

The diagram is rendered with Graphviz. Use --dot for the source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cfg.resolveOptions(cmd)
			if err != nil {
				return err
			}
			format := pipeline.FormatChain
			if dot {
				format = pipeline.FormatDOT
			}
			opts.Formats = []string{format}
			opts.Logger = c.Logger

			runner, err := c.newRunner(false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			result, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				return err
			}
			data := result.Artifacts[format]
			if output == "" || output == "-" {
				return writeStdout(data)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	addConfigFlags(cmd, &cfg)
	cmd.Flags().BoolVar(&dot, "dot", false, "print Graphviz source instead of SVG")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
