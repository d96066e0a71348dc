package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/liquidglass/pkg/glass/preset"
)

// presetsCommand lists the built-in presets.
func (c *CLI) presetsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(preset.All())
			}
			fmt.Println(presetsTable(preset.All()))
			printNextStep("Generate one", "liquidglass generate --preset pill -f svg,filter")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print presets as JSON")
	return cmd
}

// presetsTable renders presets with one row per preset.
func presetsTable(presets []preset.Preset) string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	rows := make([][]string, 0, len(presets))
	for _, p := range presets {
		c := p.Config
		rows = append(rows, []string{
			string(p.Name),
			num(c.Width) + "×" + num(c.Height),
			num(c.Radius),
			num(c.Border),
			num(c.Scale),
			fmt.Sprintf("%s/%s", c.X, c.Y),
			string(c.Blend),
			fmt.Sprintf("%s/%s/%s", num(c.R), num(c.G), num(c.B)),
			num(c.Alpha),
			num(c.Lightness),
			num(c.Blur),
			num(c.Displace),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Preset", "Size", "Radius", "Border", "Scale", "X/Y", "Blend", "R/G/B", "Alpha", "Light", "Blur", "Displace").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return nameStyle.Padding(0, 1)
			default:
				return cellStyle.Padding(0, 1)
			}
		})
	return t.Render()
}
