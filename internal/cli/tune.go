package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/liquidglass/pkg/cache"
	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/glass/preset"
	"github.com/matzehuels/liquidglass/pkg/pipeline"
)

// Tuner styles
var (
	tuneSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuneNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	tuneDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tunePanelStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// tuneField is one adjustable property. Enum fields have no step.
type tuneField struct {
	name     string
	step     float64
	min, max float64
}

var tuneFields = []tuneField{
	{name: "width", step: 4, min: 1, max: 4000},
	{name: "height", step: 4, min: 1, max: 4000},
	{name: "radius", step: 2, min: 0, max: 2000},
	{name: "border", step: 0.01, min: 0, max: 1},
	{name: "frost", step: 0.01, min: 0, max: 1},
	{name: "alpha", step: 0.01, min: 0, max: 1},
	{name: "lightness", step: 1, min: 0, max: 100},
	{name: "blur", step: 1, min: 0, max: 200},
	{name: "displace", step: 0.1, min: 0, max: 50},
	{name: "scale", step: 10, min: -2000, max: 2000},
	{name: "x"},
	{name: "y"},
	{name: "blend"},
	{name: "r", step: 1, min: -500, max: 500},
	{name: "g", step: 1, min: -500, max: 500},
	{name: "b", step: 1, min: -500, max: 500},
}

// =============================================================================
// TuneModel - Interactive configuration tuning
// =============================================================================

// TuneModel is the bubbletea model of the tuner. Every change regenerates
// the displacement map through the runner, so repeated configurations are
// served from its cache.
type TuneModel struct {
	ctx    context.Context
	runner *pipeline.Runner

	Preset string
	Config glass.Config
	Cursor int

	Result glass.DisplacementMapResult
	Hit    bool
	Err    error

	Generations int
	Hits        int

	SavePath string
	Saved    bool
	status   string
}

// NewTuneModel starts tuning cfg, which was derived from the named preset.
func NewTuneModel(ctx context.Context, runner *pipeline.Runner, presetName string, cfg glass.Config, savePath string) TuneModel {
	m := TuneModel{
		ctx:      ctx,
		runner:   runner,
		Preset:   presetName,
		Config:   cfg,
		SavePath: savePath,
	}
	m.regenerate()
	return m
}

func (m TuneModel) Init() tea.Cmd {
	return nil
}

func (m TuneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.status = ""
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(tuneFields)-1 {
			m.Cursor++
		}
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "shift+left", "H":
		m.adjust(-10)
	case "shift+right", "L":
		m.adjust(10)
	case "tab":
		m.nextPreset()
	case "r":
		m.Config = preset.MustLookup(m.Preset)
		m.regenerate()
		m.status = "reset to " + m.Preset
	case "s":
		if err := writeConfigFile(m.SavePath, m.Preset, m.Config); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.Saved = true
			m.status = "saved " + m.SavePath
		}
	}
	return m, nil
}

// adjust moves the selected field by n steps, or n positions for enums.
func (m *TuneModel) adjust(n int) {
	f := tuneFields[m.Cursor]
	c := &m.Config
	switch f.name {
	case "x":
		c.X = cycle(glass.Channels, c.X, n)
	case "y":
		c.Y = cycle(glass.Channels, c.Y, n)
	case "blend":
		c.Blend = cycle(glass.BlendModes, c.Blend, n)
	default:
		p := floatField(c, f.name)
		v := *p + float64(n)*f.step
		v = math.Round(v*1e6) / 1e6
		*p = math.Max(f.min, math.Min(f.max, v))
	}
	m.regenerate()
}

func (m *TuneModel) nextPreset() {
	names := preset.Names()
	i := slices.Index(names, m.Preset)
	m.Preset = names[(i+1)%len(names)]
	m.Config = preset.MustLookup(m.Preset)
	m.regenerate()
}

func (m *TuneModel) regenerate() {
	res, hit, err := m.runner.Generate(m.ctx, m.Config)
	m.Err = err
	if err != nil {
		return
	}
	m.Result, m.Hit = res, hit
	m.Generations++
	if hit {
		m.Hits++
	}
}

func (m TuneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tune " + m.Preset))
	b.WriteString("\n")
	b.WriteString(tuneDimStyle.Render("↑/↓ field  ←/→ adjust  shift ×10  tab preset  r reset  s save  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		tunePanelStyle.Render(m.fieldsView()),
		" ",
		tunePanelStyle.Render(m.resultView()),
	))
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error())
	case m.status != "":
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + m.status)
	}
	return b.String()
}

func (m TuneModel) fieldsView() string {
	var b strings.Builder
	for i, f := range tuneFields {
		line := fmt.Sprintf("%-10s %s", f.name, fieldValue(m.Config, f.name))
		if i == m.Cursor {
			b.WriteString(tuneSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(tuneNormalStyle.Render("  " + line))
		}
		if i < len(tuneFields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m TuneModel) resultView() string {
	g := m.Result.CalculatedGeometry
	f := m.Result.FilterAttributes

	status := styleComputed.Render(iconFresh)
	if m.Hit {
		status = styleCached.Render(iconCached)
	}

	lines := []string{
		StyleHighlight.Render("geometry"),
		fmt.Sprintf("min dimension  %s", fnum(g.MinDimension)),
		fmt.Sprintf("border         %s px", fnum(g.CalculatedBorder)),
		"",
		StyleHighlight.Render("filter"),
		fmt.Sprintf("red            %s", fnum(f.Red.Scale)),
		fmt.Sprintf("green          %s", fnum(f.Green.Scale)),
		fmt.Sprintf("blue           %s", fnum(f.Blue.Scale)),
		fmt.Sprintf("selectors      %s/%s", f.Red.XChannelSelector, f.Red.YChannelSelector),
		fmt.Sprintf("blur           %s", fnum(f.GaussianBlur.StdDeviation)),
		"",
		StyleHighlight.Render("texture"),
		fmt.Sprintf("svg            %s", formatBytes(len(m.Result.SVGContent))),
		fmt.Sprintf("data uri       %s", formatBytes(len(m.Result.DataURI))),
		fmt.Sprintf("last           %s", status),
		tuneDimStyle.Render(fmt.Sprintf("%d generated, %d cached", m.Generations, m.Hits)),
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// Command
// =============================================================================

// tuneCommand starts the interactive tuner.
func (c *CLI) tuneCommand() *cobra.Command {
	var (
		cfg    configFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Adjust a configuration interactively",
		Long: `Tune opens an interactive editor for a glass configuration. Each change
regenerates the displacement map and shows the resolved geometry and
filter attributes; configurations seen before come from the cache.

Press s to save the configuration as TOML. The file can be passed back to
generate with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cfg.resolveOptions(cmd)
			if err != nil {
				return err
			}
			return c.runTune(cmd.Context(), opts, output)
		},
	}

	addConfigFlags(cmd, &cfg)
	cmd.Flags().StringVarP(&output, "output", "o", appName+".toml", "file written when saving")
	return cmd
}

func (c *CLI) runTune(ctx context.Context, opts pipeline.Options, output string) error {
	// Log lines would corrupt the terminal UI.
	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, newLogger(io.Discard, LogInfo))

	cfg, err := runner.Resolve(opts)
	if err != nil {
		return err
	}
	name := opts.Preset
	if name == "" {
		name = pipeline.DefaultPreset
	}

	final, err := tea.NewProgram(NewTuneModel(ctx, runner, strings.ToLower(name), cfg, output), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(TuneModel); ok {
		c.Logger.Debug("tuning finished", "generated", m.Generations, "cached", m.Hits)
		if m.Saved {
			printSuccess("Saved configuration")
			printFile(m.SavePath)
			printNextStep("Generate it", "liquidglass generate --config "+m.SavePath)
		}
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func floatField(c *glass.Config, name string) *float64 {
	switch name {
	case "width":
		return &c.Width
	case "height":
		return &c.Height
	case "radius":
		return &c.Radius
	case "border":
		return &c.Border
	case "frost":
		return &c.Frost
	case "alpha":
		return &c.Alpha
	case "lightness":
		return &c.Lightness
	case "blur":
		return &c.Blur
	case "displace":
		return &c.Displace
	case "scale":
		return &c.Scale
	case "r":
		return &c.R
	case "g":
		return &c.G
	case "b":
		return &c.B
	}
	panic("unknown field " + name)
}

func fieldValue(c glass.Config, name string) string {
	switch name {
	case "x":
		return string(c.X)
	case "y":
		return string(c.Y)
	case "blend":
		return string(c.Blend)
	}
	return fnum(*floatField(&c, name))
}

// cycle returns the value n positions after cur in values, wrapping around.
func cycle[T comparable](values []T, cur T, n int) T {
	i := slices.Index(values, cur)
	if i < 0 {
		return values[0]
	}
	l := len(values)
	return values[((i+n)%l+l)%l]
}
