package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/liquidglass/pkg/glass"
	"github.com/matzehuels/liquidglass/pkg/glass/preset"
	"github.com/matzehuels/liquidglass/pkg/pipeline"
)

// overrideUsage describes each override flag, keyed by field name.
var overrideUsage = map[string]string{
	"width":     "element width in px",
	"height":    "element height in px",
	"radius":    "corner radius in px",
	"border":    "refracting ring as a fraction of the smaller side (0-1)",
	"frost":     "background tint opacity (0-1)",
	"alpha":     "opacity of the flat centre (0-1)",
	"lightness": "lightness of the flat centre (0-100)",
	"blur":      "blur of the flat centre in px",
	"displace":  "stdDeviation of the final blur",
	"scale":     "base displacement scale",
	"x":         "channel driving horizontal displacement: R, G, B",
	"y":         "channel driving vertical displacement: R, G, B",
	"blend":     "blend mode of the gradient layers",
	"r":         "red plane scale offset",
	"g":         "green plane scale offset",
	"b":         "blue plane scale offset",
}

// configFlags are the flags shared by every command that resolves a
// configuration.
type configFlags struct {
	preset string
	config string
}

// addConfigFlags registers --preset, --config and one flag per override field.
func addConfigFlags(cmd *cobra.Command, f *configFlags) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "",
		fmt.Sprintf("base preset: %s (default %s)", strings.Join(preset.Names(), ", "), pipeline.DefaultPreset))
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML file with a preset and overrides")

	for _, name := range glass.OverrideNames {
		switch name {
		case "x", "y", "blend":
			cmd.Flags().String(name, "", overrideUsage[name])
		default:
			cmd.Flags().Float64(name, 0, overrideUsage[name])
		}
	}
	_ = cmd.RegisterFlagCompletionFunc("preset", completePresets)
	_ = cmd.RegisterFlagCompletionFunc("blend", completeBlendModes)
}

// resolveOptions layers the preset, the config file and the flags, in
// increasing precedence.
func (f *configFlags) resolveOptions(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.config != "" {
		fc, err := loadConfigFile(f.config)
		if err != nil {
			return opts, err
		}
		opts.Preset = fc.Preset
		opts.Overrides = fc.Overrides
	}
	if f.preset != "" {
		opts.Preset = f.preset
	}

	var fromFlags glass.Overrides
	for _, name := range glass.OverrideNames {
		if !cmd.Flags().Changed(name) {
			continue
		}
		if err := fromFlags.Set(name, cmd.Flags().Lookup(name).Value.String()); err != nil {
			return opts, err
		}
	}
	opts.Overrides = opts.Overrides.Merge(fromFlags)
	return opts, nil
}

func completePresets(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return preset.Names(), cobra.ShellCompDirectiveNoFileComp
}

func completeBlendModes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	modes := make([]string, len(glass.BlendModes))
	for i, m := range glass.BlendModes {
		modes[i] = string(m)
	}
	return modes, cobra.ShellCompDirectiveNoFileComp
}

// changed reports whether any configuration flag was given.
func (f *configFlags) changed(cmd *cobra.Command) bool {
	if f.preset != "" || f.config != "" {
		return true
	}
	for _, name := range glass.OverrideNames {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
