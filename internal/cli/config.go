package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/liquidglass/pkg/errors"
	"github.com/matzehuels/liquidglass/pkg/glass"
)

// fileConfig is the TOML layout read by --config: a preset name plus any
// override field at the top level.
//
//	preset = "pill"
//	width  = 320
//	blend  = "screen"
type fileConfig struct {
	Preset string `toml:"preset"`
	glass.Overrides
}

// exportConfig is the TOML layout written by "tune". It spells out every
// field, so loading it back reproduces the configuration on any preset.
type exportConfig struct {
	Preset string `toml:"preset"`
	glass.Config
}

// loadConfigFile reads a TOML configuration. Unknown keys are rejected.
func loadConfigFile(path string) (fileConfig, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fileConfig{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return fc, nil
}

// writeConfigFile writes cfg as TOML to path.
func writeConfigFile(path, preset string, cfg glass.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeConfig(f, preset, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeConfig(w io.Writer, preset string, cfg glass.Config) error {
	if _, err := fmt.Fprintf(w, "# %s configuration\n", appName); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(exportConfig{Preset: preset, Config: cfg})
}
