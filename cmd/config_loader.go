package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/kvtable/internal/config"
	"github.com/oakwood-commons/kvtable/internal/formatter"
	"github.com/oakwood-commons/kvtable/pkg/loader"
	"github.com/oakwood-commons/kvtable/pkg/logger"
	"github.com/oakwood-commons/kvtable/pkg/settings"
)

// userConfigPath returns $XDG_CONFIG_HOME/kvtable/config.yaml.
var userConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, settings.CliBinaryName, "config.yaml")
}

// resolveConfigPath returns explicit when set, otherwise the user config
// path if that file exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := userConfigPath()
	if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
		return candidate
	}
	return ""
}

// resolveConfig loads the merged config and applies explicitly set flags on
// top of it.
func resolveConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	path := resolveConfigPath(opts.configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	applyFlagOverrides(cmd.Flags(), opts, &cfg)
	return cfg, nil
}

// applyFlagOverrides copies flag values into cfg. Only flags the user set
// win over the config file.
func applyFlagOverrides(flags *pflag.FlagSet, opts *rootOptions, cfg *config.Config) {
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("width") {
		cfg.Table.Width = opts.width
	}
	if changed("color") {
		cfg.Table.Color = opts.color
	}
	if changed("style") {
		cfg.Table.Style = append([]string(nil), opts.style...)
	}
	if changed("hide-overflow") {
		cfg.Table.HideOverflow = opts.hideOverflow
	}
	if changed("head") {
		cfg.Table.Head = opts.head
	}
	if changed("foot") {
		cfg.Table.Foot = opts.foot
	}
	if changed("east-asian") {
		cfg.Table.EastAsianAmbiguous = opts.eastAsian
	}
	if changed("sort") {
		cfg.Output.Sort = opts.sort
	}
	if changed("array-style") {
		cfg.Output.ArrayStyle = opts.arrayStyle
	}
	if changed("flatten") {
		cfg.Output.Flatten = opts.flatten
	}
	if changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
}

// validateConfig reports the first value the CLI cannot use.
func validateConfig(cfg config.Config) error {
	if cfg.Log.Level != "" {
		if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
			return err
		}
	}
	if _, err := formatter.ParseSort(cfg.Output.Sort); err != nil {
		return err
	}
	if _, err := formatter.ParseArrayStyle(cfg.Output.ArrayStyle); err != nil {
		return err
	}
	return nil
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the merged kvtable configuration",
		Long: `Print the embedded defaults merged with the user config file
($XDG_CONFIG_HOME/kvtable/config.yaml or --config-file).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(resolveConfigPath(opts.configFile))
			if err != nil {
				return err
			}
			if err := validateConfig(cfg); err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg, opts.configOutput)
		},
	}
	cmd.Flags().StringVar(&opts.configFile, "config-file", "", "path to a YAML config file")
	cmd.Flags().StringVarP(&opts.configOutput, "output", "o", "yaml", "output format: yaml|json|toml|table|default")
	return cmd
}

// writeConfig renders cfg in the requested format. "default" prints the
// embedded default file with its comments.
func writeConfig(w io.Writer, cfg config.Config, format string) error {
	switch strings.ToLower(format) {
	case "", "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_ = enc.Close()
		_, err := w.Write(buf.Bytes())
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "toml":
		return toml.NewEncoder(w).Encode(cfg)
	case "table":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		root, err := loader.LoadRoot(string(data))
		if err != nil {
			return err
		}
		opts := formatter.DefaultEntryOptions()
		opts.Flatten = true
		p := newPrinter(cfg, formatter.Entries(root, opts), detectStyler(w, false), *logger.GetNoopLogger())
		return p.PrintAll(w)
	case "default":
		_, err := w.Write(config.DefaultYAML())
		return err
	default:
		return fmt.Errorf("invalid config output %q (use yaml, json, toml, table or default)", format)
	}
}
