package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/kvtable/internal/config"
	"github.com/oakwood-commons/kvtable/internal/formatter"
	"github.com/oakwood-commons/kvtable/pkg/core"
	"github.com/oakwood-commons/kvtable/pkg/loader"
	"github.com/oakwood-commons/kvtable/pkg/logger"
	"github.com/oakwood-commons/kvtable/pkg/settings"
	"github.com/oakwood-commons/kvtable/pkg/table"
)

// errShowHelp is returned by loadInput when no input is provided and help should be shown.
var errShowHelp = errors.New("no input provided")

var stdinIsPiped = func() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// rootOptions holds the flag values of one command tree.
type rootOptions struct {
	configFile string
	expression string
	noColor    bool

	width        int
	color        string
	style        []string
	hideOverflow bool
	head         string
	foot         string
	eastAsian    bool

	sort       string
	arrayStyle string
	flatten    bool

	logLevel  string
	logFormat string

	limit core.Limit

	configOutput string
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "Print key/value data as a terminal-width-aware table",
		Long: `kvtable reads JSON, YAML, NDJSON, TOML or a JWT from a file or stdin and
prints the top-level keys as "key: value" lines that fit the terminal.
Short entries are packed two per line; long values wrap or, with
--hide-overflow, are truncated with "...".`,
		Example: "\n  kvtable config.yaml\n  kvtable --width 60 --hide-overflow data.json\n  kubectl get pod x -o json | kvtable -e '_.metadata.labels'\n  kvtable data.yaml --flatten --sort asc\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRoot(cmd, args, opts)
			if errors.Is(err, errShowHelp) {
				return cmd.Help()
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.expression, "expression", "e", "", "CEL expression using '_' as root selecting what to print. Examples: '_.items[0]', '_.metadata[\"bad-key\"]'")
	flags.StringVar(&opts.configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/kvtable/config.yaml)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable color output")
	flags.IntVarP(&opts.width, "width", "w", 0, "border width in columns; 0 uses the terminal width")
	flags.StringVarP(&opts.color, "color", "c", "", "value color name or \"random\" (default from config)")
	flags.StringSliceVar(&opts.style, "style", nil, "extra value styles, e.g. bold,underline,bg_blue")
	flags.BoolVar(&opts.hideOverflow, "hide-overflow", false, "truncate long values with \"...\" instead of wrapping")
	flags.StringVar(&opts.head, "head", "", "character repeated for the head line (default from config)")
	flags.StringVar(&opts.foot, "foot", "", "character repeated for the foot line (default from config)")
	flags.BoolVar(&opts.eastAsian, "east-asian", false, "treat ambiguous-width runes as two columns")
	flags.StringVar(&opts.sort, "sort", "", "sort keys: ascending|asc|descending|desc|none (default from config)")
	flags.StringVar(&opts.arrayStyle, "array-style", "", "sequence keys: numbered|index|bullet (default from config)")
	flags.BoolVar(&opts.flatten, "flatten", false, "expand nested values into dotted keys")
	flags.IntVar(&opts.limit.Limit, "limit", 0, "print only the first N entries")
	flags.IntVar(&opts.limit.Offset, "offset", 0, "skip the first N entries")
	flags.IntVar(&opts.limit.Tail, "tail", 0, "print only the last N entries (mutually exclusive with --limit; ignores --offset)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: emergency|alert|critical|error|warning|notice|info|debug (default from config)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: json|console (default from config)")

	cmd.Version = cliVersionString()
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print kvtable version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
			return err
		},
	}
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	run, err := runSettings(cfg, opts)
	if err != nil {
		return err
	}
	zl, lgr := logger.New(logger.Options{
		Level:   run.MinLogLevel,
		Format:  run.LogFormat,
		Output:  cmd.ErrOrStderr(),
		NoColor: run.NoColor,
	})
	defer func() { _ = zl.Sync() }()
	lgr = lgr.WithValues(logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, &lgr)

	root, input, err := loadInput(args, cmd.InOrStdin(), opts.expression)
	if err != nil {
		return err
	}
	run.Input = input
	ctx = settings.IntoContext(ctx, run)

	return renderRoot(ctx, cmd.OutOrStdout(), root, cfg, opts)
}

// runSettings derives the run settings from the merged config.
func runSettings(cfg config.Config, opts *rootOptions) (*settings.Run, error) {
	run := settings.NewCliParams()
	if cfg.Log.Level != "" {
		level, err := logger.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		run.MinLogLevel = level
	}
	switch cfg.Log.Format {
	case "", logger.FormatJSON, logger.FormatConsole:
		if cfg.Log.Format != "" {
			run.LogFormat = cfg.Log.Format
		}
	default:
		return nil, fmt.Errorf("invalid log format %q (use json or console)", cfg.Log.Format)
	}
	run.NoColor = opts.noColor || os.Getenv("NO_COLOR") != ""
	return run, nil
}

// loadInput reads the file named by args, or stdin when it is piped or the
// file is "-". Without input an expression is evaluated against an empty
// mapping; otherwise errShowHelp is returned.
func loadInput(args []string, stdin io.Reader, expr string) (any, settings.InputSettings, error) {
	var in settings.InputSettings
	switch {
	case len(args) > 0 && args[0] != "-":
		in.Path = args[0]
		root, err := loader.LoadFile(in.Path)
		if errors.Is(err, loader.ErrEmptyInput) {
			return loader.OrderedMap{}, in, nil
		}
		if err != nil {
			return nil, in, fmt.Errorf("failed to load %s: %w", in.Path, err)
		}
		return root, in, nil
	case len(args) > 0 || stdinIsPiped():
		in.FromStdin = true
		root, err := loader.LoadReader(stdin)
		if errors.Is(err, loader.ErrEmptyInput) {
			return loader.OrderedMap{}, in, nil
		}
		if err != nil {
			return nil, in, fmt.Errorf("failed to load stdin: %w", err)
		}
		return root, in, nil
	case expr != "":
		return loader.OrderedMap{}, in, nil
	default:
		return nil, in, errShowHelp
	}
}

// renderRoot selects the printed node with the expression, flattens it and
// prints the table.
func renderRoot(ctx context.Context, w io.Writer, root any, cfg config.Config, opts *rootOptions) error {
	lgr := *logger.FromContext(ctx)
	entryOpts, err := entryOptions(cfg)
	if err != nil {
		return err
	}
	engine, err := core.New(
		core.WithEntryOptions(entryOpts),
		core.WithLimit(opts.limit),
		core.WithLogger(lgr),
	)
	if err != nil {
		return err
	}
	entries, err := engine.Entries(root, opts.expression)
	if err != nil {
		return err
	}

	run, _ := settings.FromContext(ctx)
	noColor := run != nil && run.NoColor
	p := newPrinter(cfg, entries, detectStyler(w, noColor), lgr)
	lgr.V(1).Info("printing table", "entries", len(entries), "width", p.BorderWidth())
	return p.PrintAll(w)
}

func entryOptions(cfg config.Config) (formatter.EntryOptions, error) {
	opts := formatter.DefaultEntryOptions()
	order, err := formatter.ParseSort(cfg.Output.Sort)
	if err != nil {
		return opts, err
	}
	style, err := formatter.ParseArrayStyle(cfg.Output.ArrayStyle)
	if err != nil {
		return opts, err
	}
	opts.Sort = order
	opts.ArrayStyle = style
	opts.Flatten = cfg.Output.Flatten
	return opts, nil
}

// columnSource is the terminal width probe used by the CLI.
var columnSource table.ColumnSource = table.TerminalColumns{}
