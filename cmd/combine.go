package cmd

import (
	"fmt"
	"os"

	"yamine/pkg/combine"
	"yamine/pkg/config"
	"yamine/pkg/encoder"
	"yamine/pkg/loader"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var _ pflag.Value = (*encoder.Encoding)(nil)

// options holds the raw flag values of the root command.
type options struct {
	depth       int
	output      string
	dryRun      bool
	write       bool
	stdOut      bool
	format      encoder.Encoding
	stdin       bool
	workers     int
	split       string
	coerceKeys  bool
	hidden      bool
	noIgnore    bool
	ignore      []string
	config      string
	debug       bool
	failOnError bool
}

func bindFlags(cmd *cobra.Command, o *options) {
	defaults := combine.DefaultArguments()
	o.format = defaults.Encoding

	flags := cmd.Flags()
	flags.IntVarP(&o.depth, "depth", "d", defaults.Depth, "Folder levels to descend into below each path")
	flags.StringVarP(&o.output, "output", "o", defaults.Output, "Output file used with --write")
	flags.BoolVar(&o.dryRun, "dry-run", false, "Only show what would be combined (default)")
	flags.BoolVarP(&o.write, "write", "w", false, "Write the combined output to the output file")
	flags.BoolVarP(&o.stdOut, "std-out", "s", false, "Write the combined output to standard output")
	flags.VarP(&o.format, "format", "f", "Output format: yaml, json-array or k8s-json")
	flags.BoolVarP(&o.stdin, "stdin", "i", false, "Read a YAML stream from standard input instead of files")
	flags.IntVar(&o.workers, "workers", defaults.Workers, "Number of files parsed concurrently")
	flags.StringVar(&o.split, "split", defaults.Split.String(), "How YAML files are cut into documents: marker or syntax")
	flags.BoolVar(&o.coerceKeys, "coerce-keys", false, "Turn non-string mapping keys into strings for JSON output")
	flags.BoolVar(&o.hidden, "hidden", false, "Include hidden files and folders")
	flags.BoolVar(&o.noIgnore, "no-ignore", false, "Do not read .gitignore, .ignore or .yamineignore files")
	flags.StringArrayVar(&o.ignore, "ignore", nil, "Additional ignore pattern (repeatable)")
	flags.StringVar(&o.config, "config", config.DefaultPath, "Configuration file")
	flags.BoolVar(&o.failOnError, "fail-on-error", false, "Exit with status 1 when the run fails")
	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false, "Enable debug logging")

	cmd.MarkFlagsMutuallyExclusive("dry-run", "write", "std-out")
}

// buildArguments layers defaults, the configuration file and explicitly set
// flags, in that order.
func buildArguments(cmd *cobra.Command, o *options, paths []string) (combine.Arguments, error) {
	args := combine.DefaultArguments()

	flags := cmd.Flags()
	cfg, err := config.Load(o.config, flags.Changed("config"))
	if err != nil {
		return args, err
	}
	if err := cfg.Apply(&args); err != nil {
		return args, err
	}

	if flags.Changed("depth") {
		args.Depth = o.depth
	}
	if flags.Changed("output") {
		args.Output = o.output
	}
	switch {
	case o.write:
		args.Mode = combine.ModeWrite
	case o.stdOut:
		args.Mode = combine.ModeStdout
	case o.dryRun:
		args.Mode = combine.ModePreview
	}
	if flags.Changed("format") {
		args.Encoding = o.format
	}
	if flags.Changed("workers") {
		args.Workers = o.workers
	}
	if flags.Changed("split") {
		split, err := loader.ParseSplit(o.split)
		if err != nil {
			return args, fmt.Errorf("invalid --split: %w", err)
		}
		args.Split = split
	}
	if flags.Changed("coerce-keys") {
		args.CoerceKeys = o.coerceKeys
	}
	if flags.Changed("hidden") {
		args.SkipHidden = !o.hidden
	}
	if o.noIgnore {
		args.IgnoreFiles = nil
	}
	args.IgnorePatterns = append(args.IgnorePatterns, o.ignore...)
	if flags.Changed("fail-on-error") {
		args.FailOnError = o.failOnError
	}

	args.Paths = paths
	args.Stdin = o.stdin
	args.Color = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))
	return args, nil
}
