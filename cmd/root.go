package cmd

import (
	"fmt"

	"yamine/pkg/combine"
	"yamine/pkg/logging"
	"yamine/pkg/version"

	"github.com/spf13/cobra"
)

var (
	opts     = &options{}
	exitCode int
)

// RootCmd is the base command. It combines the given files and folders.
var RootCmd = &cobra.Command{
	Use:   "yamine [FILES_OR_FOLDERS...]",
	Short: "Combine YAML and JSON files into a single output",
	Long: `yamine collects YAML and JSON files from the given files and folders and
combines every document they contain into one YAML stream, one JSON array or
one Kubernetes List. Without --write or --std-out it only shows what it would do.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	bindFlags(RootCmd, opts)
}

func runRoot(cmd *cobra.Command, paths []string) error {
	if len(paths) == 0 && !opts.stdin {
		return cmd.Help()
	}
	if len(paths) > 0 && opts.stdin {
		return fmt.Errorf("--stdin cannot be combined with file or folder paths")
	}

	logger, err := logging.Setup(opts.debug, "yamine", version.Get().Version)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Sync(logger)

	args, err := buildArguments(cmd, opts, paths)
	if err != nil {
		return err
	}

	exitCode = combine.Execute(args, combine.NewRunner(logger))
	return nil
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		return 1
	}
	return exitCode
}
