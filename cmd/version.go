package cmd

import (
	"fmt"

	"yamine/pkg/version"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of yamine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		short, err := flags.GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
		asYAML, err := flags.GetBool("yaml")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		v := version.Get()
		out := cmd.OutOrStdout()
		switch {
		case short:
			fmt.Fprintln(out, v.Version)
		case asYAML:
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("failed to encode version: %w", err)
			}
			return enc.Close()
		default:
			fmt.Fprintln(out, v.String())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	versionCmd.Flags().Bool("yaml", false, "Print the version information as YAML")
	versionCmd.MarkFlagsMutuallyExclusive("short", "yaml")
	RootCmd.AddCommand(versionCmd)
}
