package cmd

import "github.com/spf13/cobra"

// version is overridable at build time via -ldflags.
var version = "dev"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the ats-scanner version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", app, version)
		},
	})
}
