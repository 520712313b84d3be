package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the tradejournal CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tradejournal version %s\n", version)
		fmt.Fprintln(out, "A personal FX and commodities trading journal")
		fmt.Fprintln(out, "https://github.com/rustyeddy/tradejournal")
	},
	Annotations: map[string]string{noStore: ""},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
