package cmd

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/leftmike/primdb/config"
)

func init() {
	primdbCmd.AddCommand(
		&cobra.Command{
			Use:   "config",
			Short: "List the config variables and where their values came from",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				tw := tablewriter.NewWriter(os.Stdout)
				tw.SetAutoFormatHeaders(false)
				tw.SetHeader([]string{"name", "by", "value"})
				cfg.Visit(
					func(v *config.Variable, by string) {
						tw.Append([]string{v.Name(), by, v.String()})
					})
				tw.Render()
			},
		})
}
