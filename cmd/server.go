package cmd

import (
	"photofolio/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the portfolio HTTP server",
	Long:  `Runs the HTTP server serving the public site API, the admin API, and stored images.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
