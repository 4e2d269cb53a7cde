package cmd

import (
	"fmt"
	"log"
	"os"

	"photofolio/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "photofolio",
	Short: "Photofolio is a photography portfolio website backend.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting photofolio server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
