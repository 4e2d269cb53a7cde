package main

import (
	"log"

	"photofolio/cmd"
)

func main() {
	cmd.Execute()
	// If Execute() had a problem, Cobra would have called os.Exit.
	// Reaching here means the command completed successfully
	// (or a long-running server shut down cleanly).
	log.Println("Application command execution finished or server stopped.")
}
