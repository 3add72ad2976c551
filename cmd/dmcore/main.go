// Package main is the entry point for the dmcore CLI: play, server, client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dmcore",
	Short: "dmcore is an AI dungeon master for D&D 5e",
	Long:  `dmcore runs a DM Agent loop on top of an LLM, a rules engine, and a game world.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(clientCmd)
}
