// Package main is the entry point for the perception server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-perception/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "rpg-perception",
	Short: "Scene perception gRPC server",
	Long: `rpg-perception computes line of sight, lighting, hearing and fog of war
for tabletop scenes and serves them over gRPC.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
