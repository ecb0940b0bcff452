package client

import (
	"github.com/spf13/cobra"
)

var resetFogCmd = &cobra.Command{
	Use:   "reset-fog",
	Short: "Reset every user's fog exploration on a scene (GM only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exec("ResetFog", session())
	},
}

var saveFogCmd = &cobra.Command{
	Use:   "save-fog",
	Short: "Flush --user's pending fog exploration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exec("SaveFog", session())
	},
}
