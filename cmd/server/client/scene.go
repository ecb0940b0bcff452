package client

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/handlers/perception/v1alpha1"
	"github.com/KirkDiggler/rpg-perception/internal/walls"
)

var isGM bool

var loadSceneCmd = &cobra.Command{
	Use:   "load-scene [scene.yaml]",
	Short: "Open a session on a scene document",
	Long: `Load a YAML scene and open a session for --user. Example:

  load-scene testdata/dungeon.yaml --user u1`,
	Args: cobra.ExactArgs(1),
	RunE: loadScene,
}

var unloadSceneCmd = &cobra.Command{
	Use:   "unload-scene",
	Short: "Close a user's session and flush their fog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return exec("UnloadScene", session())
	},
}

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run one frame and print placeable and door visibility",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call("Tick", session())
	},
}

var doorCmd = &cobra.Command{
	Use:   "door [wall-id] [closed|open|locked]",
	Short: "Change a door's state",
	Args:  cobra.ExactArgs(2),
	RunE:  setDoor,
}

func init() {
	loadSceneCmd.Flags().BoolVar(&isGM, "gm", false, "Open the session as a GM")
}

func loadScene(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read scene: %w", err)
	}
	var scene entities.Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return fmt.Errorf("failed to parse scene: %w", err)
	}

	fmt.Printf("Loading scene %s (%d walls, %d placeables) for %s...\n",
		scene.ID, len(scene.Walls), len(scene.Placeables), userID)
	return call("LoadScene", &v1alpha1.LoadSceneRequest{Scene: &scene, UserID: userID, IsGM: isGM})
}

func setDoor(cmd *cobra.Command, args []string) error {
	states := map[string]walls.DoorState{
		"closed": walls.DoorClosed,
		"open":   walls.DoorOpen,
		"locked": walls.DoorLocked,
	}
	state, ok := states[args[1]]
	if !ok {
		return fmt.Errorf("unknown door state %q", args[1])
	}
	return call("SetDoorState", &v1alpha1.DoorStateRequest{SceneID: sceneID, WallID: args[0], State: state})
}
