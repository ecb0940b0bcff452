package client

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-perception/internal/handlers/perception/v1alpha1"
)

var (
	polygonType string
	radius      float64
	tolerance   float64
)

var polygonCmd = &cobra.Command{
	Use:   "polygon [x] [y]",
	Short: "Compute a polygon from a point",
	Long: `Compute a polygon against the scene walls. Examples:

  polygon 150 500 --scene-id dungeon --type sight
  polygon 150 500 --scene-id dungeon --type light --radius 300`,
	Args: cobra.ExactArgs(2),
	RunE: computePolygon,
}

var visibilityCmd = &cobra.Command{
	Use:   "visible [x] [y]",
	Short: "Test whether a point is visible to --user",
	Args:  cobra.ExactArgs(2),
	RunE:  testVisibility,
}

var hearCmd = &cobra.Command{
	Use:   "hear [x] [y]",
	Short: "List the sounds that reach a point",
	Args:  cobra.ExactArgs(2),
	RunE:  canHear,
}

func init() {
	polygonCmd.Flags().StringVar(&polygonType, "type", "sight", "sight, light, sound, move or universal")
	polygonCmd.Flags().Float64Var(&radius, "radius", 0, "Radius, 0 is unbounded")
	visibilityCmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Tolerance around the point")
}

func parsePoint(args []string) (v1alpha1.PointMessage, error) {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return v1alpha1.PointMessage{}, fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return v1alpha1.PointMessage{}, fmt.Errorf("invalid y %q: %w", args[1], err)
	}
	return v1alpha1.PointMessage{X: x, Y: y}, nil
}

func computePolygon(cmd *cobra.Command, args []string) error {
	origin, err := parsePoint(args)
	if err != nil {
		return err
	}
	req := &v1alpha1.PolygonRequest{SceneID: sceneID, Origin: origin, Type: polygonType}
	if radius > 0 {
		req.Radius = &radius
	}
	return call("ComputePolygon", req)
}

func testVisibility(cmd *cobra.Command, args []string) error {
	point, err := parsePoint(args)
	if err != nil {
		return err
	}
	return call("TestVisibility", &v1alpha1.VisibilityRequest{
		SceneID:   sceneID,
		UserID:    userID,
		Point:     point,
		Tolerance: tolerance,
	})
}

func canHear(cmd *cobra.Command, args []string) error {
	point, err := parsePoint(args)
	if err != nil {
		return err
	}
	return call("CanHear", &v1alpha1.HearRequest{SceneID: sceneID, UserID: userID, Point: point})
}
