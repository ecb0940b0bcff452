package main

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-perception/internal/clients/socket"
	"github.com/KirkDiggler/rpg-perception/internal/engine"
	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/geometry"
	"github.com/KirkDiggler/rpg-perception/internal/orchestrators/perception"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/render"
	"github.com/KirkDiggler/rpg-perception/internal/render/raster"
	fogexploration "github.com/KirkDiggler/rpg-perception/internal/repositories/fog_exploration"
)

const renderUser = "render"

var (
	scenePath   string
	outPath     string
	originX     float64
	originY     float64
	polygonType string
	radius      float64
	resolution  float64
	fogUser     string
	frames      int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render perception output for a YAML scene without a server",
}

var renderPolygonCmd = &cobra.Command{
	Use:   "polygon",
	Short: "Write a polygon computed from a point as a JPEG mask",
	Long: `Compute a polygon against the walls of a scene and write it as a JPEG. Example:

  render polygon --scene testdata/dungeon.yaml --x 150 --y 500 --type sight --out sight.jpg`,
	RunE: renderPolygon,
}

var renderFogCmd = &cobra.Command{
	Use:   "fog",
	Short: "Run a user's frames and write the explored fog as a JPEG",
	RunE:  renderFog,
}

func init() {
	renderCmd.PersistentFlags().StringVar(&scenePath, "scene", "", "YAML scene document")
	renderCmd.PersistentFlags().StringVar(&outPath, "out", "out.jpg", "output JPEG path")
	_ = renderCmd.MarkPersistentFlagRequired("scene")

	renderPolygonCmd.Flags().Float64Var(&originX, "x", 0, "origin x")
	renderPolygonCmd.Flags().Float64Var(&originY, "y", 0, "origin y")
	renderPolygonCmd.Flags().StringVar(&polygonType, "type", string(engine.TypeSight), "sight, light, sound, move or universal")
	renderPolygonCmd.Flags().Float64Var(&radius, "radius", 0, "radius, 0 is unbounded")
	renderPolygonCmd.Flags().Float64Var(&resolution, "resolution", 1, "pixels per scene unit")

	renderFogCmd.Flags().StringVar(&fogUser, "user", "", "user whose tokens explore the scene")
	renderFogCmd.Flags().IntVar(&frames, "frames", 1, "frames to run before reading the fog")
	_ = renderFogCmd.MarkFlagRequired("user")

	renderCmd.AddCommand(renderPolygonCmd)
	renderCmd.AddCommand(renderFogCmd)
}

func loadScene(path string) (*entities.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	var scene entities.Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}
	return &scene, nil
}

// newLocalService runs the orchestrator in process with in-memory storage
func newLocalService(host render.Host) (perception.Service, error) {
	return perception.NewOrchestrator(&perception.Config{
		Host:        host,
		Repository:  fogexploration.NewInMemory(clock.New()),
		Broadcaster: socket.NewLocal(),
		Fog:         perception.FogOptions{CommitThreshold: 1},
	})
}

func renderPolygon(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	scene, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	host := raster.New(nil)
	svc, err := newLocalService(host)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close(ctx) }()

	if _, err := svc.LoadScene(ctx, &perception.LoadSceneInput{Scene: scene, UserID: renderUser, IsGM: true}); err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}

	cfg := &engine.PolygonConfig{Type: engine.PolygonType(polygonType), Angle: 360, Radius: engine.Unbounded}
	if radius > 0 {
		cfg.Radius = radius
	}
	out, err := svc.ComputePolygon(ctx, &perception.ComputePolygonInput{
		SceneID: scene.ID,
		Origin:  geometry.Point{X: originX, Y: originY},
		Config:  cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to compute polygon: %w", err)
	}

	dims := scene.Dimensions()
	tex, err := host.CreateRenderTexture(render.TextureOptions{
		Width:      int(dims.Rect.Width),
		Height:     int(dims.Rect.Height),
		Resolution: resolution,
	})
	if err != nil {
		return err
	}
	defer host.DestroyTexture(tex)

	if err := host.RenderInto(render.NewGraphics().Fill(out.Polygon.Polygon), tex, &render.Transform{Scale: resolution}); err != nil {
		return fmt.Errorf("failed to draw polygon: %w", err)
	}
	img, err := host.Extract(tex)
	if err != nil {
		return err
	}
	if err := writeJPEG(outPath, img); err != nil {
		return err
	}
	fmt.Printf("Wrote %s polygon with %d vertices to %s (constrained: %v)\n",
		polygonType, len(out.Polygon.Vertices()), outPath, out.Polygon.Constrained)
	return nil
}

func renderFog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	scene, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	svc, err := newLocalService(raster.New(nil))
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close(ctx) }()

	loaded, err := svc.LoadScene(ctx, &perception.LoadSceneInput{Scene: scene, UserID: fogUser})
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	if !loaded.FogEnabled {
		return fmt.Errorf("scene %s has fog exploration or token vision disabled", scene.ID)
	}

	for i := 0; i < frames; i++ {
		if _, err := svc.Tick(ctx, &perception.TickInput{SceneID: scene.ID, UserID: fogUser}); err != nil {
			return fmt.Errorf("frame %d failed: %w", i, err)
		}
	}

	out, err := svc.FogImage(ctx, &perception.FogImageInput{
		SceneID:     scene.ID,
		UserID:      fogUser,
		RequesterID: fogUser,
	})
	if err != nil {
		return fmt.Errorf("failed to read fog: %w", err)
	}
	if err := writeJPEG(outPath, out.Image); err != nil {
		return err
	}
	fmt.Printf("Wrote fog for %s after %d frames to %s (resolution %.3f)\n", fogUser, frames, outPath, out.Resolution)
	return nil
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 80}); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
