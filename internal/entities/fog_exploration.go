package entities

import (
	"strings"
)

// FogExplorationDataPrefix starts every stored exploration raster
const FogExplorationDataPrefix = "data:image/jpeg;base64,"

// FogExploration is the persisted record of what a user has explored on a scene
type FogExploration struct {
	ID      string `json:"id,omitempty"`
	SceneID string `json:"scene"`
	UserID  string `json:"user"`
	// Explored is a JPEG data URL of the committed raster, nil before the first save
	Explored  *string                `json:"explored"`
	Positions map[string]FogPosition `json:"positions"`
	// Timestamp is the last write in unix milliseconds
	Timestamp int64 `json:"timestamp"`
}

// FogPosition is the best vision recorded from one grid cell
type FogPosition struct {
	Radius float64 `json:"radius"`
	// Limit is true when walls constrained the vision polygon
	Limit bool `json:"limit"`
}

// NewFogExploration returns an empty record for a scene and user
func NewFogExploration(sceneID, userID string) *FogExploration {
	return &FogExploration{
		SceneID:   sceneID,
		UserID:    userID,
		Positions: make(map[string]FogPosition),
	}
}

// HasRaster reports whether a usable explored image is stored
func (f *FogExploration) HasRaster() bool {
	return f != nil && f.Explored != nil && strings.HasPrefix(*f.Explored, FogExplorationDataPrefix) &&
		len(*f.Explored) > len(FogExplorationDataPrefix)
}

// Clone returns a deep copy
func (f *FogExploration) Clone() *FogExploration {
	if f == nil {
		return nil
	}
	out := *f
	if f.Explored != nil {
		s := *f.Explored
		out.Explored = &s
	}
	out.Positions = make(map[string]FogPosition, len(f.Positions))
	for k, v := range f.Positions {
		out.Positions[k] = v
	}
	return &out
}
