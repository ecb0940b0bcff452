package fogexploration

import (
	"encoding/json"

	"github.com/KirkDiggler/rpg-perception/internal/entities"
	"github.com/KirkDiggler/rpg-perception/internal/errors"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-perception/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-perception/internal/schema"
)

const (
	errExplorationNil = "exploration cannot be nil"
	errSceneIDEmpty   = "scene ID cannot be empty"
)

// codec stamps, validates and serializes records for the byte-oriented backends
type codec struct {
	validator *schema.Validator
	clock     clock.Clock
	ids       idgen.Generator
}

func newCodec(c clock.Clock, ids idgen.Generator) (*codec, error) {
	v, err := schema.NewFogExplorationValidator()
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = clock.New()
	}
	if ids == nil {
		ids = idgen.NewDocument()
	}
	return &codec{validator: v, clock: c, ids: ids}, nil
}

func validateKey(sceneID, userID string) error {
	vb := errors.NewValidationBuilder()
	if sceneID == "" {
		vb.RequiredField("scene")
	}
	if userID == "" {
		vb.RequiredField("user")
	}
	return vb.Build()
}

func validateExploration(fog *entities.FogExploration) error {
	if fog == nil {
		return errors.InvalidArgument(errExplorationNil)
	}
	return validateKey(fog.SceneID, fog.UserID)
}

// stamp returns a copy ready to write, with ID, timestamp and positions set
func (c *codec) stamp(fog *entities.FogExploration) *entities.FogExploration {
	out := fog.Clone()
	if out.ID == "" {
		out.ID = c.ids.Generate()
	}
	if out.Positions == nil {
		out.Positions = make(map[string]entities.FogPosition)
	}
	out.Timestamp = c.clock.Now().UnixMilli()
	return out
}

func (c *codec) encode(fog *entities.FogExploration) ([]byte, error) {
	data, err := json.Marshal(fog)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal fog exploration")
	}
	if err := c.validator.ValidateBytes(data); err != nil {
		return nil, errors.Wrap(err, "fog exploration rejected")
	}
	return data, nil
}

func (c *codec) decode(data []byte) (*entities.FogExploration, error) {
	if err := c.validator.ValidateBytes(data); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "stored fog exploration is corrupt")
	}
	var fog entities.FogExploration
	if err := json.Unmarshal(data, &fog); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal fog exploration")
	}
	if fog.Positions == nil {
		fog.Positions = make(map[string]entities.FogPosition)
	}
	return &fog, nil
}
