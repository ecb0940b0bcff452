package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) fields(err error) map[string][]string {
	s.Require().Error(err)
	s.Require().True(errors.IsInvalidArgument(err))
	fields, ok := errors.GetMeta(err)[errors.MetaValidation].(map[string][]string)
	s.Require().True(ok)
	return fields
}

func (s *ValidationTestSuite) TestValidationErrorMessageIsOrdered() {
	ve := errors.NewValidationError()
	ve.AddFieldError("radius", "must be non-negative")
	ve.AddFieldError("angle", "must be between 0 and 360")
	ve.AddFieldError("angle", "is required")

	s.Assert().True(ve.HasErrors())
	s.Assert().Equal(
		"validation failed: angle: must be between 0 and 360, is required; radius: must be non-negative",
		ve.Error())
	s.Assert().Equal(errors.CodeInvalidArgument, ve.ToError().Code)
}

func (s *ValidationTestSuite) TestBuilder() {
	vb := errors.NewValidationBuilder()
	vb.Field("type", "is unknown").
		Fieldf("density", "must be at least %d", 1).
		RequiredField("scene_id").
		InvalidField("mode", "not a collision mode")

	fields := s.fields(vb.Build())
	s.Assert().Equal([]string{"is required"}, fields["scene_id"])
	s.Assert().Equal([]string{"is invalid: not a collision mode"}, fields["mode"])
	s.Assert().Len(fields, 4)
}

func (s *ValidationTestSuite) TestBuilderNoErrors() {
	s.Assert().NoError(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("scene_id", "s1", vb)
	errors.ValidateRequired("user_id", "   ", vb)

	fields := s.fields(vb.Build())
	s.Assert().Contains(fields, "user_id")
	s.Assert().NotContains(fields, "scene_id")
}

func (s *ValidationTestSuite) TestValidateRange() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("density", 80, 1, 64, vb)
	errors.ValidateRange("commit_threshold", 10, 1, 100, vb)
	errors.ValidateRange("angle", 360.5, 0, 360, vb)
	errors.ValidateRange("rotation", 0.0, 0, 360, vb)

	fields := s.fields(vb.Build())
	s.Assert().Equal([]string{"must be between 1 and 64"}, fields["density"])
	s.Assert().Equal([]string{"must be between 0 and 360"}, fields["angle"])
	s.Assert().NotContains(fields, "commit_threshold")
	s.Assert().NotContains(fields, "rotation")
}

type restriction string

func (s *ValidationTestSuite) TestValidateEnum() {
	allowed := []restriction{"none", "limited", "normal"}

	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("sight", restriction("limited"), allowed, vb)
	errors.ValidateEnum("sound", restriction("muffled"), allowed, vb)

	fields := s.fields(vb.Build())
	s.Assert().Equal([]string{"must be one of: none, limited, normal"}, fields["sound"])
	s.Assert().NotContains(fields, "sight")
}
