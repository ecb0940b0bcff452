package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestErrorString() {
	s.Assert().Equal("NOT_FOUND: fog exploration not found",
		errors.NotFound("fog exploration not found").Error())

	wrapped := errors.Wrap(fmt.Errorf("dial tcp: refused"), "failed to save fog exploration")
	s.Assert().Equal("INTERNAL: failed to save fog exploration: dial tcp: refused", wrapped.Error())
}

func (s *ErrorsTestSuite) TestWithScene() {
	err := errors.NotFound("fog exploration not found").WithScene("s1", "u1")
	s.Assert().Equal("s1", err.Meta[errors.MetaSceneID])
	s.Assert().Equal("u1", err.Meta[errors.MetaUserID])
	s.Assert().Equal("s1", errors.SceneOf(errors.Wrap(err, "load failed")))

	sceneWide := errors.FailedPrecondition("fog disabled").WithScene("s2", "")
	s.Assert().NotContains(sceneWide.Meta, errors.MetaUserID)

	s.Assert().Empty(errors.SceneOf(fmt.Errorf("plain")))
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	cause := errors.NotFound("record not found").WithScene("s1", "u1")
	wrapped := errors.Wrap(cause, "fog exploration not found")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal("fog exploration not found", wrapped.Message)
	s.Assert().Equal(cause, wrapped.Unwrap())
	s.Assert().Equal("u1", wrapped.Meta[errors.MetaUserID])

	wrapped.WithMeta("attempt", 2)
	s.Assert().NotContains(cause.Meta, "attempt", "tagging the wrapper leaves the cause untouched")
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("connection timeout")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeUnavailable, "redis unavailable")

	s.Assert().Equal(errors.CodeUnavailable, wrapped.Code)
	s.Assert().Equal("redis unavailable", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestConstructors() {
	testCases := []struct {
		name string
		err  *errors.Error
		code errors.Code
		is   func(error) bool
	}{
		{"NotFound", errors.NotFound("x"), errors.CodeNotFound, errors.IsNotFound},
		{"InvalidArgument", errors.InvalidArgument("x"), errors.CodeInvalidArgument, errors.IsInvalidArgument},
		{"AlreadyExists", errors.AlreadyExists("x"), errors.CodeAlreadyExists, errors.IsAlreadyExists},
		{"PermissionDenied", errors.PermissionDenied("x"), errors.CodePermissionDenied, errors.IsPermissionDenied},
		{"ResourceExhausted", errors.ResourceExhausted("x"), errors.CodeResourceExhausted, errors.IsResourceExhausted},
		{"FailedPrecondition", errors.FailedPrecondition("x"), errors.CodeFailedPrecondition, errors.IsFailedPrecondition},
		{"Internal", errors.Internal("x"), errors.CodeInternal, errors.IsInternal},
		{"Unavailable", errors.Unavailable("x"), errors.CodeUnavailable, errors.IsUnavailable},
		{"DataLoss", errors.DataLoss("x"), errors.CodeDataLoss, errors.IsDataLoss},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.code, tc.err.Code)
			s.Assert().Equal("x", tc.err.Message)
			s.Assert().True(tc.is(errors.Wrap(tc.err, "wrapped")))
		})
	}
}

func (s *ErrorsTestSuite) TestFormattedConstructors() {
	err := errors.NotFoundf("wall %s not found", "w1")
	s.Assert().Equal(errors.CodeNotFound, err.Code)
	s.Assert().Equal("wall w1 not found", err.Message)

	err2 := errors.InvalidArgumentf("invalid density: %d", 0)
	s.Assert().Equal("invalid density: 0", err2.Message)
}

func (s *ErrorsTestSuite) TestErrorIs() {
	s.Assert().True(errors.Is(errors.Wrap(errors.NotFound("a"), "b"), errors.NotFound("c")))
	s.Assert().False(errors.NotFound("a").Is(errors.InvalidArgument("a")))
}

func (s *ErrorsTestSuite) TestIsTransient() {
	s.Assert().True(errors.IsTransient(errors.Unavailable("redis down")))
	s.Assert().True(errors.IsTransient(errors.New(errors.CodeDeadlineExceeded, "slow")))
	s.Assert().False(errors.IsTransient(errors.DataLoss("corrupt raster")))
	s.Assert().False(errors.IsTransient(nil))
}

func (s *ErrorsTestSuite) TestGetters() {
	err := errors.NotFound("user friendly message").WithMeta("key", "value")
	wrapped := errors.Wrap(err, "wrapped message")
	stdErr := fmt.Errorf("standard error")

	s.Assert().Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(stdErr))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))

	s.Assert().Equal("value", errors.GetMeta(wrapped)["key"])
	s.Assert().Nil(errors.GetMeta(stdErr))

	s.Assert().Equal("wrapped message", errors.GetMessage(wrapped))
	s.Assert().Equal("standard error", errors.GetMessage(stdErr))
}

func (s *ErrorsTestSuite) TestTransportMappings() {
	testCases := []struct {
		code errors.Code
		grpc codes.Code
		http int
	}{
		{errors.CodeOK, codes.OK, 200},
		{errors.CodeNotFound, codes.NotFound, 404},
		{errors.CodeInvalidArgument, codes.InvalidArgument, 400},
		{errors.CodePermissionDenied, codes.PermissionDenied, 403},
		{errors.CodeResourceExhausted, codes.ResourceExhausted, 507},
		{errors.CodeUnavailable, codes.Unavailable, 503},
		{errors.CodeDataLoss, codes.DataLoss, 500},
		{errors.Code("BOGUS"), codes.Unknown, 500},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Assert().Equal(tc.grpc, tc.code.GRPCCode())
			s.Assert().Equal(tc.http, tc.code.HTTPStatus())
		})
	}
}

func (s *ErrorsTestSuite) TestGRPCRoundTrip() {
	err := errors.PermissionDenied("cannot read another user's fog").
		WithScene("scene-1", "u2").
		WithMeta("attempt", 2)

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Assert().Equal(codes.PermissionDenied, st.Code())
	s.Assert().Equal("cannot read another user's fog", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.Assert().True(errors.IsPermissionDenied(back))
	s.Assert().Equal("scene-1", errors.SceneOf(back))
	s.Assert().Equal("2", errors.GetMeta(back)["attempt"])

	plain := errors.FromGRPCError(status.Error(codes.InvalidArgument, "invalid input"))
	s.Assert().Equal(errors.CodeInvalidArgument, errors.GetCode(plain))
	s.Assert().Equal("invalid input", errors.GetMessage(plain))
}

func (s *ErrorsTestSuite) TestToGRPCErrorPlainError() {
	st, ok := status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
	s.Require().True(ok)
	s.Assert().Equal(codes.Internal, st.Code())
	s.Assert().Nil(errors.ToGRPCError(nil))
}
