// Package errors provides the coded errors used across the perception engine.
//
// Every layer returns *Error values carrying a Code, a user-facing message and
// optional metadata. Codes map onto gRPC status codes for the PerceptionService
// and onto HTTP statuses for the debug routes.
//
// Creating and tagging errors:
//
//	err := errors.NotFoundf("wall %s not found", wallID)
//	err := errors.PermissionDenied("cannot read another user's fog").
//	    WithScene(sceneID, userID)
//
// Wrapping keeps the code and metadata of a wrapped *Error:
//
//	if err := repo.Update(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save fog exploration")
//	}
//
// Changing error semantics:
//
//	if err == redis.Nil {
//	    return errors.WrapWithCode(err, errors.CodeNotFound, "fog exploration not found")
//	}
//
// # Policy
//
//   - Malformed configs and requests are InvalidArgument, built with a ValidationBuilder.
//   - Degenerate geometry is not an error; it yields an empty polygon.
//   - A missing fog record is NotFound and starts a first exploration.
//   - Texture allocation failure is ResourceExhausted and degrades fog, it never aborts a frame.
//   - A fog record that cannot be decoded is DataLoss.
//   - Reading another user's fog is PermissionDenied.
//   - Unreachable backends are Unavailable; IsTransient marks them retryable.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("scene_id", input.SceneID, vb)
//	errors.ValidateRange("angle", cfg.Angle, 0, 360, vb)
//	errors.ValidateEnum("mode", cfg.Mode, []CollisionMode{CollisionAny, CollisionAll}, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # gRPC
//
// Handlers return errors.ToGRPCError(err); metadata travels as a
// google.rpc.ErrorInfo detail in the ErrorDomain and FromGRPCError restores it
// on the client side.
package errors
