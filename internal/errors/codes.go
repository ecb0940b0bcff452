package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code represents an error code
type Code string

// Error codes used across the perception engine
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeDataLoss           Code = "DATA_LOSS"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
)

// Metadata keys attached to errors that concern a scene session
const (
	MetaSceneID = "scene_id"
	MetaUserID  = "user_id"
)

type codeMapping struct {
	grpc codes.Code
	http int
}

// codeTable is the single source for transport mappings. Texture allocation
// failures surface as ResourceExhausted and map to 507 on the debug HTTP surface.
var codeTable = map[Code]codeMapping{
	CodeOK:                 {codes.OK, http.StatusOK},
	CodeCanceled:           {codes.Canceled, http.StatusRequestTimeout},
	CodeInvalidArgument:    {codes.InvalidArgument, http.StatusBadRequest},
	CodeDeadlineExceeded:   {codes.DeadlineExceeded, http.StatusGatewayTimeout},
	CodeNotFound:           {codes.NotFound, http.StatusNotFound},
	CodeAlreadyExists:      {codes.AlreadyExists, http.StatusConflict},
	CodePermissionDenied:   {codes.PermissionDenied, http.StatusForbidden},
	CodeResourceExhausted:  {codes.ResourceExhausted, http.StatusInsufficientStorage},
	CodeFailedPrecondition: {codes.FailedPrecondition, http.StatusPreconditionFailed},
	CodeInternal:           {codes.Internal, http.StatusInternalServerError},
	CodeUnavailable:        {codes.Unavailable, http.StatusServiceUnavailable},
	CodeDataLoss:           {codes.DataLoss, http.StatusInternalServerError},
	CodeUnauthenticated:    {codes.Unauthenticated, http.StatusUnauthorized},
}

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// HTTPStatus returns the status the debug HTTP surface answers with
func (c Code) HTTPStatus() int {
	if m, ok := codeTable[c]; ok {
		return m.http
	}
	return http.StatusInternalServerError
}

// GRPCCode returns the corresponding gRPC code
func (c Code) GRPCCode() codes.Code {
	if m, ok := codeTable[c]; ok {
		return m.grpc
	}
	return codes.Unknown
}

// codeFromGRPC converts a gRPC code back to a Code, defaulting to Internal
func codeFromGRPC(grpcCode codes.Code) Code {
	for code, m := range codeTable {
		if m.grpc == grpcCode {
			return code
		}
	}
	return CodeInternal
}
