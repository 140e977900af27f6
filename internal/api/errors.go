package api

import (
	"errors"

	"github.com/dmitrijs2005/matchbox/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var codeBySentinel = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorForbidden, codes.PermissionDenied},
	{common.ErrorInvalidState, codes.FailedPrecondition},
	{common.ErrorValidation, codes.InvalidArgument},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrorUnauthorized, codes.Unauthenticated},
}

// ToStatus converts a domain error into a gRPC status error. Errors that
// match no sentinel become Internal with a generic message.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, m := range codeBySentinel {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	return status.Error(codes.Internal, "internal error")
}

// FromStatus maps a gRPC status error back onto the matching sentinel, so
// callers can keep using errors.Is.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, m := range codeBySentinel {
		if st.Code() == m.code {
			return &remoteError{sentinel: m.err, st: st}
		}
	}
	return err
}

// remoteError keeps the server's status while unwrapping to the sentinel.
type remoteError struct {
	sentinel error
	st       *status.Status
}

func (e *remoteError) Error() string              { return e.st.Message() }
func (e *remoteError) Unwrap() error              { return e.sentinel }
func (e *remoteError) GRPCStatus() *status.Status { return e.st }
