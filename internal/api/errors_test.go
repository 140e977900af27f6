package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/matchbox/internal/common"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusRoundTrip(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrorForbidden, codes.PermissionDenied},
		{common.ErrorInvalidState, codes.FailedPrecondition},
		{common.ErrorValidation, codes.InvalidArgument},
		{common.ErrorNotFound, codes.NotFound},
		{common.ErrorUnauthorized, codes.Unauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			wrapped := fmt.Errorf("%w: record r1", tt.err)

			st := ToStatus(wrapped)
			assert.Equal(t, tt.code, status.Code(st))

			back := FromStatus(st)
			assert.ErrorIs(t, back, tt.err)
			assert.Equal(t, wrapped.Error(), back.Error())
			assert.Equal(t, tt.code, status.Code(back))
		})
	}
}

func TestToStatus_HidesInternalErrors(t *testing.T) {
	st := ToStatus(errors.New("pq: password authentication failed"))
	assert.Equal(t, codes.Internal, status.Code(st))
	assert.NotContains(t, st.Error(), "password")
}

func TestToStatus_PassesStatusThrough(t *testing.T) {
	in := status.Error(codes.Unimplemented, "nope")
	assert.Equal(t, in, ToStatus(in))
	assert.NoError(t, ToStatus(nil))
}

func TestFromStatus_Unmapped(t *testing.T) {
	plain := errors.New("plain")
	assert.Equal(t, plain, FromStatus(plain))

	st := status.Error(codes.Unimplemented, "nope")
	assert.Equal(t, st, FromStatus(st))
}
