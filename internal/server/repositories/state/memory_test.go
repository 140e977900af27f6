package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	v, err := r.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, v)

	in := []byte("payload")
	require.NoError(t, r.Set(ctx, "k", in))
	in[0] = 'X'

	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), v, "stored value must not alias the caller's slice")

	v[0] = 'Y'
	again, _ := r.Get(ctx, "k")
	assert.Equal(t, []byte("payload"), again)
}
