package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"1m30s"`, want: 90 * time.Second},
		{name: "nanoseconds", input: `2000000000`, want: 2 * time.Second},
		{name: "bad string", input: `"soon"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 3 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"3s"`, string(b))
}

func TestOptionalMilli_RoundTrip(t *testing.T) {
	assert.Nil(t, OptionalMilli(time.Time{}))
	assert.True(t, FromOptionalMilli(nil).IsZero())

	epoch := time.UnixMilli(0).UTC()
	ms := OptionalMilli(epoch)
	require.NotNil(t, ms)
	assert.Equal(t, int64(0), *ms)
	assert.True(t, epoch.Equal(FromOptionalMilli(ms)))

	ts := time.UnixMilli(1700000000123).UTC()
	assert.True(t, ts.Equal(FromOptionalMilli(OptionalMilli(ts))))
}
