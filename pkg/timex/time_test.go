package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_UnixMethods(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	assert.Equal(t, now.Unix(), tt.Unix())
	assert.Equal(t, now.UnixMilli(), tt.UnixMilli())
	assert.Equal(t, now.UnixMicro(), tt.UnixMicro())
	assert.Equal(t, now.UnixNano(), tt.UnixNano())
}

func TestTime_Scan(t *testing.T) {
	var tt Time
	require.NoError(t, tt.Scan("2026-10-19 08:30:00"))
	assert.Equal(t, "2026-10-19 08:30:00", tt.String())

	require.NoError(t, tt.Scan([]byte("2026-10-19 09:00:00")))
	assert.Equal(t, "2026-10-19 09:00:00", tt.String())

	now := time.Now()
	require.NoError(t, tt.Scan(now))
	assert.True(t, tt.Time().Equal(now))

	require.NoError(t, tt.Scan(nil))
	assert.True(t, tt.IsZero())

	assert.Error(t, tt.Scan(42))
	assert.Error(t, tt.Scan("yesterday"))
}

func TestTime_Value(t *testing.T) {
	v, err := Time{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	now := Now()
	v, err = now.Value()
	require.NoError(t, err)
	assert.Equal(t, now.Time(), v)
}

func TestTime_JSON(t *testing.T) {
	tt := Time(time.Date(2026, 10, 19, 8, 30, 0, 0, time.Local))
	data, err := tt.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2026-10-19 08:30:00"`, string(data))

	var back Time
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, back.Time().Equal(tt.Time()))

	require.NoError(t, back.UnmarshalJSON([]byte("null")))
	assert.True(t, back.IsZero())

	zero, _ := Time{}.MarshalJSON()
	assert.Equal(t, `""`, string(zero))
}
