package limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyLimiter_Allow(t *testing.T) {
	l := NewKeyLimiter(BucketRule{FillInterval: time.Hour, Capacity: 2, Quantum: 1})

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))

	// 其他键有独立的令牌桶
	assert.True(t, l.Allow("5.6.7.8"))
	assert.Equal(t, 2, l.Len())
}

func TestMethodLimiter_AddBuckets(t *testing.T) {
	l := NewMethodLimiter().AddBuckets(BucketRule{Key: "/cba/event", FillInterval: time.Second, Capacity: 10, Quantum: 10})

	bucket, ok := l.GetBucket("/cba/event")
	assert.True(t, ok)
	assert.Equal(t, int64(10), bucket.Available())

	_, ok = l.GetBucket("/")
	assert.False(t, ok)
}
