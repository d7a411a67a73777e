// Package limiter provides token bucket rate limiters built on juju/ratelimit
// Package limiter 基于 juju/ratelimit 的令牌桶限流器
package limiter

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule 令牌桶规则
type BucketRule struct {
	// Key 规则键，MethodLimiter 中为请求路径
	Key string
	// FillInterval 令牌填充间隔
	FillInterval time.Duration
	// Capacity 桶容量
	Capacity int64
	// Quantum 每次填充的令牌数
	Quantum int64
}

// base 令牌桶集合
type base struct {
	mu      sync.RWMutex
	buckets map[string]*ratelimit.Bucket
}

func (l *base) GetBucket(key string) (*ratelimit.Bucket, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	bucket, ok := l.buckets[key]
	return bucket, ok
}

func (l *base) add(rules ...BucketRule) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rule := range rules {
		if _, ok := l.buckets[rule.Key]; !ok {
			l.buckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
		}
	}
}

// MethodLimiter 按请求路径限流
type MethodLimiter struct {
	*base
}

// NewMethodLimiter 创建按路径限流器
func NewMethodLimiter() Face {
	return MethodLimiter{base: &base{buckets: make(map[string]*ratelimit.Bucket)}}
}

// Key 返回请求路径
func (l MethodLimiter) Key(c *gin.Context) string {
	return c.FullPath()
}

// AddBuckets 添加规则
func (l MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.add(rules...)
	return l
}

// KeyLimiter creates one bucket per arbitrary key (client ip, username) lazily from a template rule
// KeyLimiter 按任意键（客户端 IP、用户名）懒创建令牌桶
type KeyLimiter struct {
	*base
	rule BucketRule
}

// NewKeyLimiter 创建按键限流器
func NewKeyLimiter(rule BucketRule) *KeyLimiter {
	return &KeyLimiter{base: &base{buckets: make(map[string]*ratelimit.Bucket)}, rule: rule}
}

// Allow takes one token for key, reporting false when the bucket is empty
// Allow 为 key 取一个令牌，桶为空时返回 false
func (l *KeyLimiter) Allow(key string) bool {
	bucket, ok := l.GetBucket(key)
	if !ok {
		rule := l.rule
		rule.Key = key
		l.add(rule)
		bucket, _ = l.GetBucket(key)
	}
	return bucket.TakeAvailable(1) > 0
}

// Len 返回已创建的令牌桶数量
func (l *KeyLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}
