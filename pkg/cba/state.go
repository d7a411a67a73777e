package cba

import (
	"strconv"
	"sync"
)

// State is the key/value store of one session, shared by all of its components
// State 是单个会话的键值存储，由会话内所有组件共享
type State interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	Clear()
	GetInt64(key string) (int64, bool)
	GetString(key string) string
}

// MapState 基于 map 的 State 实现
type MapState struct {
	mu sync.RWMutex
	m  map[string]any
}

func NewMapState() *MapState {
	return &MapState{m: make(map[string]any)}
}

func (s *MapState) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MapState) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *MapState) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

func (s *MapState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]any)
}

// GetInt64 reads an integer value, numeric strings are accepted
// GetInt64 读取整数值，接受数字字符串
func (s *MapState) GetInt64(key string) (int64, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// GetString 读取字符串值，不存在时返回空串
func (s *MapState) GetString(key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}
