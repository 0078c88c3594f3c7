package interceptor

import "sync/atomic"

// Stats 拦截统计指标（单一职责：只负责计数）
type Stats struct {
	Calls            atomic.Uint64 // 校验次数
	Passed           atomic.Uint64 // 通过次数
	RequiredFailures atomic.Uint64 // 必填校验失败次数
	CustomFailures   atomic.Uint64 // 自定义校验失败次数
	ForeignErrors    atomic.Uint64 // 校验器返回非参数错误的次数
}

// NewStats 创建统计指标
func NewStats() *Stats {
	return &Stats{}
}

// Reset 重置所有计数
func (s *Stats) Reset() {
	if s == nil {
		return
	}
	s.Calls.Store(0)
	s.Passed.Store(0)
	s.RequiredFailures.Store(0)
	s.CustomFailures.Store(0)
	s.ForeignErrors.Store(0)
}

// Snapshot 获取当前计数的快照
func (s *Stats) Snapshot() *Stats {
	snapshot := NewStats()
	if s == nil {
		return snapshot
	}
	snapshot.Calls.Store(s.Calls.Load())
	snapshot.Passed.Store(s.Passed.Load())
	snapshot.RequiredFailures.Store(s.RequiredFailures.Load())
	snapshot.CustomFailures.Store(s.CustomFailures.Load())
	snapshot.ForeignErrors.Store(s.ForeignErrors.Load())
	return snapshot
}

// ToMap 转换为 map 格式（便于序列化和展示）
func (s *Stats) ToMap() map[string]uint64 {
	if s == nil {
		return map[string]uint64{}
	}
	return map[string]uint64{
		"calls":             s.Calls.Load(),
		"passed":            s.Passed.Load(),
		"required_failures": s.RequiredFailures.Load(),
		"custom_failures":   s.CustomFailures.Load(),
		"foreign_errors":    s.ForeignErrors.Load(),
	}
}
