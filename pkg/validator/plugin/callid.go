package plugin

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// callEpoch 调用 ID 的起始时间戳 (2024-01-01 00:00:00 UTC，毫秒)
	callEpoch int64 = 1704067200000

	nodeBits     = 10
	sequenceBits = 12

	// MaxNodeID 节点 ID 最大值 [0, 1023]
	MaxNodeID   = -1 ^ (-1 << nodeBits)
	maxSequence = -1 ^ (-1 << sequenceBits)

	nodeShift      = sequenceBits
	timestampShift = sequenceBits + nodeBits
)

// ErrInvalidNodeID 节点 ID 超出范围
var ErrInvalidNodeID = errors.New("invalid node id")

// CallIDGenerator 调用 ID 生成器
// 结构：时间戳(41位) | 节点(10位) | 序列号(12位)，同一进程内单调递增，
// 用于把同一次调用的开始与结束日志关联起来
type CallIDGenerator struct {
	mu            sync.Mutex
	nodePart      int64
	lastTimestamp int64
	sequence      int64
	now           func() int64
}

// NewCallIDGenerator 创建调用 ID 生成器
func NewCallIDGenerator(nodeID int64) (*CallIDGenerator, error) {
	if nodeID < 0 || nodeID > MaxNodeID {
		return nil, fmt.Errorf("%w: must be in [0, %d], got %d", ErrInvalidNodeID, MaxNodeID, nodeID)
	}
	return &CallIDGenerator{
		nodePart:      nodeID << nodeShift,
		lastTimestamp: -1,
		now:           func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// Next 生成下一个调用 ID（线程安全）
// 时钟回拨时沿用上次的时间戳继续递增序列号，不会返回错误
func (g *CallIDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := g.now()
	if timestamp < g.lastTimestamp {
		timestamp = g.lastTimestamp
	}

	if timestamp == g.lastTimestamp {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// 当前毫秒内序列号用尽，借用下一毫秒
			timestamp++
		}
	} else {
		g.sequence = 0
	}
	g.lastTimestamp = timestamp

	return (timestamp-callEpoch)<<timestampShift | g.nodePart | g.sequence
}

// NodeOf 从调用 ID 中解析节点 ID
func NodeOf(id int64) int64 {
	return (id >> nodeShift) & MaxNodeID
}
