package plugin

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"katydid-common-param/pkg/validator/core"
	verrors "katydid-common-param/pkg/validator/errors"
)

// LoggingPlugin 日志插件
// 职责：记录每次被拦截调用的开始与结果
// 设计模式：插件模式，实现 interceptor.Hook
type LoggingPlugin struct {
	enabled bool
	logger  *zap.Logger
	ids     *CallIDGenerator
}

// NewLoggingPlugin 创建日志插件
// logger 为 nil 时不输出
func NewLoggingPlugin(logger *zap.Logger) *LoggingPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	ids, _ := NewCallIDGenerator(0)
	return &LoggingPlugin{
		enabled: true,
		logger:  logger,
		ids:     ids,
	}
}

// Name 插件名称
func (p *LoggingPlugin) Name() string {
	return "LoggingPlugin"
}

// Init 初始化插件
// 支持的配置：enabled (bool)，node_id (int，调用 ID 中的节点号)
func (p *LoggingPlugin) Init(config map[string]any) error {
	if config == nil {
		return nil
	}

	if enabled, ok := config["enabled"].(bool); ok {
		p.enabled = enabled
	}
	if nodeID, ok := config["node_id"].(int); ok {
		ids, err := NewCallIDGenerator(int64(nodeID))
		if err != nil {
			return err
		}
		p.ids = ids
	}
	return nil
}

// Enabled 是否启用
func (p *LoggingPlugin) Enabled() bool {
	return p.enabled
}

// Intercept 记录调用过程
func (p *LoggingPlugin) Intercept(inv *core.Invocation, next func() error) error {
	if !p.enabled {
		return next()
	}

	method := inv.Key.String()
	callID := zap.Int64("call_id", p.ids.Next())
	p.logger.Debug("method call started",
		callID,
		zap.String("method", method),
		zap.Int("args", len(inv.Args)),
		zap.Int("required_rules", len(inv.Schema.RequiredPositions)),
		zap.Int("custom_rules", len(inv.Schema.CustomValidators)),
	)

	start := time.Now()
	err := next()
	elapsed := time.Since(start)

	switch {
	case err == nil:
		p.logger.Info("method call succeeded",
			callID,
			zap.String("method", method),
			zap.Duration("elapsed", elapsed),
		)
	case errors.Is(err, verrors.ErrParameter):
		p.logger.Warn("method call rejected",
			callID,
			zap.String("method", method),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	default:
		p.logger.Error("method call failed",
			callID,
			zap.String("method", method),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	}
	return err
}
