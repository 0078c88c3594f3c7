package interceptor

import (
	"go.uber.org/zap"

	"katydid-common-param/pkg/validator/core"
	verrors "katydid-common-param/pkg/validator/errors"
	"katydid-common-param/pkg/validator/registry"
)

// Interceptor 方法调用拦截器
// 职责：调用前按注册表中的规则校验实际参数，全部通过后才调用原方法
//
// 每次调用的步骤（顺序固定）：
//  1. 必填校验：一次性检查所有必填位置，有缺失则返回一个列出全部缺失位置的错误，不再执行自定义校验
//  2. 自定义校验：按规则顺序执行全部校验器，失败位置累积到同一个聚合错误中
//  3. 调用原方法，结果原样返回
type Interceptor struct {
	reader registry.Reader
	logger *zap.Logger
	hooks  []Hook
	stats  *Stats
}

// Option 拦截器选项
type Option func(*Interceptor)

// WithLogger 设置日志器，默认不输出
func WithLogger(logger *zap.Logger) Option {
	return func(ic *Interceptor) {
		if logger != nil {
			ic.logger = logger
		}
	}
}

// WithHooks 追加拦截钩子，按添加顺序由外向内执行
func WithHooks(hooks ...Hook) Option {
	return func(ic *Interceptor) {
		for _, h := range hooks {
			if h != nil {
				ic.hooks = append(ic.hooks, h)
			}
		}
	}
}

// New 创建拦截器
// reader 为 nil 时使用全局注册表
func New(reader registry.Reader, opts ...Option) *Interceptor {
	if reader == nil {
		reader = registry.Default()
	}
	ic := &Interceptor{
		reader: reader,
		logger: zap.NewNop(),
		stats:  NewStats(),
	}
	for _, opt := range opts {
		opt(ic)
	}
	return ic
}

// Stats 返回统计指标
func (ic *Interceptor) Stats() *Stats {
	return ic.stats
}

// Validate 用校验包装原方法
// fn 通常是绑定了接收者的方法值，例如 repo.SaveAny
func (ic *Interceptor) Validate(key core.MethodKey, fn core.MethodFunc) core.MethodFunc {
	return func(args ...any) (any, error) {
		var result any
		err := ic.invoke(key, args, func() error {
			var callErr error
			result, callErr = fn(args...)
			return callErr
		})
		return result, err
	}
}

// Check 只做参数校验，不调用原方法
// 没有注册规则的方法总是通过
func (ic *Interceptor) Check(key core.MethodKey, args []any) error {
	ic.stats.Calls.Add(1)

	schema, ok := ic.reader.Get(key)
	if !ok || schema.IsEmpty() {
		ic.stats.Passed.Add(1)
		return nil
	}

	if schema.HasRequired() {
		if err := ic.checkRequired(key, schema.RequiredPositions, args); err != nil {
			ic.stats.RequiredFailures.Add(1)
			return err
		}
	}

	if schema.HasCustom() {
		pe, err := ic.checkCustom(key, schema.CustomValidators, args)
		if err != nil {
			ic.stats.ForeignErrors.Add(1)
			ic.logger.Error("validator returned foreign error",
				zap.String("method", key.String()),
				zap.Error(err),
			)
			return err
		}
		if pe != nil {
			ic.stats.CustomFailures.Add(1)
			ic.logger.Warn("custom parameter validation failed",
				zap.String("method", key.String()),
				zap.Ints("positions", pe.ParameterIndexes),
				zap.Strings("detail", pe.Detail),
			)
			return pe
		}
	}

	ic.stats.Passed.Add(1)
	ic.logger.Debug("parameter validation passed", zap.String("method", key.String()))
	return nil
}

// checkRequired 批量检查必填位置，返回列出所有缺失位置的单个错误
func (ic *Interceptor) checkRequired(key core.MethodKey, positions []int, args []any) error {
	var missing []int
	for _, position := range positions {
		if core.IsMissing(args, position) {
			missing = append(missing, position)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	ic.logger.Warn("required parameters missing",
		zap.String("method", key.String()),
		zap.Ints("positions", missing),
		zap.Int("args", len(args)),
	)
	return verrors.NewMissingRequiredError(key.Method, missing)
}

// checkCustom 执行全部自定义校验器，不短路
// 参数错误累积到同一个聚合错误；非参数错误立即原样返回
func (ic *Interceptor) checkCustom(key core.MethodKey, validators []core.CustomValidator, args []any) (*verrors.ParameterError, error) {
	var aggregate *verrors.ParameterError
	for _, v := range validators {
		checkErr := v.Check(core.ArgAt(args, v.Position))
		if checkErr == nil {
			continue
		}
		// 任何 *ParameterError（包括类型化的 nil）都算作该位置失败
		if _, err := verrors.Catch[*verrors.ParameterError](func() error { return checkErr }); err != nil {
			return nil, err
		}
		if aggregate == nil {
			aggregate = verrors.NewCustomError(key.Method, v.Position, v.Message)
			continue
		}
		aggregate.Append(v.Position, verrors.WrongDetail(v.Position, v.Message))
	}
	return aggregate, nil
}

// invoke 按钩子链执行 校验 + 调用
func (ic *Interceptor) invoke(key core.MethodKey, args []any, call func() error) error {
	final := func() error {
		if err := ic.Check(key, args); err != nil {
			return err
		}
		return call()
	}
	if len(ic.hooks) == 0 {
		return final()
	}

	schema, _ := ic.reader.Get(key)
	inv := &core.Invocation{Key: key, Args: args, Schema: schema}
	return runChain(ic.hooks, inv, final)
}
