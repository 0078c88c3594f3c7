package validator

import (
	"sync/atomic"

	"katydid-common-param/pkg/validator/annotation"
	"katydid-common-param/pkg/validator/core"
	"katydid-common-param/pkg/validator/interceptor"
	"katydid-common-param/pkg/validator/registry"
)

var (
	// defaultInterceptor 全局默认拦截器，读取全局注册表
	defaultInterceptor atomic.Pointer[interceptor.Interceptor]
)

// init 初始化全局拦截器
func init() {
	defaultInterceptor.Store(interceptor.New(registry.Default()))
}

// ============================================================================
// 声明规则（写入全局注册表）
// ============================================================================

// KeyFor 通过类型参数构造方法键
func KeyFor[T any](method string) core.MethodKey {
	return core.KeyFor[T](method)
}

// KeyOf 通过原型值构造方法键
func KeyOf(owner any, method string) core.MethodKey {
	return core.KeyOf(owner, method)
}

// Required 标记方法参数为必填
func Required(key core.MethodKey, position int) error {
	return annotation.Required(registry.Default(), key, position)
}

// RegisterCustom 为方法参数注册自定义校验函数
func RegisterCustom(key core.MethodKey, position int, check core.ValidateFunc, message string) error {
	return annotation.RegisterCustom(registry.Default(), key, position, check, message)
}

// BuildCustomValidator 把谓词和描述转换为参数注解
func BuildCustomValidator(predicate core.UnaryPredicate, message string) annotation.ParamAnnotation {
	return annotation.BuildCustomValidator(predicate, message)
}

// Annotate 把参数注解应用到全局注册表
func Annotate(key core.MethodKey, position int, annotations ...annotation.ParamAnnotation) error {
	for _, a := range annotations {
		if err := a(registry.Default(), key, position); err != nil {
			return err
		}
	}
	return nil
}

// For 开始为类型声明规则，最后调用 Register(validator.Registry()) 写入
func For(owner any) *annotation.TypeBuilder {
	return annotation.For(owner)
}

// Registry 全局注册表
func Registry() *registry.Registry {
	return registry.Default()
}

// Seal 冻结全局注册表，通常在启动完成后调用
func Seal() {
	registry.Default().Seal()
}

// ============================================================================
// 拦截调用
// ============================================================================

// Validate 使用全局拦截器包装方法
// 便捷方法，适合简单场景
func Validate(key core.MethodKey, fn core.MethodFunc) core.MethodFunc {
	return DefaultInterceptor().Validate(key, fn)
}

// Bind 使用全局拦截器按名称绑定方法
func Bind(recv any, method string) (core.MethodFunc, error) {
	return DefaultInterceptor().Bind(recv, method)
}

// Check 只校验参数，不调用方法
func Check(key core.MethodKey, args ...any) error {
	return DefaultInterceptor().Check(key, args)
}

// NewInterceptor 创建读取全局注册表的拦截器（推荐用法）
func NewInterceptor(opts ...interceptor.Option) *interceptor.Interceptor {
	return interceptor.New(registry.Default(), opts...)
}

// SetDefaultInterceptor 设置全局拦截器
// 只影响之后包装的方法，已包装的方法继续使用原拦截器
func SetDefaultInterceptor(ic *interceptor.Interceptor) {
	if ic != nil {
		defaultInterceptor.Store(ic)
	}
}

// DefaultInterceptor 获取全局拦截器
func DefaultInterceptor() *interceptor.Interceptor {
	return defaultInterceptor.Load()
}
