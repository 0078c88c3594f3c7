package interceptor

import "katydid-common-param/pkg/validator/core"

// ============================================================================
// 拦截钩子链
// ============================================================================

// Hook 拦截钩子
// 设计模式：责任链模式，next 执行校验以及原方法调用
type Hook interface {
	Intercept(inv *core.Invocation, next func() error) error
}

// HookFunc 函数式钩子
type HookFunc func(inv *core.Invocation, next func() error) error

// Intercept 实现 Hook 接口
func (f HookFunc) Intercept(inv *core.Invocation, next func() error) error {
	return f(inv, next)
}

// runChain 执行钩子链
func runChain(hooks []Hook, inv *core.Invocation, final func() error) error {
	index := 0
	var next func() error

	next = func() error {
		if index >= len(hooks) {
			// 所有钩子都执行完毕，执行实际的校验和调用
			return final()
		}
		current := hooks[index]
		index++
		return current.Intercept(inv, next)
	}

	return next()
}
