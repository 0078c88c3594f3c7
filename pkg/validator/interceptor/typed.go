package interceptor

import "katydid-common-param/pkg/validator/core"

// Wrap1 包装单参数方法，保留参数与返回值类型
//
// 示例：
//
//	repo.set = interceptor.Wrap1(ic, core.KeyFor[Counter]("Set"), repo.set)
func Wrap1[A, R any](ic *Interceptor, key core.MethodKey, fn func(A) (R, error)) func(A) (R, error) {
	return func(a A) (R, error) {
		var result R
		err := ic.invoke(key, []any{a}, func() error {
			var callErr error
			result, callErr = fn(a)
			return callErr
		})
		return result, err
	}
}

// Wrap2 包装双参数方法
func Wrap2[A, B, R any](ic *Interceptor, key core.MethodKey, fn func(A, B) (R, error)) func(A, B) (R, error) {
	return func(a A, b B) (R, error) {
		var result R
		err := ic.invoke(key, []any{a, b}, func() error {
			var callErr error
			result, callErr = fn(a, b)
			return callErr
		})
		return result, err
	}
}

// Wrap3 包装三参数方法
func Wrap3[A, B, C, R any](ic *Interceptor, key core.MethodKey, fn func(A, B, C) (R, error)) func(A, B, C) (R, error) {
	return func(a A, b B, c C) (R, error) {
		var result R
		err := ic.invoke(key, []any{a, b, c}, func() error {
			var callErr error
			result, callErr = fn(a, b, c)
			return callErr
		})
		return result, err
	}
}
