package errors

import stderrors "errors"

// Catch 执行 fn，把匹配类型 T 的错误当作返回值而不是失败
//
// 返回规则：
//   - fn 成功：返回 T 的零值和 nil
//   - fn 返回的错误链中含有 T：返回该错误和 nil
//   - 其他错误：原样返回，不做包装
//
// 示例：
//
//	caught, err := errors.Catch[*errors.ParameterError](func() error { return check(arg) })
//	if err != nil {
//	    return nil, err // 非参数错误直接向上传递
//	}
//	if caught != nil {
//	    // 参数不合法
//	}
func Catch[T error](fn func() error) (T, error) {
	var caught T
	err := fn()
	if err == nil {
		return caught, nil
	}
	if stderrors.As(err, &caught) {
		return caught, nil
	}
	return caught, err
}
