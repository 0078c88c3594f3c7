package core

import "reflect"

// IsMissing 判断 args 中 position 位置的参数是否缺失
// 缺失包括：位置越界、无类型 nil、以及可为 nil 的类型（指针、接口、map、切片、函数、通道）的 nil 值
func IsMissing(args []any, position int) bool {
	if position < 0 || position >= len(args) {
		return true
	}
	return IsNil(args[position])
}

// IsNil 判断值是否为 nil（包括带类型的 nil）
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return val.IsNil()
	default:
		return false
	}
}

// ArgAt 取 position 位置的参数，越界时返回 nil
func ArgAt(args []any, position int) any {
	if position < 0 || position >= len(args) {
		return nil
	}
	return args[position]
}
