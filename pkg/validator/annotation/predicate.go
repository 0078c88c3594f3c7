package annotation

import (
	"fmt"
	"reflect"
	"strings"

	"katydid-common-param/pkg/validator/core"
	verrors "katydid-common-param/pkg/validator/errors"
	"katydid-common-param/pkg/validator/registry"
)

// BuildCustomValidator 谓词适配器
// 把 (谓词, 描述) 转换为参数注解；谓词返回 false 时校验函数返回空消息的 *ParameterError，
// 描述只在拦截器构造聚合错误时使用
func BuildCustomValidator(predicate core.UnaryPredicate, message string) ParamAnnotation {
	if predicate == nil {
		return func(_ registry.Writer, key core.MethodKey, position int) error {
			return fmt.Errorf("%w: %s#%d", ErrNilPredicate, key, position)
		}
	}
	return Custom(PredicateCheck(predicate), message)
}

// PredicateCheck 把谓词包装为校验函数
func PredicateCheck(predicate core.UnaryPredicate) core.ValidateFunc {
	return func(arg any) error {
		if !predicate(arg) {
			return &verrors.ParameterError{}
		}
		return nil
	}
}

// ============================================================================
// 常用谓词
// ============================================================================

// NotZero 参数不是其类型的零值
func NotZero(arg any) bool {
	if arg == nil {
		return false
	}
	return !reflect.ValueOf(arg).IsZero()
}

// NotBlank 参数是去掉空白后非空的字符串
func NotBlank(arg any) bool {
	s, ok := arg.(string)
	return ok && strings.TrimSpace(s) != ""
}

// Positive 参数是大于 0 的数字
func Positive(arg any) bool {
	if arg == nil {
		return false
	}
	val := reflect.ValueOf(arg)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return val.Uint() > 0
	case reflect.Float32, reflect.Float64:
		return val.Float() > 0
	default:
		return false
	}
}

// OneOf 参数等于给定值之一
func OneOf(values ...any) core.UnaryPredicate {
	return func(arg any) bool {
		for _, v := range values {
			if reflect.DeepEqual(arg, v) {
				return true
			}
		}
		return false
	}
}
