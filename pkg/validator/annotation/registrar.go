package annotation

import (
	"errors"
	"fmt"

	"katydid-common-param/pkg/validator/core"
	"katydid-common-param/pkg/validator/registry"
)

var (
	// ErrInvalidPosition 参数位置为负数
	ErrInvalidPosition = errors.New("invalid parameter position: must be >= 0")

	// ErrNilValidator 校验函数为 nil
	ErrNilValidator = errors.New("validator function cannot be nil")

	// ErrNilPredicate 谓词为 nil
	ErrNilPredicate = errors.New("predicate cannot be nil")

	// ErrInvalidTag 无法解析的 validator 标签
	ErrInvalidTag = errors.New("invalid validator tag")

	// ErrTagEvaluation 标签无法应用于实际参数（例如类型不匹配）
	ErrTagEvaluation = errors.New("validator tag evaluation failed")
)

// ParamAnnotation 参数级注解
// 应用到 (方法, 参数位置) 上，把规则写入注册表
type ParamAnnotation func(reg registry.Writer, key core.MethodKey, position int) error

// RequiredParam 标记参数为必填的注解
var RequiredParam ParamAnnotation = Required

// Required 必填参数注册器
// 把 position 插入方法规则中必填位置列表的头部
func Required(reg registry.Writer, key core.MethodKey, position int) error {
	if position < 0 {
		return fmt.Errorf("%w: %s got %d", ErrInvalidPosition, key, position)
	}
	return reg.Update(key, func(s core.Schema) core.Schema {
		return s.PrependRequired(position)
	})
}

// RegisterCustom 自定义校验器注册器
// 构造 (position, check, message) 并插入方法规则中自定义校验器列表的头部
func RegisterCustom(reg registry.Writer, key core.MethodKey, position int, check core.ValidateFunc, message string) error {
	if position < 0 {
		return fmt.Errorf("%w: %s got %d", ErrInvalidPosition, key, position)
	}
	if check == nil {
		return fmt.Errorf("%w: %s#%d", ErrNilValidator, key, position)
	}
	validator := core.CustomValidator{
		Position: position,
		Check:    check,
		Message:  message,
	}
	return reg.Update(key, func(s core.Schema) core.Schema {
		return s.PrependCustom(validator)
	})
}

// Custom 把校验函数包装成参数注解
func Custom(check core.ValidateFunc, message string) ParamAnnotation {
	return func(reg registry.Writer, key core.MethodKey, position int) error {
		return RegisterCustom(reg, key, position, check, message)
	}
}
