package core

import (
	"fmt"
	"reflect"
)

// ValidateFunc 单个参数的校验函数
// 参数不合法时返回 *errors.ParameterError，其他错误会原样向上传递
type ValidateFunc func(arg any) error

// UnaryPredicate 一元谓词，返回 false 表示参数不合法
type UnaryPredicate func(arg any) bool

// MethodFunc 被拦截方法的统一调用形式
// 接收者已经绑定在闭包（方法值）中，args 为实际调用参数
type MethodFunc func(args ...any) (any, error)

// ============================================================================
// 方法标识
// ============================================================================

// MethodKey 元数据存储的键：(所属类型, 方法名)
// 设计原则：值对象，可直接作为 map 的键
type MethodKey struct {
	// Owner 声明方法的类型（已去掉指针）
	Owner reflect.Type

	// Method 方法名
	Method string
}

// KeyOf 通过原型值构造方法键
// owner 可以是 nil 指针，如 (*UserRepo)(nil)，也可以直接传 reflect.Type
func KeyOf(owner any, method string) MethodKey {
	return MethodKey{Owner: OwnerType(owner), Method: method}
}

// KeyFor 通过类型参数构造方法键
func KeyFor[T any](method string) MethodKey {
	return MethodKey{Owner: normalize(reflect.TypeOf((*T)(nil)).Elem()), Method: method}
}

// OwnerType 获取原型值对应的所属类型，指针类型取其元素类型
func OwnerType(owner any) reflect.Type {
	if owner == nil {
		return nil
	}
	if typ, ok := owner.(reflect.Type); ok {
		return normalize(typ)
	}
	return normalize(reflect.TypeOf(owner))
}

func normalize(typ reflect.Type) reflect.Type {
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ
}

// IsValid 键是否完整
func (k MethodKey) IsValid() bool {
	return k.Owner != nil && k.Method != ""
}

// String 返回 pkg.Type.Method 形式的名称，用于日志与诊断输出
func (k MethodKey) String() string {
	if k.Owner == nil {
		return "<nil>." + k.Method
	}
	return fmt.Sprintf("%s.%s", k.Owner.String(), k.Method)
}

// ============================================================================
// 校验模式
// ============================================================================

// CustomValidator 绑定到某个参数位置的自定义校验器
// 设计原则：不可变对象，由 Schema 持有
type CustomValidator struct {
	// Position 参数位置（从 0 开始）
	Position int

	// Check 校验函数
	Check ValidateFunc

	// Message 失败时附加到聚合错误上的描述
	Message string
}

// Schema 单个方法累积的校验规则
type Schema struct {
	// RequiredPositions 必填参数位置（有序集合）
	RequiredPositions []int

	// CustomValidators 自定义校验器，按执行顺序排列
	CustomValidators []CustomValidator
}

// IsEmpty 是否没有任何规则
func (s Schema) IsEmpty() bool {
	return len(s.RequiredPositions) == 0 && len(s.CustomValidators) == 0
}

// HasRequired 是否存在必填校验
func (s Schema) HasRequired() bool {
	return len(s.RequiredPositions) > 0
}

// HasCustom 是否存在自定义校验
func (s Schema) HasCustom() bool {
	return len(s.CustomValidators) > 0
}

// Clone 复制切片，避免调用方与注册表共享底层数组
func (s Schema) Clone() Schema {
	out := Schema{}
	if s.RequiredPositions != nil {
		out.RequiredPositions = append(make([]int, 0, len(s.RequiredPositions)), s.RequiredPositions...)
	}
	if s.CustomValidators != nil {
		out.CustomValidators = append(make([]CustomValidator, 0, len(s.CustomValidators)), s.CustomValidators...)
	}
	return out
}

// PrependRequired 在必填位置列表头部插入位置，已存在则保持不变
func (s Schema) PrependRequired(position int) Schema {
	out := s.Clone()
	for _, p := range out.RequiredPositions {
		if p == position {
			return out
		}
	}
	out.RequiredPositions = append([]int{position}, out.RequiredPositions...)
	return out
}

// PrependCustom 在自定义校验器列表头部插入校验器
func (s Schema) PrependCustom(v CustomValidator) Schema {
	out := s.Clone()
	out.CustomValidators = append([]CustomValidator{v}, out.CustomValidators...)
	return out
}

// ============================================================================
// 调用信息
// ============================================================================

// Invocation 一次被拦截的调用
// 用于拦截钩子，钩子不应修改 Args
type Invocation struct {
	// Key 被调用方法的键
	Key MethodKey

	// Args 实际调用参数
	Args []any

	// Schema 本次调用使用的校验规则（没有注册时为零值）
	Schema Schema
}
