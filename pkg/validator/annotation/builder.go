package annotation

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"

	"katydid-common-param/pkg/validator/core"
	"katydid-common-param/pkg/validator/registry"
)

var (
	// ErrNilOwner 构建器没有指定所属类型
	ErrNilOwner = errors.New("owner type cannot be nil")

	// ErrAlreadyRegistered 构建器的声明已经写入过注册表
	ErrAlreadyRegistered = errors.New("builder already registered")
)

// declaration 一条参数注解声明
type declaration struct {
	position   int
	annotation ParamAnnotation
}

// TypeBuilder 类型级规则构建器
// 设计模式：建造者模式，在类型注册阶段累积各方法的规则，最后一次性写入注册表
//
// 示例：
//
//	b := annotation.For((*UserRepo)(nil))
//	b.Method("Save").Required(0).Predicate(1, annotation.NotBlank, "name must not be blank")
//	b.Method("Delete").Required(0)
//	if err := b.Register(registry.Default()); err != nil {
//	    panic(err)
//	}
type TypeBuilder struct {
	owner      reflect.Type
	methods    []*MethodBuilder
	errs       []error
	registered bool
}

// For 开始为 owner 类型声明规则，owner 可以是 nil 指针或 reflect.Type
func For(owner any) *TypeBuilder {
	b := &TypeBuilder{owner: core.OwnerType(owner)}
	if b.owner == nil {
		b.errs = append(b.errs, ErrNilOwner)
	}
	return b
}

// Method 获取（不存在则创建）方法级构建器
func (b *TypeBuilder) Method(name string) *MethodBuilder {
	for _, m := range b.methods {
		if m.key.Method == name {
			return m
		}
	}
	m := &MethodBuilder{
		parent: b,
		key:    core.MethodKey{Owner: b.owner, Method: name},
	}
	b.methods = append(b.methods, m)
	return m
}

// Register 把所有声明写入注册表
// 同一个方法内的声明按倒序应用，配合注册器的头插语义，最终执行顺序与声明顺序一致；
// 返回所有失败声明的合并错误。每个构建器只能写入一次，重复调用返回 ErrAlreadyRegistered
func (b *TypeBuilder) Register(reg registry.Writer) error {
	if b.registered {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, b.owner)
	}
	if len(b.errs) > 0 {
		return multierror.Append(nil, b.errs...).ErrorOrNil()
	}
	b.registered = true

	var result *multierror.Error
	for _, m := range b.methods {
		for i := len(m.decls) - 1; i >= 0; i-- {
			d := m.decls[i]
			if err := d.annotation(reg, m.key, d.position); err != nil {
				result = multierror.Append(result, err)
			}
		}
		result = multierror.Append(result, m.errs...)
	}
	return result.ErrorOrNil()
}

// MustRegister 同 Register，失败时 panic
func (b *TypeBuilder) MustRegister(reg registry.Writer) {
	if err := b.Register(reg); err != nil {
		panic(err)
	}
}

// MethodBuilder 方法级规则构建器
type MethodBuilder struct {
	parent *TypeBuilder
	key    core.MethodKey
	decls  []declaration
	errs   []error
}

// Key 方法键
func (m *MethodBuilder) Key() core.MethodKey {
	return m.key
}

// Required 标记参数为必填
func (m *MethodBuilder) Required(positions ...int) *MethodBuilder {
	for _, p := range positions {
		m.decls = append(m.decls, declaration{position: p, annotation: RequiredParam})
	}
	return m
}

// Param 为参数应用注解
func (m *MethodBuilder) Param(position int, annotations ...ParamAnnotation) *MethodBuilder {
	for _, a := range annotations {
		if a == nil {
			m.errs = append(m.errs, fmt.Errorf("%w: %s#%d", ErrNilValidator, m.key, position))
			continue
		}
		m.decls = append(m.decls, declaration{position: position, annotation: a})
	}
	return m
}

// Custom 为参数添加校验函数
func (m *MethodBuilder) Custom(position int, check core.ValidateFunc, message string) *MethodBuilder {
	return m.Param(position, Custom(check, message))
}

// Predicate 为参数添加谓词
func (m *MethodBuilder) Predicate(position int, predicate core.UnaryPredicate, message string) *MethodBuilder {
	return m.Param(position, BuildCustomValidator(predicate, message))
}

// Tag 为参数添加 validator 标签规则，标签无法解析时在 Register 中报告
func (m *MethodBuilder) Tag(position int, tag, message string) *MethodBuilder {
	a, err := Tag(tag, message)
	if err != nil {
		m.errs = append(m.errs, fmt.Errorf("%s#%d: %w", m.key, position, err))
		return m
	}
	return m.Param(position, a)
}

// Method 切换到同一类型的另一个方法
func (m *MethodBuilder) Method(name string) *MethodBuilder {
	return m.parent.Method(name)
}

// Register 写入整个类型的声明
func (m *MethodBuilder) Register(reg registry.Writer) error {
	return m.parent.Register(reg)
}
