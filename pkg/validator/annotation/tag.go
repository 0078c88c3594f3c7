package annotation

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"katydid-common-param/pkg/validator/core"
	verrors "katydid-common-param/pkg/validator/errors"
)

var (
	// tagValidate 标签校验使用的底层验证器（go-playground/validator），全局单例
	tagValidate *validator.Validate
	tagOnce     sync.Once
)

func underlying() *validator.Validate {
	tagOnce.Do(func() {
		tagValidate = validator.New()
	})
	return tagValidate
}

// Tag 使用 go-playground/validator 的标签表达式构造参数注解
//
// 示例：
//
//	annotation.For((*UserRepo)(nil)).Method("Save").
//	    Param(1, annotation.MustTag("required,min=1,max=64", "name length must be 1..64"))
//
// 标签在构造时解析，无法解析返回 ErrInvalidTag
func Tag(tag, message string) (ParamAnnotation, error) {
	check, err := TagCheck(tag)
	if err != nil {
		return nil, err
	}
	return Custom(check, message), nil
}

// MustTag 同 Tag，标签无法解析时 panic
// 用于包初始化阶段的静态声明
func MustTag(tag, message string) ParamAnnotation {
	a, err := Tag(tag, message)
	if err != nil {
		panic(err)
	}
	return a
}

// TagCheck 把标签表达式转换为校验函数
// 参数不满足标签时返回空消息的 *ParameterError；
// 标签不适用于参数类型时（底层验证器 panic）返回 ErrTagEvaluation，作为非参数错误向上传递
func TagCheck(tag string) (core.ValidateFunc, error) {
	if err := parseTag(tag); err != nil {
		return nil, err
	}
	v := underlying()
	return func(arg any) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: tag %q on %T: %v", ErrTagEvaluation, tag, arg, r)
			}
		}()
		if vErr := v.Var(arg, tag); vErr != nil {
			return &verrors.ParameterError{}
		}
		return nil
	}, nil
}

// parseTag 预先解析标签，底层验证器遇到未定义的校验函数会 panic
// 以 nil 作为值只解析标签，不执行任何校验函数；类型相关的问题留到调用时报告
func parseTag(tag string) (err error) {
	if tag == "" {
		return fmt.Errorf("%w: empty tag", ErrInvalidTag)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %q: %v", ErrInvalidTag, tag, r)
		}
	}()
	_ = underlying().Var(nil, tag)
	return nil
}
