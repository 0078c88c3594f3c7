package interceptor

import (
	"errors"
	"fmt"
	"reflect"

	"katydid-common-param/pkg/validator/core"
)

var (
	// ErrNotFunc 被包装的对象不是函数
	ErrNotFunc = errors.New("target is not a function")

	// ErrVariadic 不支持可变参数函数
	ErrVariadic = errors.New("variadic functions are not supported")

	// ErrNoErrorResult 函数最后一个返回值必须是 error
	ErrNoErrorResult = errors.New("last result must be error")

	// ErrMethodNotFound 接收者上没有该方法
	ErrMethodNotFound = errors.New("method not found")

	// ErrArgCount 实际参数个数与方法签名不一致
	ErrArgCount = errors.New("argument count mismatch")

	// ErrArgType 实际参数类型无法赋值给方法参数
	ErrArgType = errors.New("argument type mismatch")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// WrapFunc 通过反射生成与 fn 签名相同的校验包装函数
// fn 的最后一个返回值必须是 error，校验失败时其他返回值为零值
func (ic *Interceptor) WrapFunc(key core.MethodKey, fn any) (any, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("%w: %T", ErrNotFunc, fn)
	}
	ft := fv.Type()
	if err := checkSignature(ft); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	wrapper := reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		args := make([]any, len(in))
		for i, v := range in {
			args[i] = v.Interface()
		}

		var out []reflect.Value
		err := ic.invoke(key, args, func() error {
			out = fv.Call(in)
			if last := out[len(out)-1]; !last.IsNil() {
				return last.Interface().(error)
			}
			return nil
		})

		if out == nil {
			out = make([]reflect.Value, ft.NumOut())
			for i := range out {
				out[i] = reflect.Zero(ft.Out(i))
			}
		}
		if err != nil {
			out[len(out)-1] = reflect.ValueOf(&err).Elem()
		}
		return out
	})
	return wrapper.Interface(), nil
}

// WrapFuncOf 泛型版本的 WrapFunc
func WrapFuncOf[F any](ic *Interceptor, key core.MethodKey, fn F) (F, error) {
	wrapped, err := ic.WrapFunc(key, fn)
	if err != nil {
		var zero F
		return zero, err
	}
	return wrapped.(F), nil
}

// Bind 按名称在接收者上查找方法，返回带校验的统一调用形式
// 方法键由接收者类型和方法名组成；返回值：单个结果直接返回，多个结果以 []any 返回
func (ic *Interceptor) Bind(recv any, method string) (core.MethodFunc, error) {
	if recv == nil {
		return nil, fmt.Errorf("%w: nil receiver", ErrMethodNotFound)
	}
	m := reflect.ValueOf(recv).MethodByName(method)
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %T.%s", ErrMethodNotFound, recv, method)
	}
	mt := m.Type()
	key := core.KeyOf(recv, method)
	if err := checkSignature(mt); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	call := func(args ...any) (any, error) {
		in, err := toValues(mt, args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return splitResults(m.Call(in))
	}
	return ic.Validate(key, call), nil
}

func checkSignature(ft reflect.Type) error {
	if ft.IsVariadic() {
		return ErrVariadic
	}
	if ft.NumOut() == 0 || ft.Out(ft.NumOut()-1) != errorType {
		return ErrNoErrorResult
	}
	return nil
}

// toValues 把统一参数转换为反射调用参数，nil 转为对应类型的零值
func toValues(mt reflect.Type, args []any) ([]reflect.Value, error) {
	if len(args) != mt.NumIn() {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArgCount, mt.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := mt.In(i)
		if arg == nil {
			in[i] = reflect.Zero(want)
			continue
		}
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(want) {
			return nil, fmt.Errorf("%w: position %d want %s, got %s", ErrArgType, i, want, v.Type())
		}
		in[i] = v
	}
	return in, nil
}

func splitResults(out []reflect.Value) (any, error) {
	var err error
	if last := out[len(out)-1]; !last.IsNil() {
		err = last.Interface().(error)
	}
	values := out[:len(out)-1]
	switch len(values) {
	case 0:
		return nil, err
	case 1:
		return values[0].Interface(), err
	default:
		results := make([]any, len(values))
		for i, v := range values {
			results[i] = v.Interface()
		}
		return results, err
	}
}
