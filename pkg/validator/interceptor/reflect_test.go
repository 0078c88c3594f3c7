package interceptor_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-common-param/pkg/validator/annotation"
	"katydid-common-param/pkg/validator/core"
	"katydid-common-param/pkg/validator/interceptor"
	"katydid-common-param/pkg/validator/registry"
)

// profile 示例参数类型
type profile struct {
	Name string
}

// userService 使用真实签名的示例类型
type userService struct {
	created []string
}

func (s *userService) Create(name string, p *profile) (string, error) {
	s.created = append(s.created, name)
	return "user:" + name, nil
}

func (s *userService) Rename(id int, name string) error {
	if id == 404 {
		return errors.New("no such user")
	}
	return nil
}

func (s *userService) Split(a, b int) (int, int, error) {
	return a, b, nil
}

func (s *userService) Tags(tags ...string) error {
	return nil
}

func (s *userService) NoError(name string) string {
	return name
}

func registerUserService(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	b := annotation.For((*userService)(nil))
	b.Method("Create").
		Required(0, 1).
		Predicate(0, annotation.NotBlank, "name must not be blank")
	b.Method("Rename").
		Predicate(0, annotation.Positive, "id must be positive").
		Tag(1, "min=2,max=16", "name length 2..16")
	require.NoError(t, b.Register(reg))
	return reg
}

// ============================================================================
// 1. 泛型包装
// ============================================================================

func TestWrap(t *testing.T) {
	reg := registerUserService(t)
	ic := interceptor.New(reg)
	svc := &userService{}

	create := interceptor.Wrap2(ic, core.KeyFor[userService]("Create"), svc.Create)

	t.Run("nil 指针视为缺失", func(t *testing.T) {
		_, err := create("bob", nil)
		pe := mustParameterError(t, err)
		assert.Equal(t, []int{1}, pe.ParameterIndexes)
		assert.Empty(t, svc.created)
	})

	t.Run("通过", func(t *testing.T) {
		id, err := create("bob", &profile{Name: "Bob"})
		require.NoError(t, err)
		assert.Equal(t, "user:bob", id)
		assert.Equal(t, []string{"bob"}, svc.created)
	})

	t.Run("Wrap1", func(t *testing.T) {
		key := core.KeyFor[userService]("Lookup")
		require.NoError(t, annotation.BuildCustomValidator(annotation.Positive, "id must be positive")(reg, key, 0))
		lookup := interceptor.Wrap1(ic, key, func(id int) (string, error) {
			return fmt.Sprintf("user-%d", id), nil
		})
		_, err := lookup(0)
		assert.Error(t, err)
		name, err := lookup(3)
		require.NoError(t, err)
		assert.Equal(t, "user-3", name)
	})

	t.Run("Wrap3", func(t *testing.T) {
		key := core.KeyFor[userService]("Move")
		require.NoError(t, annotation.Required(reg, key, 2))
		move := interceptor.Wrap3(ic, key, func(from, to string, by *profile) (bool, error) {
			return true, nil
		})
		ok, err := move("a", "b", nil)
		assert.False(t, ok)
		pe := mustParameterError(t, err)
		assert.Equal(t, []int{2}, pe.ParameterIndexes)
	})
}

// ============================================================================
// 2. 反射包装
// ============================================================================

func TestWrapFunc(t *testing.T) {
	reg := registerUserService(t)
	ic := interceptor.New(reg)
	svc := &userService{}

	rename, err := interceptor.WrapFuncOf(ic, core.KeyFor[userService]("Rename"), svc.Rename)
	require.NoError(t, err)

	err = rename(-1, "x")
	pe := mustParameterError(t, err)
	assert.Equal(t, []int{0, 1}, pe.ParameterIndexes)
	assert.Equal(t, "Rename", pe.Method)

	assert.NoError(t, rename(1, "alice"))
	assert.EqualError(t, rename(404, "alice"), "no such user", "原方法的错误原样返回")
}

func TestWrapFunc_ZeroResultsOnFailure(t *testing.T) {
	reg := registry.New()
	key := core.KeyFor[userService]("Split")
	require.NoError(t, annotation.BuildCustomValidator(annotation.Positive, "a must be positive")(reg, key, 0))

	split, err := interceptor.WrapFuncOf(interceptor.New(reg), key, (&userService{}).Split)
	require.NoError(t, err)

	a, b, err := split(-1, 2)
	assert.Error(t, err)
	assert.Zero(t, a)
	assert.Zero(t, b)

	a, b, err = split(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestWrapFunc_RejectsBadSignatures(t *testing.T) {
	ic := interceptor.New(registry.New())
	svc := &userService{}
	key := core.KeyFor[userService]("X")

	_, err := ic.WrapFunc(key, 42)
	assert.True(t, errors.Is(err, interceptor.ErrNotFunc))

	var nilFn func() error
	_, err = ic.WrapFunc(key, nilFn)
	assert.True(t, errors.Is(err, interceptor.ErrNotFunc))

	_, err = ic.WrapFunc(key, svc.Tags)
	assert.True(t, errors.Is(err, interceptor.ErrVariadic))

	_, err = ic.WrapFunc(key, svc.NoError)
	assert.True(t, errors.Is(err, interceptor.ErrNoErrorResult))
}

// ============================================================================
// 3. 按名称绑定
// ============================================================================

func TestBind(t *testing.T) {
	reg := registerUserService(t)
	ic := interceptor.New(reg)
	svc := &userService{}

	create, err := ic.Bind(svc, "Create")
	require.NoError(t, err)

	t.Run("缺少参数", func(t *testing.T) {
		_, err := create("bob")
		pe := mustParameterError(t, err)
		assert.Equal(t, []int{1}, pe.ParameterIndexes)
	})

	t.Run("自定义校验失败", func(t *testing.T) {
		_, err := create(" ", &profile{})
		pe := mustParameterError(t, err)
		assert.Equal(t, []int{0}, pe.ParameterIndexes)
	})

	t.Run("通过", func(t *testing.T) {
		result, err := create("bob", &profile{})
		require.NoError(t, err)
		assert.Equal(t, "user:bob", result)
	})

	t.Run("类型不匹配", func(t *testing.T) {
		_, err := create("bob", "not a profile")
		assert.True(t, errors.Is(err, interceptor.ErrArgType))
	})

	t.Run("多余参数", func(t *testing.T) {
		_, err := create("bob", &profile{}, 1)
		assert.True(t, errors.Is(err, interceptor.ErrArgCount))
	})

	t.Run("多个返回值", func(t *testing.T) {
		split, err := ic.Bind(svc, "Split")
		require.NoError(t, err)
		result, err := split(1, 2)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, result)
	})

	t.Run("只有 error 返回值", func(t *testing.T) {
		rename, err := ic.Bind(svc, "Rename")
		require.NoError(t, err)
		result, err := rename(1, "alice")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("找不到方法", func(t *testing.T) {
		_, err := ic.Bind(svc, "Missing")
		assert.True(t, errors.Is(err, interceptor.ErrMethodNotFound))
		_, err = ic.Bind(nil, "Create")
		assert.True(t, errors.Is(err, interceptor.ErrMethodNotFound))
		_, err = ic.Bind(svc, "Tags")
		assert.True(t, errors.Is(err, interceptor.ErrVariadic))
	})
}
