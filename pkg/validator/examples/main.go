package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	validator "katydid-common-param/pkg/validator"
	"katydid-common-param/pkg/validator/annotation"
	"katydid-common-param/pkg/validator/config"
	verrors "katydid-common-param/pkg/validator/errors"
	"katydid-common-param/pkg/validator/interceptor"
	"katydid-common-param/pkg/validator/plugin"
)

// UserRepo 用户仓库
type UserRepo struct {
	users map[string]string
}

// Save 保存用户 (id, name, email)
func (r *UserRepo) Save(args ...any) (any, error) {
	id := args[0].(string)
	r.users[id] = args[1].(string)
	return id, nil
}

// Rename 修改用户名
func (r *UserRepo) Rename(id string, name string) (string, error) {
	if _, ok := r.users[id]; !ok {
		return "", errors.New("user not found")
	}
	r.users[id] = name
	return name, nil
}

var formatter verrors.Formatter = verrors.NewDefaultFormatter()

// 类型注册阶段声明规则
func init() {
	b := validator.For((*UserRepo)(nil))
	b.Method("Save").
		Required(0, 1).
		Predicate(0, annotation.NotBlank, "id must not be blank").
		Tag(2, "omitempty,email", "email format is invalid")
	b.MustRegister(validator.Registry())
}

// 可以通过 PARAM_CONFIG 指定配置文件，声明式规则与代码声明共存
func main() {
	cfg, err := config.Load(os.Getenv("PARAM_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Apply(validator.Registry(), map[string]any{"UserRepo": (*UserRepo)(nil)}); err != nil {
		log.Fatal(err)
	}
	validator.Seal()

	formatter, err = cfg.NewFormatter()
	if err != nil {
		log.Fatal(err)
	}

	validator.SetDefaultInterceptor(validator.NewInterceptor(
		interceptor.WithLogger(logger),
		interceptor.WithHooks(plugin.NewLoggingPlugin(logger)),
	))

	repo := &UserRepo{users: map[string]string{}}
	save := validator.Validate(validator.KeyFor[UserRepo]("Save"), repo.Save)

	fmt.Println("=== 场景1：缺少必填参数 ===")
	report(save(nil))

	fmt.Println("\n=== 场景2：自定义校验失败 ===")
	report(save(" ", "alice", "not-an-email"))

	fmt.Println("\n=== 场景3：校验通过 ===")
	report(save("u1", "alice", "alice@example.com"))

	fmt.Println("\n=== 场景4：按名称绑定 ===")
	rename, err := validator.Bind(repo, "Rename")
	if err != nil {
		log.Fatal(err)
	}
	report(rename("u2", "bob"))

	fmt.Println("\n=== 统计 ===")
	fmt.Println(validator.DefaultInterceptor().Stats().ToMap())

	fmt.Println("\n=== 已注册规则 ===")
	if err := validator.Registry().DumpYAML(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func report(result any, err error) {
	if pe, ok := verrors.AsParameterError(err); ok {
		fmt.Println(formatter.Format(pe))
		return
	}
	if err != nil {
		fmt.Println("✗ 调用失败:", err)
		return
	}
	fmt.Println("✓ 调用成功:", result)
}
