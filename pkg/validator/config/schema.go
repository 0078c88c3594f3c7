package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"katydid-common-param/pkg/validator/annotation"
	"katydid-common-param/pkg/validator/registry"
)

// ApplySchemas 把声明式规则写入注册表
// owners 把配置中的类型名映射到原型值，例如 {"UserRepo": (*UserRepo)(nil)}
// 同一方法内必填位置与标签规则保持声明顺序；全部成功且配置了 seal 时冻结注册表
func ApplySchemas(reg *registry.Registry, specs []SchemaSpec, owners map[string]any, seal bool) error {
	var result *multierror.Error
	for i, s := range specs {
		owner, ok := owners[s.Owner]
		if !ok || owner == nil {
			result = multierror.Append(result, fmt.Errorf("%w: schemas[%d] %q", ErrUnknownOwner, i, s.Owner))
			continue
		}

		m := annotation.For(owner).Method(s.Method)
		m.Required(s.Required...)
		for _, r := range s.Rules {
			m.Tag(r.Position, r.Tag, r.Message)
		}
		if err := m.Register(reg); err != nil {
			result = multierror.Append(result, fmt.Errorf("schemas[%d] %s.%s: %w", i, s.Owner, s.Method, err))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	if seal {
		reg.Seal()
	}
	return nil
}

// Apply 按配置写入规则，SealAfterLoad 决定是否冻结注册表
func (c *Config) Apply(reg *registry.Registry, owners map[string]any) error {
	return ApplySchemas(reg, c.Schemas, owners, c.Validator.SealAfterLoad)
}

// Lint 检查声明式规则能否被应用，不写入注册表
// 报告所有无法解析的标签以及同一方法的重复声明
func Lint(specs []SchemaSpec) error {
	var result *multierror.Error
	seen := make(map[string]int, len(specs))
	for i, s := range specs {
		name := s.Owner + "." + s.Method
		if first, ok := seen[name]; ok {
			result = multierror.Append(result, fmt.Errorf("%w: schemas[%d] duplicates schemas[%d] (%s)", ErrInvalidConfig, i, first, name))
		} else {
			seen[name] = i
		}
		for j, r := range s.Rules {
			if _, err := annotation.TagCheck(r.Tag); err != nil {
				result = multierror.Append(result, fmt.Errorf("schemas[%d].rules[%d] %s: %w", i, j, name, err))
			}
		}
	}
	return result.ErrorOrNil()
}
