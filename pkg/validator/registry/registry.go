package registry

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"katydid-common-param/pkg/validator/core"
)

var (
	// ErrRegistrySealed 注册表已封存，不再接受写入
	ErrRegistrySealed = errors.New("schema registry is sealed")

	// ErrInvalidKey 方法键不完整（缺少类型或方法名）
	ErrInvalidKey = errors.New("invalid method key")
)

// Reader 注册表的只读视图，拦截器只依赖这个接口
type Reader interface {
	// Get 获取方法的校验规则，不存在时返回 false
	Get(key core.MethodKey) (core.Schema, bool)
}

// Writer 注册表的写入视图，注册器只依赖这个接口
type Writer interface {
	Reader

	// Set 覆盖写入方法的校验规则
	Set(key core.MethodKey, schema core.Schema) error

	// Update 读取-合并-写回，fn 收到的 schema 在不存在时为零值
	Update(key core.MethodKey, fn func(core.Schema) core.Schema) error
}

// Registry 校验规则注册表（元数据存储）
// 职责：按 (所属类型, 方法名) 保存每个方法的校验规则
//
// 生命周期：
//   - 启动阶段（类型注册时）写入规则
//   - 调用 Seal 之后只读，写入返回 ErrRegistrySealed
//   - 读取是纯查找，可并发
type Registry struct {
	schemas map[core.MethodKey]core.Schema
	sealed  bool
	mu      sync.RWMutex
}

var (
	// defaultRegistry 全局注册表实例（单例）
	defaultRegistry *Registry

	// registryOnce 确保全局注册表只初始化一次
	registryOnce sync.Once
)

// Default 获取全局注册表
func Default() *Registry {
	registryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// New 创建独立的注册表（单元测试、隔离配置）
func New() *Registry {
	return &Registry{
		schemas: make(map[core.MethodKey]core.Schema),
	}
}

// Get 获取方法的校验规则
// 返回的是副本，调用方修改不会影响注册表
func (r *Registry) Get(key core.MethodKey) (core.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[key]
	if !ok {
		return core.Schema{}, false
	}
	return schema.Clone(), true
}

// Set 写入方法的校验规则
func (r *Registry) Set(key core.MethodKey, schema core.Schema) error {
	if !key.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: set %s", ErrRegistrySealed, key)
	}
	r.schemas[key] = schema.Clone()
	return nil
}

// Update 在写锁内完成读取-合并-写回
func (r *Registry) Update(key core.MethodKey, fn func(core.Schema) core.Schema) error {
	if !key.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: update %s", ErrRegistrySealed, key)
	}
	r.schemas[key] = fn(r.schemas[key].Clone()).Clone()
	return nil
}

// Seal 封存注册表，之后所有写入都会失败
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed 是否已封存
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Len 已注册的方法数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

// Keys 返回所有方法键，按名称排序
func (r *Registry) Keys() []core.MethodKey {
	r.mu.RLock()
	keys := make([]core.MethodKey, 0, len(r.schemas))
	for key := range r.schemas {
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Clear 清空注册表并解除封存
// 仅用于测试
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas = make(map[core.MethodKey]core.Schema)
	r.sealed = false
}

// ============================================================================
// 诊断输出
// ============================================================================

// RuleDescription 单个自定义校验器的描述
type RuleDescription struct {
	Position int    `yaml:"position"`
	Message  string `yaml:"message"`
}

// SchemaDescription 单个方法校验规则的描述
type SchemaDescription struct {
	Method   string            `yaml:"method"`
	Required []int             `yaml:"required,omitempty"`
	Rules    []RuleDescription `yaml:"rules,omitempty"`
}

// Describe 返回所有方法的规则描述，按方法名排序
func (r *Registry) Describe() []SchemaDescription {
	keys := r.Keys()
	out := make([]SchemaDescription, 0, len(keys))
	for _, key := range keys {
		schema, ok := r.Get(key)
		if !ok {
			continue
		}
		desc := SchemaDescription{
			Method:   key.String(),
			Required: schema.RequiredPositions,
		}
		for _, v := range schema.CustomValidators {
			desc.Rules = append(desc.Rules, RuleDescription{Position: v.Position, Message: v.Message})
		}
		out = append(out, desc)
	}
	return out
}

// DumpYAML 以 YAML 输出规则描述
func (r *Registry) DumpYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.Describe()); err != nil {
		return fmt.Errorf("encode schemas: %w", err)
	}
	return enc.Close()
}
