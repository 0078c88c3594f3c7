package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-common-param/pkg/validator/annotation"
	"katydid-common-param/pkg/validator/config"
	"katydid-common-param/pkg/validator/core"
	verrors "katydid-common-param/pkg/validator/errors"
	"katydid-common-param/pkg/validator/interceptor"
	"katydid-common-param/pkg/validator/registry"
)

const sampleYAML = `
log:
  level: debug
  encoding: console
validator:
  formatter: detailed
  seal_after_load: true
schemas:
  - owner: accountRepo
    method: Open
    required: [0, 1]
    rules:
      - position: 0
        tag: "min=3,max=16"
        message: "name length 3..16"
      - position: 1
        tag: "oneof=basic premium"
        message: "plan must be basic or premium"
`

type accountRepo struct{}

func (r *accountRepo) Open(args ...any) (any, error) {
	return "opened", nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ============================================================================
// 1. 加载配置
// ============================================================================

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "param.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB, "未配置的键使用默认值")
	assert.Equal(t, "detailed", cfg.Validator.Formatter)
	assert.True(t, cfg.Validator.SealAfterLoad)

	require.Len(t, cfg.Schemas, 1)
	assert.Equal(t, "accountRepo", cfg.Schemas[0].Owner)
	assert.Equal(t, []int{0, 1}, cfg.Schemas[0].Required)
	require.Len(t, cfg.Schemas[0].Rules, 2)
	assert.Equal(t, "oneof=basic premium", cfg.Schemas[0].Rules[1].Tag)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default().Log, cfg.Log)
	assert.Equal(t, config.Default().Validator, cfg.Validator)
	assert.Empty(t, cfg.Schemas)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PARAM_LOG_LEVEL", "warn")
	t.Setenv("PARAM_VALIDATOR_FORMATTER", "json")

	cfg, err := config.Load(writeFile(t, "param.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Validator.Formatter)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"非法日志级别", "log: {level: loud}", config.ErrInvalidConfig},
		{"非法编码", "log: {encoding: xml}", config.ErrInvalidConfig},
		{"未知格式化器", "validator: {formatter: fancy}", config.ErrInvalidConfig},
		{"缺少方法名", "schemas: [{owner: accountRepo}]", config.ErrInvalidConfig},
		{"负数位置", "schemas: [{owner: a, method: b, required: [-1]}]", config.ErrInvalidConfig},
		{"规则缺少标签", "schemas: [{owner: a, method: b, rules: [{position: 0}]}]", config.ErrInvalidConfig},
		{"语法错误", "log: [", config.ErrReadConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "param.yaml", tt.content))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	t.Run("文件不存在", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.True(t, errors.Is(err, config.ErrReadConfig))
	})
}

func TestConfig_NewFormatter(t *testing.T) {
	cfg := config.Default()
	cfg.Validator.Formatter = "json"
	f, err := cfg.NewFormatter()
	require.NoError(t, err)
	assert.Contains(t, f.Format(verrors.NewMissingRequiredError("Open", []int{0})), `"method":"Open"`)
}

// ============================================================================
// 2. 声明式规则
// ============================================================================

func TestApply(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "param.yaml", sampleYAML))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, cfg.Apply(reg, map[string]any{"accountRepo": (*accountRepo)(nil)}))
	assert.True(t, reg.Sealed())

	key := core.KeyFor[accountRepo]("Open")
	schema, ok := reg.Get(key)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, schema.RequiredPositions)
	require.Len(t, schema.CustomValidators, 2)
	assert.Equal(t, "name length 3..16", schema.CustomValidators[0].Message)

	open := interceptor.New(reg).Validate(key, (&accountRepo{}).Open)

	_, err = open("al")
	pe, ok := verrors.AsParameterError(err)
	require.True(t, ok)
	assert.Equal(t, []int{1}, pe.ParameterIndexes)

	_, err = open("al", "gold")
	pe, ok = verrors.AsParameterError(err)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, pe.ParameterIndexes)

	result, err := open("alice", "basic")
	require.NoError(t, err)
	assert.Equal(t, "opened", result)
}

func TestApplySchemas_Errors(t *testing.T) {
	owners := map[string]any{"accountRepo": (*accountRepo)(nil)}

	t.Run("未登记的类型", func(t *testing.T) {
		reg := registry.New()
		err := config.ApplySchemas(reg, []config.SchemaSpec{{Owner: "ghost", Method: "Open"}}, owners, true)
		assert.True(t, errors.Is(err, config.ErrUnknownOwner))
		assert.False(t, reg.Sealed(), "失败时不冻结")
	})

	t.Run("无法解析的标签", func(t *testing.T) {
		specs := []config.SchemaSpec{{
			Owner:  "accountRepo",
			Method: "Open",
			Rules:  []config.RuleSpec{{Position: 0, Tag: "no_such_tag"}},
		}}
		err := config.ApplySchemas(registry.New(), specs, owners, false)
		assert.True(t, errors.Is(err, annotation.ErrInvalidTag))
	})

	t.Run("已冻结的注册表", func(t *testing.T) {
		reg := registry.New()
		reg.Seal()
		specs := []config.SchemaSpec{{Owner: "accountRepo", Method: "Open", Required: []int{0}}}
		err := config.ApplySchemas(reg, specs, owners, false)
		assert.True(t, errors.Is(err, registry.ErrRegistrySealed))
	})
}

// ============================================================================
// 3. 日志
// ============================================================================

func TestNewLogger(t *testing.T) {
	t.Run("控制台", func(t *testing.T) {
		logger, err := config.NewLogger(config.LogConfig{Level: "debug", Encoding: "console"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(-1))
	})

	t.Run("滚动文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "param.log")
		logger, err := config.NewLogger(config.LogConfig{Level: "info", Encoding: "json", File: path, MaxSizeMB: 1})
		require.NoError(t, err)
		logger.Info("hello")
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
		assert.False(t, logger.Core().Enabled(-1), "info 级别不输出 debug")
	})

	t.Run("非法配置", func(t *testing.T) {
		_, err := config.NewLogger(config.LogConfig{Level: "loud"})
		assert.True(t, errors.Is(err, config.ErrInvalidConfig))
		_, err = config.NewLogger(config.LogConfig{Encoding: "xml"})
		assert.True(t, errors.Is(err, config.ErrInvalidConfig))
	})
}

func TestLint(t *testing.T) {
	cfg, err := config.Load(writeFile(t, "param.yaml", sampleYAML))
	require.NoError(t, err)
	assert.NoError(t, config.Lint(cfg.Schemas))

	specs := []config.SchemaSpec{
		{Owner: "a", Method: "b", Rules: []config.RuleSpec{{Position: 0, Tag: "bogus_rule"}}},
		{Owner: "a", Method: "b"},
	}
	err = config.Lint(specs)
	assert.True(t, errors.Is(err, annotation.ErrInvalidTag))
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}
