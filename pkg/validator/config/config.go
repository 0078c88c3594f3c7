package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	verrors "katydid-common-param/pkg/validator/errors"
)

// EnvPrefix 环境变量前缀，例如 PARAM_LOG_LEVEL 覆盖 log.level
const EnvPrefix = "PARAM"

// Config 参数校验组件的配置
type Config struct {
	Log       LogConfig       `mapstructure:"log" json:"log" yaml:"log"`
	Validator ValidatorConfig `mapstructure:"validator" json:"validator" yaml:"validator"`
	Schemas   []SchemaSpec    `mapstructure:"schemas" json:"schemas" yaml:"schemas"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" json:"level" yaml:"level"`          // debug | info | warn | error
	Encoding   string `mapstructure:"encoding" json:"encoding" yaml:"encoding"` // json | console
	File       string `mapstructure:"file" json:"file" yaml:"file"`             // 为空时输出到 stderr
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// ValidatorConfig 校验行为配置
type ValidatorConfig struct {
	// Formatter 错误格式化器名称：default | json | detailed
	Formatter string `mapstructure:"formatter" json:"formatter" yaml:"formatter"`

	// SealAfterLoad 加载声明式规则后冻结注册表
	SealAfterLoad bool `mapstructure:"seal_after_load" json:"seal_after_load" yaml:"seal_after_load"`
}

// SchemaSpec 声明式的方法规则
type SchemaSpec struct {
	Owner    string     `mapstructure:"owner" json:"owner" yaml:"owner"`
	Method   string     `mapstructure:"method" json:"method" yaml:"method"`
	Required []int      `mapstructure:"required" json:"required,omitempty" yaml:"required,omitempty"`
	Rules    []RuleSpec `mapstructure:"rules" json:"rules,omitempty" yaml:"rules,omitempty"`
}

// RuleSpec 基于 validator 标签的参数规则
type RuleSpec struct {
	Position int    `mapstructure:"position" json:"position" yaml:"position"`
	Tag      string `mapstructure:"tag" json:"tag" yaml:"tag"`
	Message  string `mapstructure:"message" json:"message,omitempty" yaml:"message,omitempty"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Encoding:   "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Validator: ValidatorConfig{
			Formatter:     "default",
			SealAfterLoad: true,
		},
	}
}

// Load 读取配置文件并应用环境变量覆盖
// path 为空时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults 登记默认值，AutomaticEnv 只覆盖已知的键
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.encoding", def.Log.Encoding)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.max_age_days", def.Log.MaxAgeDays)
	v.SetDefault("log.compress", def.Log.Compress)
	v.SetDefault("validator.formatter", def.Validator.Formatter)
	v.SetDefault("validator.seal_after_load", def.Validator.SealAfterLoad)
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.encoding %q", ErrInvalidConfig, c.Log.Encoding)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation values must be >= 0", ErrInvalidConfig)
	}
	if _, err := verrors.NewFormatter(c.Validator.Formatter); err != nil {
		return fmt.Errorf("%w: validator.formatter: %v", ErrInvalidConfig, err)
	}

	for i, s := range c.Schemas {
		if s.Owner == "" || s.Method == "" {
			return fmt.Errorf("%w: schemas[%d] needs owner and method", ErrInvalidConfig, i)
		}
		for _, p := range s.Required {
			if p < 0 {
				return fmt.Errorf("%w: schemas[%d] required position %d", ErrInvalidConfig, i, p)
			}
		}
		for j, r := range s.Rules {
			if r.Position < 0 || r.Tag == "" {
				return fmt.Errorf("%w: schemas[%d].rules[%d] needs position >= 0 and tag", ErrInvalidConfig, i, j)
			}
		}
	}
	return nil
}

// NewFormatter 按配置创建错误格式化器
func (c *Config) NewFormatter() (verrors.Formatter, error) {
	return verrors.NewFormatter(c.Validator.Formatter)
}
