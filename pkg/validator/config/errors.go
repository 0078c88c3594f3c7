package config

import "errors"

var (
	// ErrReadConfig 配置文件无法读取或解析
	ErrReadConfig = errors.New("failed to read config")

	// ErrInvalidConfig 配置项取值不合法
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownOwner 规则声明的所属类型没有登记
	ErrUnknownOwner = errors.New("unknown schema owner")
)
