package errors

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// 格式化器名称，与配置文件中的 validator.formatter 对应
const (
	FormatterDefault  = "default"
	FormatterJSON     = "json"
	FormatterDetailed = "detailed"
)

// Formatter 参数错误格式化器
type Formatter interface {
	// Format 格式化为单个字符串
	Format(err *ParameterError) string

	// FormatAll 每个失败位置格式化为一条消息
	FormatAll(err *ParameterError) []string
}

// NewFormatter 按名称创建格式化器，未知名称返回 ErrUnknownFormatter
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", FormatterDefault:
		return NewDefaultFormatter(), nil
	case FormatterJSON:
		return NewJSONFormatter(), nil
	case FormatterDetailed:
		return NewDetailedFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormatter, name)
	}
}

// ============================================================================
// 默认格式化器 - 简单格式
// ============================================================================

type defaultFormatter struct{}

// NewDefaultFormatter 创建默认格式化器
func NewDefaultFormatter() Formatter {
	return &defaultFormatter{}
}

// Format 返回 Error() 的内容
func (f *defaultFormatter) Format(err *ParameterError) string {
	return err.Error()
}

// FormatAll 直接返回 Detail
func (f *defaultFormatter) FormatAll(err *ParameterError) []string {
	return append([]string(nil), err.Detail...)
}

// ============================================================================
// JSON 格式化器 - 适合 API 返回
// ============================================================================

type jsonFormatter struct{}

// NewJSONFormatter 创建 JSON 格式化器
func NewJSONFormatter() Formatter {
	return &jsonFormatter{}
}

type positionEntry struct {
	Method   string `json:"method"`
	Position int    `json:"position"`
	Detail   string `json:"detail"`
}

// Format 整个错误序列化为 JSON
func (f *jsonFormatter) Format(err *ParameterError) string {
	data, mErr := err.ToJSON()
	if mErr != nil {
		return err.Error()
	}
	return string(data)
}

// FormatAll 每个位置序列化为一个 JSON 对象
func (f *jsonFormatter) FormatAll(err *ParameterError) []string {
	messages := make([]string, 0, len(err.ParameterIndexes))
	for i, index := range err.ParameterIndexes {
		data, mErr := json.Marshal(positionEntry{
			Method:   err.Method,
			Position: index,
			Detail:   detailAt(err, i),
		})
		if mErr != nil {
			messages = append(messages, detailAt(err, i))
			continue
		}
		messages = append(messages, string(data))
	}
	return messages
}

// ============================================================================
// 详细格式化器 - 包含所有信息
// ============================================================================

type detailedFormatter struct{}

// NewDetailedFormatter 创建详细格式化器
func NewDetailedFormatter() Formatter {
	return &detailedFormatter{}
}

// Format 多行输出，首行为总体消息
func (f *detailedFormatter) Format(err *ParameterError) string {
	lines := append([]string{fmt.Sprintf("[%s] %s", err.Method, err.Message)}, f.FormatAll(err)...)
	return strings.Join(lines, "\n")
}

// FormatAll 每个位置一行
func (f *detailedFormatter) FormatAll(err *ParameterError) []string {
	messages := make([]string, len(err.ParameterIndexes))
	for i, index := range err.ParameterIndexes {
		messages[i] = fmt.Sprintf("  - %s#%d: %s", err.Method, index, detailAt(err, i))
	}
	return messages
}

func detailAt(err *ParameterError, i int) string {
	if i < len(err.Detail) {
		return err.Detail[i]
	}
	return ""
}
