package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

const (
	// MessageMissingRequired 必填校验失败时的错误消息
	MessageMissingRequired = "missing required parameters"

	// maxMessageLength 错误消息的最大长度，防止异常的超长消息
	maxMessageLength = 2048
)

// ErrParameter 参数错误哨兵，errors.Is(err, ErrParameter) 对任意 *ParameterError 成立
var ErrParameter = stderrors.New("parameter error")

// ParameterError 参数校验错误
// 职责：描述一次调用中所有不合法的参数位置
// 不变量：返回给调用方时 len(Detail) == len(ParameterIndexes)
type ParameterError struct {
	// Message 总体错误消息
	Message string `json:"message"`

	// Method 出错的方法名，归属前为空
	Method string `json:"method"`

	// ParameterIndexes 不合法参数的位置，按发现顺序排列
	ParameterIndexes []int `json:"parameter_indexes"`

	// Detail 每个位置一条可读描述，与 ParameterIndexes 下标对齐
	Detail []string `json:"detail"`
}

// NewParameterError 创建参数错误
func NewParameterError(message, method string, indexes []int, detail []string) *ParameterError {
	message = truncate(message, maxMessageLength)
	e := &ParameterError{
		Message: message,
		Method:  method,
	}
	if len(indexes) > 0 {
		e.ParameterIndexes = append(make([]int, 0, len(indexes)), indexes...)
	}
	if len(detail) > 0 {
		e.Detail = append(make([]string, 0, len(detail)), detail...)
	}
	return e
}

// truncate 按字节上限截断，不拆分多字节字符
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// NewMissingRequiredError 创建必填参数缺失错误，每个缺失位置一条描述
func NewMissingRequiredError(method string, missing []int) *ParameterError {
	detail := make([]string, len(missing))
	for i, position := range missing {
		detail[i] = MissingDetail(position)
	}
	return NewParameterError(MessageMissingRequired, method, missing, detail)
}

// NewCustomError 创建自定义校验聚合错误，包含第一个失败的位置
func NewCustomError(method string, position int, message string) *ParameterError {
	return NewParameterError(CustomMessage(method), method, []int{position}, []string{WrongDetail(position, message)})
}

// CustomMessage 自定义校验聚合错误的总体消息
func CustomMessage(method string) string {
	return "Parameter error when calling method " + method
}

// MissingDetail 必填参数缺失的描述
func MissingDetail(position int) string {
	return fmt.Sprintf("Position parameter %d must be provided", position)
}

// WrongDetail 自定义校验失败的描述
func WrongDetail(position int, message string) string {
	return fmt.Sprintf("Position parameter %d wrong: %s", position, message)
}

// Append 原地追加一个失败位置及其描述
func (e *ParameterError) Append(index int, detail string) *ParameterError {
	e.ParameterIndexes = append(e.ParameterIndexes, index)
	e.Detail = append(e.Detail, detail)
	return e
}

// WithMethod 设置出错的方法名
func (e *ParameterError) WithMethod(method string) *ParameterError {
	e.Method = method
	return e
}

// Count 失败位置数量
func (e *ParameterError) Count() int {
	return len(e.ParameterIndexes)
}

// HasIndex 是否包含指定位置
func (e *ParameterError) HasIndex(index int) bool {
	for _, i := range e.ParameterIndexes {
		if i == index {
			return true
		}
	}
	return false
}

// Error 实现 error 接口
func (e *ParameterError) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(ErrParameter.Error())
	}
	if len(e.ParameterIndexes) > 0 {
		b.WriteString(" (positions ")
		for i, index := range e.ParameterIndexes {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(strconv.Itoa(index))
		}
		b.WriteString(")")
	}
	return b.String()
}

// Is 支持 errors.Is(err, ErrParameter)
func (e *ParameterError) Is(target error) bool {
	return target == ErrParameter
}

// ToJSON 转换为 JSON 格式
func (e *ParameterError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// AsParameterError 从错误链中提取 *ParameterError
func AsParameterError(err error) (*ParameterError, bool) {
	if err == nil {
		return nil, false
	}
	var pe *ParameterError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
