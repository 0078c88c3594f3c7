package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	verrors "katydid-common-param/pkg/validator/errors"
)

// CodeParameterError 响应体中的错误码
const CodeParameterError = "parameter_error"

// ErrorHandler 把处理器记录的参数错误渲染为 400 响应
// 只处理 c.Errors 中最后一个 *ParameterError；其他错误和已写出的响应保持不变
func ErrorHandler(formatter verrors.Formatter) gin.HandlerFunc {
	if formatter == nil {
		formatter = verrors.NewDefaultFormatter()
	}
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		pe := lastParameterError(c)
		if pe == nil {
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"code":              CodeParameterError,
			"message":           pe.Message,
			"method":            pe.Method,
			"parameter_indexes": pe.ParameterIndexes,
			"detail":            pe.Detail,
			"errors":            formatter.FormatAll(pe),
		})
	}
}

// Abort 记录错误并中止后续处理器
func Abort(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.Abort()
}

func lastParameterError(c *gin.Context) *verrors.ParameterError {
	for i := len(c.Errors) - 1; i >= 0; i-- {
		if pe, ok := verrors.AsParameterError(c.Errors[i].Err); ok {
			return pe
		}
	}
	return nil
}
