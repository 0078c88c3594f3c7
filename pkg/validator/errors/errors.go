package errors

import stderrors "errors"

var (
	// ErrUnknownFormatter 未知的格式化器名称
	ErrUnknownFormatter = stderrors.New("unknown error formatter")
)
