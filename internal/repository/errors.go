package repository

import "errors"

var (
	// ErrDuplicateKey 主键冲突（运单号已存在）
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound 待更新的记录不存在
	ErrNotFound = errors.New("record not found")
)
