package ledger

import "errors"

// Failure taxonomy shared by the core and every Sync Adapter implementation.
var (
	// ErrValidation 表示请求缺失或包含非法字段，不应重试
	ErrValidation = errors.New("validation failed")
	// ErrNotFound 表示目标条目或日期不存在
	ErrNotFound = errors.New("not found")
	// ErrNetwork 表示暂时性的网络故障，可以安全重试
	ErrNetwork = errors.New("network error")
	// ErrServer 表示存储端返回的不透明错误
	ErrServer = errors.New("server error")
	// ErrBusy 表示同一条目已有写操作在进行中
	ErrBusy = errors.New("entry has a write in flight")
)

// Retryable reports whether err is a transient failure.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}
