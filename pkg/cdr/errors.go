package cdr

import "github.com/lk2023060901/cdr-go/pkg/util/merr"

// 编解码错误分类，均可通过 errors.Is 匹配，错误码见 merr.Code。
var (
	// ErrSizeExceeded 表示有界策略的上限会被突破。
	ErrSizeExceeded error = merr.ErrCdrSizeExceeded
	// ErrEndOfInput 表示解码时（含跳过填充）读到了输入末尾之外。
	ErrEndOfInput error = merr.ErrCdrEndOfInput
	// ErrInvalidEncoding 表示输入违反了线格式约束，例如布尔字节不是 0/1。
	ErrInvalidEncoding error = merr.ErrCdrInvalidEncoding
	// ErrTypeNotSupported 表示值的形态无法用 CDR 表达，例如 map 或 nil 指针。
	ErrTypeNotSupported error = merr.ErrCdrTypeNotSupported
	// ErrNumberOutOfRange 表示长度超出 u32 或 char 不是 ASCII。
	ErrNumberOutOfRange error = merr.ErrCdrNumberOutOfRange
)
