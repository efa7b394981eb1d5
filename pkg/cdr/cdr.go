// Package cdr 实现 OMG CDR（Common Data Representation）的编解码。
//
// 线格式：
//   - 基本类型按自身宽度（1/2/4/8）相对会话起点对齐，填充为 0x00。
//   - 字符串：对齐到 4，u32 长度（字节数+1），内容，结尾 0x00。
//   - 序列：对齐到 4，u32 元素个数，随后逐个元素。
//   - 枚举/联合：对齐到 4，u32 判别值，随后为负载。
//   - 结构体/数组：无前缀，按声明顺序逐个字段。
//
// 空字符串编码为 00 00 00 01 00（大端），空序列编码为 00 00 00 00。
// 不处理 DDS/RTPS 的封装头。
package cdr

import (
	"io"

	"github.com/cockroachdb/errors"
)

// SizeOf 返回 v 编码后的字节数，不分配输出缓冲区。
// 有界策略下超限时返回 ErrSizeExceeded。
func SizeOf(v any, opts ...Option) (uint64, error) {
	return sizeOf(v, newOptions(opts))
}

func sizeOf(v any, o *options) (uint64, error) {
	s := newSizer(o)
	if err := WriteValue(s, v); err != nil {
		return 0, err
	}
	return s.Size(), nil
}

// Marshal 把 v 编码为 CDR 字节序列。
//
// 先计算大小再按大小一次性分配缓冲区；超限等失败时不返回任何字节。
func Marshal(v any, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	size, err := sizeOf(v, o)
	if err != nil {
		return nil, err
	}
	enc := newEncoder(o, make([]byte, 0, size))
	if err := WriteValue(enc, v); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// MarshalTo 把 v 编码后写入 w，返回写入的字节数。
// 编码失败时不会向 w 写入任何内容。
func MarshalTo(w io.Writer, v any, opts ...Option) (int, error) {
	data, err := Marshal(v, opts...)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return n, errors.Wrap(err, "cdr: write encoded value")
	}
	return n, nil
}

// Unmarshal 从 data 解码到 v，v 必须是非 nil 指针。
//
// 失败时 v 保持调用前的内容。解码完成后 data 中剩余的字节不视为错误。
// 字符串按原始字节读取，不校验 UTF-8。
func Unmarshal(data []byte, v any, opts ...Option) error {
	return ReadValue(NewDecoder(data, opts...), v)
}
