package cdr

import (
	"math"

	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

// Encoder 把基本类型按 CDR 规则追加到内部缓冲区。
//
// 每次写入依次执行：对齐 -> 大小策略校验 -> 追加。首个错误之后的写入全部忽略，
// 此时缓冲区内容不完整，必须丢弃。
type Encoder struct {
	cursor
	order byteOrder
	buf   []byte
	err   error
}

var _ Writer = (*Encoder)(nil)

// NewEncoder 创建编码器。
func NewEncoder(opts ...Option) *Encoder {
	return newEncoder(newOptions(opts), nil)
}

// newEncoder 在 buf 之后追加编码结果，buf 通常是按 SizeOf 预分配的空切片。
func newEncoder(o *options, buf []byte) *Encoder {
	return &Encoder{
		cursor: newCursor(o.start, o.limit),
		order:  o.endianness.order(),
		buf:    buf,
	}
}

// Bytes 返回已编码的字节；出错时返回 nil。
func (e *Encoder) Bytes() []byte {
	if e.err != nil {
		return nil
	}
	return e.buf
}

// Len 返回已编码的字节数。
func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// grow 写出对齐填充并预留 n 字节，返回 false 表示不应继续写入。
func (e *Encoder) grow(align, n uint64) bool {
	if e.err != nil {
		return false
	}
	pad, err := e.reserve(align, n)
	if err != nil {
		e.err = err
		return false
	}
	for ; pad > 0; pad-- {
		e.buf = append(e.buf, 0)
		e.advance(1)
	}
	e.advance(n)
	return true
}

func (e *Encoder) WriteBool(v bool) {
	if e.grow(align1, 1) {
		if v {
			e.buf = append(e.buf, 1)
		} else {
			e.buf = append(e.buf, 0)
		}
	}
}

func (e *Encoder) WriteUint8(v uint8) {
	if e.grow(align1, 1) {
		e.buf = append(e.buf, v)
	}
}

func (e *Encoder) WriteInt8(v int8) {
	e.WriteUint8(uint8(v))
}

func (e *Encoder) WriteChar(c byte) {
	if e.err == nil && c > maxASCII {
		e.err = merr.WrapErrCdrNumberOutOfRange("char", uint64(c), 0, maxASCII)
		return
	}
	e.WriteUint8(c)
}

func (e *Encoder) WriteUint16(v uint16) {
	if e.grow(align2, 2) {
		e.buf = e.order.AppendUint16(e.buf, v)
	}
}

func (e *Encoder) WriteInt16(v int16) {
	e.WriteUint16(uint16(v))
}

func (e *Encoder) WriteUint32(v uint32) {
	if e.grow(align4, 4) {
		e.buf = e.order.AppendUint32(e.buf, v)
	}
}

func (e *Encoder) WriteInt32(v int32) {
	e.WriteUint32(uint32(v))
}

func (e *Encoder) WriteFloat32(v float32) {
	e.WriteUint32(math.Float32bits(v))
}

func (e *Encoder) WriteUint64(v uint64) {
	if e.grow(align8, 8) {
		e.buf = e.order.AppendUint64(e.buf, v)
	}
}

func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

func (e *Encoder) WriteFloat64(v float64) {
	e.WriteUint64(math.Float64bits(v))
}

func (e *Encoder) WriteString(s string) {
	n, err := stringLength(s)
	if err != nil {
		e.fail(err)
		return
	}
	e.WriteUint32(n)
	if e.grow(align1, uint64(n)) {
		e.buf = append(e.buf, s...)
		e.buf = append(e.buf, 0)
	}
}

func (e *Encoder) WriteBytes(b []byte) {
	e.WriteSequenceLength(len(b))
	if e.grow(align1, uint64(len(b))) {
		e.buf = append(e.buf, b...)
	}
}

func (e *Encoder) WriteSequenceLength(n int) {
	if err := checkLength(n); err != nil {
		e.fail(err)
		return
	}
	e.WriteUint32(uint32(n))
}

func (e *Encoder) WriteDiscriminant(d uint32) {
	e.WriteUint32(d)
}
