package cdr

import (
	"math"

	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

// Decoder 按 CDR 规则从字节切片中读取基本类型。
//
// 消费 N 字节（含跳过的填充）之前要求 pos+N 不超过输入长度，否则返回 ErrEndOfInput；
// 有界策略额外按已消费字节数校验。首个错误之后的读取全部返回零值。
type Decoder struct {
	cursor
	order byteOrder
	data  []byte
	err   error
}

var _ Reader = (*Decoder)(nil)

// NewDecoder 创建解码器。data[0] 对应逻辑位置 WithStartPosition 指定的起点。
func NewDecoder(data []byte, opts ...Option) *Decoder {
	o := newOptions(opts)
	return &Decoder{
		cursor: newCursor(o.start, o.limit),
		order:  o.endianness.order(),
		data:   data,
	}
}

func (d *Decoder) Err() error {
	return d.err
}

// Remaining 返回尚未消费的输入字节数。
func (d *Decoder) Remaining() uint64 {
	return uint64(len(d.data)) - d.consumed()
}

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// take 跳过对齐填充并返回接下来的 n 个字节。
func (d *Decoder) take(align, n uint64) []byte {
	if d.err != nil {
		return nil
	}
	pad := padding(d.pos, align)
	remaining := d.Remaining()
	if pad > remaining || n > remaining-pad {
		d.err = merr.WrapErrCdrEndOfInput(d.pos, pad+n, remaining)
		return nil
	}
	if _, err := d.reserve(align, n); err != nil {
		d.err = err
		return nil
	}
	off := d.consumed() + pad
	d.advance(pad + n)
	return d.data[off : off+n]
}

func (d *Decoder) ReadBool() bool {
	b := d.take(align1, 1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		d.err = merr.WrapErrCdrInvalidEncoding("bool must be 0 or 1", b[0])
		return false
	}
}

func (d *Decoder) ReadUint8() uint8 {
	b := d.take(align1, 1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) ReadInt8() int8 {
	return int8(d.ReadUint8())
}

func (d *Decoder) ReadChar() byte {
	b := d.take(align1, 1)
	if b == nil {
		return 0
	}
	if b[0] > maxASCII {
		d.err = merr.WrapErrCdrInvalidEncoding("char must be ASCII", b[0])
		return 0
	}
	return b[0]
}

func (d *Decoder) ReadUint16() uint16 {
	b := d.take(align2, 2)
	if b == nil {
		return 0
	}
	return d.order.Uint16(b)
}

func (d *Decoder) ReadInt16() int16 {
	return int16(d.ReadUint16())
}

func (d *Decoder) ReadUint32() uint32 {
	b := d.take(align4, 4)
	if b == nil {
		return 0
	}
	return d.order.Uint32(b)
}

func (d *Decoder) ReadInt32() int32 {
	return int32(d.ReadUint32())
}

func (d *Decoder) ReadFloat32() float32 {
	return math.Float32frombits(d.ReadUint32())
}

func (d *Decoder) ReadUint64() uint64 {
	b := d.take(align8, 8)
	if b == nil {
		return 0
	}
	return d.order.Uint64(b)
}

func (d *Decoder) ReadInt64() int64 {
	return int64(d.ReadUint64())
}

func (d *Decoder) ReadFloat64() float64 {
	return math.Float64frombits(d.ReadUint64())
}

// ReadString 读取带结尾 0x00 的字符串，返回值不含结尾字节。内容不做 UTF-8 校验。
func (d *Decoder) ReadString() string {
	n := d.ReadUint32()
	if d.err != nil {
		return ""
	}
	if n == 0 {
		d.err = merr.WrapErrCdrInvalidEncoding("string length must include the terminator", n)
		return ""
	}
	b := d.take(align1, uint64(n))
	if b == nil {
		return ""
	}
	if b[n-1] != 0 {
		d.err = merr.WrapErrCdrInvalidEncoding("string terminator must be 0x00", b[n-1])
		return ""
	}
	return string(b[:n-1])
}

// ReadBytes 读取 sequence<octet>，返回值是输入的拷贝。
func (d *Decoder) ReadBytes() []byte {
	n := d.ReadSequenceLength(1)
	if d.err != nil {
		return nil
	}
	b := d.take(align1, uint64(n))
	if d.err != nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ReadSequenceLength 读取元素个数。minElemSize 为 0 表示元素不占线上字节，
// 此时不以剩余输入约束个数。
func (d *Decoder) ReadSequenceLength(minElemSize uint64) int {
	n := d.ReadUint32()
	if d.err != nil {
		return 0
	}
	if minElemSize == 0 {
		return int(n)
	}
	remaining := d.Remaining()
	if uint64(n) > remaining/minElemSize {
		d.err = merr.WrapErrCdrEndOfInput(d.pos, uint64(n)*minElemSize, remaining, "sequence length exceeds remaining input")
		return 0
	}
	return int(n)
}

func (d *Decoder) ReadDiscriminant(variants uint32) uint32 {
	v := d.ReadUint32()
	if d.err != nil {
		return 0
	}
	if v >= variants {
		d.err = merr.WrapErrCdrInvalidEncoding("unknown discriminant", v)
		return 0
	}
	return v
}
