package cdr

import (
	"math"

	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

// Sizer 是不产生任何字节的 Writer，只推进游标，用于预先计算编码长度。
type Sizer struct {
	cursor
	err error
}

var _ Writer = (*Sizer)(nil)

// NewSizer 创建 Sizer，字节序对长度没有影响，因此只读取起点与大小策略。
func NewSizer(opts ...Option) *Sizer {
	return newSizer(newOptions(opts))
}

func newSizer(o *options) *Sizer {
	return &Sizer{cursor: newCursor(o.start, o.limit)}
}

// Size 返回起点之后累计的字节数。
func (s *Sizer) Size() uint64 {
	return s.consumed()
}

func (s *Sizer) Err() error {
	return s.err
}

func (s *Sizer) add(align, n uint64) {
	if s.err != nil {
		return
	}
	pad, err := s.reserve(align, n)
	if err != nil {
		s.err = err
		return
	}
	s.advance(pad + n)
}

func (s *Sizer) WriteBool(bool)           { s.add(align1, 1) }
func (s *Sizer) WriteUint8(uint8)         { s.add(align1, 1) }
func (s *Sizer) WriteInt8(int8)           { s.add(align1, 1) }
func (s *Sizer) WriteUint16(uint16)       { s.add(align2, 2) }
func (s *Sizer) WriteInt16(int16)         { s.add(align2, 2) }
func (s *Sizer) WriteUint32(uint32)       { s.add(align4, 4) }
func (s *Sizer) WriteInt32(int32)         { s.add(align4, 4) }
func (s *Sizer) WriteFloat32(float32)     { s.add(align4, 4) }
func (s *Sizer) WriteUint64(uint64)       { s.add(align8, 8) }
func (s *Sizer) WriteInt64(int64)         { s.add(align8, 8) }
func (s *Sizer) WriteFloat64(float64)     { s.add(align8, 8) }
func (s *Sizer) WriteDiscriminant(uint32) { s.add(align4, 4) }

func (s *Sizer) WriteChar(c byte) {
	if s.err == nil && c > maxASCII {
		s.err = merr.WrapErrCdrNumberOutOfRange("char", uint64(c), 0, maxASCII)
		return
	}
	s.add(align1, 1)
}

func (s *Sizer) WriteString(str string) {
	n, err := stringLength(str)
	if err != nil {
		s.fail(err)
		return
	}
	s.add(align4, 4)
	s.add(align1, uint64(n))
}

func (s *Sizer) WriteBytes(b []byte) {
	s.WriteSequenceLength(len(b))
	s.add(align1, uint64(len(b)))
}

func (s *Sizer) WriteSequenceLength(n int) {
	if err := checkLength(n); err != nil {
		s.fail(err)
		return
	}
	s.add(align4, 4)
}

func (s *Sizer) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

const maxASCII = 0x7f

// stringLength 返回字符串在线上的长度字段（字节数+1）。
func stringLength(s string) (uint32, error) {
	if uint64(len(s)) >= math.MaxUint32 {
		return 0, merr.WrapErrCdrNumberOutOfRange("string length", uint64(len(s))+1, 1, uint64(math.MaxUint32))
	}
	return uint32(len(s) + 1), nil
}

func checkLength(n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return merr.WrapErrCdrNumberOutOfRange("sequence length", int64(n), 0, int64(math.MaxUint32))
	}
	return nil
}
