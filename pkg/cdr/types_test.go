package cdr

import (
	"github.com/cockroachdb/errors"
)

type point struct {
	X float64
	Y float64
}

type triangle struct {
	Vertices []point
}

type color uint8

const (
	red color = iota
	green
	blue
)

func (color) CDRVariants() uint32 { return 3 }

type level int32

func (level) CDRVariants() uint32 { return 2 }

type sample struct {
	C Char
	N int32
	B bool
	M uint64
	S string
}

type inner1 struct {
	A int32
	B uint64
}

type inner2 struct {
	A bool
	B float64
}

type inner3 struct {
	A Char
	B float32
}

type outer struct {
	I   inner1
	II  inner2
	III inner3
}

type tagged struct {
	Kept    uint32
	Skipped uint64 `cdr:"-"`
	hidden  uint64
	Tail    uint16
}

// shape 是带负载的联合：0 -> 圆（半径），1 -> 矩形（宽、高），2 -> 空。
type shape struct {
	Kind   uint32
	Radius float64
	W, H   int16
}

func (s shape) MarshalCDR(w Writer) error {
	w.WriteDiscriminant(s.Kind)
	switch s.Kind {
	case 0:
		w.WriteFloat64(s.Radius)
	case 1:
		w.WriteInt16(s.W)
		w.WriteInt16(s.H)
	case 2:
	default:
		return errShapeKind
	}
	return w.Err()
}

func (s *shape) UnmarshalCDR(r Reader) error {
	*s = shape{Kind: r.ReadDiscriminant(3)}
	switch s.Kind {
	case 0:
		s.Radius = r.ReadFloat64()
	case 1:
		s.W = r.ReadInt16()
		s.H = r.ReadInt16()
	}
	return r.Err()
}

var errShapeKind = errors.New("unknown shape kind")

type everything struct {
	B    bool
	I8   int8
	U8   uint8
	I16  int16
	U16  uint16
	I32  int32
	U32  uint32
	I64  int64
	U64  uint64
	F32  float32
	F64  float64
	S    string
	Raw  []byte
	Ch   Char
	Arr  [3]uint16
	Seq  []string
	Nest [][]int64
	Pts  []point
	Col  color
	Lvl  level
	Ptr  *inner1
	Shp  []shape
	Unit struct{}
}

func sampleEverything() everything {
	return everything{
		B:    true,
		I8:   -8,
		U8:   200,
		I16:  -1600,
		U16:  65000,
		I32:  -320000,
		U32:  4000000000,
		I64:  -6400000000,
		U64:  1 << 63,
		F32:  3.14,
		F64:  -2.71828,
		S:    "hello",
		Raw:  []byte{1, 1, 2, 3, 5},
		Ch:   'z',
		Arr:  [3]uint16{7, 8, 9},
		Seq:  []string{"", "a", "bc"},
		Nest: [][]int64{{1, 3, 5}, {-1, -3, -5}},
		Pts:  []point{{1, 2}, {3, 4}},
		Col:  blue,
		Lvl:  1,
		Ptr:  &inner1{A: -3, B: 5},
		Shp:  []shape{{Kind: 0, Radius: 1.5}, {Kind: 1, W: 3, H: 4}, {Kind: 2}},
	}
}
