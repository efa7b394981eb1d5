package cdr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

func TestDecodeShortInput(t *testing.T) {
	var v int32
	err := Unmarshal([]byte{0, 0, 1}, &v)
	assert.ErrorIs(t, err, ErrEndOfInput)

	dec := NewDecoder([]byte{0, 0, 1})
	assert.Zero(t, dec.ReadUint32())
	assert.ErrorIs(t, dec.Err(), ErrEndOfInput)
	assert.Equal(t, uint64(0), dec.Position())
}

func TestDecodeInvalidBool(t *testing.T) {
	var b bool
	err := Unmarshal([]byte{0x02}, &b)
	assert.ErrorIs(t, err, ErrInvalidEncoding)

	dec := NewDecoder([]byte{0, 1})
	assert.False(t, dec.ReadBool())
	assert.True(t, dec.ReadBool())
	require.NoError(t, dec.Err())
}

func TestDecodePaddingCountsTowardsInput(t *testing.T) {
	// u8 之后的 u32 需要跳过 3 字节填充，输入只有 1+3+3 字节。
	dec := NewDecoder([]byte{1, 0, 0, 0, 0, 0, 0})
	assert.Equal(t, uint8(1), dec.ReadUint8())
	dec.ReadUint32()
	assert.ErrorIs(t, dec.Err(), ErrEndOfInput)

	// 结尾处只剩填充时同样失败。
	dec = NewDecoder([]byte{1, 0, 0})
	dec.ReadUint8()
	dec.ReadUint32()
	assert.ErrorIs(t, dec.Err(), ErrEndOfInput)
}

func TestDecodeString(t *testing.T) {
	dec := NewDecoder([]byte{0, 0, 0, 3, 'a', 'b', 0, 0, 0, 0, 0, 1, 0})
	assert.Equal(t, "ab", dec.ReadString())
	assert.Equal(t, "", dec.ReadString())
	require.NoError(t, dec.Err())
	assert.Zero(t, dec.Remaining())

	cases := map[string]struct {
		data []byte
		err  error
	}{
		"zero length":      {[]byte{0, 0, 0, 0}, ErrInvalidEncoding},
		"bad terminator":   {[]byte{0, 0, 0, 2, 'a', 'b'}, ErrInvalidEncoding},
		"truncated body":   {[]byte{0, 0, 0, 4, 'a', 'b'}, ErrEndOfInput},
		"truncated prefix": {[]byte{0, 0}, ErrEndOfInput},
		"huge length":      {[]byte{0xff, 0xff, 0xff, 0xff, 'a', 0}, ErrEndOfInput},
	}
	for name, c := range cases {
		var s string
		err := Unmarshal(c.data, &s)
		assert.ErrorIs(t, err, c.err, name)
	}
}

func TestDecodeLittleEndianString(t *testing.T) {
	var s string
	require.NoError(t, Unmarshal([]byte{3, 0, 0, 0, 'h', 'i', 0}, &s, WithEndianness(LittleEndian)))
	assert.Equal(t, "hi", s)
}

func TestDecodeChar(t *testing.T) {
	var c Char
	require.NoError(t, Unmarshal([]byte{'q'}, &c))
	assert.Equal(t, Char('q'), c)
	assert.Equal(t, "q", c.String())

	err := Unmarshal([]byte{0xc3}, &c)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeSequenceFailsFast(t *testing.T) {
	// 声明 2^32-1 个 u64，但只剩 8 字节。
	data := []byte{0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0, 0, 0, 0, 0}
	var v []uint64
	err := Unmarshal(data, &v)
	assert.ErrorIs(t, err, ErrEndOfInput)
	assert.Nil(t, v)

	var raw []byte
	assert.ErrorIs(t, Unmarshal(data, &raw), ErrEndOfInput)

	// 线上不占字节但内存中占空间的元素仍受剩余输入约束。
	var skipped []struct {
		X uint64 `cdr:"-"`
	}
	assert.ErrorIs(t, Unmarshal(data, &skipped), ErrEndOfInput)

	// 大小未知的自定义解码类型按 1 字节计。
	var shapes []shape
	assert.ErrorIs(t, Unmarshal(data, &shapes), ErrEndOfInput)

	// 个数与最小元素大小恰好吻合时按正常流程继续。
	dec := NewDecoder([]byte{0, 0, 0, 2, 0, 1, 0, 2})
	assert.Equal(t, 2, dec.ReadSequenceLength(2))
	assert.Equal(t, uint16(1), dec.ReadUint16())
	assert.Equal(t, uint16(2), dec.ReadUint16())
	require.NoError(t, dec.Err())
}

func TestDecodeDiscriminant(t *testing.T) {
	dec := NewDecoder([]byte{0, 0, 0, 2})
	assert.Equal(t, uint32(2), dec.ReadDiscriminant(3))
	require.NoError(t, dec.Err())

	dec = NewDecoder([]byte{0, 0, 0, 3})
	dec.ReadDiscriminant(3)
	assert.ErrorIs(t, dec.Err(), ErrInvalidEncoding)

	var c color
	assert.ErrorIs(t, Unmarshal([]byte{0, 0, 0, 7}, &c), ErrInvalidEncoding)

	var s shape
	assert.ErrorIs(t, Unmarshal([]byte{0, 0, 0, 5}, &s), ErrInvalidEncoding)
}

func TestDecodeStickyError(t *testing.T) {
	dec := NewDecoder([]byte{2, 0, 0, 0, 0, 0, 0, 9})
	dec.ReadBool()
	assert.Zero(t, dec.ReadUint32())
	assert.Empty(t, dec.ReadString())
	assert.Nil(t, dec.ReadBytes())
	assert.ErrorIs(t, dec.Err(), ErrInvalidEncoding)
	assert.Equal(t, uint64(7), dec.Remaining())
}

func TestDecodeBounded(t *testing.T) {
	data, err := Marshal(sample{C: 'x', N: -7, B: true, M: 17, S: "hello"})
	require.NoError(t, err)

	var v sample
	require.NoError(t, Unmarshal(data, &v, WithSizeLimit(Bounded(uint64(len(data))))))

	err = Unmarshal(data, &v, WithSizeLimit(Bounded(uint64(len(data)-1))))
	assert.ErrorIs(t, err, ErrSizeExceeded)
}

func TestDecodeTrailingBytes(t *testing.T) {
	var v uint16
	dec := NewDecoder([]byte{0, 7, 0xaa, 0xbb})
	require.NoError(t, ReadValue(dec, &v))
	assert.Equal(t, uint16(7), v)
	assert.Equal(t, uint64(2), dec.Remaining())
}

// 合法编码的任意真前缀都必须以 ErrEndOfInput 失败。
func TestDecodeTruncation(t *testing.T) {
	values := []any{
		sampleEverything(),
		triangle{Vertices: []point{{-1, -1}, {1, -1}, {0, 1}}},
		outer{I: inner1{-3, 5}, II: inner2{false, 1.414}, III: inner3{'a', 1.732}},
		"truncate me",
	}
	for _, v := range values {
		for _, e := range []Endianness{BigEndian, LittleEndian} {
			data, err := Marshal(v, WithEndianness(e))
			require.NoError(t, err)
			for n := 0; n < len(data); n++ {
				target := newTarget(v)
				err := Unmarshal(data[:n], target, WithEndianness(e))
				require.Error(t, err, "%T prefix %d/%d", v, n, len(data))
				assert.ErrorIs(t, err, ErrEndOfInput, "%T prefix %d/%d", v, n, len(data))
				assert.True(t, merr.IsCodecError(err))
			}
		}
	}
}

func TestDecodeTarget(t *testing.T) {
	var v uint32
	assert.ErrorIs(t, Unmarshal([]byte{0, 0, 0, 1}, v), merr.ErrParameterInvalid)
	assert.ErrorIs(t, Unmarshal([]byte{0, 0, 0, 1}, nil), merr.ErrParameterInvalid)
	var p *uint32
	assert.ErrorIs(t, Unmarshal([]byte{0, 0, 0, 1}, p), merr.ErrParameterInvalid)
}

func TestDecodeEmptyStructSequence(t *testing.T) {
	type unit struct{}
	type holder struct {
		Units []unit
		Tail  uint16
	}
	in := holder{Units: []unit{{}, {}, {}}, Tail: 7}
	data, err := Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 3, 0, 7}, data)

	var out holder
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)

	var empty []struct{}
	require.NoError(t, Unmarshal([]byte{0, 0, 0, 0}, &empty))
	assert.Len(t, empty, 0)
}

func TestDecodeFailureKeepsTarget(t *testing.T) {
	type pair struct {
		A uint32
		B uint32
	}
	out := pair{A: 111, B: 222}
	err := Unmarshal([]byte{0, 0, 0, 9, 0, 0}, &out)
	assert.ErrorIs(t, err, ErrEndOfInput)
	assert.Equal(t, pair{A: 111, B: 222}, out)

	names := []string{"kept"}
	err = Unmarshal([]byte{0, 0, 0, 2, 0, 0, 0, 2, 'a', 0, 0, 0}, &names)
	assert.Error(t, err)
	assert.Equal(t, []string{"kept"}, names)

	require.NoError(t, Unmarshal([]byte{0, 0, 0, 9, 0, 0, 0, 1}, &out))
	assert.Equal(t, pair{A: 9, B: 1}, out)
}

// wideByte 声明的变体数超过 int8 的取值范围。
type wideByte int8

func (wideByte) CDRVariants() uint32 { return 300 }

type wideUnsigned uint8

func (wideUnsigned) CDRVariants() uint32 { return 300 }

func TestDecodeEnumOverflow(t *testing.T) {
	var b wideByte
	require.NoError(t, Unmarshal([]byte{0, 0, 0, 127}, &b))
	assert.Equal(t, wideByte(127), b)

	err := Unmarshal([]byte{0, 0, 0, 200}, &b)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	assert.Equal(t, wideByte(127), b)

	var u wideUnsigned
	require.NoError(t, Unmarshal([]byte{0, 0, 0, 255}, &u))
	assert.Equal(t, wideUnsigned(255), u)
	assert.ErrorIs(t, Unmarshal([]byte{0, 0, 1, 0}, &u), ErrInvalidEncoding)
}
