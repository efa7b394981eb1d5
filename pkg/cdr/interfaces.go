package cdr

// Writer 是按字段顺序写出基本类型的能力。
//
// Encoder 与 Sizer 都实现了 Writer：同一段访问代码既可以计算大小，也可以真正编码。
// 所有写方法在出错后变为空操作，第一个错误通过 Err 返回。
type Writer interface {
	WriteBool(v bool)
	WriteUint8(v uint8)
	WriteInt8(v int8)
	// WriteChar 写出 1 字节字符，仅接受 ASCII。
	WriteChar(c byte)
	WriteUint16(v uint16)
	WriteInt16(v int16)
	WriteUint32(v uint32)
	WriteInt32(v int32)
	WriteFloat32(v float32)
	WriteUint64(v uint64)
	WriteInt64(v int64)
	WriteFloat64(v float64)
	// WriteString 写出 u32 长度（字节数+1）、字节内容与结尾的 0x00。
	WriteString(s string)
	// WriteBytes 写出 sequence<octet>：u32 长度与原始字节。
	WriteBytes(b []byte)
	// WriteSequenceLength 写出序列的元素个数，调用方随后逐个写出元素。
	WriteSequenceLength(n int)
	// WriteDiscriminant 写出枚举/联合的判别值，调用方随后写出负载（如有）。
	WriteDiscriminant(d uint32)

	Position() uint64
	Err() error
}

// Reader 是 Writer 的镜像。出错后所有读方法返回零值，第一个错误通过 Err 返回。
type Reader interface {
	ReadBool() bool
	ReadUint8() uint8
	ReadInt8() int8
	ReadChar() byte
	ReadUint16() uint16
	ReadInt16() int16
	ReadUint32() uint32
	ReadInt32() int32
	ReadFloat32() float32
	ReadUint64() uint64
	ReadInt64() int64
	ReadFloat64() float64
	ReadString() string
	ReadBytes() []byte
	// ReadSequenceLength 读取元素个数。minElemSize 为单个元素的最小线上字节数，
	// 个数乘以它超过剩余输入时直接失败，不做任何分配。
	// 传 0 表示元素不占线上字节，不做该检查；大小未知的元素应传 1。
	ReadSequenceLength(minElemSize uint64) int
	// ReadDiscriminant 读取判别值，要求 d < variants。
	ReadDiscriminant(variants uint32) uint32

	Position() uint64
	Remaining() uint64
	Err() error
}

// Marshaler 由需要自行描述线上布局的类型实现，例如带负载的联合。
// 返回的错误原样透传给调用方。
type Marshaler interface {
	MarshalCDR(w Writer) error
}

// Unmarshaler 是 Marshaler 的解码侧。
type Unmarshaler interface {
	UnmarshalCDR(r Reader) error
}

// Enum 标记整型底层的具名类型为无负载枚举：以 u32 判别值编码，
// 解码时要求判别值小于 CDRVariants()。
type Enum interface {
	CDRVariants() uint32
}
