package cdr

// Option 配置一次编解码会话。
type Option func(*options)

type options struct {
	endianness Endianness
	limit      SizeLimit
	start      uint64
}

func defaultOptions() *options {
	return &options{
		endianness: BigEndian,
		limit:      Unbounded(),
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithEndianness 指定字节序，默认大端。
func WithEndianness(e Endianness) Option {
	return func(o *options) {
		o.endianness = e
	}
}

// WithSizeLimit 指定大小策略，默认 Unbounded()。
func WithSizeLimit(limit SizeLimit) Option {
	return func(o *options) {
		o.limit = limit
	}
}

// WithStartPosition 指定会话的逻辑起点，对齐以该位置为基准继续计算。
// 用于把 CDR 数据拼接在已有数据之后；返回的大小与输出只包含起点之后的字节。
func WithStartPosition(pos uint64) Option {
	return func(o *options) {
		o.start = pos
	}
}
