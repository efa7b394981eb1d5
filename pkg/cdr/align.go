package cdr

// 各基本类型的自然对齐（字节）。
const (
	align1 uint64 = 1
	align2 uint64 = 2
	align4 uint64 = 4
	align8 uint64 = 8
)

// padding 返回在 pos 处放置对齐要求为 align 的值之前需要补齐的零字节数。
//
// 结果恒为 (align - pos%align) % align；pos 已对齐时返回 0。
func padding(pos, align uint64) uint64 {
	return (align - pos%align) % align
}

// cursor 是一次编解码会话内的逻辑位置。
//
// Sizer、Encoder、Decoder 共用同一套对齐与限额逻辑，
// 因此预计算的大小与真实编码结果在填充位置上逐字节一致。
type cursor struct {
	// start 为会话的逻辑起点，对齐以 0 为原点计算，限额以 start 为起点计算。
	start uint64
	pos   uint64
	limit SizeLimit
}

func newCursor(start uint64, limit SizeLimit) cursor {
	return cursor{start: start, pos: start, limit: limit}
}

// reserve 计算放置 n 字节（对齐 align）前的填充，并按限额校验 填充+n 字节。
// 校验通过时返回填充字节数，游标本身不移动。
func (c *cursor) reserve(align, n uint64) (uint64, error) {
	pad := padding(c.pos, align)
	if err := c.limit.check(c.pos-c.start, pad+n); err != nil {
		return 0, err
	}
	return pad, nil
}

func (c *cursor) advance(n uint64) {
	c.pos += n
}

// Position 返回当前逻辑位置（包含起始偏移）。
func (c *cursor) Position() uint64 {
	return c.pos
}

// consumed 返回本次会话已产生/消费的字节数。
func (c *cursor) consumed() uint64 {
	return c.pos - c.start
}
