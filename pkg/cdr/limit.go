package cdr

import (
	"fmt"

	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

// SizeLimit 描述一次会话允许产生（或消费）的最大字节数。
// 只有两种取值：Unbounded() 与 Bounded(max)。零值等价于 Unbounded()。
type SizeLimit struct {
	bounded bool
	max     uint64
}

// Unbounded 返回不做任何限制的策略。
func Unbounded() SizeLimit {
	return SizeLimit{}
}

// Bounded 返回上限为 max 字节的策略，填充字节同样计入。
func Bounded(max uint64) SizeLimit {
	return SizeLimit{bounded: true, max: max}
}

// IsBounded 判断是否为有界策略。
func (l SizeLimit) IsBounded() bool {
	return l.bounded
}

// Max 返回上限；无界时 ok 为 false。
func (l SizeLimit) Max() (max uint64, ok bool) {
	return l.max, l.bounded
}

func (l SizeLimit) String() string {
	if !l.bounded {
		return "unbounded"
	}
	return fmt.Sprintf("bounded(%d)", l.max)
}

// check 校验在已使用 used 字节的基础上再使用 n 字节是否越界。
func (l SizeLimit) check(used, n uint64) error {
	if !l.bounded {
		return nil
	}
	// 写成减法形式，避免 used+n 溢出。
	if n > l.max || used > l.max-n {
		return merr.WrapErrCdrSizeExceeded(l.max, used, n)
	}
	return nil
}
