package cdr

import "reflect"

// Char 是 CDR 的 char：1 字节、对齐 1，只允许 ASCII。
// Go 的 byte 按 octet 处理，需要 char 语义的字段使用 Char。
type Char byte

var charType = reflect.TypeFor[Char]()

func (c Char) MarshalCDR(w Writer) error {
	w.WriteChar(byte(c))
	return w.Err()
}

func (c *Char) UnmarshalCDR(r Reader) error {
	*c = Char(r.ReadChar())
	return r.Err()
}

func (c Char) String() string {
	return string(rune(c))
}
