package cdr

import (
	"encoding/binary"
	"strings"

	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

// Endianness 为会话的字节序，作用于所有多字节基本类型以及长度前缀。
type Endianness uint8

const (
	BigEndian Endianness = iota
	LittleEndian
)

// byteOrder 同时具备读取与追加写入能力，binary.BigEndian / binary.LittleEndian 均满足。
type byteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// ParseEndianness 解析配置中的字节序名称，大小写不敏感。
// 支持 "big"/"be"/"big-endian" 与 "little"/"le"/"little-endian"。
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "big", "be", "big-endian", "bigendian":
		return BigEndian, nil
	case "little", "le", "little-endian", "littleendian":
		return LittleEndian, nil
	default:
		return BigEndian, merr.WrapErrParameterInvalid("big|little", s, "unknown endianness")
	}
}

// ByteOrder 返回对应的 encoding/binary 字节序。
func (e Endianness) ByteOrder() binary.ByteOrder {
	return e.order()
}

func (e Endianness) order() byteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Endianness) String() string {
	switch e {
	case BigEndian:
		return "big"
	case LittleEndian:
		return "little"
	default:
		return "unknown"
	}
}

// MarshalText 实现 encoding.TextMarshaler，便于出现在 JSON/YAML 配置中。
func (e Endianness) MarshalText() ([]byte, error) {
	if e != BigEndian && e != LittleEndian {
		return nil, merr.WrapErrParameterInvalidRange(uint8(BigEndian), uint8(LittleEndian), uint8(e), "endianness")
	}
	return []byte(e.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler。
func (e *Endianness) UnmarshalText(text []byte) error {
	parsed, err := ParseEndianness(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
