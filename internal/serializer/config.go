package serializer

import (
	"github.com/lk2023060901/cdr-go/pkg/cdr"
	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

// Config 对应配置文件中的 codec 段。
type Config struct {
	// Endianness 取值 big 或 little，空值按 big 处理。
	Endianness string `toml:"endianness" json:"endianness" mapstructure:"endianness"`
	// MaxSize 为 0 表示不限制，否则为单次编解码允许的最大字节数。
	MaxSize uint64 `toml:"max-size" json:"max-size" mapstructure:"max-size"`
	// StartPosition 为逻辑起点，用于紧跟在封装头之后的负载。
	StartPosition uint64 `toml:"start-position" json:"start-position" mapstructure:"start-position"`
}

// DefaultConfig 返回大端、不限大小的配置。
func DefaultConfig() Config {
	return Config{Endianness: cdr.BigEndian.String()}
}

// ByteOrder 解析配置中的字节序，空值按大端处理。
func (c Config) ByteOrder() (cdr.Endianness, error) {
	if c.Endianness == "" {
		return cdr.BigEndian, nil
	}
	e, err := cdr.ParseEndianness(c.Endianness)
	if err != nil {
		return cdr.BigEndian, merr.WrapErrConfigInvalid("codec.endianness", c.Endianness)
	}
	return e, nil
}

// Options 把配置转换为 cdr 选项。
func (c Config) Options() ([]cdr.Option, error) {
	endianness, err := c.ByteOrder()
	if err != nil {
		return nil, err
	}

	limit := cdr.Unbounded()
	if c.MaxSize > 0 {
		limit = cdr.Bounded(c.MaxSize)
	}

	return []cdr.Option{
		cdr.WithEndianness(endianness),
		cdr.WithSizeLimit(limit),
		cdr.WithStartPosition(c.StartPosition),
	}, nil
}
