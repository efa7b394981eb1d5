package log

import (
	"go.uber.org/zap"
)

const (
	FieldNameModule     = "module"
	FieldNameComponent  = "component"
	FieldNameOperation  = "op"
	FieldNameEndianness = "endianness"
	FieldNameSize       = "size"
)

// FieldModule 返回一个包含模块名的 zap 字段。
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent 返回一个包含组件名的 zap 字段。
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldOperation 标记编解码操作，如 marshal、unmarshal、size。
func FieldOperation(op string) zap.Field {
	return zap.String(FieldNameOperation, op)
}

func FieldEndianness(e string) zap.Field {
	return zap.String(FieldNameEndianness, e)
}

func FieldSize(n uint64) zap.Field {
	return zap.Uint64(FieldNameSize, n)
}
