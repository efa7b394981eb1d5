package cdr

import (
	"reflect"
	"sync"

	"github.com/lk2023060901/cdr-go/pkg/util/merr"
	"github.com/lk2023060901/cdr-go/pkg/util/typeutil"
)

var (
	marshalerType   = reflect.TypeFor[Marshaler]()
	unmarshalerType = reflect.TypeFor[Unmarshaler]()
	enumType        = reflect.TypeFor[Enum]()
)

// tagName 为结构体字段标签名，`cdr:"-"` 表示跳过该字段。
const tagName = "cdr"

// WriteValue 通过反射把 v 写入 w。
//
// Marshaler 的实现可以用它写出嵌套字段；返回的错误与 w.Err() 中的第一个错误一致，
// 或者是 Marshaler 自身返回的错误。
func WriteValue(w Writer, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return merr.WrapErrCdrTypeNotSupported("nil")
	}
	// 拷贝到可寻址的位置，使指针接收者上的 MarshalCDR 也能被调用。
	addressable := reflect.New(rv.Type()).Elem()
	addressable.Set(rv)
	if err := encodeValue(w, addressable); err != nil {
		return err
	}
	return w.Err()
}

// ReadValue 通过反射从 r 读取到 v，v 必须是非 nil 指针。
// 先解码到临时值，全部成功后才写回 v；失败时 v 保持不变。
func ReadValue(r Reader, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return merr.WrapErrParameterInvalidMsg("decode target must be a non-nil pointer, got %T", v)
	}
	tmp := reflect.New(rv.Elem().Type())
	if err := decodeValue(r, tmp.Elem()); err != nil {
		return err
	}
	if err := r.Err(); err != nil {
		return err
	}
	rv.Elem().Set(tmp.Elem())
	return nil
}

func encodeValue(w Writer, v reflect.Value) error {
	t := v.Type()
	if t.Kind() != reflect.Pointer && v.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return v.Addr().Interface().(Marshaler).MarshalCDR(w)
	}
	if t.Implements(marshalerType) {
		if t.Kind() == reflect.Pointer && v.IsNil() {
			return merr.WrapErrCdrTypeNotSupported(t, "nil pointer")
		}
		return v.Interface().(Marshaler).MarshalCDR(w)
	}
	if t.Implements(enumType) && isInteger(t.Kind()) {
		return encodeEnum(w, v)
	}

	switch t.Kind() {
	case reflect.Bool:
		w.WriteBool(v.Bool())
	case reflect.Int8:
		w.WriteInt8(int8(v.Int()))
	case reflect.Int16:
		w.WriteInt16(int16(v.Int()))
	case reflect.Int32:
		w.WriteInt32(int32(v.Int()))
	case reflect.Int64:
		w.WriteInt64(v.Int())
	case reflect.Uint8:
		w.WriteUint8(uint8(v.Uint()))
	case reflect.Uint16:
		w.WriteUint16(uint16(v.Uint()))
	case reflect.Uint32:
		w.WriteUint32(uint32(v.Uint()))
	case reflect.Uint64:
		w.WriteUint64(v.Uint())
	case reflect.Float32:
		w.WriteFloat32(float32(v.Float()))
	case reflect.Float64:
		w.WriteFloat64(v.Float())
	case reflect.String:
		w.WriteString(v.String())
	case reflect.Slice:
		if isOctet(t.Elem()) {
			w.WriteBytes(v.Bytes())
			break
		}
		w.WriteSequenceLength(v.Len())
		for i := 0; i < v.Len() && w.Err() == nil; i++ {
			if err := encodeValue(w, v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Array:
		for i := 0; i < v.Len() && w.Err() == nil; i++ {
			if err := encodeValue(w, v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for _, i := range fieldsOf(t) {
			if err := encodeValue(w, v.Field(i)); err != nil {
				return err
			}
			if w.Err() != nil {
				break
			}
		}
	case reflect.Pointer:
		if v.IsNil() {
			return merr.WrapErrCdrTypeNotSupported(t, "nil pointer")
		}
		return encodeValue(w, v.Elem())
	default:
		return merr.WrapErrCdrTypeNotSupported(t)
	}
	return w.Err()
}

func encodeEnum(w Writer, v reflect.Value) error {
	variants := v.Interface().(Enum).CDRVariants()
	var d uint64
	if isSigned(v.Kind()) {
		if v.Int() < 0 {
			return merr.WrapErrCdrNumberOutOfRange(v.Type().String(), v.Int(), 0, int64(variants)-1)
		}
		d = uint64(v.Int())
	} else {
		d = v.Uint()
	}
	if d >= uint64(variants) {
		return merr.WrapErrCdrNumberOutOfRange(v.Type().String(), d, 0, uint64(variants)-1)
	}
	w.WriteDiscriminant(uint32(d))
	return w.Err()
}

func decodeValue(r Reader, v reflect.Value) error {
	t := v.Type()
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(unmarshalerType) {
		return v.Addr().Interface().(Unmarshaler).UnmarshalCDR(r)
	}
	if t.Implements(enumType) && isInteger(t.Kind()) {
		d := r.ReadDiscriminant(v.Interface().(Enum).CDRVariants())
		if err := r.Err(); err != nil {
			return err
		}
		if isSigned(t.Kind()) {
			if v.OverflowInt(int64(d)) {
				return merr.WrapErrCdrInvalidEncoding("enum discriminant overflows "+t.String(), d)
			}
			v.SetInt(int64(d))
		} else {
			if v.OverflowUint(uint64(d)) {
				return merr.WrapErrCdrInvalidEncoding("enum discriminant overflows "+t.String(), d)
			}
			v.SetUint(uint64(d))
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		v.SetBool(r.ReadBool())
	case reflect.Int8:
		v.SetInt(int64(r.ReadInt8()))
	case reflect.Int16:
		v.SetInt(int64(r.ReadInt16()))
	case reflect.Int32:
		v.SetInt(int64(r.ReadInt32()))
	case reflect.Int64:
		v.SetInt(r.ReadInt64())
	case reflect.Uint8:
		v.SetUint(uint64(r.ReadUint8()))
	case reflect.Uint16:
		v.SetUint(uint64(r.ReadUint16()))
	case reflect.Uint32:
		v.SetUint(uint64(r.ReadUint32()))
	case reflect.Uint64:
		v.SetUint(r.ReadUint64())
	case reflect.Float32:
		v.SetFloat(float64(r.ReadFloat32()))
	case reflect.Float64:
		v.SetFloat(r.ReadFloat64())
	case reflect.String:
		v.SetString(r.ReadString())
	case reflect.Slice:
		if isOctet(t.Elem()) {
			b := r.ReadBytes()
			if r.Err() != nil {
				return r.Err()
			}
			v.SetBytes(b)
			break
		}
		minSize := minWireSize(t.Elem())
		if minSize == 0 && t.Elem().Size() != 0 {
			minSize = 1
		}
		n := r.ReadSequenceLength(minSize)
		if r.Err() != nil {
			return r.Err()
		}
		s := reflect.MakeSlice(t, n, n)
		if minSize == 0 {
			// 元素在线上与内存中都不占空间，零值即解码结果。
			v.Set(s)
			break
		}
		for i := 0; i < n; i++ {
			if err := decodeValue(r, s.Index(i)); err != nil {
				return err
			}
			if r.Err() != nil {
				return r.Err()
			}
		}
		v.Set(s)
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := decodeValue(r, v.Index(i)); err != nil {
				return err
			}
			if r.Err() != nil {
				return r.Err()
			}
		}
	case reflect.Struct:
		for _, i := range fieldsOf(t) {
			if err := decodeValue(r, v.Field(i)); err != nil {
				return err
			}
			if r.Err() != nil {
				return r.Err()
			}
		}
	case reflect.Pointer:
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return decodeValue(r, v.Elem())
	default:
		return merr.WrapErrCdrTypeNotSupported(t)
	}
	return r.Err()
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// isOctet 判断切片元素是否可按 sequence<octet> 整块读写。
func isOctet(t reflect.Type) bool {
	if t.Kind() != reflect.Uint8 {
		return false
	}
	return !t.Implements(enumType) &&
		!t.Implements(marshalerType) && !reflect.PointerTo(t).Implements(marshalerType) &&
		!reflect.PointerTo(t).Implements(unmarshalerType)
}

// fieldCache 缓存结构体参与编解码的字段下标。
var fieldCache sync.Map // map[reflect.Type][]int

func fieldsOf(t reflect.Type) []int {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]int)
	}
	fields := make([]int, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get(tagName) == "-" {
			continue
		}
		fields = append(fields, i)
	}
	actual, _ := fieldCache.LoadOrStore(t, fields)
	return actual.([]int)
}

// sizeCache 缓存类型的最小线上字节数。
var sizeCache sync.Map // map[reflect.Type]uint64

// minWireSize 返回类型 t 的值在线上至少占用的字节数（不计填充），
// 用于在分配之前校验序列长度。自定义编解码的类型无法推断，按 1 计；
// 返回 0 表示该类型在线上确实不占字节。
func minWireSize(t reflect.Type) uint64 {
	if cached, ok := sizeCache.Load(t); ok {
		return cached.(uint64)
	}
	size := computeMinWireSize(t, typeutil.NewSet[reflect.Type]())
	sizeCache.Store(t, size)
	return size
}

func computeMinWireSize(t reflect.Type, visiting typeutil.Set[reflect.Type]) uint64 {
	if visiting.Contain(t) {
		return 0
	}
	if t == charType {
		return 1
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) || t.Implements(unmarshalerType) {
		return 1
	}
	if t.Implements(enumType) && isInteger(t.Kind()) {
		return 4
	}
	switch t.Kind() {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	case reflect.String:
		return 5
	case reflect.Slice:
		return 4
	case reflect.Array:
		return uint64(t.Len()) * computeMinWireSize(t.Elem(), visiting)
	case reflect.Struct:
		visiting.Insert(t)
		defer visiting.Remove(t)
		var total uint64
		for _, i := range fieldsOf(t) {
			total += computeMinWireSize(t.Field(i).Type, visiting)
		}
		return total
	case reflect.Pointer:
		visiting.Insert(t)
		defer visiting.Remove(t)
		return computeMinWireSize(t.Elem(), visiting)
	default:
		return 0
	}
}
