package log

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	_ WithLogger   = &Binder{}
	_ LoggerBinder = &Binder{}
)

// WithLogger 是一个用于访问本地 Logger 的接口。
type WithLogger interface {
	Logger() *MLogger
}

// LoggerBinder 是一个用于设置 Logger 的接口。
type LoggerBinder interface {
	SetLogger(logger *MLogger)
}

// Binder 嵌入到编解码组件中，保存组件自己的 Logger，可并发替换。
type Binder struct {
	logger atomic.Pointer[MLogger]
}

// BindComponent 绑定一个带组件名及附加字段的全局子 Logger。
func (w *Binder) BindComponent(component string, fields ...zap.Field) {
	w.logger.Store(With(append([]zap.Field{FieldComponent(component)}, fields...)...))
}

// SetLogger 将 Logger 绑定到 Binder 上。
func (w *Binder) SetLogger(logger *MLogger) {
	w.logger.Store(logger)
}

// Logger 返回绑定的 Logger，未绑定时返回全局 Logger。
func (w *Binder) Logger() *MLogger {
	l := w.logger.Load()
	if l == nil {
		return With()
	}
	return l
}
