package serializer

// Serializer 抽象了“对象 <-> 字节流”的序列化能力。
//
// CDRSerializer 为主实现，JSONSerializer 用于调试输出与对照。
type Serializer interface {
	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	Unmarshal(data []byte, v any) error
}

// Sizer 由能在编码前给出结果大小的序列化器实现。
type Sizer interface {
	Size(v any) (uint64, error)
}
