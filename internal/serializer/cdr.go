package serializer

import (
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/cdr-go/pkg/cdr"
	"github.com/lk2023060901/cdr-go/pkg/log"
	"github.com/lk2023060901/cdr-go/pkg/metrics"
	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

// CDRSerializer 使用配置好的字节序与大小策略进行 CDR 编解码，
// 每次调用都会记录 Prometheus 指标，失败时输出限速告警日志。
//
// CDRSerializer 不持有可变状态，可以在多个协程间共享。
type CDRSerializer struct {
	log.Binder

	opts       []cdr.Option
	endianness string
}

// 编译期断言：确保 CDRSerializer 实现了 Serializer 与 Sizer 接口。
var (
	_ Serializer = (*CDRSerializer)(nil)
	_ Sizer      = (*CDRSerializer)(nil)
)

// NewCDRSerializer 根据配置创建 CDRSerializer。
func NewCDRSerializer(cfg Config) (*CDRSerializer, error) {
	order, err := cfg.ByteOrder()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	endianness := order.String()

	s := &CDRSerializer{
		opts:       opts,
		endianness: endianness,
	}
	s.BindComponent("cdr-serializer", log.FieldEndianness(endianness))
	return s, nil
}

func (s *CDRSerializer) Marshal(v any) ([]byte, error) {
	start := time.Now()
	data, err := cdr.Marshal(v, s.opts...)
	s.observe(metrics.OpMarshal, start, uint64(len(data)), err)
	return data, err
}

// MarshalTo 把 v 编码后直接写入 w。
func (s *CDRSerializer) MarshalTo(w io.Writer, v any) (int, error) {
	start := time.Now()
	n, err := cdr.MarshalTo(w, v, s.opts...)
	s.observe(metrics.OpMarshal, start, uint64(n), err)
	return n, err
}

func (s *CDRSerializer) Unmarshal(data []byte, v any) error {
	start := time.Now()
	err := cdr.Unmarshal(data, v, s.opts...)
	s.observe(metrics.OpUnmarshal, start, uint64(len(data)), err)
	return err
}

// Size 返回 v 编码后的字节数。
func (s *CDRSerializer) Size(v any) (uint64, error) {
	start := time.Now()
	n, err := cdr.SizeOf(v, s.opts...)
	s.observe(metrics.OpSize, start, n, err)
	return n, err
}

// Endianness 返回当前使用的字节序名称。
func (s *CDRSerializer) Endianness() string {
	return s.endianness
}

func (s *CDRSerializer) observe(op string, start time.Time, n uint64, err error) {
	status := metrics.SuccessLabel
	if err != nil {
		status = metrics.FailLabel
		metrics.CodecErrors.WithLabelValues(op, strconv.Itoa(int(merr.Code(err)))).Inc()
		s.Logger().RatedWarn(1, "cdr codec operation failed",
			log.FieldOperation(op),
			zap.Int32("code", merr.Code(err)),
			zap.Error(err))
	} else {
		metrics.CodecBytes.WithLabelValues(op).Observe(float64(n))
	}
	metrics.CodecOperations.WithLabelValues(op, s.endianness, status).Inc()
	metrics.CodecLatency.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000)
}
