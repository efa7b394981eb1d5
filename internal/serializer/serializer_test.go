package serializer

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/cdr-go/pkg/cdr"
	"github.com/lk2023060901/cdr-go/pkg/metrics"
	"github.com/lk2023060901/cdr-go/pkg/util/conc"
	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type reading struct {
	ID     uint32   `json:"id"`
	Label  string   `json:"label"`
	Points []point  `json:"points"`
	Flags  [2]bool  `json:"flags"`
	Ratio  float32  `json:"ratio"`
	Tags   []string `json:"tags"`
}

func sampleReading() reading {
	return reading{
		ID:     7,
		Label:  "triangle",
		Points: []point{{1, -1}, {-1, 1}, {0.5, 0.25}},
		Flags:  [2]bool{true, false},
		Ratio:  0.5,
		Tags:   []string{"", "a"},
	}
}

type SerializerSuite struct {
	suite.Suite
	registry *prometheus.Registry
}

func (s *SerializerSuite) SetupSuite() {
	s.registry = prometheus.NewRegistry()
	metrics.Register(s.registry)
}

func (s *SerializerSuite) counter(op, status string) float64 {
	families, err := s.registry.Gather()
	s.Require().NoError(err)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != "cdr_codec_operations_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["op"] == op && labels["status"] == status {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func (s *SerializerSuite) TestRoundTrip() {
	for _, endianness := range []string{"big", "little"} {
		ser, err := NewCDRSerializer(Config{Endianness: endianness})
		s.Require().NoError(err)
		s.Equal(endianness, ser.Endianness())

		in := sampleReading()
		data, err := ser.Marshal(in)
		s.Require().NoError(err)

		size, err := ser.Size(in)
		s.Require().NoError(err)
		s.EqualValues(len(data), size)

		var out reading
		s.Require().NoError(ser.Unmarshal(data, &out))
		s.Equal(in, out)
	}
}

func (s *SerializerSuite) TestMatchesCodec() {
	ser, err := NewCDRSerializer(Config{Endianness: "le"})
	s.Require().NoError(err)
	s.Equal("little", ser.Endianness())

	in := sampleReading()
	data, err := ser.Marshal(in)
	s.Require().NoError(err)
	expected, err := cdr.Marshal(in, cdr.WithEndianness(cdr.LittleEndian))
	s.Require().NoError(err)
	s.Equal(expected, data)

	var buf bytes.Buffer
	n, err := ser.MarshalTo(&buf, in)
	s.Require().NoError(err)
	s.Equal(len(data), n)
	s.Equal(data, buf.Bytes())
}

func (s *SerializerSuite) TestBounded() {
	ser, err := NewCDRSerializer(Config{MaxSize: 16})
	s.Require().NoError(err)

	before := s.counter(metrics.OpMarshal, metrics.FailLabel)
	_, err = ser.Marshal(point{1, 2})
	s.NoError(err)

	data, err := ser.Marshal(sampleReading())
	s.ErrorIs(err, cdr.ErrSizeExceeded)
	s.Nil(data)
	s.Equal(before+1, s.counter(metrics.OpMarshal, metrics.FailLabel))

	_, err = ser.Size([3]float64{})
	s.ErrorIs(err, cdr.ErrSizeExceeded)
}

func (s *SerializerSuite) TestUnmarshalFailure() {
	ser, err := NewCDRSerializer(DefaultConfig())
	s.Require().NoError(err)

	before := s.counter(metrics.OpUnmarshal, metrics.FailLabel)
	var out reading
	err = ser.Unmarshal([]byte{0x00, 0x00}, &out)
	s.ErrorIs(err, cdr.ErrEndOfInput)
	s.True(merr.IsCodecError(err))
	s.Equal(before+1, s.counter(metrics.OpUnmarshal, metrics.FailLabel))

	var flag bool
	s.ErrorIs(ser.Unmarshal([]byte{0x02}, &flag), cdr.ErrInvalidEncoding)
}

func (s *SerializerSuite) TestStartPosition() {
	ser, err := NewCDRSerializer(Config{StartPosition: 4})
	s.Require().NoError(err)

	data, err := ser.Marshal(struct {
		A uint32
		B float64
	}{1, 2})
	s.Require().NoError(err)
	s.Len(data, 12)
}

func (s *SerializerSuite) TestInvalidConfig() {
	_, err := NewCDRSerializer(Config{Endianness: "middle"})
	s.ErrorIs(err, merr.ErrConfigInvalid)

	_, err = Config{Endianness: "middle"}.ByteOrder()
	s.ErrorIs(err, merr.ErrConfigInvalid)
}

func (s *SerializerSuite) TestConfigByteOrder() {
	cases := map[string]cdr.Endianness{
		"":           cdr.BigEndian,
		"big":        cdr.BigEndian,
		"LE":         cdr.LittleEndian,
		"big-endian": cdr.BigEndian,
	}
	for in, expected := range cases {
		order, err := Config{Endianness: in}.ByteOrder()
		s.Require().NoError(err, in)
		s.Equal(expected, order, in)

		ser, err := NewCDRSerializer(Config{Endianness: in})
		s.Require().NoError(err, in)
		s.Equal(expected.String(), ser.Endianness(), in)
	}
}

func (s *SerializerSuite) TestJSON() {
	var ser Serializer = JSONSerializer{}
	in := sampleReading()
	data, err := ser.Marshal(in)
	s.Require().NoError(err)
	s.Contains(string(data), `"label":"triangle"`)

	var out reading
	s.Require().NoError(ser.Unmarshal(data, &out))
	s.Equal(in, out)
}

func TestSerializer(t *testing.T) {
	suite.Run(t, new(SerializerSuite))
}

func TestBatch(t *testing.T) {
	ser, err := NewCDRSerializer(DefaultConfig())
	require.NoError(t, err)
	pool := conc.NewPool[any](4)
	defer pool.Release()
	batch := NewBatch(ser, pool)

	values := make([]any, 0, 16)
	for i := 0; i < 16; i++ {
		r := sampleReading()
		r.ID = uint32(i)
		values = append(values, r)
	}

	encoded, err := batch.MarshalAll(context.Background(), values...)
	require.NoError(t, err)
	require.Len(t, encoded, len(values))

	outs := make([]reading, len(values))
	targets := make([]any, len(values))
	for i := range outs {
		targets[i] = &outs[i]
	}
	require.NoError(t, batch.UnmarshalAll(context.Background(), encoded, targets...))
	for i := range outs {
		assert.Equal(t, values[i], outs[i])
	}
}

func TestBatchErrors(t *testing.T) {
	ser, err := NewCDRSerializer(DefaultConfig())
	require.NoError(t, err)
	pool := conc.NewPool[any](2)
	defer pool.Release()
	batch := NewBatch(ser, pool)

	_, err = batch.MarshalAll(context.Background(), point{1, 2}, map[string]int{"a": 1})
	assert.ErrorIs(t, err, cdr.ErrTypeNotSupported)

	var p point
	err = batch.UnmarshalAll(context.Background(), [][]byte{{0x01}}, &p, &p)
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = batch.MarshalAll(ctx, point{1, 2})
	assert.ErrorIs(t, err, context.Canceled)

	pool.Release()
	_, err = batch.MarshalAll(context.Background(), point{1, 2})
	assert.ErrorIs(t, err, merr.ErrPoolClosed)
}

func TestBatchNonBlockingPool(t *testing.T) {
	ser, err := NewCDRSerializer(DefaultConfig())
	require.NoError(t, err)
	pool := conc.NewPool[any](1, conc.WithNonBlocking(true))
	defer pool.Release()
	batch := NewBatch(ser, pool)

	values := []any{point{1, 2}, point{3, 4}, point{5, 6}}
	encoded, err := batch.MarshalAll(context.Background(), values...)
	require.NoError(t, err)
	for i, b := range encoded {
		expected, err := cdr.Marshal(values[i])
		require.NoError(t, err)
		assert.Equal(t, expected, b)
	}
}
