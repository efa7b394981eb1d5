// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// cdrNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	cdrNamespace = "cdr"

	codecSubsystem = "codec"

	// 标签名。
	opLabelName         = "op"
	endiannessLabelName = "endianness"
	statusLabelName     = "status"
	codeLabelName       = "code"

	SuccessLabel = "success"
	FailLabel    = "fail"

	OpMarshal   = "marshal"
	OpUnmarshal = "unmarshal"
	OpSize      = "size"
)

var (
	// buckets 为耗时直方图的桶划分，单位毫秒：
	// [0.001 0.002 ... 131.072]
	buckets = prometheus.ExponentialBuckets(0.001, 2, 18)

	// sizeBuckets 为编码结果大小的桶划分，单位字节：[8 32 128 ... 8M]
	sizeBuckets = prometheus.ExponentialBuckets(8, 4, 12)

	CodecOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cdrNamespace,
			Subsystem: codecSubsystem,
			Name:      "operations_total",
			Help:      "number of codec operations",
		}, []string{opLabelName, endiannessLabelName, statusLabelName})

	CodecBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cdrNamespace,
			Subsystem: codecSubsystem,
			Name:      "bytes",
			Help:      "size of encoded or decoded payloads in bytes",
			Buckets:   sizeBuckets,
		}, []string{opLabelName})

	CodecLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cdrNamespace,
			Subsystem: codecSubsystem,
			Name:      "latency_ms",
			Help:      "latency of codec operations in milliseconds",
			Buckets:   buckets,
		}, []string{opLabelName})

	CodecErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cdrNamespace,
			Subsystem: codecSubsystem,
			Name:      "errors_total",
			Help:      "number of failed codec operations by error code",
		}, []string{opLabelName, codeLabelName})

	registerOnce     sync.Once
	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册编解码相关的全部指标，重复调用只生效一次。
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(CodecOperations)
		r.MustRegister(CodecBytes)
		r.MustRegister(CodecLatency)
		r.MustRegister(CodecErrors)
		metricRegisterer = r
	})
}
