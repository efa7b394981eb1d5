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

package hardware

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/lk2023060901/cdr-go/pkg/log"
)

// GetCPUNum 返回逻辑 CPU 数量，并以 GOMAXPROCS 为上限（容器内由 automaxprocs 调整）。
func GetCPUNum() int {
	maxProcs := runtime.GOMAXPROCS(0)
	count, err := cpu.Counts(true)
	if err != nil || count <= 0 {
		log.RatedWarn(60, "failed to get cpu counts, use GOMAXPROCS", zap.Error(err))
		return maxProcs
	}
	if count > maxProcs {
		return maxProcs
	}
	return count
}

// GetMemoryCount 返回物理内存总量（字节），获取失败时返回 0。
func GetMemoryCount() uint64 {
	stats, err := mem.VirtualMemory()
	if err != nil {
		log.RatedWarn(60, "failed to get memory count", zap.Error(err))
		return 0
	}
	return stats.Total
}
