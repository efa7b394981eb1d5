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

package conc

import (
	"github.com/cockroachdb/errors"
	ants "github.com/panjf2000/ants/v2"
	"go.uber.org/atomic"

	"github.com/lk2023060901/cdr-go/pkg/util/hardware"
	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

// Pool 是基于 ants 的泛型协程池，每次提交返回一个 Future。
type Pool[T any] struct {
	inner     *ants.Pool
	opt       *poolOption
	submitted *atomic.Int64
}

// NewPool 创建容量为 cap 的协程池。
// 参数非法时 panic，与 ants 的行为保持一致。
func NewPool[T any](cap int, opts ...PoolOption) *Pool[T] {
	opt := defaultPoolOption()
	for _, o := range opts {
		o(opt)
	}

	pool, err := ants.NewPool(cap, opt.antsOptions()...)
	if err != nil {
		panic(err)
	}

	return &Pool[T]{
		inner:     pool,
		opt:       opt,
		submitted: atomic.NewInt64(0),
	}
}

// NewDefaultPool 创建容量为 CPU 数量的协程池。
func NewDefaultPool[T any](opts ...PoolOption) *Pool[T] {
	return NewPool[T](hardware.GetCPUNum(), opts...)
}

// Submit 提交任务。
// 协程池已关闭或提交失败时，返回的 Future 立即带有对应错误。
func (pool *Pool[T]) Submit(method func() (T, error)) *Future[T] {
	future := newFuture[T]()
	err := pool.inner.Submit(func() {
		defer close(future.ch)
		defer func() {
			if x := recover(); x != nil {
				future.err = merr.WrapErrPoolTaskPanicked(x)
				if !pool.opt.concealPanic {
					panic(x)
				}
			}
		}()
		if pool.opt.preHandler != nil {
			pool.opt.preHandler()
		}
		future.value, future.err = method()
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolClosed) {
			future.err = merr.WrapErrPoolClosed()
		} else {
			future.err = merr.WrapErrPoolSubmitFail(err)
		}
		close(future.ch)
		return future
	}
	pool.submitted.Inc()
	return future
}

// Cap 返回协程池容量。
func (pool *Pool[T]) Cap() int {
	return pool.inner.Cap()
}

// Running 返回正在运行的 worker 数量。
func (pool *Pool[T]) Running() int {
	return pool.inner.Running()
}

// Submitted 返回成功提交的任务总数。
func (pool *Pool[T]) Submitted() int64 {
	return pool.submitted.Load()
}

// Free 返回空闲容量。
func (pool *Pool[T]) Free() int {
	return pool.inner.Free()
}

// Resize 调整协程池容量。
func (pool *Pool[T]) Resize(size int) error {
	if pool.opt.preAlloc {
		return merr.WrapErrOperationNotSupported("resize", "pool is pre-allocated")
	}
	if size <= 0 {
		return merr.WrapErrParameterInvalidMsg("pool size must be positive, got %d", size)
	}
	pool.inner.Tune(size)
	return nil
}

// Release 关闭协程池，之后的提交都会失败。
func (pool *Pool[T]) Release() {
	pool.inner.Release()
}

// IsClosed 报告协程池是否已关闭。
func (pool *Pool[T]) IsClosed() bool {
	return pool.inner.IsClosed()
}
