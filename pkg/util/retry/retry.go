// Copyright (C) 2019-2020 Zilliz. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License
// is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
// or implied. See the License for the specific language governing permissions and limitations under the License.

package retry

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/cdr-go/pkg/log"
	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

func getCaller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return file + ":" + strconv.Itoa(line)
}

// Do 使用重试机制执行 fn。
// 不可恢复的错误，或不满足 RetryErr 条件的错误会立即返回。
func Do(ctx context.Context, fn func() error, opts ...Option) error {
	c := newDefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return run(ctx, c, getCaller(2), func() (bool, error) {
		err := fn()
		if err == nil {
			return false, nil
		}
		if !IsRecoverable(err) {
			return false, err
		}
		if c.isRetryErr != nil && !c.isRetryErr(err) {
			return false, err
		}
		return true, err
	})
}

// Handle 使用重试机制执行 fn，由 fn 返回的 shouldRetry 决定是否继续。
// 与 Do 不同，Handle 总是受最大尝试次数限制。
func Handle(ctx context.Context, fn func() (bool, error), opts ...Option) error {
	c := newDefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if c.attempts == 0 {
		c.attempts = newDefaultConfig().attempts
	}
	return run(ctx, c, getCaller(2), fn)
}

func run(ctx context.Context, c *config, caller string, fn func() (bool, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := log.Ctx(ctx).With(zap.String("caller", caller), zap.Uint("attempt", c.attempts))
	sleep := c.sleep
	var lastErr error
	for i := uint(0); c.attempts == 0 || i < c.attempts; i++ {
		shouldRetry, err := fn()
		if err == nil {
			return nil
		}
		if i%4 == 0 {
			logger.Warn("retry func failed", zap.Uint("retried", i), zap.Error(err))
		}

		if !shouldRetry {
			logger.Warn("retry func failed, not retryable", zap.Uint("retried", i))
			return pickErr(err, lastErr)
		}

		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < sleep {
			logger.Warn("retry func failed, deadline", zap.Uint("retried", i))
			return pickErr(err, lastErr)
		}

		lastErr = err
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			logger.Warn("retry func failed, ctx done", zap.Uint("retried", i))
			return lastErr
		}

		sleep *= 2
		if sleep > c.maxSleepTime {
			sleep = c.maxSleepTime
		}
	}
	logger.Warn("retry func failed, reach max retry")
	return lastErr
}

// pickErr 在 err 为上下文错误时返回之前的真实错误。
func pickErr(err, lastErr error) error {
	if lastErr != nil && errors.IsAny(err, context.Canceled, context.DeadlineExceeded) {
		return lastErr
	}
	return err
}

// errUnrecoverable 表示不可恢复错误的标记实例。
var errUnrecoverable = errors.New("unrecoverable error")

// Unrecoverable 将错误包装为不可恢复错误，使重试逻辑能够快速返回。
func Unrecoverable(err error) error {
	return merr.Combine(err, errUnrecoverable)
}

// IsRecoverable 判断给定错误是否为“可恢复”错误。
func IsRecoverable(err error) bool {
	return !errors.Is(err, errUnrecoverable)
}
