package serializer

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/cdr-go/pkg/util/conc"
	"github.com/lk2023060901/cdr-go/pkg/util/merr"
	"github.com/lk2023060901/cdr-go/pkg/util/retry"
)

const defaultSubmitAttempts = 5

// Batch 借助协程池并发地编解码一批独立的值。
type Batch struct {
	serializer Serializer
	pool       *conc.Pool[any]
	attempts   uint
}

// NewBatch 创建 Batch，pool 由调用方管理生命周期。
func NewBatch(s Serializer, pool *conc.Pool[any]) *Batch {
	return &Batch{
		serializer: s,
		pool:       pool,
		attempts:   defaultSubmitAttempts,
	}
}

// MarshalAll 并发编码 values，结果顺序与输入一致。
// 任一值失败时返回该错误，不返回部分结果。
func (b *Batch) MarshalAll(ctx context.Context, values ...any) ([][]byte, error) {
	futures := make([]*conc.Future[any], 0, len(values))
	for _, v := range values {
		if err := ctx.Err(); err != nil {
			_ = conc.BlockOnAll(futures...)
			return nil, err
		}
		v := v
		futures = append(futures, b.submit(ctx, func() (any, error) {
			return b.serializer.Marshal(v)
		}))
	}
	if err := conc.AwaitAll(futures...); err != nil {
		_ = conc.BlockOnAll(futures...)
		return nil, err
	}

	out := make([][]byte, len(futures))
	for i, f := range futures {
		out[i] = f.Value().([]byte)
	}
	return out, nil
}

// UnmarshalAll 并发地把 data[i] 解码到 targets[i]。
func (b *Batch) UnmarshalAll(ctx context.Context, data [][]byte, targets ...any) error {
	if len(data) != len(targets) {
		return merr.WrapErrParameterInvalidMsg("data and targets length mismatch, %d != %d", len(data), len(targets))
	}

	futures := make([]*conc.Future[any], 0, len(data))
	for i := range data {
		if err := ctx.Err(); err != nil {
			_ = conc.BlockOnAll(futures...)
			return err
		}
		payload, target := data[i], targets[i]
		futures = append(futures, b.submit(ctx, func() (any, error) {
			return nil, b.serializer.Unmarshal(payload, target)
		}))
	}
	// 等待全部任务结束，避免调用方在任务仍写入 targets 时读取。
	if err := conc.AwaitAll(futures...); err != nil {
		_ = conc.BlockOnAll(futures...)
		return err
	}
	return nil
}

// submit 提交任务；非阻塞协程池已满时按退避策略重试。
func (b *Batch) submit(ctx context.Context, task func() (any, error)) *conc.Future[any] {
	var future *conc.Future[any]
	err := retry.Do(ctx, func() error {
		future = b.pool.Submit(task)
		if future.Done() && errors.Is(future.Err(), merr.ErrPoolSubmitFail) {
			return future.Err()
		}
		return nil
	}, retry.Attempts(b.attempts),
		retry.RetryErr(merr.IsRetryableErr),
		retry.Sleep(time.Millisecond),
		retry.MaxSleepTime(20*time.Millisecond))
	if future == nil {
		return conc.Go(func() (any, error) { return nil, err })
	}
	return future
}
