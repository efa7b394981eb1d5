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
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/lk2023060901/cdr-go/pkg/util/merr"
)

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return merr.WrapErrPoolSubmitFail(errors.New("overload"))
		}
		return nil
	}, Sleep(time.Millisecond))
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Do(context.Background(), func() error {
		calls++
		return boom
	}, Attempts(4), Sleep(time.Millisecond), MaxSleepTime(2*time.Millisecond))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, calls)
}

func TestDoUnrecoverable(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return Unrecoverable(merr.ErrCdrInvalidEncoding)
	}, Sleep(time.Millisecond))
	assert.ErrorIs(t, err, merr.ErrCdrInvalidEncoding)
	assert.False(t, IsRecoverable(err))
	assert.Equal(t, 1, calls)
}

func TestDoRetryErr(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return merr.WrapErrCdrEndOfInput(0, 4, 0)
	}, RetryErr(merr.IsRetryableErr), Sleep(time.Millisecond))
	assert.ErrorIs(t, err, merr.ErrCdrEndOfInput)
	assert.Equal(t, 1, calls)
}

func TestDoContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	boom := errors.New("boom")
	err = Do(ctx, func() error { return boom }, Attempts(0), Sleep(5*time.Millisecond))
	assert.ErrorIs(t, err, boom)
}

func TestHandle(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Handle(context.Background(), func() (bool, error) {
		calls++
		return calls < 2, boom
	}, Sleep(time.Millisecond))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)

	err = Handle(context.Background(), func() (bool, error) {
		return false, nil
	})
	assert.NoError(t, err)
}
