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

package merr

import (
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrCdrEndOfInput(4, 4, 3)
	err = errors.Wrap(err, "failed to decode u32")
	s.ErrorIs(err, ErrCdrEndOfInput)
	s.Equal(Code(ErrCdrEndOfInput), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errUnexpected))
	s.Equal(errUnexpected.errCode, Code(os.ErrClosed))
	s.Equal(int32(0), Code(nil))

	sameCodeErr := newCodecError("new error", ErrCdrEndOfInput.errCode, false)
	s.True(sameCodeErr.Is(ErrCdrEndOfInput))
}

func (s *ErrSuite) TestWrap() {
	// CDR 编解码相关错误。
	s.ErrorIs(WrapErrCdrSizeExceeded(8, 4, 8), ErrCdrSizeExceeded)
	s.ErrorIs(WrapErrCdrEndOfInput(0, 4, 3, "read u32"), ErrCdrEndOfInput)
	s.ErrorIs(WrapErrCdrInvalidEncoding("bool must be 0 or 1", 2), ErrCdrInvalidEncoding)
	s.ErrorIs(WrapErrCdrTypeNotSupported("map[string]int"), ErrCdrTypeNotSupported)
	s.ErrorIs(WrapErrCdrNumberOutOfRange[uint64]("length", 1<<33, 0, 1<<32-1), ErrCdrNumberOutOfRange)

	// 参数相关错误。
	s.ErrorIs(WrapErrParameterInvalid("big", "middle", "unknown endianness"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidRange(1, 8, 3, "alignment"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("target must be a pointer, got %s", "int"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterMissing("codec.endianness"), ErrParameterMissing)
	s.ErrorIs(WrapErrParameterTooLarge("unit test"), ErrParameterTooLarge)

	// 配置相关错误。
	s.ErrorIs(WrapErrConfigNotFound("./config.yaml", os.ErrNotExist), ErrConfigNotFound)
	s.ErrorIs(WrapErrConfigInvalid("codec.max-size", -1), ErrConfigInvalid)
	s.Nil(WrapErrConfigNotFound("./config.yaml", nil))

	// 协程池相关错误。
	s.ErrorIs(WrapErrPoolClosed("released"), ErrPoolClosed)
	s.ErrorIs(WrapErrPoolSubmitFail(errors.New("too many goroutines")), ErrPoolSubmitFail)
	s.ErrorIs(WrapErrPoolTaskPanicked("boom"), ErrPoolTaskPanicked)
	s.ErrorIs(WrapErrOperationNotSupported("decode"), ErrOperationNotSupported)
}

func (s *ErrSuite) TestWrapMessage() {
	err := WrapErrCdrSizeExceeded(8, 4, 8)
	s.Equal("cdr size limit exceeded[limit=8][pos=4][need=8]", err.Error())

	err = WrapErrCdrInvalidEncoding("bool must be 0 or 1", 2)
	s.Equal("cdr invalid encoding[actual=2]: bool must be 0 or 1", err.Error())

	err = WrapErrCdrNumberOutOfRange("length", 5, 0, 4)
	s.Equal("cdr number out of range[5 out of range 0 <= length <= 4]", err.Error())
}

func (s *ErrSuite) TestRetryable() {
	s.False(IsRetryableErr(WrapErrCdrEndOfInput(0, 1, 0)))
	s.False(IsRetryableErr(WrapErrCdrSizeExceeded(1, 1, 1)))
	s.True(IsRetryableErr(WrapErrPoolSubmitFail(errors.New("full"))))
	s.True(IsRetryableErr(errors.Wrap(WrapErrPoolSubmitFail(errors.New("full")), "batch")))
	s.False(IsRetryableErr(errors.New("plain")))
}

func (s *ErrSuite) TestIsCodecError() {
	s.True(IsCodecError(WrapErrCdrInvalidEncoding("terminator", 1)))
	s.True(IsCodecError(errors.Wrap(ErrCdrTypeNotSupported, "field X")))
	s.False(IsCodecError(ErrParameterInvalid))
	s.False(IsCodecError(nil))
}

func (s *ErrSuite) TestErrorType() {
	err := WrapErrAsInputError(WrapErrCdrInvalidEncoding("bool", 7))
	s.Equal(InputError, GetErrorType(err))
	s.Equal(SystemError, GetErrorType(ErrPoolClosed))
	s.Equal("input_error", InputError.String())
}

func (s *ErrSuite) TestCanceledOrTimeout() {
	s.True(IsCanceledOrTimeout(errors.Wrap(context.Canceled, "pool")))
	s.True(IsCanceledOrTimeout(context.DeadlineExceeded))
	s.False(IsCanceledOrTimeout(ErrCdrEndOfInput))
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second", err.Error())
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
}

func (s *ErrSuite) TestCombineCode() {
	err := Combine(WrapErrCdrSizeExceeded(1, 0, 2), WrapErrCdrEndOfInput(0, 1, 0))
	s.Equal(Code(ErrCdrEndOfInput), Code(err))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
