// Copyright 2019 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogMaxSize = 300 // 日志文件默认最大大小，单位 MB。

	FormatJSON    = "json"
	FormatConsole = "console"
)

// FileLogConfig 为文件日志配置，留空 Filename 表示不写文件。
type FileLogConfig struct {
	RootPath string `toml:"rootpath" json:"rootpath" mapstructure:"rootpath"`
	Filename string `toml:"filename" json:"filename" mapstructure:"filename"`
	// MaxSize 单位 MB。
	MaxSize    int `toml:"max-size" json:"max-size" mapstructure:"max-size"`
	MaxDays    int `toml:"max-days" json:"max-days" mapstructure:"max-days"`
	MaxBackups int `toml:"max-backups" json:"max-backups" mapstructure:"max-backups"`
}

// RateConfig 为限流日志的全局配置，未开启时限流日志不丢弃任何内容。
type RateConfig struct {
	Enable          bool    `toml:"enable" json:"enable" mapstructure:"enable"`
	CreditPerSecond float64 `toml:"credit-per-second" json:"credit-per-second" mapstructure:"credit-per-second"`
	MaxBalance      float64 `toml:"max-balance" json:"max-balance" mapstructure:"max-balance"`
}

// Config 为日志配置，可从 toml/json/yaml 反序列化。
type Config struct {
	// Level 为日志级别，"trace" 按 debug 处理。
	Level string `toml:"level" json:"level" mapstructure:"level"`
	// Format 为 json 或 console，默认 console。
	Format           string        `toml:"format" json:"format" mapstructure:"format"`
	DisableTimestamp bool          `toml:"disable-timestamp" json:"disable-timestamp" mapstructure:"disable-timestamp"`
	Stdout           bool          `toml:"stdout" json:"stdout" mapstructure:"stdout"`
	File             FileLogConfig `toml:"file" json:"file" mapstructure:"file"`
	Rate             RateConfig    `toml:"rate" json:"rate" mapstructure:"rate"`
	// Development 为 true 时 DPanic 会真正 panic，并对 Warn 及以上级别记录堆栈。
	Development       bool `toml:"development" json:"development" mapstructure:"development"`
	DisableCaller     bool `toml:"disable-caller" json:"disable-caller" mapstructure:"disable-caller"`
	DisableStacktrace bool `toml:"disable-stacktrace" json:"disable-stacktrace" mapstructure:"disable-stacktrace"`
	// Sampling 以“每秒”为单位，行为参考 zapcore.NewSampler。
	Sampling *zap.SamplingConfig `toml:"sampling" json:"sampling" mapstructure:"sampling"`
}

// ZapProperties 记录 zap 日志相关的核心信息。
type ZapProperties struct {
	Core   zapcore.Core
	Syncer zapcore.WriteSyncer
	Level  zap.AtomicLevel
}

func (cfg *Config) newEncoder() zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.StringDurationEncoder
	if cfg.DisableTimestamp {
		ec.TimeKey = zapcore.OmitKey
	}
	if cfg.Format == FormatJSON {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func (cfg *Config) buildOptions(errSink zapcore.WriteSyncer) []zap.Option {
	opts := []zap.Option{zap.ErrorOutput(errSink)}

	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}

	stackLevel := zap.ErrorLevel
	if cfg.Development {
		stackLevel = zap.WarnLevel
	}
	if !cfg.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(stackLevel))
	}

	if cfg.Sampling != nil {
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, time.Second, cfg.Sampling.Initial, cfg.Sampling.Thereafter, zapcore.SamplerHook(cfg.Sampling.Hook))
		}))
	}
	return opts
}
