package application

import (
	"github.com/lk2023060901/cdr-go/internal/serializer"
	zlog "github.com/lk2023060901/cdr-go/pkg/log"
	"github.com/lk2023060901/cdr-go/pkg/util/merr"
	zviper "github.com/lk2023060901/cdr-go/pkg/util/viper"
)

const (
	defaultConfigPath = "./config.yaml"
	configPathEnv     = "CDR_CONFIG_FILE_PATH"
)

// PoolConfig 为批量编解码协程池配置。
type PoolConfig struct {
	// Size 为 0 时使用 CPU 数量。
	Size        int  `toml:"size" json:"size" mapstructure:"size"`
	NonBlocking bool `toml:"non-blocking" json:"non-blocking" mapstructure:"non-blocking"`
}

// MetricsConfig 为 Prometheus 指标配置。
type MetricsConfig struct {
	Enable bool `toml:"enable" json:"enable" mapstructure:"enable"`
	// Address 非空时在该地址的 /metrics 上暴露指标。
	Address string `toml:"address" json:"address" mapstructure:"address"`
}

// Config 为应用的完整配置。
type Config struct {
	Codec   serializer.Config `toml:"codec" json:"codec" mapstructure:"codec"`
	Pool    PoolConfig        `toml:"pool" json:"pool" mapstructure:"pool"`
	Log     zlog.Config       `toml:"log" json:"log" mapstructure:"log"`
	Metrics MetricsConfig     `toml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// setDefaults 为需要环境变量覆盖的 key 注册默认值。
func setDefaults(cfg *zviper.Config) {
	cfg.SetDefault("codec.endianness", "big")
	cfg.SetDefault("codec.max-size", 0)
	cfg.SetDefault("codec.start-position", 0)
	cfg.SetDefault("pool.size", 0)
	cfg.SetDefault("pool.non-blocking", false)
	cfg.SetDefault("log.level", "info")
	cfg.SetDefault("log.format", zlog.FormatConsole)
	cfg.SetDefault("log.stdout", true)
	cfg.SetDefault("log.file.rootpath", "")
	cfg.SetDefault("log.file.filename", "")
	cfg.SetDefault("metrics.enable", false)
	cfg.SetDefault("metrics.address", "")
}

func (c *Config) validate() error {
	if c.Pool.Size < 0 {
		return merr.WrapErrConfigInvalid("pool.size", c.Pool.Size)
	}
	if _, err := c.Codec.Options(); err != nil {
		return err
	}
	return nil
}
