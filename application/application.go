package application

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/lk2023060901/cdr-go/internal/serializer"
	zlog "github.com/lk2023060901/cdr-go/pkg/log"
	"github.com/lk2023060901/cdr-go/pkg/metrics"
	"github.com/lk2023060901/cdr-go/pkg/util/conc"
	"github.com/lk2023060901/cdr-go/pkg/util/merr"
	zviper "github.com/lk2023060901/cdr-go/pkg/util/viper"
)

// Application 是 CDR 服务的运行时容器，持有配置、日志、
// 序列化器与协程池等公共依赖。
type Application struct {
	cfg      *zviper.Config
	conf     Config
	loggers  map[string]*zlog.MLogger
	registry prometheus.Registerer

	serializer *serializer.CDRSerializer
	pool       *conc.Pool[any]
	batch      *serializer.Batch
	server     *http.Server
	undoProcs  func()
}

// Option 用于定制 Application。
type Option func(*Application)

// WithRegisterer 指定指标注册器，默认为 prometheus.DefaultRegisterer。
func WithRegisterer(r prometheus.Registerer) Option {
	return func(a *Application) {
		a.registry = r
	}
}

// New creates a new Application instance.
func New(opts ...Option) *Application {
	a := &Application{
		registry: prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run 解析命令行参数（os.Args）并加载配置文件，优先级：
//  1. 默认：./config.yaml
//  2. 环境变量：CDR_CONFIG_FILE_PATH
//  3. 命令行：--config <path> 或 --config=<path>
func (a *Application) Run() error {
	return a.run(os.Args[1:])
}

func (a *Application) run(args []string) error {
	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := cfg.Unmarshal(&a.conf); err != nil {
		return merr.WrapErrConfigInvalid("config", err.Error())
	}
	if err := a.conf.validate(); err != nil {
		return err
	}

	if err := a.initLogging(); err != nil {
		return err
	}

	undo, err := maxprocs.Set(maxprocs.Logger(zlog.S().Infof))
	if err != nil {
		zlog.Warn("failed to set GOMAXPROCS", zap.Error(err))
	} else {
		a.undoProcs = undo
	}

	if err := a.initCodec(); err != nil {
		return err
	}
	if err := a.initMetrics(); err != nil {
		return err
	}

	zlog.Info("cdr application started",
		zlog.FieldEndianness(a.serializer.Endianness()),
		zap.Uint64("maxSize", a.conf.Codec.MaxSize),
		zap.Int("poolSize", a.pool.Cap()))
	return nil
}

// Config returns the loaded configuration, if any.
func (a *Application) Config() *zviper.Config {
	return a.cfg
}

// Settings 返回反序列化后的应用配置。
func (a *Application) Settings() Config {
	return a.conf
}

// Serializer 返回按配置创建的 CDR 序列化器。
func (a *Application) Serializer() *serializer.CDRSerializer {
	return a.serializer
}

// Batch 返回基于应用协程池的批量编解码器。
func (a *Application) Batch() *serializer.Batch {
	return a.batch
}

// Logger returns a named logger created from configuration.
// If the name is unknown, it falls back to the global logger.
func (a *Application) Logger(name string) *zlog.MLogger {
	if lg, ok := a.loggers[name]; ok && lg != nil {
		return lg
	}
	return zlog.With(zlog.FieldModule(name))
}

// Close 释放协程池、关闭指标服务并刷新日志。
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.server != nil {
		errs = append(errs, a.server.Shutdown(ctx))
	}
	if a.pool != nil {
		a.pool.Release()
	}
	if a.undoProcs != nil {
		a.undoProcs()
	}
	zlog.Info("cdr application stopped")
	_ = zlog.Sync()
	return merr.Combine(errs...)
}

// loadConfig resolves config file path and loads it via viper wrapper.
func (a *Application) loadConfig(args []string) (*zviper.Config, error) {
	configPath := defaultConfigPath

	if envPath := strings.TrimSpace(os.Getenv(configPathEnv)); envPath != "" {
		configPath = envPath
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" {
			if i+1 >= len(args) {
				return nil, merr.WrapErrParameterMissing("--config")
			}
			configPath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--config=") {
			val := strings.TrimPrefix(arg, "--config=")
			if val != "" {
				configPath = val
			}
			continue
		}
	}

	cfg := zviper.New()
	setDefaults(cfg)
	if err := cfg.LoadFile(configPath); err != nil {
		return nil, err
	}

	return cfg, nil
}

// initLogging initializes global and module-level loggers.
func (a *Application) initLogging() error {
	logger, props, err := zlog.InitLogger(&a.conf.Log)
	if err != nil {
		return errors.Wrap(err, "init global logger")
	}
	zlog.ReplaceGlobals(logger, props)
	return a.initModuleLoggersFromConfig()
}

// initModuleLoggersFromConfig creates named loggers from YAML config under "logging" key.
//
// Example:
//
//	logging:
//	  batch:
//	    level: debug
//	    stdout: true
//	    file:
//	      rootpath: ./logs
//	      filename: batch.log
func (a *Application) initModuleLoggersFromConfig() error {
	raw := make(map[string]zlog.Config)
	if err := a.cfg.UnmarshalKey("logging", &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	a.loggers = make(map[string]*zlog.MLogger, len(raw))
	for name, lc := range raw {
		cfgCopy := lc
		logger, _, err := zlog.InitLogger(&cfgCopy)
		if err != nil {
			return errors.Wrapf(err, "init module logger %q", name)
		}
		a.loggers[name] = &zlog.MLogger{Logger: logger.With(zlog.FieldModule(name))}
	}

	return nil
}

func (a *Application) initCodec() error {
	s, err := serializer.NewCDRSerializer(a.conf.Codec)
	if err != nil {
		return err
	}
	s.SetLogger(a.Logger("codec"))
	a.serializer = s

	opts := []conc.PoolOption{
		conc.WithNonBlocking(a.conf.Pool.NonBlocking),
		conc.WithConcealPanic(true),
	}
	if a.conf.Pool.Size > 0 {
		a.pool = conc.NewPool[any](a.conf.Pool.Size, opts...)
	} else {
		a.pool = conc.NewDefaultPool[any](opts...)
	}
	a.batch = serializer.NewBatch(s, a.pool)
	return nil
}

func (a *Application) initMetrics() error {
	if !a.conf.Metrics.Enable {
		return nil
	}
	metrics.Register(a.registry)
	if a.conf.Metrics.Address == "" {
		return nil
	}

	gatherer := prometheus.DefaultGatherer
	if g, ok := a.registry.(prometheus.Gatherer); ok {
		gatherer = g
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	a.server = &http.Server{
		Addr:              a.conf.Metrics.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("metrics server exited", zap.String("address", a.conf.Metrics.Address), zap.Error(err))
		}
	}()
	zlog.Info("metrics server listening", zap.String("address", a.conf.Metrics.Address))
	return nil
}
