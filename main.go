package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/pkg-edge/pkg-edge/internal/config"
	"github.com/pkg-edge/pkg-edge/internal/logging"
	"github.com/pkg-edge/pkg-edge/internal/metrics"
	"github.com/pkg-edge/pkg-edge/internal/packstore"
	"github.com/pkg-edge/pkg-edge/internal/serve"
	"github.com/pkg-edge/pkg-edge/internal/server"
	"github.com/pkg-edge/pkg-edge/internal/server/routes"
	"github.com/pkg-edge/pkg-edge/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["storage_path"] = cfg.StoragePath
		fields["public_origin"] = cfg.PublicOrigin
		fields["auto_index"] = cfg.AutoIndex
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// CLI 启动遵循“配置 → 包存储 → 分发器 → Fiber server”顺序，
	// 保证所有请求共享同一份存储与分发实例。
	store, err := packstore.NewStore(cfg.StoragePath)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化存储目录失败: %v\n", err)
		return 1
	}

	dispatcher := serve.NewDispatcher(serve.Options{
		Logger:          logger,
		Origin:          cfg.OriginBase(),
		AutoIndex:       cfg.AutoIndex,
		MaxPreviewBytes: cfg.MaxPreviewBytes.Int64(),
	})

	serverMetrics := metrics.New()

	fields := logging.BaseFields("startup", opts.configPath)
	fields["storage_path"] = cfg.StoragePath
	fields["listen_port"] = cfg.ListenPort
	fields["auto_index"] = cfg.AutoIndex
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, store, dispatcher, serverMetrics, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("pkg-edge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 PKG_EDGE_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("PKG_EDGE_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(
	cfg *config.Config,
	store *packstore.Store,
	dispatcher *serve.Dispatcher,
	serverMetrics *metrics.ServerMetrics,
	logger *logrus.Logger,
) error {
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    serverMetrics,
	})
	if err != nil {
		return err
	}
	routes.RegisterDiagRoutes(app, serverMetrics)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   cfg.ListenPort,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", cfg.ListenPort))
}
