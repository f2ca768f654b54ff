package main

import (
	"embed"
	"fmt"
	"log"
	"os"

	"henji/internal/app"
	"henji/internal/config"
	"henji/internal/core/clipboard"
	"henji/internal/core/storage"
	"henji/internal/logger"
	"henji/internal/remote"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

// Front-end bundle produced by the web build.
//
//go:embed all:frontend/dist
var assets embed.FS

func main() {
	config.BindFlags(pflag.CommandLine)
	pflag.Parse()

	// 初始化配置
	if err := config.Init(""); err != nil {
		log.Fatalf("config init failed: %v", err)
	}
	cfg := config.GetConfig()

	// 初始化日志系统
	var err error
	logger.Log, err = logger.New(logger.Options{
		FilePath:    cfg.Logging.FilePath,
		Level:       logger.ParseLevel(cfg.Logging.Level),
		Development: cfg.Logging.Development,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
		Compress:    cfg.Logging.Compress,
	})
	if err != nil {
		// logger.Log is unusable here, fall back to the standard logger
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Log.Close()
	logger.Log.Infof("configuration loaded from %s", config.GetConfigFilePath())

	osFs := afero.NewOsFs()

	// A missing media directory only disables saving; the app still starts.
	mediaDir, err := storage.EnsureMediaDir(osFs, config.AppName, cfg.Storage.MediaDir)
	if err != nil {
		logger.Log.Errorf("failed to create media dir: %v", err)
		mediaDir = ""
	}

	source, err := clipboard.NewFileSource(cfg.Clipboard.FileList)
	if err != nil {
		logger.Log.Warnf("%v; clipboard file listing disabled", err)
		source = clipboard.NoopSource{}
	}
	logger.Log.Infof("clipboard file source: %s", source.Name())

	bridge := app.NewApp(
		clipboard.NewFileReader(source, osFs, logger.Log.With("component", "clipboard")),
		clipboard.NewImageWriter(clipboard.NewSystemSink(), osFs, logger.Log.With("component", "clipboard")),
		remote.NewClient(remote.Options{
			BaseURL:      cfg.Remote.BaseURL,
			HeaderPrefix: cfg.Remote.HeaderPrefix,
			Logger:       logger.Log.With("component", "remote"),
		}),
		mediaDir,
		logger.Log.With("component", "app"),
	)

	startState := options.Normal
	if cfg.Window.Maximised {
		startState = options.Maximised
	}

	err = wails.Run(&options.App{
		Title:            cfg.Window.Title,
		Width:            cfg.Window.Width,
		Height:           cfg.Window.Height,
		WindowStartState: startState,
		AssetServer:      &assetserver.Options{Assets: assets},
		OnStartup:        bridge.Startup,
		OnShutdown:       bridge.Shutdown,
		Bind: []interface{}{
			bridge,
		},
	})
	if err != nil {
		logger.Log.Errorf("application exited with error: %v", err)
		logger.Log.Close()
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
