package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bjo163/expiryexpert/config"
	"github.com/bjo163/expiryexpert/internal/adminapi"
	"github.com/bjo163/expiryexpert/internal/app"
	"github.com/bjo163/expiryexpert/internal/webserver"
)

var (
	conffile = flag.String("c", "expiryexpert.yml", "config file path")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	webserver.Init(webserver.Dependencies{
		Config:   cfg,
		Store:    application.Store(),
		Reminder: application.Reminder(),
		Toasts:   application.Toasts(),
		Settings: application.ConfigMgr(),
	})
	adminapi.InitRouter()

	application.StartBackgroundJobs()

	go func() {
		if err := webserver.Start(cfg.GetWebAddr()); err != nil {
			zap.L().Error("webserver stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webserver.Shutdown(ctx); err != nil {
		zap.L().Error("shutdown error", zap.Error(err))
	}
}
