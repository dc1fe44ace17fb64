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

	"github.com/moatazsakr78/heawabas-main-sub000/config"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/adminapi"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/app"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	showVer  = flag.Bool("v", false, "show version")
	conffile = flag.String("c", "heawabas.yml", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and re-create the remote tables")
)

var (
	BuildVersion = "dev"
	ReleaseDate  = ""
	CommitHash   = ""
)

func printVersion() {
	fmt.Printf("heawabas catalog service %s (%s) %s\n", BuildVersion, CommitHash, ReleaseDate)
}

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}
	if *showVer {
		printVersion()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("remote tables recreated")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	application.StartBackgroundJobs(ctx)

	webserver.Init(application)
	adminapi.Init()

	go func() {
		if err := webserver.Listen(); err != nil {
			zap.S().Errorf("web server stopped: %v", err)
			cancel()
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigs:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = webserver.Shutdown(shutdownCtx)
}
