package main

import (
	"context"
	"flag"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/vipmap/inventory-server/config"
	"github.com/vipmap/inventory-server/router"
	"github.com/vipmap/inventory-server/server"
	"github.com/vipmap/inventory-server/util/task"
)

// Rev holds binary revision string
// Set manually at build time using:
//    go build -ldflags "-X main.Rev=`git rev-parse --short HEAD`"
var Rev string

// Ver holds the release tag the binary was built from.
var Ver string

func main() {
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	if err := serve(Ver, Rev, cfg); err != nil {
		glog.Exitf("inventory-server failed: %v", err)
	}
}

const configFileName = "vipmap"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func serve(version, revision string, cfg *config.Configuration) error {
	shutdownCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := router.New(cfg, shutdownCtx)
	if err != nil {
		return err
	}

	cacheCleanupTask := task.NewTickerTaskWithOptions(task.Options{
		Interval:       cfg.Cache.CleanupInterval(),
		Runner:         r.Cache,
		SkipInitialRun: true,
	})
	cacheCleanupTask.Start()

	reconcilerTask := task.NewTickerTaskWithOptions(task.Options{
		Interval:       cfg.Reconciler.Interval(),
		Runner:         r.Reconciler,
		SkipInitialRun: !cfg.Reconciler.RunOnStartup,
	})
	// The initial pass can take minutes on a large store table, so the task
	// starts off the main goroutine.
	go reconcilerTask.Start()

	corsRouter := router.SupportCORS(r)
	server.Listen(cfg, router.NoCache{Handler: corsRouter}, router.Admin(version, revision, r.MetricsEngine), r.MetricsEngine)

	cancel()
	reconcilerTask.Stop()
	cacheCleanupTask.Stop()
	r.Shutdown()
	return nil
}
