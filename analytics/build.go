package analytics

import (
	"net/http"

	"github.com/golang/glog"

	"github.com/vipmap/inventory-server/config"
)

// New assembles the enabled analytics modules into a single Module that
// fans every loggable object out to all of them.
func New(cfg *config.Analytics, httpClient *http.Client) Module {
	modules := make(enabledAnalytics, 0)

	if len(cfg.File.Filename) > 0 {
		if mod, err := NewFileLogger(cfg.File.Filename); err == nil {
			modules = append(modules, mod)
		} else {
			glog.Fatalf("Could not initialize FileLogger for file %v :%v", cfg.File.Filename, err)
		}
	}

	if cfg.Discord.Enabled {
		if mod, err := NewDiscordLogger(httpClient, cfg.Discord); err == nil {
			modules = append(modules, mod)
		} else {
			glog.Errorf("Could not initialize DiscordLogger: %v", err)
		}
	}

	return modules
}

// Collection of all the analytics modules a request passes through.
type enabledAnalytics []Module

func (ea enabledAnalytics) LogLoginObject(lo *LoginObject) {
	for _, module := range ea {
		module.LogLoginObject(lo)
	}
}

func (ea enabledAnalytics) LogActivityObject(ao *ActivityObject) {
	for _, module := range ea {
		module.LogActivityObject(ao)
	}
}

func (ea enabledAnalytics) Shutdown() {
	for _, module := range ea {
		module.Shutdown()
	}
}
