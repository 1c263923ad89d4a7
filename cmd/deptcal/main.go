package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"deptcal/internal/config"
	appLog "deptcal/internal/log"
	"deptcal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	appLog.Info("deptcal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides the config file if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"feed_count", len(conf.Feeds),
		"once", flags.once,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	srv := web.NewServer(conf)

	if flags.once {
		// Single fetch+build pass, then exit. Useful for cron-less setups
		// and for verifying feed configs.
		if err := srv.Refresh(ctx); err != nil {
			appLog.Error("refresh failed", err)
			os.Exit(1)
		}
		appLog.Info("deptcal exiting (once mode)")
		return
	}

	// Periodic feed refresh.
	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := srv.Refresh(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	// Warm the snapshot before serving.
	if err := srv.Refresh(ctx); err != nil {
		appLog.Error("initial refresh failed; serving anyway", err)
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		errCh <- http.ListenAndServe(conf.Listen, srv.Handler())
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			appLog.Error("HTTP server stopped", err)
			os.Exit(1)
		}
	}

	appLog.Info("deptcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/deptcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one feed fetch+build pass and exit")

	flag.Parse()

	return cfg
}
