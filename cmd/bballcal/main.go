package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"bballcal/internal/config"
	appLog "bballcal/internal/log"
	"bballcal/internal/publish"
	"bballcal/internal/scrape"
	"bballcal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	outputDir  string
	baseURL    string
	listen     string
	cacheDir   string
	once       bool
	noBrowser  bool
	debug      bool
}

func main() {
	appLog.Info("bballcal starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override the config file where provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.outputDir != "" {
		conf.OutputDir = flags.outputDir
	}
	baseURL := flags.baseURL
	if baseURL == "" {
		baseURL = conf.BaseURL
	}

	appLog.Info("effective config",
		"town", conf.Town,
		"listen", conf.Listen,
		"output_dir", conf.OutputDir,
		"refresh", conf.RefreshCron,
		"leagues", len(conf.Leagues),
		"teams", len(conf.Teams),
		"once", flags.once,
	)

	client := scrape.NewClient(flags.cacheDir)
	if flags.noBrowser {
		client.DisableRenderFallback()
	}
	pipe := newPipeline(conf, client, baseURL)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		if _, err := pipe.Run(ctx); err != nil {
			appLog.Error("run failed", err)
			os.Exit(1)
		}
		appLog.Info("bballcal exiting")
		return
	}

	runServe(ctx, conf, pipe)
	appLog.Info("bballcal exiting")
}

// runServe runs the pipeline once at startup, then keeps it on the cron
// schedule while serving the output directory over HTTP.
func runServe(ctx context.Context, conf *config.Config, pipe *pipeline) {
	server := web.NewServer(conf, func(ctx context.Context) (publish.Status, error) {
		return pipe.Run(ctx)
	})

	if status, err := pipe.Run(ctx); err != nil {
		appLog.Error("initial run failed; serving stale or empty output", err)
	} else {
		server.SetStatus(status)
	}

	c := cron.New()
	_, err := c.AddFunc(conf.RefreshCron, func() {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()

		status, err := pipe.Run(runCtx)
		if err != nil {
			appLog.Error("scheduled run failed", err)
			return
		}
		server.SetStatus(status)
	})
	if err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	if err := server.ListenAndServe(ctx); err != nil {
		appLog.Error("HTTP server stopped", err)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "teams.yaml", "Path to config file")
	flag.StringVar(&cfg.outputDir, "output", "", "Output directory (overrides config if set)")
	flag.StringVar(&cfg.baseURL, "base-url", "", "Public base URL for calendar links (overrides config if set)")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.cacheDir, "cache-dir", "", "Directory for the league page cache")
	flag.BoolVar(&cfg.once, "once", false, "Run one scrape+generate cycle and exit")
	flag.BoolVar(&cfg.noBrowser, "no-browser", false, "Disable the headless-browser fallback for town discovery")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
