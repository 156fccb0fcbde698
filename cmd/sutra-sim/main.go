package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	sutra "github.com/ehrlich-b/sutra-kernel"
	"github.com/ehrlich-b/sutra-kernel/internal/config"
	"github.com/ehrlich-b/sutra-kernel/internal/logging"
)

func main() {
	var (
		confPath = flag.String("conf", "", "Path to a sutra.conf boot configuration file (defaults to built-in config)")
		verbose  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	var cfg *config.Boot
	if *confPath != "" {
		loaded, err := config.LoadFile(*confPath)
		if err != nil {
			log.Fatalf("failed to load boot config '%s': %v", *confPath, err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	logConfig := logging.DefaultConfig()
	logConfig.Level = logging.ParseLevel(cfg.Kernel.LogLevel)
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	logger.Info("booting kernel", "tick_ms", cfg.Kernel.TickIntervalMS, "history_size", cfg.Kernel.HistorySize)

	kernel := sutra.Boot(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	kernel.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	kernel.Stop()
	time.Sleep(50 * time.Millisecond)
}
