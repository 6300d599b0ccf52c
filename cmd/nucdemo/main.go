// Package main is the entry point for the Nucleus3D demo player.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/config"
	"github.com/Faultbox/nucleus3d/internal/logger"
	"github.com/Faultbox/nucleus3d/internal/player"
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if flags.WriteConfig != "" {
		if err := cfg.SaveTo(flags.WriteConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("wrote", flags.WriteConfig)
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Nucleus3D ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	p, err := player.New(cfg)
	if err != nil {
		fail(cfg, "failed to start demo", err)
	}
	defer p.Close()

	if err := p.Run(); err != nil {
		p.Close()
		fail(cfg, "demo error", err)
	}

	logger.Info("demo closed normally")
}

// fail logs err, shows it in a message box unless running headless, and
// exits with status 1.
func fail(cfg *config.Config, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	logger.Sync()
	if !cfg.Demo.Headless {
		dialog.Message("%s: %v", msg, err).Title(player.Title).Error()
	}
	os.Exit(1)
}
