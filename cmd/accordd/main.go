package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"accord/internal/app"
	"accord/internal/server"
	"accord/internal/store"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	addr := flag.String("addr", "", "listen address (overrides serverAddr)")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		app.NewLogger(app.DefaultConfig(), "accordd", os.Stderr).Error(err, "load config")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}
	log := app.NewLogger(cfg, "accordd", os.Stderr)

	if cfg.Store == app.StoreRemote {
		log.Warn("accordd cannot use the remote store; falling back to file")
		cfg.Store = store.KindFile
	}
	if cfg.AdminToken == "" {
		log.Warn("no admin token configured; admin routes are disabled")
	}

	w, err := app.NewWire(cfg, log)
	if err != nil {
		log.Error(err, "wire dependencies")
		os.Exit(1)
	}
	defer w.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(server.Deps{
		Profiles:   w.Profiles,
		Messages:   w.Messages,
		Migration:  w.Migration,
		AdminToken: cfg.AdminToken,
		Log:        log,
		Metrics:    w.Metrics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx, cfg.ServerAddr); err != nil {
		log.Error(err, "server stopped")
		w.Close()
		os.Exit(1)
	}
}
