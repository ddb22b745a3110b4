package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/furnishop/storefront-go/internal/api"
	"github.com/furnishop/storefront-go/internal/config"
	"github.com/furnishop/storefront-go/internal/session"
	"github.com/furnishop/storefront-go/internal/shell"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; stderr is all we have.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	sess := session.New(session.NewFileStore(cfg.StateFile), logger)

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	client, err := api.NewClient(cfg.APIURL, httpClient, sess)
	if err != nil {
		logger.Fatal("invalid api url", zap.String("url", cfg.APIURL), zap.Error(err))
	}

	users := api.NewUserClient(client)
	carts := api.NewCartClient(client)
	sess.Attach(users, carts)

	sh := shell.New(shell.Deps{
		Session:  sess,
		Auth:     api.NewAuthClient(client),
		Products: api.NewProductClient(client),
		Carts:    carts,
		Orders:   api.NewOrderClient(client),
		Logger:   logger,
	}, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("storefront starting", zap.String("api_url", cfg.APIURL))
	if err := sh.Run(ctx, os.Stdin); err != nil {
		logger.Fatal("shell error", zap.Error(err))
	}
}
