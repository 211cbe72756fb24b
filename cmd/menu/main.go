package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rl1809/menu-order/internal/adapter/cli"
	"github.com/rl1809/menu-order/internal/adapter/client"
	"github.com/rl1809/menu-order/internal/adapter/phone"
	"github.com/rl1809/menu-order/internal/adapter/storage"
	"github.com/rl1809/menu-order/internal/config"
	"github.com/rl1809/menu-order/internal/core/domain"
	"github.com/rl1809/menu-order/internal/core/service"
	"github.com/rl1809/menu-order/internal/logging"
	"github.com/rl1809/menu-order/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	catalog, err := domain.LoadCatalog(cfg.MenuFile)
	if err != nil {
		logger.Fatal("failed to load menu", zap.String("file", cfg.MenuFile), zap.Error(err))
	}

	// Quantity persistence
	var quantities port.QuantityRepository
	switch cfg.QuantityBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		quantities = storage.NewRedisQuantityRepository(rdb, cfg.MenuSession)
	default:
		logger.Warn("quantities will not survive a restart", zap.String("backend", cfg.QuantityBackend))
		quantities = storage.NewMemoryQuantityRepository()
	}

	// Submission transport
	var submitter port.OrderSubmitter
	switch cfg.SubmitTransport {
	case "grpc":
		conn, err := grpc.NewClient(cfg.SubmitGRPCTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			logger.Fatal("failed to create grpc client", zap.Error(err))
		}
		defer conn.Close()
		submitter = client.NewGRPCSubmitter(conn, logger)
	default:
		submitter = client.NewHTTPSubmitter(cfg.SubmitURL, &http.Client{}, logger)
	}

	store := service.NewQuantityStore(quantities, catalog, logger)
	pricing := service.NewPriceEngine(cfg.DeliveryCharge)
	lifecycle := service.NewOrderLifecycle(
		store, catalog, pricing, phone.NewUKFormatter(), submitter, logger,
		service.WithSubmitTimeout(cfg.SubmitTimeout),
		service.WithClearOnConfirm(cfg.ClearOnConfirm),
	)

	session := cli.NewSession(catalog, store, pricing, lifecycle, os.Stdout, logger)
	if err := session.Run(ctx, os.Stdin); err != nil {
		logger.Fatal("menu session failed", zap.Error(err))
	}
}
