package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/DrGermanius/Bogocargo/internal"
	"github.com/DrGermanius/Bogocargo/internal/memstore"
	"github.com/DrGermanius/Bogocargo/internal/pricing"
)

func main() {
	//decimals at json as numbers
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger := z.Sugar()
	defer sugaredLogger.Sync()

	var repository IRepository
	if cfg.DatabaseURI == "" {
		sugaredLogger.Warn("DATABASE_URI is empty, using in-memory store")
		repository = memstore.New(memstore.DefaultWholesalers()...)
	} else {
		r, err := NewRepository(cfg.DatabaseURI, sugaredLogger)
		if err != nil {
			sugaredLogger.Fatal(err)
		}
		defer r.Close()
		repository = r
	}

	if cfg.RedisURL != "" {
		cached, err := NewCachedRepository(repository, cfg.RedisURL, DefaultCacheTTL, sugaredLogger)
		if err != nil {
			sugaredLogger.Warnf("wholesaler cache disabled: %s", err.Error())
		} else {
			defer cached.Close()
			repository = cached
		}
	}

	sender, closeSender := newSender(cfg, sugaredLogger)
	defer closeSender()

	var publisher IPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, sugaredLogger)
		if err != nil {
			sugaredLogger.Fatal(err)
		}
		defer p.Close()
		publisher = p
	}

	dispatcher := NewDispatcher(sender, publisher, repository, sugaredLogger, 0)
	dispatcher.Start(4)

	engine := pricing.NewEngine(pricing.DefaultRates, pricing.NewRandomDistance(0))
	service := NewService(repository, engine, dispatcher, ServiceConfig{
		JWTSecret:  cfg.JWTSecret,
		Location:   cfg.Location,
		CutoffHour: cfg.CutoffHour,
	}, sugaredLogger)
	handlers := NewHandlers(service, sugaredLogger)

	app := fiber.New()
	app.Use(logger.New())
	handlers.Routes(app)

	ctx, cancel := context.WithCancel(context.Background())
	go sweepOverdue(ctx, service, cfg.OverdueSweepInterval, sugaredLogger)

	go func() {
		if err := app.Listen(cfg.RunAddress); err != nil {
			sugaredLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("Shutting down service...")

	cancel()
	if err = app.Shutdown(); err != nil {
		sugaredLogger.Errorf("Error on shutdown: %s", err.Error())
	}
	dispatcher.Close()
}

func newSender(cfg *Config, l *zap.SugaredLogger) (ISender, func()) {
	switch cfg.NotifyTransport {
	case TransportAMQP:
		s, err := NewAMQPSender(cfg.AMQPURL, cfg.AMQPQueue, l)
		if err != nil {
			l.Fatal(err)
		}
		return s, func() { _ = s.Close() }
	case TransportSMTP:
		return NewSMTPSender(cfg.SMTPAddress, cfg.SMTPFrom, nil), func() {}
	}
	return NewLogSender(l), func() {}
}

func sweepOverdue(ctx context.Context, service IService, every time.Duration, l *zap.SugaredLogger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := service.MarkOverdueInvoices(ctx, now); err != nil {
				l.Errorf("Error on overdue sweep: %s", err.Error())
			}
		}
	}
}
