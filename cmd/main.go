package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/qr-order/internal/adapter/broadcast"
	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/adapter/memory"
	"github.com/YelzhanWeb/qr-order/internal/adapter/postgres"
	"github.com/YelzhanWeb/qr-order/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/qr-order/internal/app/menu"
	"github.com/YelzhanWeb/qr-order/internal/app/order"
	"github.com/YelzhanWeb/qr-order/internal/config"
	"github.com/YelzhanWeb/qr-order/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/qr-order/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/qr-order/internal/adapter/http"
)

const (
	modePOSServer              = "pos-server"
	modeNotificationSubscriber = "notification-subscriber"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", modePOSServer, "Service mode: pos-server, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides config and PORT)")
	driver := flag.String("driver", "", "Storage driver: postgres, memory (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ApplyFlags(*port, *driver); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lgr := logger.NewWithWriter(*mode, os.Stdout, cfg.Log.Level)

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case modePOSServer:
		err = runPOSServer(ctx, cfg, lgr)
	case modeNotificationSubscriber:
		err = runNotificationSubscriber(ctx, cfg, lgr)
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "runtime", nil, err)
		os.Exit(1)
	}
}

type storage struct {
	orders  interfaces.OrderRepository
	catalog interfaces.CatalogStore
	health  httpAdapter.HealthCheck
	close   func()
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig, lgr logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		store := memory.NewStore()
		memory.Seed(store)
		lgr.Info("storage_ready", "Using in-memory storage with sample catalog", "startup", nil)
		return &storage{orders: store, catalog: store, close: func() {}}, nil
	}

	// Connect to PostgreSQL
	db, err := postgres.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Host,
		"db":   cfg.Database,
	})

	if cfg.Migrate {
		if err := postgres.RunMigrations(ctx, db, lgr); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &storage{
		orders:  postgres.NewOrderRepository(db),
		catalog: postgres.NewCatalogRepository(db),
		health:  db.Ping,
		close:   db.Close,
	}, nil
}

func runPOSServer(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	// Initialize storage
	store, err := openStorage(ctx, cfg.Database, lgr)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.close()

	hub := broadcast.NewHub(cfg.Broadcast.Buffer, lgr)
	defer hub.Close()

	// Optional fan-out to other instances
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer mqConn.Close()

		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host":     cfg.RabbitMQ.Host,
			"exchange": cfg.RabbitMQ.Exchange,
		})

		relay := rabbitmq.NewEventRelay(hub, rabbitmq.NewPublisher(mqConn, cfg.RabbitMQ.Exchange), lgr)
		go relay.Run(ctx)
	}

	// Initialize services
	orderService := order.NewService(store.orders, hub, lgr)
	menuService := menu.NewService(store.catalog, lgr)

	// Setup HTTP server
	handler := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Orders:    httpAdapter.NewOrderHandler(orderService, lgr),
		Menu:      httpAdapter.NewMenuHandler(menuService, lgr),
		Events:    httpAdapter.NewEventsHandler(hub, lgr),
		Health:    store.health,
		StaticDir: cfg.Server.StaticDir,
		Logger:    lgr,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("POS server started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":   cfg.Server.Port,
		"driver": cfg.Database.Driver,
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		lgr.Info("shutdown_initiated", "Shutting down POS server", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// websocket connections are hijacked and not tracked by Shutdown
		hub.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, cfg.RabbitMQ.Exchange, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]interface{}{
		"exchange": cfg.RabbitMQ.Exchange,
	})

	// Blocks until the signal context is cancelled
	err = consumer.ConsumeEvents(ctx, notificationHandler.HandleNotification)

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
