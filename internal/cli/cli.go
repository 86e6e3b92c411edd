// Package cli wires the service processes behind a cobra command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"laundry-system/internal/auth"
	authrepo "laundry-system/internal/auth/repository"
	"laundry-system/internal/common/httpx"
	"laundry-system/internal/common/logger"
	"laundry-system/internal/config"
	"laundry-system/internal/connections/database"
	"laundry-system/internal/connections/rabbitmq"
	"laundry-system/internal/metrics"
	"laundry-system/internal/notification"
	"laundry-system/internal/orders/handlers"
	ordersrepo "laundry-system/internal/orders/repository"
	ordersservice "laundry-system/internal/orders/service"
	rosterrepo "laundry-system/internal/roster/repository"
	rosterservice "laundry-system/internal/roster/service"
)

var configFile string

func BuildCLI() *cobra.Command {
	root := &cobra.Command{
		Use:     "laundry-system",
		Short:   "Laundry order tracking service",
		Version: "1.0.0",
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	root.AddCommand(buildServeCommand())
	root.AddCommand(buildNotifierCommand())
	return root
}

func Execute() {
	if err := BuildCLI().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func buildNotifierCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "notifier",
		Short: "Run the WhatsApp notification consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifier()
		},
	}
}

func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		var err error
		path, err = config.Find()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func mqConfig(cfg *config.Config) rabbitmq.Config {
	return rabbitmq.Config{
		Host:     cfg.RabbitMQ.Host,
		Port:     cfg.RabbitMQ.Port,
		User:     cfg.RabbitMQ.User,
		Password: cfg.RabbitMQ.Password,
		VHost:    cfg.RabbitMQ.VHost,
	}
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("orders-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	mq, err := rabbitmq.Dial(mqConfig(cfg))
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer mq.Close()
	if err := mq.DeclareTopology(); err != nil {
		return fmt.Errorf("declare topology: %w", err)
	}

	collector := metrics.NewCollector()

	rosterSvc := rosterservice.NewRosterService(rosterrepo.NewRosterRepository(db))
	orderSvc := ordersservice.NewOrderService(
		ordersrepo.NewOrderRepository(db),
		rosterSvc,
		notification.NewAMQPPublisher(mq),
		collector,
		log,
	)

	sessions := auth.NewSessionStore(time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute)
	authSvc := auth.NewAuthService(authrepo.NewUserRepository(db), sessions)

	h := handlers.New(orderSvc, rosterSvc, authSvc)
	mux := handlers.Router(h, collector.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	log.Info("server_started", map[string]any{"addr": addr})
	if err := httpx.New(addr, mux).Run(ctx); err != nil {
		return err
	}
	log.Info("server_stopped", nil)
	return nil
}

func runNotifier() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("notifier")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mq, err := rabbitmq.Dial(mqConfig(cfg))
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer mq.Close()
	if err := mq.DeclareTopology(); err != nil {
		return fmt.Errorf("declare topology: %w", err)
	}

	sub := notification.NewSubscriber(mq, &notification.LogLinkOpener{Log: log}, log)
	if err := sub.Run(ctx); err != nil {
		return err
	}
	log.Info("notifier_stopped", nil)
	return nil
}
