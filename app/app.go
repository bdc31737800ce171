package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adhi509/admin-librarian-portal/config"
	"github.com/Adhi509/admin-librarian-portal/internal/handler"
	"github.com/Adhi509/admin-librarian-portal/internal/repository"
	"github.com/Adhi509/admin-librarian-portal/internal/server"
	"github.com/Adhi509/admin-librarian-portal/internal/service/borrow"
	"github.com/Adhi509/admin-librarian-portal/internal/service/catalog"
	"github.com/Adhi509/admin-librarian-portal/internal/service/notify"
	"github.com/Adhi509/admin-librarian-portal/internal/service/request"
	"github.com/Adhi509/admin-librarian-portal/migrations"
	"github.com/Adhi509/admin-librarian-portal/pkg/kafka"
	"github.com/Adhi509/admin-librarian-portal/pkg/logger"
	"github.com/Adhi509/admin-librarian-portal/pkg/postgres"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "portal")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo init %w", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka.NewProducer %w", err)
	}
	publisher := notify.NewPublisher(producer)

	catalogSvc := catalog.NewService(repo, log)
	borrowSvc := borrow.NewService(repo, publisher, log)
	requestSvc := request.NewService(repo, publisher, log)
	notifySvc := notify.NewService(repo, log)

	consumeCtx, consumeCancel := context.WithCancel(context.Background())
	defer consumeCancel()
	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.NotificationConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumer %w", err)
	}
	go func() {
		if err := kafka.Consume(consumeCtx, consumer, handler.NewConsumer(notifySvc.Dispatch, log), kafka.NotificationTopic); err != nil {
			log.Error("kafka consume", zap.Error(err))
		}
	}()

	h := handler.New(catalogSvc, borrowSvc, requestSvc, notifySvc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	consumeCancel()
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
