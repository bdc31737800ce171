package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
)

const (
	NotificationTopic         = "notifications"
	NotificationConsumerGroup = "portal-notifications"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

// EventNotification is the payload produced by workflow actions and consumed
// by the notification materializer.
type EventNotification struct {
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	RelatedID  string    `json:"relatedId,omitempty"`
	BookTitle  string    `json:"bookTitle,omitempty"`
	Days       int       `json:"days,omitempty"`
	NewDueDate time.Time `json:"newDueDate,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer group session loop until ctx is canceled.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, topic string) error {
	for {
		if err := consumer.Consume(ctx, []string{topic}, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
