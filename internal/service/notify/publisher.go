package notify

import (
	"context"
	"encoding/json"

	"github.com/Adhi509/admin-librarian-portal/pkg/kafka"
	"github.com/IBM/sarama"
)

// Publisher fans workflow events out to the notifications topic. The consumer
// side materializes them into per-user inbox rows.
type Publisher interface {
	Publish(ctx context.Context, event kafka.EventNotification) error
}

func NewPublisher(producer sarama.SyncProducer) Publisher {
	return &publisherImpl{producer: producer}
}

type publisherImpl struct {
	producer sarama.SyncProducer
}

func (p *publisherImpl) Publish(_ context.Context, event kafka.EventNotification) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: kafka.NotificationTopic, Value: sarama.StringEncoder(data)}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}
